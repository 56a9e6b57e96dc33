package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize(t *testing.T) {
	id := primitive.NewObjectID()
	catID := primitive.NewObjectID()
	tagID := primitive.NewObjectID()

	doc := NormalizeDocument(bson.M{
		"_id":   id,
		"name":  "Sour Worms",
		"price": 3.5,
		"category": bson.M{
			"_id":  catID,
			"name": "Gummy Candy",
		},
		"refs": bson.A{tagID, "plain", bson.D{{Key: "nested", Value: id}}},
	})

	assert.Equal(t, id.Hex(), doc["_id"])
	assert.Equal(t, id.Hex(), doc.ID())
	assert.Equal(t, "Sour Worms", doc["name"])
	assert.Equal(t, 3.5, doc["price"])
	assert.Equal(t, Document{"_id": catID.Hex(), "name": "Gummy Candy"}, doc["category"])
	assert.Equal(t, []any{tagID.Hex(), "plain", Document{"nested": id.Hex()}}, doc["refs"])
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, NormalizeDocument(nil))
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, 7, Normalize(7))
}

func TestUpdateDocument(t *testing.T) {
	assert.Equal(t, bson.M{"$set": bson.M{"name": "x"}}, updateDocument(bson.M{"name": "x"}))
	assert.Equal(t, bson.M{"$inc": bson.M{"n": 1}}, updateDocument(bson.M{"$inc": bson.M{"n": 1}}))
	assert.Equal(t, bson.D{{Key: "$set", Value: bson.M{"a": 1}}}, updateDocument(bson.D{{Key: "$set", Value: bson.M{"a": 1}}}))

	type named struct {
		Name string `bson:"name"`
	}
	assert.Equal(t, bson.M{"$set": named{Name: "y"}}, updateDocument(named{Name: "y"}))
}
