package item

import (
	"testing"

	"github.com/awesome-store/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func float(f float64) *float64 { return &f }

func TestSearchQuery(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		opts := SearchOptions{}
		assert.Equal(t, bson.M{}, opts.Query().Filter())
	})
	t.Run("TextFieldsAreQuoted", func(t *testing.T) {
		opts := SearchOptions{Name: "sour (worms)", Description: "a.b"}
		filter := opts.Query().Filter().(bson.M)
		assert.Equal(t, bson.M{"$regex": `sour \(worms\)`, "$options": "i"}, filter[NameKey])
		assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, filter[DescriptionKey])
	})
	t.Run("PriceRange", func(t *testing.T) {
		opts := SearchOptions{MinPrice: 1, MaxPrice: float(5)}
		filter := opts.Query().Filter().(bson.M)
		assert.Equal(t, bson.M{"$gte": 1.0, "$lte": 5.0}, filter[PriceKey])

		opts = SearchOptions{MinPrice: 2}
		filter = opts.Query().Filter().(bson.M)
		assert.Equal(t, bson.M{"$gte": 2.0}, filter[PriceKey])
	})
	t.Run("ExactFields", func(t *testing.T) {
		oid := primitive.NewObjectID()
		opts := SearchOptions{ID: oid.Hex(), Category: "Gummy Candy", CategoryID: "3", Tags: []string{"sour"}}
		filter := opts.Query().Filter().(bson.M)
		assert.Equal(t, oid, filter[IDKey])
		assert.Equal(t, "Gummy Candy", filter[CategoryKey])
		assert.Equal(t, "3", filter[CategoryIDKey])
		assert.Equal(t, "sour", filter[TagsKey])

		opts.Tags = []string{"sour", "vegan"}
		filter = opts.Query().Filter().(bson.M)
		assert.Equal(t, bson.M{"$all": []string{"sour", "vegan"}}, filter[TagsKey])
	})
}

func TestSearchOptionsEmptyRange(t *testing.T) {
	opts := SearchOptions{MinPrice: 10, MaxPrice: float(5)}
	assert.True(t, opts.Empty())

	opts.MaxPrice = float(10)
	assert.False(t, opts.Empty())

	opts.MaxPrice = nil
	assert.False(t, opts.Empty())
}

func TestSearchOptionsValidate(t *testing.T) {
	assert.NoError(t, (&SearchOptions{}).Validate())
	assert.Error(t, (&SearchOptions{MinPrice: -1}).Validate())
	assert.Error(t, (&SearchOptions{MaxPrice: float(-1)}).Validate())
	assert.Error(t, (&SearchOptions{Skip: -1}).Validate())
	assert.Error(t, (&SearchOptions{Limit: -3}).Validate())
}

func TestItemValidate(t *testing.T) {
	i := Item{Name: "Sour Worms", Price: 2.5}
	require.NoError(t, i.Validate())

	i.Price = -1
	assert.Error(t, i.Validate())

	i = Item{Price: 1}
	assert.Error(t, i.Validate())
}

func TestItemBSONKeys(t *testing.T) {
	raw, err := bson.Marshal(Item{Name: "Sour Worms", ProductURL: "p", ImageURL: "i", Description: "d", Category: "c", CategoryID: db.KeyID("7")})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "tags")
	assert.Equal(t, "p", doc["prod_url"])
	assert.Equal(t, "i", doc["img_url"])
	assert.Equal(t, "d", doc["desc"])
	assert.Equal(t, "7", doc["category_id"])
}
