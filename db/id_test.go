package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	id, err := ParseObjectID(oid.Hex())
	require.NoError(t, err)
	assert.True(t, id.IsObjectID())
	assert.Equal(t, oid, id.Value())
	assert.Equal(t, oid.Hex(), id.String())

	for _, bad := range []string{"", "abc", "1", oid.Hex() + "0", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err = ParseObjectID(bad)
		assert.Error(t, err, bad)
		assert.True(t, IsInvalidID(err), bad)
	}
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	id := ParseID(oid.Hex())
	assert.True(t, id.IsObjectID())
	assert.Equal(t, bson.M{"_id": oid}, id.Filter())

	id = ParseID("1")
	assert.False(t, id.IsObjectID())
	assert.Equal(t, "1", id.Value())
	assert.Equal(t, bson.M{"_id": "1"}, id.Filter())

	assert.True(t, ParseID("").IsZero())
	assert.False(t, NewID().IsZero())
	assert.False(t, KeyID("gummy-bears").IsObjectID())
}

func TestFormatID(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, oid.Hex(), FormatID(oid))
	assert.Equal(t, oid.Hex(), FormatID(&oid))
	assert.Equal(t, oid.Hex(), FormatID(ObjectIDFrom(oid)))
	assert.Equal(t, "key", FormatID("key"))
	assert.Equal(t, "42", FormatID(42))
	assert.Equal(t, "", FormatID(nil))

	var nilOID *primitive.ObjectID
	assert.Equal(t, "", FormatID(nilOID))
}

func TestIDBSONValue(t *testing.T) {
	type doc struct {
		ID    ID `bson:"_id,omitempty"`
		Other ID `bson:"other,omitempty"`
	}

	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(doc{ID: ObjectIDFrom(oid), Other: KeyID("seven")})
	require.NoError(t, err)

	var generic bson.M
	require.NoError(t, bson.Unmarshal(raw, &generic))
	assert.Equal(t, oid, generic["_id"])
	assert.Equal(t, "seven", generic["other"])

	var out doc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, ObjectIDFrom(oid), out.ID)
	assert.Equal(t, KeyID("seven"), out.Other)

	raw, err = bson.Marshal(doc{})
	require.NoError(t, err)
	generic = bson.M{}
	require.NoError(t, bson.Unmarshal(raw, &generic))
	assert.Empty(t, generic)

	raw, err = bson.Marshal(bson.M{"_id": int32(12)})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, "12", out.ID.String())
}
