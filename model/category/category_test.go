package category

import (
	"context"
	"testing"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLabelFromFileName(t *testing.T) {
	for in, out := range map[string]string{
		"gummy-candy.json":         "Gummy Candy",
		"data/hard_candy.json":     "Hard Candy",
		"chocolate.json":           "Chocolate",
		"SOUR-candy":               "Sour Candy",
		"dir/nested/licorice.json": "Licorice",
		"éclairs.json":             "Éclairs",
		"crème-brûlée.json":        "Crème Brûlée",
	} {
		assert.Equal(t, out, LabelFromFileName(in), in)
	}
}

func TestCategoryDB(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coll := testutil.NewTestDatabase(ctx, t).Collection(Collection)
	require.NoError(t, EnsureIndexes(ctx, coll))

	t.Run("InsertAssignsID", func(t *testing.T) {
		c := &Category{Name: "Gummy Candy"}
		res, err := Insert(ctx, coll, c)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.True(t, c.ID.IsObjectID())
		assert.Equal(t, []string{c.ID.String()}, res.InsertedIDs)

		found, err := FindOneID(ctx, coll, c.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Gummy Candy", found.Name)
	})
	t.Run("ExistingNameIsNoop", func(t *testing.T) {
		res, err := Insert(ctx, coll, &Category{Name: "Gummy Candy"})
		require.NoError(t, err)
		assert.False(t, res.Acknowledged)
	})
	t.Run("ExistingIDIsNoop", func(t *testing.T) {
		res, err := Insert(ctx, coll, &Category{ID: db.KeyID("7"), Name: "Chocolate"})
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)

		res, err = Insert(ctx, coll, &Category{ID: db.KeyID("7"), Name: "Licorice"})
		require.NoError(t, err)
		assert.False(t, res.Acknowledged)
	})
	t.Run("EmptyName", func(t *testing.T) {
		_, err := Insert(ctx, coll, &Category{})
		assert.Error(t, err)
	})
	t.Run("Lookups", func(t *testing.T) {
		all, err := Find(ctx, coll, db.Query(nil).Sort([]string{NameKey}))
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Chocolate", all[0].Name)
		assert.Equal(t, db.KeyID("7"), all[0].ID)

		c, err := FindByName(ctx, coll, "Licorice")
		require.NoError(t, err)
		assert.Nil(t, c)

		c, err = FindOne(ctx, coll, db.Query(bson.M{IDKey: "7"}))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Chocolate", c.Name)
	})
}
