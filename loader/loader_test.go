package loader

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/user"
	"github.com/awesome-store/store/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
)

type LoaderSuite struct {
	ctx      context.Context
	cancel   context.CancelFunc
	database *db.Database
	opts     Options

	suite.Suite
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.database = testutil.NewTestDatabase(s.ctx, s.T())

	dir := s.T().TempDir()
	writeFile(s.T(), dir, "sour-candy.json", `{
		"1": {"name": "Sour Patch", "price": "2.50", "desc": "sour then sweet"},
		"2": {"name": "Warheads", "price": 1}
	}`)
	writeFile(s.T(), dir, "mints.json", `{
		"7": {"name": "Plain Mint", "price": 0.25},
		"8": {"name": "", "price": 1}
	}`)
	s.opts = Options{
		DataDir: dir,
		UsersFile: writeFile(s.T(), dir, "users.json", `[
			{"first_name": "Ada", "last_name": "Lovelace", "username": "ada", "email": "ada@example.com", "password": "engine"}
		]`),
		ValidatorsFile: writeFile(s.T(), dir, "validators.json", `{
			"items": {"$jsonSchema": {"bsonType": "object", "required": ["name", "price"], "properties": {"price": {"bsonType": "double", "minimum": 0}}}}
		}`),
		Reset: true,
	}
}

func (s *LoaderSuite) TearDownTest() {
	s.cancel()
}

func (s *LoaderSuite) TestLoadSeedsCollections() {
	summary, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)
	s.Equal(2, summary.Files)
	s.Equal(2, summary.CategoriesCreated)
	s.Equal(3, summary.ItemsInserted)
	s.Equal(1, summary.ItemsSkipped)
	s.Equal(1, summary.UsersInserted)

	categories, err := category.Find(s.ctx, s.database.Collection(store.CategoryCollection), db.Query(bson.M{}))
	s.Require().NoError(err)
	s.Len(categories, 2)

	sour, err := category.FindByName(s.ctx, s.database.Collection(store.CategoryCollection), "Sour Candy")
	s.Require().NoError(err)
	s.Require().NotNil(sour)

	items := s.database.Collection(store.ItemCollection)
	patch, err := item.FindByName(s.ctx, items, "Sour Patch")
	s.Require().NoError(err)
	s.Require().NotNil(patch)
	s.Equal(2.5, patch.Price)
	s.Equal("Sour Candy", patch.Category)
	s.Equal(sour.ID, patch.CategoryID)
	s.True(patch.ID.IsObjectID())

	u, err := user.FindByUsername(s.ctx, s.database.Collection(store.UserCollection), "ada")
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.NotEqual("engine", u.Password)
	s.True(u.CheckPassword("engine"))
}

func (s *LoaderSuite) TestLoadTwiceSkipsExisting() {
	_, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)

	s.opts.Reset = false
	summary, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)
	s.Zero(summary.CategoriesCreated)
	s.Zero(summary.ItemsInserted)
	s.Equal(4, summary.ItemsSkipped)
	s.Zero(summary.UsersInserted)
	s.Equal(1, summary.UsersSkipped)

	count, err := s.database.Collection(store.ItemCollection).Count(s.ctx, bson.M{})
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *LoaderSuite) TestResetAppliesValidators() {
	_, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)

	_, err = s.database.Collection(store.ItemCollection).InsertOne(s.ctx, bson.M{"name": "Negative", "price": -1.0})
	s.Error(err)
	s.True(db.IsDocumentValidation(err))
}

func (s *LoaderSuite) TestLoadIntoCandyCollection() {
	s.opts.ItemCollection = store.CandyCollection
	summary, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)
	s.Equal(3, summary.ItemsInserted)

	count, err := s.database.Collection(store.ItemCollection).Count(s.ctx, bson.M{})
	s.Require().NoError(err)
	s.Zero(count)

	count, err = s.database.Collection(store.CandyCollection).Count(s.ctx, bson.M{})
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *LoaderSuite) TestLoadKeepsHashedFixturePasswords() {
	hash, err := user.HashPassword("engine")
	s.Require().NoError(err)
	raw, err := json.Marshal([]map[string]string{
		{"username": "babbage", "email": "cb@example.com", "password": hash},
	})
	s.Require().NoError(err)
	s.opts.UsersFile = writeFile(s.T(), s.T().TempDir(), "hashed.json", string(raw))

	summary, err := Load(s.ctx, s.database, s.opts)
	s.Require().NoError(err)
	s.Equal(1, summary.UsersInserted)

	u, err := user.FindByUsername(s.ctx, s.database.Collection(store.UserCollection), "babbage")
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Equal(hash, u.Password)
	s.True(u.CheckPassword("engine"))
}

func TestLoadRejectsBadOptions(t *testing.T) {
	_, err := Load(context.Background(), nil, Options{})
	assert.Error(t, err)

	opts := Options{DataDir: "data", ItemCollection: store.UserCollection}
	require.Error(t, opts.Validate())

	opts = Options{DataDir: "data"}
	require.NoError(t, opts.Validate())
	assert.Equal(t, store.ItemCollection, opts.ItemCollection)
}
