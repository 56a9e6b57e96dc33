package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/testutil"
	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DBConnectorSuite struct {
	ctx    context.Context
	cancel context.CancelFunc
	db     *db.Database
	sc     *DBConnector
	server *httptest.Server

	suite.Suite
}

func TestDBConnectorSuite(t *testing.T) {
	suite.Run(t, new(DBConnectorSuite))
}

func (s *DBConnectorSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.db = testutil.NewTestDatabase(s.ctx, s.T())

	mux := http.NewServeMux()
	mux.HandleFunc("/sour.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg bytes"))
	})
	mux.HandleFunc("/huge.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	})
	s.server = httptest.NewServer(mux)
}

func (s *DBConnectorSuite) TearDownSuite() {
	s.server.Close()
	s.cancel()
}

func (s *DBConnectorSuite) SetupTest() {
	s.Require().NoError(s.db.DropCollections(s.ctx, store.ItemCollection, store.CandyCollection, category.Collection))
	s.sc = NewDBConnector(s.db, store.ItemCollection, store.ImageConfig{MaxRetries: 1, TimeoutSecs: 5, MaxSizeBytes: 32})
}

func (s *DBConnectorSuite) TestCreateItemCreatesCategory() {
	i := &item.Item{Name: "Sour Patch", Price: 3, Category: "Sour Candy"}
	res, err := s.sc.CreateItem(s.ctx, i)
	s.Require().NoError(err)
	s.True(res.Acknowledged)
	s.Require().Len(res.InsertedIDs, 2)

	found, err := s.sc.FindItemByID(s.ctx, db.ParseID(res.InsertedIDs[0]))
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(res.InsertedIDs[1], found.CategoryID.String())

	cat, err := s.sc.FindCategoryByID(s.ctx, found.CategoryID)
	s.Require().NoError(err)
	s.Require().NotNil(cat)
	s.Equal("Sour Candy", cat.Name)

	names, err := s.sc.FindItemCategoryNames(s.ctx)
	s.NoError(err)
	s.Equal([]string{"Sour Candy"}, names)
}

func (s *DBConnectorSuite) TestItemCollectionsAreSeparate() {
	candies := NewDBConnector(s.db, store.CandyCollection, s.sc.Image)
	_, err := candies.CreateItem(s.ctx, &item.Item{Name: "Gummy Bear", Price: 1, Category: "Gummies"})
	s.Require().NoError(err)

	items, err := s.sc.FindItems(s.ctx, item.SearchOptions{})
	s.NoError(err)
	s.Empty(items)

	items, err = candies.FindItems(s.ctx, item.SearchOptions{Name: "gummy"})
	s.NoError(err)
	s.Len(items, 1)

	categories, err := s.sc.FindCategories(s.ctx)
	s.NoError(err)
	s.Len(categories, 1)
}

func (s *DBConnectorSuite) TestGetItemImage() {
	i := &item.Item{Name: "Sour Patch", Price: 3, Category: "Sour", ImageURL: s.server.URL + "/sour.jpg"}
	_, err := s.sc.CreateItem(s.ctx, i)
	s.Require().NoError(err)

	out, err := s.sc.GetItemImage(s.ctx, i.ID)
	s.Require().NoError(err)
	s.Equal("jpeg bytes", string(out))

	_, err = s.sc.GetItemImage(s.ctx, db.NewID())
	s.Require().Error(err)
	s.Equal(http.StatusNotFound, errors.Cause(err).(gimlet.ErrorResponse).StatusCode)
}

func (s *DBConnectorSuite) TestGetItemImageRemoteFailures() {
	missing := &item.Item{Name: "Missing", Price: 1, Category: "Sour", ImageURL: s.server.URL + "/missing.jpg"}
	_, err := s.sc.CreateItem(s.ctx, missing)
	s.Require().NoError(err)

	_, err = s.sc.GetItemImage(s.ctx, missing.ID)
	s.Require().Error(err)
	s.Equal(http.StatusBadGateway, errors.Cause(err).(gimlet.ErrorResponse).StatusCode)

	huge := &item.Item{Name: "Huge", Price: 1, Category: "Sour", ImageURL: s.server.URL + "/huge.jpg"}
	_, err = s.sc.CreateItem(s.ctx, huge)
	s.Require().NoError(err)

	_, err = s.sc.GetItemImage(s.ctx, huge.ID)
	s.Require().Error(err)
	s.Equal(http.StatusBadGateway, errors.Cause(err).(gimlet.ErrorResponse).StatusCode)

	noImage := &item.Item{Name: "Plain", Price: 1, Category: "Sour"}
	_, err = s.sc.CreateItem(s.ctx, noImage)
	s.Require().NoError(err)

	_, err = s.sc.GetItemImage(s.ctx, noImage.ID)
	s.Require().Error(err)
	s.Equal(http.StatusNotFound, errors.Cause(err).(gimlet.ErrorResponse).StatusCode)
}
