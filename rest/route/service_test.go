package route

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, sc, candies data.Connector) http.Handler {
	app := gimlet.NewApp()
	AttachHandlers(app, sc, ServiceOptions{Name: "store", Version: "test", Candies: candies})
	h, err := app.Handler()
	require.NoError(t, err)
	return h
}

func TestServiceInfo(t *testing.T) {
	h := newTestHandler(t, newItemsConnector(), nil)

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rw.Code)

	info := serviceInfo{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &info))
	assert.Equal(t, "store", info.Name)
	assert.Equal(t, "test", info.Version)
	assert.Contains(t, info.Routes, RouteInfo{Method: http.MethodGet, Path: "/"})
	assert.Contains(t, info.Routes, RouteInfo{Method: http.MethodGet, Path: "/items/id/{id}"})
	assert.Contains(t, info.Routes, RouteInfo{Method: http.MethodPut, Path: "/locations/{username}"})
	assert.NotContains(t, info.Routes, RouteInfo{Method: http.MethodGet, Path: "/candies"})
}

func TestServiceRoutesCandies(t *testing.T) {
	candies := &data.MockConnector{Items: []item.Item{
		{ID: db.KeyID("7"), Name: "Jawbreaker", Price: 1, Category: "Hard Candy"},
	}}
	h := newTestHandler(t, newItemsConnector(), candies)

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/candies/id/7", nil))
	require.Equal(t, http.StatusOK, rw.Code)

	out := map[string]map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &out))
	assert.Equal(t, "Jawbreaker", out["candy"]["name"])

	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/items/id/7", nil))
	assert.Equal(t, http.StatusNotFound, rw.Code)
}

func TestServiceItemImage(t *testing.T) {
	sc := newItemsConnector()
	sc.Items[0].ImageURL = "http://images.example.com/sour.jpg"
	sc.Images = map[string][]byte{"http://images.example.com/sour.jpg": []byte("jpeg bytes")}
	sc.Items[1].ImageURL = "http://images.example.com/gone.jpg"
	h := newTestHandler(t, sc, nil)

	for _, path := range []string{"/items/id/" + sourID.String() + "/image", "/image/" + sourID.String()} {
		t.Run(path, func(t *testing.T) {
			rw := httptest.NewRecorder()
			h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, rw.Code)
			assert.Equal(t, "image/jpg", rw.Header().Get("Content-Type"))
			assert.Equal(t, "attachment;filename="+sourID.String()+".jpg", rw.Header().Get("Content-Disposition"))
			assert.Equal(t, "10", rw.Header().Get("Content-Length"))
			assert.Equal(t, "jpeg bytes", rw.Body.String())
		})
	}

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/image/"+mintID.String(), nil))
	assert.Equal(t, http.StatusBadGateway, rw.Code)

	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/image/42", nil))
	assert.Equal(t, http.StatusNotFound, rw.Code)

	errResp := gimlet.ErrorResponse{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
}

func TestServiceDeleteAlias(t *testing.T) {
	sc := newItemsConnector()
	h := newTestHandler(t, sc, nil)

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodDelete, "/items/42", nil))
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Len(t, sc.Items, 2)
}
