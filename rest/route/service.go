package route

import (
	"net/http"

	"github.com/awesome-store/store/rest/data"
	"github.com/evergreen-ci/gimlet"
)

// resourceKeys name the JSON keys under which item routes return their
// results, so the candy catalog can share the item handlers.
type resourceKeys struct {
	plural   string
	singular string
}

var (
	itemKeys  = resourceKeys{plural: "items", singular: "item"}
	candyKeys = resourceKeys{plural: "candies", singular: "candy"}
)

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// ServiceOptions configure the routes attached by AttachHandlers.
type ServiceOptions struct {
	Name     string
	Version  string
	Revision string
	// Candies, when set, serves the candy catalog under /candies.
	Candies data.Connector
}

type routeTable struct {
	app    *gimlet.APIApp
	routes []RouteInfo
}

func (t *routeTable) add(method, path string, h gimlet.RouteHandler) {
	route := t.app.AddRoute(path).RouteHandler(h)
	switch method {
	case http.MethodGet:
		route.Get()
	case http.MethodPost:
		route.Post()
	case http.MethodPut:
		route.Put()
	case http.MethodDelete:
		route.Delete()
	}
	t.routes = append(t.routes, RouteInfo{Method: method, Path: path})
}

func (t *routeTable) addHandler(path string, h http.HandlerFunc) {
	t.app.AddRoute(path).Get().Handler(h)
	t.routes = append(t.routes, RouteInfo{Method: http.MethodGet, Path: path})
}

// AttachHandlers attaches the store's request handlers to the given
// application, backed by sc.
func AttachHandlers(app *gimlet.APIApp, sc data.Connector, opts ServiceOptions) {
	t := &routeTable{app: app}

	attachItemHandlers(t, "/items", sc, itemKeys)
	t.addHandler("/image/{id}", makeGetItemImage(sc))
	if opts.Candies != nil {
		attachItemHandlers(t, "/candies", opts.Candies, candyKeys)
	}

	t.add(http.MethodGet, "/categories", makeGetCategories(sc))
	t.add(http.MethodGet, "/categories/names", makeGetCategoryNames(sc))
	t.add(http.MethodGet, "/categories/id/{id}", makeGetCategoryByID(sc))
	t.add(http.MethodPost, "/categories", makePostCategory(sc))

	t.add(http.MethodPost, "/register", makeRegisterUser(sc))
	t.add(http.MethodPost, "/login", makeLoginUser(sc))
	t.add(http.MethodGet, "/users/{username}", makeGetUser(sc))
	t.add(http.MethodPut, "/users/{username}", makePutUser(sc))

	t.add(http.MethodGet, "/locations", makeGetLocations(sc))
	t.add(http.MethodGet, "/locations/{username}", makeGetLocation(sc))
	t.add(http.MethodPut, "/locations/{username}", makePutLocation(sc))

	info := serviceInfo{
		Name:     opts.Name,
		Version:  opts.Version,
		Revision: opts.Revision,
		Routes:   append([]RouteInfo{{Method: http.MethodGet, Path: "/"}}, t.routes...),
	}
	t.add(http.MethodGet, "/", makeGetServiceInfo(info))
}

func attachItemHandlers(t *routeTable, prefix string, sc data.Connector, keys resourceKeys) {
	t.add(http.MethodGet, prefix, makeGetItems(sc, keys))
	t.add(http.MethodGet, prefix+"/category/{category}", makeGetItemsByCategory(sc, keys))
	t.add(http.MethodGet, prefix+"/id/{id}", makeGetItemByID(sc, keys))
	t.addHandler(prefix+"/id/{id}/image", makeGetItemImage(sc))
	t.add(http.MethodPost, prefix, makePostItem(sc))
	t.add(http.MethodPut, prefix+"/id/{id}", makePutItem(sc))
	t.add(http.MethodDelete, prefix+"/id/{id}", makeDeleteItem(sc))
	t.add(http.MethodDelete, prefix+"/{id}", makeDeleteItem(sc))
}
