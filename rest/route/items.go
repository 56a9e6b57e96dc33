package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/model"
	"github.com/awesome-store/store/util"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

////////////////////////////////////////////////
//
// GET /items

type itemsGetHandler struct {
	sc   data.Connector
	keys resourceKeys
	opts item.SearchOptions
}

func makeGetItems(sc data.Connector, keys resourceKeys) gimlet.RouteHandler {
	return &itemsGetHandler{sc: sc, keys: keys}
}

func (h *itemsGetHandler) Factory() gimlet.RouteHandler {
	return &itemsGetHandler{sc: h.sc, keys: h.keys}
}

// Parse builds the search from the query string. Malformed numbers are
// unprocessable.
func (h *itemsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	vals := r.URL.Query()

	minPrice, err := parseFloatParam(vals, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := parseFloatParam(vals, "max_price")
	if err != nil {
		return err
	}
	skip, limit, err := parsePage(vals)
	if err != nil {
		return err
	}

	h.opts = item.SearchOptions{
		ID:          vals.Get("id"),
		Name:        vals.Get("name"),
		Description: vals.Get("desc"),
		MinPrice:    utility.FromFloat64Ptr(minPrice),
		MaxPrice:    maxPrice,
		Category:    vals.Get("category"),
		CategoryID:  vals.Get("category_id"),
		Tags:        parseListParam(vals, "tags"),
		Skip:        skip,
		Limit:       limit,
	}

	if err = h.opts.Validate(); err != nil {
		return unprocessable(errors.Wrap(err, "invalid search"))
	}
	return nil
}

func (h *itemsGetHandler) Run(ctx context.Context) gimlet.Responder {
	items, err := h.sc.FindItems(ctx, h.opts)
	if err != nil {
		return readErrorResponder(err, "finding items")
	}

	return gimlet.NewJSONResponse(map[string]interface{}{
		h.keys.plural: model.NewAPIItems(items),
	})
}

////////////////////////////////////////////////
//
// GET /items/category/{category}

type itemsByCategoryHandler struct {
	sc       data.Connector
	keys     resourceKeys
	category string
	skip     int
	limit    int
}

func makeGetItemsByCategory(sc data.Connector, keys resourceKeys) gimlet.RouteHandler {
	return &itemsByCategoryHandler{sc: sc, keys: keys}
}

func (h *itemsByCategoryHandler) Factory() gimlet.RouteHandler {
	return &itemsByCategoryHandler{sc: h.sc, keys: h.keys}
}

func (h *itemsByCategoryHandler) Parse(ctx context.Context, r *http.Request) error {
	h.category = gimlet.GetVars(r)["category"]
	if h.category == "" {
		return notFound("missing category")
	}

	var err error
	h.skip, h.limit, err = parsePage(r.URL.Query())
	return err
}

func (h *itemsByCategoryHandler) Run(ctx context.Context) gimlet.Responder {
	items, err := h.sc.FindItemsByCategory(ctx, h.category, h.skip, h.limit)
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("finding items in category '%s'", h.category))
	}

	return gimlet.NewJSONResponse(map[string]interface{}{
		h.keys.plural: model.NewAPIItems(items),
	})
}

////////////////////////////////////////////////
//
// GET /items/id/{id}

type itemGetHandler struct {
	sc   data.Connector
	keys resourceKeys
	id   db.ID
}

func makeGetItemByID(sc data.Connector, keys resourceKeys) gimlet.RouteHandler {
	return &itemGetHandler{sc: sc, keys: keys}
}

func (h *itemGetHandler) Factory() gimlet.RouteHandler {
	return &itemGetHandler{sc: h.sc, keys: h.keys}
}

func (h *itemGetHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.id, err = parseID(r)
	return err
}

func (h *itemGetHandler) Run(ctx context.Context) gimlet.Responder {
	i, err := h.sc.FindItemByID(ctx, h.id)
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("finding %s '%s'", h.keys.singular, h.id.String()))
	}
	if i == nil {
		return gimlet.MakeJSONErrorResponder(notFound("%s '%s' not found", h.keys.singular, h.id.String()))
	}

	apiItem := model.APIItem{}
	apiItem.BuildFromService(*i)
	return gimlet.NewJSONResponse(map[string]interface{}{
		h.keys.singular: apiItem,
	})
}

////////////////////////////////////////////////
//
// POST /items

type itemPostHandler struct {
	sc   data.Connector
	item *item.Item
}

func makePostItem(sc data.Connector) gimlet.RouteHandler {
	return &itemPostHandler{sc: sc}
}

func (h *itemPostHandler) Factory() gimlet.RouteHandler {
	return &itemPostHandler{sc: h.sc}
}

func (h *itemPostHandler) Parse(ctx context.Context, r *http.Request) error {
	body := util.NewRequestReader(r)
	defer body.Close()

	apiItem := model.APIItem{}
	if err := utility.ReadJSON(body, &apiItem); err != nil {
		return errors.Wrap(err, "reading item from JSON request body")
	}

	var err error
	h.item, err = apiItem.ToService()
	if err != nil {
		return errors.Wrap(err, "invalid API input")
	}
	if h.item.Category == "" {
		return errors.New("invalid API input: missing category")
	}
	return nil
}

// Run inserts the item. A duplicate name or a category id that disagrees
// with the category name is reported as an unacknowledged result, not an
// error.
func (h *itemPostHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.CreateItem(ctx, h.item)
	if err != nil {
		return writeErrorResponder(err, fmt.Sprintf("inserting item '%s'", h.item.Name))
	}

	grip.InfoWhen(res.Acknowledged, message.Fields{
		"message":     "inserted item",
		"item":        h.item.Name,
		"category":    h.item.Category,
		"inserted_id": res.InsertedIDs,
	})

	return gimlet.NewJSONResponse(res)
}

////////////////////////////////////////////////
//
// PUT /items/id/{id}

type itemPutHandler struct {
	sc   data.Connector
	id   db.ID
	item *item.Item
}

func makePutItem(sc data.Connector) gimlet.RouteHandler {
	return &itemPutHandler{sc: sc}
}

func (h *itemPutHandler) Factory() gimlet.RouteHandler {
	return &itemPutHandler{sc: h.sc}
}

func (h *itemPutHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	if h.id, err = parseID(r); err != nil {
		return err
	}

	body := util.NewRequestReader(r)
	defer body.Close()

	apiItem := model.APIItem{}
	if err = utility.ReadJSON(body, &apiItem); err != nil {
		return errors.Wrap(err, "reading item from JSON request body")
	}
	if id := utility.FromStringPtr(apiItem.ID); id != "" && db.ParseID(id) != h.id {
		return errors.Errorf("item id '%s' in body does not match '%s'", id, h.id.String())
	}

	h.item, err = apiItem.ToService()
	return errors.Wrap(err, "invalid API input")
}

func (h *itemPutHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.UpsertItem(ctx, h.id, h.item)
	if err != nil {
		return writeErrorResponder(err, fmt.Sprintf("upserting item '%s'", h.id.String()))
	}

	return gimlet.NewJSONResponse(res)
}

////////////////////////////////////////////////
//
// DELETE /items/id/{id}

type itemDeleteHandler struct {
	sc data.Connector
	id db.ID
}

func makeDeleteItem(sc data.Connector) gimlet.RouteHandler {
	return &itemDeleteHandler{sc: sc}
}

func (h *itemDeleteHandler) Factory() gimlet.RouteHandler {
	return &itemDeleteHandler{sc: h.sc}
}

func (h *itemDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.id, err = parseID(r)
	return err
}

func (h *itemDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.DeleteItem(ctx, h.id)
	if err != nil {
		return writeErrorResponder(err, fmt.Sprintf("deleting item '%s'", h.id.String()))
	}

	return gimlet.NewJSONResponse(res)
}
