package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/model"
	"github.com/awesome-store/store/util"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

////////////////////////////////////////////////
//
// GET /categories

type categoriesGetHandler struct {
	sc data.Connector
}

func makeGetCategories(sc data.Connector) gimlet.RouteHandler {
	return &categoriesGetHandler{sc: sc}
}

func (h *categoriesGetHandler) Factory() gimlet.RouteHandler {
	return &categoriesGetHandler{sc: h.sc}
}

func (h *categoriesGetHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

func (h *categoriesGetHandler) Run(ctx context.Context) gimlet.Responder {
	categories, err := h.sc.FindCategories(ctx)
	if err != nil {
		return readErrorResponder(err, "finding categories")
	}

	return gimlet.NewJSONResponse(map[string]interface{}{
		"categories": model.NewAPICategories(categories),
	})
}

////////////////////////////////////////////////
//
// GET /categories/names

type categoryNamesGetHandler struct {
	sc data.Connector
}

func makeGetCategoryNames(sc data.Connector) gimlet.RouteHandler {
	return &categoryNamesGetHandler{sc: sc}
}

func (h *categoryNamesGetHandler) Factory() gimlet.RouteHandler {
	return &categoryNamesGetHandler{sc: h.sc}
}

func (h *categoryNamesGetHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

// Run returns the distinct category names of the items, which may include
// names without a category record.
func (h *categoryNamesGetHandler) Run(ctx context.Context) gimlet.Responder {
	names, err := h.sc.FindItemCategoryNames(ctx)
	if err != nil {
		return readErrorResponder(err, "finding item categories")
	}

	return gimlet.NewJSONResponse(map[string]interface{}{
		"categories": names,
	})
}

////////////////////////////////////////////////
//
// GET /categories/id/{id}

type categoryGetHandler struct {
	sc data.Connector
	id db.ID
}

func makeGetCategoryByID(sc data.Connector) gimlet.RouteHandler {
	return &categoryGetHandler{sc: sc}
}

func (h *categoryGetHandler) Factory() gimlet.RouteHandler {
	return &categoryGetHandler{sc: h.sc}
}

func (h *categoryGetHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.id, err = parseID(r)
	return err
}

func (h *categoryGetHandler) Run(ctx context.Context) gimlet.Responder {
	c, err := h.sc.FindCategoryByID(ctx, h.id)
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("finding category '%s'", h.id.String()))
	}
	if c == nil {
		return gimlet.MakeJSONErrorResponder(notFound("category '%s' not found", h.id.String()))
	}

	apiCategory := model.APICategory{}
	apiCategory.BuildFromService(*c)
	return gimlet.NewJSONResponse(map[string]interface{}{
		"category": apiCategory,
	})
}

////////////////////////////////////////////////
//
// POST /categories

type categoryPostHandler struct {
	sc       data.Connector
	category *category.Category
}

func makePostCategory(sc data.Connector) gimlet.RouteHandler {
	return &categoryPostHandler{sc: sc}
}

func (h *categoryPostHandler) Factory() gimlet.RouteHandler {
	return &categoryPostHandler{sc: h.sc}
}

func (h *categoryPostHandler) Parse(ctx context.Context, r *http.Request) error {
	body := util.NewRequestReader(r)
	defer body.Close()

	apiCategory := model.APICategory{}
	if err := utility.ReadJSON(body, &apiCategory); err != nil {
		return errors.Wrap(err, "reading category from JSON request body")
	}

	var err error
	h.category, err = apiCategory.ToService()
	return errors.Wrap(err, "invalid API input")
}

// Run inserts the category. An existing name is reported as an
// unacknowledged result.
func (h *categoryPostHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.CreateCategory(ctx, h.category)
	if err != nil {
		return writeErrorResponder(err, fmt.Sprintf("inserting category '%s'", h.category.Name))
	}

	return gimlet.NewJSONResponse(res)
}
