package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/model"
	"github.com/awesome-store/store/util"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

////////////////////////////////////////////////
//
// GET /locations

type locationsGetHandler struct {
	sc       data.Connector
	username string
}

func makeGetLocations(sc data.Connector) gimlet.RouteHandler {
	return &locationsGetHandler{sc: sc}
}

func (h *locationsGetHandler) Factory() gimlet.RouteHandler {
	return &locationsGetHandler{sc: h.sc}
}

func (h *locationsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.username = r.URL.Query().Get("username")
	return nil
}

func (h *locationsGetHandler) Run(ctx context.Context) gimlet.Responder {
	locations, err := h.sc.FindLocations(ctx, h.username)
	if err != nil {
		return readErrorResponder(err, "finding locations")
	}

	return gimlet.NewJSONResponse(map[string]interface{}{
		"locations": model.NewAPILocations(locations),
	})
}

////////////////////////////////////////////////
//
// GET /locations/{username}

type locationGetHandler struct {
	sc       data.Connector
	username string
}

func makeGetLocation(sc data.Connector) gimlet.RouteHandler {
	return &locationGetHandler{sc: sc}
}

func (h *locationGetHandler) Factory() gimlet.RouteHandler {
	return &locationGetHandler{sc: h.sc}
}

func (h *locationGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.username = gimlet.GetVars(r)["username"]
	if h.username == "" {
		return notFound("missing username")
	}
	return nil
}

func (h *locationGetHandler) Run(ctx context.Context) gimlet.Responder {
	l, err := h.sc.FindLocationByUsername(ctx, h.username)
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("finding location of '%s'", h.username))
	}
	if l == nil {
		return gimlet.MakeJSONErrorResponder(notFound("no location recorded for '%s'", h.username))
	}

	apiLocation := model.APILocation{}
	apiLocation.BuildFromService(*l)
	return gimlet.NewJSONResponse(map[string]interface{}{
		"location": apiLocation,
	})
}

////////////////////////////////////////////////
//
// PUT /locations/{username}

type locationPutHandler struct {
	sc       data.Connector
	location *location.Location
}

func makePutLocation(sc data.Connector) gimlet.RouteHandler {
	return &locationPutHandler{sc: sc}
}

func (h *locationPutHandler) Factory() gimlet.RouteHandler {
	return &locationPutHandler{sc: h.sc}
}

// Parse reads the location from the body. The username comes from the path;
// a different one in the body is rejected.
func (h *locationPutHandler) Parse(ctx context.Context, r *http.Request) error {
	username := gimlet.GetVars(r)["username"]
	if username == "" {
		return notFound("missing username")
	}

	body := util.NewRequestReader(r)
	defer body.Close()

	apiLocation := model.APILocation{}
	if err := utility.ReadJSON(body, &apiLocation); err != nil {
		return errors.Wrap(err, "reading location from JSON request body")
	}
	if name := utility.FromStringPtr(apiLocation.Username); name != "" && name != username {
		return errors.Errorf("username '%s' in body does not match '%s'", name, username)
	}
	apiLocation.Username = utility.ToStringPtr(username)

	var err error
	h.location, err = apiLocation.ToService()
	return errors.Wrap(err, "invalid API input")
}

func (h *locationPutHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.UpsertLocation(ctx, h.location)
	if err != nil {
		return writeErrorResponder(err, fmt.Sprintf("recording location of '%s'", h.location.Username))
	}

	return gimlet.NewJSONResponse(res)
}
