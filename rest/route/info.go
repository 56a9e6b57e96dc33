package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
)

////////////////////////////////////////////////
//
// GET /

type serviceInfo struct {
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Revision string      `json:"revision,omitempty"`
	Routes   []RouteInfo `json:"routes"`
}

type serviceInfoHandler struct {
	info serviceInfo
}

func makeGetServiceInfo(info serviceInfo) gimlet.RouteHandler {
	return &serviceInfoHandler{info: info}
}

func (h *serviceInfoHandler) Factory() gimlet.RouteHandler {
	return &serviceInfoHandler{info: h.info}
}

func (h *serviceInfoHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

func (h *serviceInfoHandler) Run(ctx context.Context) gimlet.Responder {
	return gimlet.NewJSONResponse(h.info)
}
