package route

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/awesome-store/store/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/gorilla/mux"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

////////////////////////////////////////////////
//
// GET /items/id/{id}/image, GET /image/{id}

// makeGetItemImage returns the image an item links to as a file download.
// The response is not JSON, so this is a plain handler rather than a
// gimlet.RouteHandler.
func makeGetItemImage(sc data.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDVar(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}

		img, err := sc.GetItemImage(r.Context(), id)
		if err != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message": "could not fetch item image",
				"item":    id.String(),
			}))
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/jpg")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=%s.jpg", id.String()))
		w.Header().Set("Content-Length", strconv.Itoa(len(img)))
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(img)
		grip.Debug(message.WrapError(err, message.Fields{
			"message": "could not write item image",
			"item":    id.String(),
		}))
	}
}

func writeError(w http.ResponseWriter, err error) {
	resp, ok := errors.Cause(err).(gimlet.ErrorResponse)
	if !ok {
		resp = gimlet.ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    err.Error(),
		}
	}
	gimlet.WriteJSONResponse(w, resp.StatusCode, resp)
}
