package route

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/awesome-store/store/db"
	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
)

// unprocessable wraps a malformed query so it is reported with a 422.
func unprocessable(err error) error {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    err.Error(),
	}
}

func notFound(format string, args ...interface{}) error {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf(format, args...),
	}
}

// readErrorResponder reports a failed read. Errors that carry a status keep
// it; anything else coming from the store is unprocessable.
func readErrorResponder(err error, msg string) gimlet.Responder {
	if resp, ok := errors.Cause(err).(gimlet.ErrorResponse); ok {
		return gimlet.MakeJSONErrorResponder(resp)
	}
	return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    errors.Wrap(err, msg).Error(),
	})
}

// writeErrorResponder reports a failed write as a bad request.
func writeErrorResponder(err error, msg string) gimlet.Responder {
	if resp, ok := errors.Cause(err).(gimlet.ErrorResponse); ok {
		return gimlet.MakeJSONErrorResponder(resp)
	}
	return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    errors.Wrap(err, msg).Error(),
	})
}

// parseID reads the id path variable. Any non-empty value is accepted; values
// shaped like store identifiers are matched as such.
func parseID(r *http.Request) (db.ID, error) {
	return parseIDVar(gimlet.GetVars(r)["id"])
}

func parseIDVar(raw string) (db.ID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return db.ID{}, notFound("missing id")
	}
	return db.ParseID(id), nil
}

func parseIntParam(vals url.Values, key string) (int, error) {
	raw := vals.Get(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, unprocessable(errors.Wrapf(err, "parsing '%s'", key))
	}
	if n < 0 {
		return 0, unprocessable(errors.Errorf("'%s' must not be negative", key))
	}
	return n, nil
}

func parseFloatParam(vals url.Values, key string) (*float64, error) {
	raw := vals.Get(key)
	if raw == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, unprocessable(errors.Wrapf(err, "parsing '%s'", key))
	}
	return &f, nil
}

// parsePage reads the skip and limit parameters.
func parsePage(vals url.Values) (skip, limit int, err error) {
	if skip, err = parseIntParam(vals, "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = parseIntParam(vals, "limit"); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

// parseListParam accepts repeated and comma separated values.
func parseListParam(vals url.Values, key string) []string {
	var out []string
	for _, v := range vals[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
