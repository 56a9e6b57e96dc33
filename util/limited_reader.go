package util

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const maxRequestSize = 1024 * 1024 // 1 MB

// ErrTooLarge is returned by ReadAllLimited when the input exceeds the limit.
var ErrTooLarge = errors.New("content exceeds size limit")

type requestReader struct {
	req *http.Request
	*io.LimitedReader
}

// NewRequestReader returns an io.ReadCloser closer for the body of an
// *http.Request, using a limited reader internally to avoid unbounded
// reading from the request body. The reader is limited to 1 megabyte.
func NewRequestReader(req *http.Request) io.ReadCloser {
	return &requestReader{
		req: req,
		LimitedReader: &io.LimitedReader{
			R: req.Body,
			N: maxRequestSize,
		},
	}
}

func (r *requestReader) Close() error {
	return errors.WithStack(r.req.Body.Close())
}

// ReadAllLimited reads r to the end, failing with ErrTooLarge instead of
// returning more than max bytes. A non-positive max reads without a limit.
func ReadAllLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		out, err := io.ReadAll(r)
		return out, errors.WithStack(err)
	}

	out, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if int64(len(out)) > max {
		return nil, errors.Wrapf(ErrTooLarge, "reading more than %d bytes", max)
	}
	return out, nil
}
