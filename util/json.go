package util

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

func ReadJSONInto(r io.ReadCloser, data any) error {
	defer r.Close()
	bytes, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading json")
	}
	return errors.Wrap(json.Unmarshal(bytes, data), "unmarshalling json")
}

func ReadFromJSONFile(fn string, data any) error {
	file, err := os.Open(fn)
	if err != nil {
		return errors.Wrapf(err, "opening file '%s'", fn)
	}

	return errors.Wrapf(ReadJSONInto(file, data), "reading file '%s'", fn)
}
