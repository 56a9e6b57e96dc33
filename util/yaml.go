package util

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ReadYAMLInto reads data for the given io.ReadCloser - until it hits an error
// or reaches EOF - and attempts to unmarshal the data read into the given
// interface.
func ReadYAMLInto(r io.ReadCloser, data any) error {
	defer r.Close()
	bytes, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading yaml")
	}
	return errors.Wrap(yaml.Unmarshal(bytes, data), "unmarshalling yaml")
}

// UnmarshalYAMLStrict unmarshals the data, rejecting duplicate keys and fields
// the target does not declare.
func UnmarshalYAMLStrict(in []byte, data any) error {
	return errors.Wrap(yaml.UnmarshalStrict(in, data), "unmarshalling yaml")
}

func ReadFromYAMLFile(fn string, data any) error {
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return errors.Errorf("file '%s' does not exist", fn)
	}

	file, err := os.Open(fn)
	if err != nil {
		return errors.Wrapf(err, "opening file '%s'", fn)
	}

	return errors.Wrapf(ReadYAMLInto(file, data), "reading file '%s'", fn)
}
