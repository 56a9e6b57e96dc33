package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFromJSONFile(t *testing.T) {
	dir := t.TempDir()

	var out smallStruct
	assert.Error(t, ReadFromJSONFile(filepath.Join(dir, "missing.json"), &out))

	fn := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"top_level": {"field": "first"}, "some_list": ["a"]}`), 0644))
	require.NoError(t, ReadFromJSONFile(fn, &out))
	assert.Equal(t, "first", out.TopLevel["field"])
	assert.Equal(t, []string{"a"}, out.SomeList)

	require.NoError(t, os.WriteFile(fn, []byte(`{"top_level": `), 0644))
	assert.Error(t, ReadFromJSONFile(fn, &out))
}
