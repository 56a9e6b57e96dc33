package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/awesome-store/store/db"
	"github.com/stretchr/testify/require"
)

const (
	// EnvTestURI overrides the address of the database used by tests.
	EnvTestURI = "STORE_TEST_MONGODB_URI"
	// EnvSkipDBTests skips every test that needs a database.
	EnvSkipDBTests = "SKIP_DB_TESTS"

	defaultTestURI = "mongodb://localhost:27017"
)

// GetDirectoryOfFile returns the path to of the file that calling
// this function. Use this to ensure that references to testdata and
// other file system locations in tests are not dependent on the working
// directory of the "go test" invocation.
func GetDirectoryOfFile() string {
	_, file, _, _ := runtime.Caller(1)

	return filepath.Dir(file)
}

// NewTestManager connects to the test database, skipping the test when no
// server is reachable.
func NewTestManager(ctx context.Context, t *testing.T) *db.Manager {
	if skip, _ := strconv.ParseBool(os.Getenv(EnvSkipDBTests)); skip {
		t.Skipf("%s is set, skipping database test", EnvSkipDBTests)
	}

	uri := os.Getenv(EnvTestURI)
	if uri == "" {
		uri = defaultTestURI
	}

	manager, err := db.NewManager(ctx, db.ConnectionOptions{URI: uri, ConnectTimeout: 2 * time.Second})
	require.NoError(t, err)

	if err = manager.Ping(ctx); err != nil {
		_ = manager.Close(ctx)
		t.Skipf("no database reachable at '%s': %s", uri, err.Error())
	}

	t.Cleanup(func() {
		require.NoError(t, manager.Close(context.Background()))
	})

	return manager
}

// NewTestDatabase returns a database unique to the test, dropped when the
// test finishes.
func NewTestDatabase(ctx context.Context, t *testing.T) *db.Database {
	manager := NewTestManager(ctx, t)

	name := "store_test_" + sanitize(t.Name())
	require.NoError(t, manager.DropDatabase(ctx, name))
	t.Cleanup(func() {
		_ = manager.DropDatabase(context.Background(), name)
	})

	return manager.Database(name)
}

// database names are limited to 64 bytes and may not contain several
// punctuation characters
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	if len(name) > 48 {
		name = name[len(name)-48:]
	}
	return name
}
