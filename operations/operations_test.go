package operations

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/mitchellh/go-homedir"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestParseFilter(t *testing.T) {
	filter, err := parseFilter(`{"category": "Mints", "price": {"$lt": 2}}`)
	require.NoError(t, err)
	assert.Equal(t, "Mints", filter["category"])
	assert.Contains(t, filter, "price")

	filter, err = parseFilter("")
	require.NoError(t, err)
	assert.Empty(t, filter)

	_, err = parseFilter(`{"category": `)
	assert.Error(t, err)
}

func TestBeforeFuncs(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(existing, []byte("[]"), 0644))

	flags := []cli.Flag{
		cli.StringFlag{Name: usersFlagName},
		cli.StringFlag{Name: validatorsFlagName},
	}

	c := newContext(t, flags, "--"+usersFlagName, existing)
	assert.NoError(t, mergeBeforeFuncs(requireFileExists(usersFlagName), requireFileExists(validatorsFlagName))(c))
	assert.Error(t, requireStringFlag(validatorsFlagName)(c))
	assert.NoError(t, requireStringFlag(usersFlagName)(c))

	c = newContext(t, flags, "--"+validatorsFlagName, filepath.Join(dir, "missing.json"))
	assert.Error(t, mergeBeforeFuncs(requireFileExists(usersFlagName), requireFileExists(validatorsFlagName))(c))
}

func TestLoaderOptions(t *testing.T) {
	flags := Load().Flags
	conf := store.LoaderConfig{DataDir: "/srv/fixtures", UsersFile: "/srv/users.json"}

	opts := loaderOptions(newContext(t, flags), conf)
	assert.Equal(t, "/srv/fixtures", opts.DataDir)
	assert.Equal(t, "/srv/users.json", opts.UsersFile)
	assert.Equal(t, store.ItemCollection, opts.ItemCollection)
	assert.False(t, opts.Reset)

	opts = loaderOptions(newContext(t, flags, "--candies", "--reset", "--data", "/tmp/candy", "--validators", "/tmp/v.json"), conf)
	assert.Equal(t, "/tmp/candy", opts.DataDir)
	assert.Equal(t, "/tmp/v.json", opts.ValidatorsFile)
	assert.Equal(t, store.CandyCollection, opts.ItemCollection)
	assert.True(t, opts.Reset)

	opts = loaderOptions(newContext(t, flags), store.LoaderConfig{DataDir: "data"})
	assert.True(t, filepath.IsAbs(opts.DataDir))
	assert.Equal(t, "data", filepath.Base(opts.DataDir))
}

func TestSettingsPath(t *testing.T) {
	flags := serviceConfigFlags()
	assert.Empty(t, settingsPath(newContext(t, flags, "--conf", filepath.Join(t.TempDir(), "missing.yml"))))

	path := filepath.Join(t.TempDir(), "store_settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  port: 9000\n"), 0644))
	assert.Equal(t, path, settingsPath(newContext(t, flags, "--conf", path)))
}

func TestTableRows(t *testing.T) {
	docs := []db.Document{
		{"_id": "1", "name": "Sour Patch", "price": 2.5},
		{"_id": "2", "name": "Altoids"},
	}
	rows := tableRows(docs, []string{"name", "price"})
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"Sour Patch", 2.5}, rows[0])
	assert.Equal(t, []interface{}{"Altoids", ""}, rows[1])
}

func TestPathFlagExpandsHome(t *testing.T) {
	flags := []cli.Flag{cli.StringFlag{Name: usersFlagName}}
	home, err := homedir.Dir()
	require.NoError(t, err)

	c := newContext(t, flags, "--"+usersFlagName, "~/users.json")
	assert.Equal(t, filepath.Join(home, "users.json"), pathFlag(c, usersFlagName))

	c = newContext(t, flags, "--"+usersFlagName, "/srv/users.json")
	assert.Equal(t, "/srv/users.json", pathFlag(c, usersFlagName))
}

func TestWebServiceStartsWithoutEnvFile(t *testing.T) {
	t.Setenv(store.StoreHome, t.TempDir())
	cmd := startWebService()

	assert.NoError(t, cmd.Before(newContext(t, cmd.Flags)))

	missing := filepath.Join(t.TempDir(), ".env")
	assert.Error(t, cmd.Before(newContext(t, cmd.Flags, "--"+envFileFlagName, missing)))

	present := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(present, []byte("STORE_USER=ada\n"), 0644))
	assert.NoError(t, cmd.Before(newContext(t, cmd.Flags, "--"+envFileFlagName, present)))
}

func TestApplyLogLevel(t *testing.T) {
	sender := grip.GetSender()
	original := sender.Level()
	defer func() { require.NoError(t, sender.SetLevel(original)) }()

	require.NoError(t, applyLogLevel(newContext(t, nil), store.LoggingConfig{Level: "debug"}))
	assert.Equal(t, level.Debug, sender.Level().Threshold)

	flags := []cli.Flag{cli.StringFlag{Name: levelFlagName, Value: "info"}}
	require.NoError(t, applyLogLevel(newContext(t, flags, "--"+levelFlagName, "error"), store.LoggingConfig{Level: "trace"}))
	assert.Equal(t, level.Debug, sender.Level().Threshold)

	assert.Error(t, applyLogLevel(newContext(t, nil), store.LoggingConfig{Level: "loud"}))
}
