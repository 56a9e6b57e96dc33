package operations

import (
	"path/filepath"
	"strings"

	"github.com/awesome-store/store"
	"github.com/urfave/cli"
)

const (
	confFlagName       = "conf"
	envFileFlagName    = "env"
	dataDirFlagName    = "data"
	usersFlagName      = "users"
	validatorsFlagName = "validators"
	resetFlagName      = "reset"
	candiesFlagName    = "candies"
	collectionFlagName = "collection"
	filterFlagName     = "filter"
	limitFlagName      = "limit"
	fieldsFlagName     = "fields"
	levelFlagName      = "level"
)

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func serviceConfigFlags(flags ...cli.Flag) []cli.Flag {
	home := store.FindStoreHome()
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(confFlagName, "c", "config"),
			Usage: "path to the service settings file; defaults are used when it does not exist",
			Value: filepath.Join(home, store.DefaultSettingsFile),
		},
		cli.StringFlag{
			Name:  envFileFlagName,
			Usage: "path to a dotenv file holding credentials",
			Value: filepath.Join(home, store.DefaultEnvFile),
		},
	)
}

func candiesFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.BoolFlag{
		Name:  candiesFlagName,
		Usage: "use the candy collection instead of the item collection",
	})
}
