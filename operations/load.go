package operations

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/loader"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func Load() cli.Command {
	return cli.Command{
		Name:  "load",
		Usage: "seed the database from JSON fixture files",
		Flags: serviceConfigFlags(candiesFlag(
			cli.StringFlag{
				Name:  joinFlagNames(dataDirFlagName, "d"),
				Usage: "directory of category fixture files; defaults to the configured data directory",
			},
			cli.StringFlag{
				Name:  usersFlagName,
				Usage: "JSON file of users to register",
			},
			cli.StringFlag{
				Name:  validatorsFlagName,
				Usage: "JSON file mapping collection names to validators",
			},
			cli.BoolFlag{
				Name:  resetFlagName,
				Usage: "drop the item, category and user collections before loading",
			},
		)...),
		Before: mergeBeforeFuncs(
			requireFileExists(usersFlagName),
			requireFileExists(validatorsFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := store.NewEnvironment(ctx, settingsPath(c), pathFlag(c, envFileFlagName))
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			defer func() { grip.Error(message.WrapError(env.Close(ctx), "closing environment")) }()
			if err = applyLogLevel(c, env.Settings().Logging); err != nil {
				return err
			}

			opts := loaderOptions(c, env.Settings().Loader)
			summary, err := loader.Load(ctx, env.DB(), opts)
			if err != nil {
				return errors.Wrap(err, "loading fixtures")
			}

			fmt.Println(summary.String())
			return nil
		},
	}
}

// loaderOptions merges the command line flags over the configured loader
// settings.
func loaderOptions(c *cli.Context, conf store.LoaderConfig) loader.Options {
	opts := loader.Options{
		DataDir:        conf.DataDir,
		ValidatorsFile: conf.ValidatorsFile,
		UsersFile:      conf.UsersFile,
		Reset:          conf.Reset || c.Bool(resetFlagName),
		ItemCollection: store.ItemCollection,
	}
	if dir := pathFlag(c, dataDirFlagName); dir != "" {
		opts.DataDir = dir
	}
	if path := pathFlag(c, usersFlagName); path != "" {
		opts.UsersFile = path
	}
	if path := pathFlag(c, validatorsFlagName); path != "" {
		opts.ValidatorsFile = path
	}
	if c.Bool(candiesFlagName) {
		opts.ItemCollection = store.CandyCollection
	}
	if !filepath.IsAbs(opts.DataDir) {
		opts.DataDir = filepath.Join(store.FindStoreHome(), opts.DataDir)
	}
	return opts
}
