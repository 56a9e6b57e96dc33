package operations

import (
	"os"

	"github.com/awesome-store/store"
	"github.com/mitchellh/go-homedir"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func mergeBeforeFuncs(ops ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}

func requireFileExists(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		path := pathFlag(c, name)
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return errors.Errorf("file '%s' does not exist", path)
		}
		return nil
	}
}

// requireSetFileExists checks the file only when the flag was given on the
// command line; a missing default file is allowed.
func requireSetFileExists(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if !c.IsSet(name) {
			return nil
		}
		return requireFileExists(name)(c)
	}
}

func requireStringFlag(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.String(name) == "" {
			return errors.Errorf("flag '--%s' was not specified", name)
		}
		return nil
	}
}

// settingsPath returns the settings file named by the flag, or the empty
// string when the file does not exist so that defaults are used.
func settingsPath(c *cli.Context) string {
	path := pathFlag(c, confFlagName)
	if _, err := os.Stat(path); err != nil {
		grip.Info(errors.Wrapf(err, "not using settings file '%s'", path))
		return ""
	}
	return path
}

// pathFlag returns the value of a path flag with a leading "~" expanded.
func pathFlag(c *cli.Context, name string) string {
	path := c.String(name)
	expanded, err := homedir.Expand(path)
	if err != nil {
		grip.Debug(errors.Wrapf(err, "expanding path '%s'", path))
		return path
	}
	return expanded
}

// applyLogLevel sets the threshold from the settings file unless the global
// --level flag was given, which wins.
func applyLogLevel(c *cli.Context, conf store.LoggingConfig) error {
	if c.GlobalIsSet(levelFlagName) {
		return nil
	}
	threshold := level.FromString(conf.Level)
	if threshold == level.Invalid {
		return errors.Errorf("invalid log level '%s'", conf.Level)
	}

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = threshold
	return errors.Wrap(sender.SetLevel(info), "setting log level")
}
