package main

import (
	"os"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := buildApp()
	grip.EmergencyFatal(app.Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "store"
	app.Usage = "awesome store REST service and tools"
	app.Version = store.ClientVersion

	app.Commands = []cli.Command{
		operations.Version(),
		operations.Service(),
		operations.Load(),
		operations.Query(),
	}

	// These are global options. Use this to configure logging or
	// other options independent from specific sub commands.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible log level as string: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return loggingSetup(store.ServiceName, c.String("level"))
	}

	return app
}

func loggingSetup(name, l string) error {
	threshold := level.FromString(l)
	if threshold == level.Invalid {
		return errors.Errorf("invalid log level '%s'", l)
	}

	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return err
	}
	grip.SetName(name)

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = threshold

	return sender.SetLevel(info)
}
