package operations

import "github.com/urfave/cli"

func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run store services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}
