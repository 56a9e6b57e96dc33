package operations

import (
	"fmt"

	"github.com/awesome-store/store"
	"github.com/urfave/cli"
)

func Version() cli.Command {
	return cli.Command{
		Name:  "version",
		Usage: "prints the version and build revision",
		Action: func(c *cli.Context) error {
			fmt.Printf("%s %s\n", store.ServiceName, store.ClientVersion)
			if store.BuildRevision != "" {
				fmt.Printf("build %s\n", store.BuildRevision)
			}
			return nil
		},
	}
}
