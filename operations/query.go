package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/cheynewallace/tabby"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/bson"
)

// Query prints the documents of a collection with identifiers rendered as
// strings.
func Query() cli.Command {
	return cli.Command{
		Name:  "query",
		Usage: "print documents from a collection as JSON",
		Flags: serviceConfigFlags(
			cli.StringFlag{
				Name:  joinFlagNames(collectionFlagName, "n"),
				Usage: "name of the collection to query",
				Value: store.ItemCollection,
			},
			cli.StringFlag{
				Name:  joinFlagNames(filterFlagName, "f"),
				Usage: "filter document in extended JSON, e.g. '{\"category\": \"Mints\"}'",
				Value: "{}",
			},
			cli.IntFlag{
				Name:  joinFlagNames(limitFlagName, "l"),
				Usage: "maximum number of documents to print; 0 prints all",
				Value: 20,
			},
			cli.StringSliceFlag{
				Name:  fieldsFlagName,
				Usage: "print these fields as a table instead of JSON (may be specified multiple times)",
			},
		),
		Before: requireStringFlag(collectionFlagName),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			filter, err := parseFilter(c.String(filterFlagName))
			if err != nil {
				return err
			}
			if c.Int(limitFlagName) < 0 {
				return errors.Errorf("invalid limit %d", c.Int(limitFlagName))
			}

			env, err := store.NewEnvironment(ctx, settingsPath(c), pathFlag(c, envFileFlagName))
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			defer func() { grip.Error(message.WrapError(env.Close(ctx), "closing environment")) }()
			if err = applyLogLevel(c, env.Settings().Logging); err != nil {
				return err
			}

			coll := env.DB().Collection(c.String(collectionFlagName))
			docs, err := coll.Find(ctx, db.Query(filter).Limit(c.Int(limitFlagName)))
			if err != nil {
				return errors.Wrapf(err, "querying '%s'", coll.Name())
			}

			if fields := c.StringSlice(fieldsFlagName); len(fields) > 0 {
				printTable(docs, fields)
				return nil
			}

			out, err := json.MarshalIndent(docs, "", "  ")
			if err != nil {
				return errors.Wrap(err, "rendering documents")
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func parseFilter(filter string) (bson.M, error) {
	out := bson.M{}
	if filter == "" {
		return out, nil
	}
	if err := bson.UnmarshalExtJSON([]byte(filter), false, &out); err != nil {
		return nil, errors.Wrapf(err, "parsing filter '%s'", filter)
	}
	return out, nil
}

func printTable(docs []db.Document, fields []string) {
	t := tabby.New()
	header := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		header = append(header, strings.ToUpper(f))
	}
	t.AddHeader(header...)
	for _, row := range tableRows(docs, fields) {
		t.AddLine(row...)
	}
	t.Print()
}

// tableRows picks the named fields out of each document. Missing fields
// render as empty cells.
func tableRows(docs []db.Document, fields []string) [][]interface{} {
	rows := make([][]interface{}, 0, len(docs))
	for _, doc := range docs {
		row := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			v, ok := doc[f]
			if !ok || v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows
}
