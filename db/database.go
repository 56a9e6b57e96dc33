package db

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database is a handle for one database on the manager's client.
type Database struct {
	db *mongo.Database
}

func (d *Database) Name() string { return d.db.Name() }

// Collection returns a handle for the named collection.
func (d *Database) Collection(name string) *Collection {
	return &Collection{coll: d.db.Collection(name)}
}

// CollectionNames lists the collections in the database.
func (d *Database) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := d.db.ListCollectionNames(ctx, map[string]any{})
	return names, errors.Wrap(err, "listing collections")
}

// CreateCollection creates the named collection with an optional JSON schema
// validator. A collection that already exists is not an error.
func (d *Database) CreateCollection(ctx context.Context, name string, validator any) error {
	opts := options.CreateCollection()
	if validator != nil {
		opts.SetValidator(validator)
	}

	err := d.db.CreateCollection(ctx, name, opts)
	if err == nil || hasErrorCode(errors.Cause(err), namespaceExistsErrCode) {
		return nil
	}

	return errors.Wrapf(err, "creating collection '%s'", name)
}

func (d *Database) DropCollection(ctx context.Context, name string) error {
	return errors.Wrapf(d.db.Collection(name).Drop(ctx), "dropping collection '%s'", name)
}

// DropCollections drops the specified collections, returning an error
// immediately if dropping any one of them fails.
func (d *Database) DropCollections(ctx context.Context, collections ...string) error {
	for _, coll := range collections {
		if err := d.DropCollection(ctx, coll); err != nil {
			return err
		}
	}
	return nil
}

// ClearCollections removes all documents from the specified collections.
func (d *Database) ClearCollections(ctx context.Context, collections ...string) error {
	for _, coll := range collections {
		if _, err := d.db.Collection(coll).DeleteMany(ctx, map[string]any{}); err != nil {
			return errors.Wrapf(err, "clearing collection '%s'", coll)
		}
	}
	return nil
}
