package db

import (
	"context"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is a handle for one collection. Every operation is a direct
// call to the driver; results come back with identifiers rendered as strings.
type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) Name() string { return c.coll.Name() }

// Find returns the documents matching the query in order.
func (c *Collection) Find(ctx context.Context, q Q) ([]Document, error) {
	var raw []bson.M
	if err := c.FindAll(ctx, q, &raw); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(raw))
	for _, doc := range raw {
		out = append(out, NormalizeDocument(doc))
	}
	return out, nil
}

// FindAll runs the query and decodes every result into out, which must be a
// pointer to a slice.
func (c *Collection) FindAll(ctx context.Context, q Q, out any) error {
	cur, err := c.coll.Find(ctx, q.filter, q.findOptions())
	if err != nil {
		return errors.Wrapf(err, "finding documents in '%s'", c.Name())
	}

	return errors.Wrapf(cur.All(ctx, out), "decoding documents from '%s'", c.Name())
}

// FindOne returns the first document matching the query, or nil when there
// is none.
func (c *Collection) FindOne(ctx context.Context, q Q) (Document, error) {
	var doc bson.M
	err := c.FindOneInto(ctx, q, &doc)
	if ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return NormalizeDocument(doc), nil
}

// FindOneInto decodes the first document matching the query into out. When
// nothing matches the error satisfies ResultsNotFound.
func (c *Collection) FindOneInto(ctx context.Context, q Q, out any) error {
	err := c.coll.FindOne(ctx, q.filter, q.findOneOptions()).Decode(out)
	if err == mongo.ErrNoDocuments {
		return errors.WithStack(err)
	}
	return errors.Wrapf(err, "finding document in '%s'", c.Name())
}

// InsertOne inserts the document.
func (c *Collection) InsertOne(ctx context.Context, doc any) (*InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if isUnacknowledged(err) {
		return Unacknowledged(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "inserting document into '%s'", c.Name())
	}

	return newInsertResult(res.InsertedID), nil
}

// InsertMany inserts the documents without ordering guarantees, so one
// rejected document does not stop the others.
func (c *Collection) InsertMany(ctx context.Context, docs ...any) (*InsertResult, error) {
	if len(docs) == 0 {
		return newInsertResult(), nil
	}

	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if isUnacknowledged(err) {
		return Unacknowledged(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "inserting unordered documents into '%s'", c.Name())
	}

	return newInsertResult(res.InsertedIDs...), nil
}

// UpdateOne applies the update to the first matching document. An update
// without operators is treated as a set of field values.
func (c *Collection) UpdateOne(ctx context.Context, filter, update any, upsert bool) (*UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, updateDocument(update), options.Update().SetUpsert(upsert))
	if isUnacknowledged(err) {
		return &UpdateResult{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating document in '%s'", c.Name())
	}

	return newUpdateResult(res), nil
}

func (c *Collection) UpdateMany(ctx context.Context, filter, update any, upsert bool) (*UpdateResult, error) {
	if filter == nil {
		grip.EmergencyPanic(message.Fields{
			"message":    "nil query passed to update many",
			"collection": c.Name(),
		})
	}

	res, err := c.coll.UpdateMany(ctx, filter, updateDocument(update), options.Update().SetUpsert(upsert))
	if isUnacknowledged(err) {
		return &UpdateResult{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating documents in '%s'", c.Name())
	}

	return newUpdateResult(res), nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter any) (*DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if isUnacknowledged(err) {
		return &DeleteResult{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "deleting document from '%s'", c.Name())
	}

	return newDeleteResult(res), nil
}

func (c *Collection) DeleteMany(ctx context.Context, filter any) (*DeleteResult, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if isUnacknowledged(err) {
		return &DeleteResult{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "deleting documents from '%s'", c.Name())
	}

	return newDeleteResult(res), nil
}

// Distinct returns the distinct values of key among the documents matching
// the filter.
func (c *Collection) Distinct(ctx context.Context, key string, filter any) ([]any, error) {
	if filter == nil {
		filter = bson.M{}
	}

	values, err := c.coll.Distinct(ctx, key, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "finding distinct '%s' values in '%s'", key, c.Name())
	}

	for i := range values {
		values[i] = Normalize(values[i])
	}
	return values, nil
}

// Count runs a count command with the specified filter against the collection.
func (c *Collection) Count(ctx context.Context, filter any) (int, error) {
	if filter == nil {
		filter = bson.M{}
	}

	n, err := c.coll.CountDocuments(ctx, filter)
	return int(n), errors.Wrapf(err, "counting documents in '%s'", c.Name())
}

// EnsureIndex creates the index if it does not already exist.
func (c *Collection) EnsureIndex(ctx context.Context, index mongo.IndexModel) error {
	_, err := c.coll.Indexes().CreateOne(ctx, index)
	return errors.Wrapf(err, "ensuring index on '%s'", c.Name())
}

func updateDocument(update any) any {
	doc, err := transformDocument(update)
	if err != nil || hasDollarKey(doc) {
		return update
	}

	return bson.M{"$set": update}
}

func transformDocument(val any) (bson.Raw, error) {
	if val == nil {
		return nil, errors.WithStack(mongo.ErrNilDocument)
	}

	b, err := bson.Marshal(val)
	if err != nil {
		return nil, mongo.MarshalError{Value: val, Err: err}
	}

	return bson.Raw(b), nil
}

func hasDollarKey(doc bson.Raw) bool {
	if elem, err := doc.IndexErr(0); err == nil && strings.HasPrefix(elem.Key(), "$") {
		return true
	}

	return false
}
