package category

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "categories"

// Category groups items. Categories are created explicitly or implicitly by
// the first item that names them; they are never updated or deleted.
type Category struct {
	ID   db.ID  `bson:"_id,omitempty"`
	Name string `bson:"name"`
}

var (
	IDKey   = bsonutil.MustHaveTag(Category{}, "ID")
	NameKey = bsonutil.MustHaveTag(Category{}, "Name")
)

// LabelFromFileName derives a display name from a fixture file name, so
// "gummy-candy.json" becomes "Gummy Candy".
func LabelFromFileName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// EnsureIndexes makes category names unique.
func EnsureIndexes(ctx context.Context, coll *db.Collection) error {
	return coll.EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: NameKey, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}

// Find returns the categories matching the query.
func Find(ctx context.Context, coll *db.Collection, q db.Q) ([]Category, error) {
	categories := []Category{}
	if err := coll.FindAll(ctx, q, &categories); err != nil {
		return nil, errors.Wrap(err, "finding categories")
	}
	return categories, nil
}

// FindOne returns the first category matching the query, or nil if there is
// none.
func FindOne(ctx context.Context, coll *db.Collection, q db.Q) (*Category, error) {
	c := &Category{}
	err := coll.FindOneInto(ctx, q, c)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding category")
	}
	return c, nil
}

func FindOneID(ctx context.Context, coll *db.Collection, id db.ID) (*Category, error) {
	return FindOne(ctx, coll, db.Query(id.Filter()))
}

func FindByName(ctx context.Context, coll *db.Collection, name string) (*Category, error) {
	return FindOne(ctx, coll, db.Query(bson.M{NameKey: name}))
}

// Insert writes the category. A category whose name or id already exists is
// reported as an unacknowledged write.
func Insert(ctx context.Context, coll *db.Collection, c *Category) (*db.InsertResult, error) {
	if c.Name == "" {
		return nil, errors.New("category name must not be empty")
	}

	existing, err := FindByName(ctx, coll, c.Name)
	if err != nil {
		return nil, errors.Wrap(err, "checking for existing category")
	}
	if existing == nil && !c.ID.IsZero() {
		existing, err = FindOneID(ctx, coll, c.ID)
		if err != nil {
			return nil, errors.Wrap(err, "checking for existing category")
		}
	}
	if existing != nil {
		return db.Unacknowledged(), nil
	}

	res, err := coll.InsertOne(ctx, c)
	if db.IsDuplicateKey(err) {
		return db.Unacknowledged(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "inserting category '%s'", c.Name)
	}
	if len(res.InsertedIDs) == 1 && c.ID.IsZero() {
		c.ID = db.ParseID(res.InsertedIDs[0])
	}
	return res, nil
}
