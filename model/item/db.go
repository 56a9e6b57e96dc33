package item

import (
	"context"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "items"

var (
	IDKey          = bsonutil.MustHaveTag(Item{}, "ID")
	NameKey        = bsonutil.MustHaveTag(Item{}, "Name")
	ProductURLKey  = bsonutil.MustHaveTag(Item{}, "ProductURL")
	ImageURLKey    = bsonutil.MustHaveTag(Item{}, "ImageURL")
	PriceKey       = bsonutil.MustHaveTag(Item{}, "Price")
	DescriptionKey = bsonutil.MustHaveTag(Item{}, "Description")
	CategoryKey    = bsonutil.MustHaveTag(Item{}, "Category")
	CategoryIDKey  = bsonutil.MustHaveTag(Item{}, "CategoryID")
	TagsKey        = bsonutil.MustHaveTag(Item{}, "Tags")
)

// EnsureIndexes creates the indexes searches rely on.
func EnsureIndexes(ctx context.Context, coll *db.Collection) error {
	catcher := grip.NewBasicCatcher()
	catcher.Add(coll.EnsureIndex(ctx, mongo.IndexModel{Keys: bson.D{{Key: NameKey, Value: 1}}}))
	catcher.Add(coll.EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: CategoryKey, Value: 1}, {Key: PriceKey, Value: 1}},
		Options: options.Index().SetName("category_price"),
	}))
	return catcher.Resolve()
}

// Find returns the items matching the query.
func Find(ctx context.Context, coll *db.Collection, q db.Q) ([]Item, error) {
	items := []Item{}
	if err := coll.FindAll(ctx, q, &items); err != nil {
		return nil, errors.Wrap(err, "finding items")
	}
	return items, nil
}

// Search runs the search described by opts. A price range that cannot match
// returns no items without querying.
func Search(ctx context.Context, coll *db.Collection, opts SearchOptions) ([]Item, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid search options")
	}
	if opts.Empty() {
		return []Item{}, nil
	}

	return Find(ctx, coll, opts.Query())
}

// FindByCategory returns the items in the named category.
func FindByCategory(ctx context.Context, coll *db.Collection, name string, skip, limit int) ([]Item, error) {
	return Find(ctx, coll, db.Query(bson.M{CategoryKey: name}).Skip(skip).Limit(limit))
}

// FindOne returns the first item matching the query, or nil if there is none.
func FindOne(ctx context.Context, coll *db.Collection, q db.Q) (*Item, error) {
	item := &Item{}
	err := coll.FindOneInto(ctx, q, item)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding item")
	}
	return item, nil
}

// FindOneID returns the item with the given id, or nil if there is none.
func FindOneID(ctx context.Context, coll *db.Collection, id db.ID) (*Item, error) {
	return FindOne(ctx, coll, db.Query(id.Filter()))
}

func FindByName(ctx context.Context, coll *db.Collection, name string) (*Item, error) {
	return FindOne(ctx, coll, db.Query(bson.M{NameKey: name}))
}

// Insert writes the item. Items are deduplicated by name: inserting a name
// that already exists is reported as an unacknowledged write.
func Insert(ctx context.Context, coll *db.Collection, i *Item) (*db.InsertResult, error) {
	if err := i.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}

	existing, err := FindByName(ctx, coll, i.Name)
	if err != nil {
		return nil, errors.Wrap(err, "checking for existing item")
	}
	if existing != nil {
		return db.Unacknowledged(), nil
	}

	res, err := coll.InsertOne(ctx, i)
	if err != nil {
		return nil, errors.Wrapf(err, "inserting item '%s'", i.Name)
	}
	if len(res.InsertedIDs) == 1 && i.ID.IsZero() {
		i.ID = db.ParseID(res.InsertedIDs[0])
	}
	return res, nil
}

// InsertWithCategory inserts the item and, when needed, its category.
//
// An existing item name is a no-op. With a category id, the id and the name
// must either both resolve to the same category or both be unknown, in which
// case the category is created with that id. Without a category id the
// category is looked up by name and created if missing. The new item id comes
// first in the result, followed by the new category id.
//
// The writes are not transactional: a failure after the first insert leaves
// it in place.
func InsertWithCategory(ctx context.Context, items, categories *db.Collection, i *Item) (*db.InsertResult, error) {
	if err := i.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}
	if i.Category == "" {
		return nil, errors.New("item category must not be empty")
	}

	existing, err := FindByName(ctx, items, i.Name)
	if err != nil {
		return nil, errors.Wrap(err, "checking for existing item")
	}
	if existing != nil {
		return db.Unacknowledged(), nil
	}

	byName, err := category.FindByName(ctx, categories, i.Category)
	if err != nil {
		return nil, errors.Wrap(err, "finding category by name")
	}

	var newCategory *category.Category
	if !i.CategoryID.IsZero() {
		byID, err := category.FindOneID(ctx, categories, i.CategoryID)
		if err != nil {
			return nil, errors.Wrap(err, "finding category by id")
		}

		switch {
		case byID != nil && byName != nil:
			if byID.ID != byName.ID {
				grip.Debug(message.Fields{
					"message":     "category id and name refer to different categories",
					"item":        i.Name,
					"category":    i.Category,
					"category_id": i.CategoryID.String(),
				})
				return db.Unacknowledged(), nil
			}
		case byID != nil || byName != nil:
			return db.Unacknowledged(), nil
		default:
			newCategory = &category.Category{ID: i.CategoryID, Name: i.Category}
		}
	} else if byName != nil {
		i.CategoryID = byName.ID
	} else {
		newCategory = &category.Category{ID: db.NewID(), Name: i.Category}
		i.CategoryID = newCategory.ID
	}

	res, err := items.InsertOne(ctx, i)
	if err != nil {
		return nil, errors.Wrapf(err, "inserting item '%s'", i.Name)
	}
	if len(res.InsertedIDs) == 1 && i.ID.IsZero() {
		i.ID = db.ParseID(res.InsertedIDs[0])
	}
	if !res.Acknowledged || newCategory == nil {
		return res, nil
	}

	catRes, err := categories.InsertOne(ctx, newCategory)
	if err != nil {
		return nil, errors.Wrapf(err, "inserting category '%s' for item '%s'", newCategory.Name, i.Name)
	}
	res.InsertedIDs = append(res.InsertedIDs, catRes.InsertedIDs...)

	return res, nil
}

// Upsert replaces the fields of the item with the given id, creating it if
// it does not exist.
func Upsert(ctx context.Context, coll *db.Collection, id db.ID, i *Item) (*db.UpdateResult, error) {
	if err := i.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}

	update := bson.M{
		NameKey:        i.Name,
		ProductURLKey:  i.ProductURL,
		ImageURLKey:    i.ImageURL,
		PriceKey:       i.Price,
		DescriptionKey: i.Description,
		CategoryKey:    i.Category,
	}
	if !i.CategoryID.IsZero() {
		update[CategoryIDKey] = i.CategoryID
	}
	if i.Tags != nil {
		update[TagsKey] = i.Tags
	}

	res, err := coll.UpdateOne(ctx, id.Filter(), bson.M{"$set": update}, true)
	return res, errors.Wrapf(err, "upserting item '%s'", id.String())
}

// Remove deletes the item with the given id.
func Remove(ctx context.Context, coll *db.Collection, id db.ID) (*db.DeleteResult, error) {
	res, err := coll.DeleteOne(ctx, id.Filter())
	return res, errors.Wrapf(err, "removing item '%s'", id.String())
}

// DistinctCategories returns the category names used by items.
func DistinctCategories(ctx context.Context, coll *db.Collection) ([]string, error) {
	values, err := coll.Distinct(ctx, CategoryKey, nil)
	if err != nil {
		return nil, errors.Wrap(err, "finding item categories")
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
