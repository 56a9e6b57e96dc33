package item

import (
	"regexp"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/grip"
	"go.mongodb.org/mongo-driver/bson"
)

// SearchOptions describe a search over items. Zero values do not filter.
type SearchOptions struct {
	ID          string
	Name        string
	Description string
	MinPrice    float64
	// MaxPrice is ignored when nil.
	MaxPrice   *float64
	Category   string
	CategoryID string
	Tags       []string
	Skip       int
	Limit      int
}

func (o *SearchOptions) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.ErrorfWhen(o.MinPrice < 0, "minimum price %g must not be negative", o.MinPrice)
	catcher.ErrorfWhen(o.MaxPrice != nil && *o.MaxPrice < 0, "maximum price must not be negative")
	catcher.ErrorfWhen(o.Skip < 0, "skip %d must not be negative", o.Skip)
	catcher.ErrorfWhen(o.Limit < 0, "limit %d must not be negative", o.Limit)
	return catcher.Resolve()
}

// Empty reports whether the price range can match nothing.
func (o *SearchOptions) Empty() bool {
	return o.MaxPrice != nil && o.MinPrice > *o.MaxPrice
}

// Query builds the filter. Text fields match case-insensitive substrings of
// the literal input.
func (o *SearchOptions) Query() db.Q {
	filter := bson.M{}

	if o.ID != "" {
		filter[IDKey] = db.ParseID(o.ID).Value()
	}
	if o.Name != "" {
		filter[NameKey] = containsPattern(o.Name)
	}
	if o.Description != "" {
		filter[DescriptionKey] = containsPattern(o.Description)
	}
	if o.Category != "" {
		filter[CategoryKey] = o.Category
	}
	if o.CategoryID != "" {
		filter[CategoryIDKey] = db.ParseID(o.CategoryID).Value()
	}
	if len(o.Tags) == 1 {
		filter[TagsKey] = o.Tags[0]
	} else if len(o.Tags) > 1 {
		filter[TagsKey] = bson.M{"$all": o.Tags}
	}

	price := bson.M{"$gte": o.MinPrice}
	if o.MaxPrice != nil {
		price["$lte"] = *o.MaxPrice
	}
	if o.MinPrice > 0 || o.MaxPrice != nil {
		filter[PriceKey] = price
	}

	return db.Query(filter).Skip(o.Skip).Limit(o.Limit)
}

func containsPattern(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
