package item

import (
	"github.com/awesome-store/store/db"
	"github.com/mongodb/grip"
)

// Item is a product sold by the store.
type Item struct {
	ID          db.ID    `bson:"_id,omitempty"`
	Name        string   `bson:"name"`
	ProductURL  string   `bson:"prod_url"`
	ImageURL    string   `bson:"img_url"`
	Price       float64  `bson:"price"`
	Description string   `bson:"desc"`
	Category    string   `bson:"category"`
	CategoryID  db.ID    `bson:"category_id,omitempty"`
	Tags        []string `bson:"tags,omitempty"`
}

// Validate checks the fields the store relies on.
func (i *Item) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(i.Name == "", "item name must not be empty")
	catcher.ErrorfWhen(i.Price < 0, "item price %g must not be negative", i.Price)
	return catcher.Resolve()
}

// HasTag reports whether the item carries the tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends the tag if the item does not already carry it.
func (i *Item) AddTag(tag string) {
	if tag == "" || i.HasTag(tag) {
		return
	}
	i.Tags = append(i.Tags, tag)
}
