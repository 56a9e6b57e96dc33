package model

import (
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/item"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// APIItem is the model of an item as sent and received over the API.
type APIItem struct {
	ID          *string  `json:"_id"`
	Name        *string  `json:"name"`
	ProductURL  *string  `json:"prod_url"`
	ImageURL    *string  `json:"img_url"`
	Price       *float64 `json:"price"`
	Description *string  `json:"desc"`
	Category    *string  `json:"category"`
	CategoryID  *string  `json:"category_id"`
	Tags        []string `json:"tags"`
}

// BuildFromService converts from a service level item to an APIItem.
func (a *APIItem) BuildFromService(i item.Item) {
	a.ID = idPtr(i.ID)
	a.Name = utility.ToStringPtr(i.Name)
	a.ProductURL = utility.ToStringPtr(i.ProductURL)
	a.ImageURL = utility.ToStringPtr(i.ImageURL)
	a.Price = utility.ToFloat64Ptr(i.Price)
	a.Description = utility.ToStringPtr(i.Description)
	a.Category = utility.ToStringPtr(i.Category)
	a.CategoryID = idPtr(i.CategoryID)
	a.Tags = i.Tags
	if a.Tags == nil {
		a.Tags = []string{}
	}
}

// ToService returns a service layer item using the data from APIItem. Ids
// that look like store identifiers are stored as such.
func (a *APIItem) ToService() (*item.Item, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}

	i := &item.Item{
		Name:        utility.FromStringPtr(a.Name),
		ProductURL:  utility.FromStringPtr(a.ProductURL),
		ImageURL:    utility.FromStringPtr(a.ImageURL),
		Price:       utility.FromFloat64Ptr(a.Price),
		Description: utility.FromStringPtr(a.Description),
		Category:    utility.FromStringPtr(a.Category),
		Tags:        a.Tags,
	}
	if id := utility.FromStringPtr(a.ID); id != "" {
		i.ID = db.ParseID(id)
	}
	if id := utility.FromStringPtr(a.CategoryID); id != "" {
		i.CategoryID = db.ParseID(id)
	}

	return i, nil
}

// Validate checks the fields every item write requires.
func (a *APIItem) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(utility.FromStringPtr(a.Name) == "", "missing name")
	catcher.NewWhen(a.Price == nil, "missing price")
	catcher.ErrorfWhen(a.Price != nil && *a.Price < 0, "price %g must not be negative", utility.FromFloat64Ptr(a.Price))
	return catcher.Resolve()
}

// NewAPIItems converts a slice of service level items.
func NewAPIItems(items []item.Item) []APIItem {
	out := make([]APIItem, 0, len(items))
	for _, i := range items {
		apiItem := APIItem{}
		apiItem.BuildFromService(i)
		out = append(out, apiItem)
	}
	return out
}

func idPtr(id db.ID) *string {
	if id.IsZero() {
		return nil
	}
	return utility.ToStringPtr(id.String())
}
