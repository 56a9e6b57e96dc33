package model

import (
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

type APICategory struct {
	ID   *string `json:"_id"`
	Name *string `json:"name"`
}

func (a *APICategory) BuildFromService(c category.Category) {
	a.ID = idPtr(c.ID)
	a.Name = utility.ToStringPtr(c.Name)
}

// ToService returns a service layer category. A category without an id is
// assigned one by the store.
func (a *APICategory) ToService() (*category.Category, error) {
	name := utility.FromStringPtr(a.Name)
	if name == "" {
		return nil, errors.New("missing category name")
	}

	c := &category.Category{Name: name}
	if id := utility.FromStringPtr(a.ID); id != "" {
		c.ID = db.ParseID(id)
	}
	return c, nil
}

func NewAPICategories(categories []category.Category) []APICategory {
	out := make([]APICategory, 0, len(categories))
	for _, c := range categories {
		apiCategory := APICategory{}
		apiCategory.BuildFromService(c)
		out = append(out, apiCategory)
	}
	return out
}
