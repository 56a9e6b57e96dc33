package data

import (
	"context"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
)

func (c *DBConnector) FindCategories(ctx context.Context) ([]category.Category, error) {
	return category.Find(ctx, c.categories(), db.Query(nil).Sort([]string{category.NameKey}))
}

func (c *DBConnector) FindItemCategoryNames(ctx context.Context) ([]string, error) {
	return item.DistinctCategories(ctx, c.items())
}

func (c *DBConnector) FindCategoryByID(ctx context.Context, id db.ID) (*category.Category, error) {
	return category.FindOneID(ctx, c.categories(), id)
}

func (c *DBConnector) CreateCategory(ctx context.Context, cat *category.Category) (*db.InsertResult, error) {
	return category.Insert(ctx, c.categories(), cat)
}
