package data

import (
	"context"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
)

// Connector is the interface between the routes and the service layer.
// Lookups by key return nil without an error when nothing matches.
type Connector interface {
	// FindItems runs an item search.
	FindItems(context.Context, item.SearchOptions) ([]item.Item, error)
	FindItemsByCategory(ctx context.Context, name string, skip, limit int) ([]item.Item, error)
	FindItemByID(context.Context, db.ID) (*item.Item, error)
	// CreateItem inserts the item, creating its category when needed.
	CreateItem(context.Context, *item.Item) (*db.InsertResult, error)
	UpsertItem(context.Context, db.ID, *item.Item) (*db.UpdateResult, error)
	DeleteItem(context.Context, db.ID) (*db.DeleteResult, error)
	// GetItemImage downloads the image the item links to.
	GetItemImage(context.Context, db.ID) ([]byte, error)

	FindCategories(context.Context) ([]category.Category, error)
	// FindItemCategoryNames returns the category names in use by items.
	FindItemCategoryNames(context.Context) ([]string, error)
	FindCategoryByID(context.Context, db.ID) (*category.Category, error)
	CreateCategory(context.Context, *category.Category) (*db.InsertResult, error)

	// RegisterUser stores a new user. A taken username or email fails
	// with an error for which user.IsDuplicateUser is true.
	RegisterUser(context.Context, *user.User) (*db.InsertResult, error)
	// LoginUser returns the user when the password matches, along with
	// a description of the outcome.
	LoginUser(ctx context.Context, username, password string) (*user.User, string, error)
	FindUserByUsername(context.Context, string) (*user.User, error)
	UpdateUser(ctx context.Context, username string, changes *user.User) (*db.UpdateResult, error)

	// FindLocations returns every location, or only the user's when
	// username is set.
	FindLocations(ctx context.Context, username string) ([]location.Location, error)
	FindLocationByUsername(context.Context, string) (*location.Location, error)
	UpsertLocation(context.Context, *location.Location) (*db.UpdateResult, error)
}

var (
	_ Connector = &DBConnector{}
	_ Connector = &MockConnector{}
)
