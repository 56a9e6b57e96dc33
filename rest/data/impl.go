package data

import (
	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
)

// DBConnector is a struct that implements all of the methods which
// connect to the service layer of the store. These methods abstract the link
// between the service and the API layers, allowing for changes in the
// service architecture without forcing changes to the API.
//
// Item methods use ItemCollection, so one database can hold both the item
// and the candy catalogs.
type DBConnector struct {
	DB             *db.Database
	ItemCollection string
	Image          store.ImageConfig
}

// NewDBConnector returns a connector over the item collection of the given
// name.
func NewDBConnector(database *db.Database, itemCollection string, image store.ImageConfig) *DBConnector {
	return &DBConnector{
		DB:             database,
		ItemCollection: itemCollection,
		Image:          image,
	}
}

func (c *DBConnector) items() *db.Collection      { return c.DB.Collection(c.ItemCollection) }
func (c *DBConnector) categories() *db.Collection { return c.DB.Collection(category.Collection) }
func (c *DBConnector) users() *db.Collection      { return c.DB.Collection(user.Collection) }
func (c *DBConnector) locations() *db.Collection  { return c.DB.Collection(location.Collection) }
