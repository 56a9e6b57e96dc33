package data

import (
	"context"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
	"go.mongodb.org/mongo-driver/bson"
)

func (c *DBConnector) RegisterUser(ctx context.Context, u *user.User) (*db.InsertResult, error) {
	return user.Register(ctx, c.users(), u)
}

func (c *DBConnector) LoginUser(ctx context.Context, username, password string) (*user.User, string, error) {
	return user.Authenticate(ctx, c.users(), username, password)
}

func (c *DBConnector) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return user.FindByUsername(ctx, c.users(), username)
}

func (c *DBConnector) UpdateUser(ctx context.Context, username string, changes *user.User) (*db.UpdateResult, error) {
	return user.Update(ctx, c.users(), username, changes)
}

func (c *DBConnector) FindLocations(ctx context.Context, username string) ([]location.Location, error) {
	filter := bson.M{}
	if username != "" {
		filter[location.UsernameKey] = username
	}
	return location.Find(ctx, c.locations(), db.Query(filter).Sort([]string{location.UsernameKey}))
}

func (c *DBConnector) FindLocationByUsername(ctx context.Context, username string) (*location.Location, error) {
	return location.FindByUsername(ctx, c.locations(), username)
}

func (c *DBConnector) UpsertLocation(ctx context.Context, l *location.Location) (*db.UpdateResult, error) {
	return location.Upsert(ctx, c.locations(), l)
}
