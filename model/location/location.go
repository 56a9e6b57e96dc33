package location

import (
	"context"
	"time"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "locations"

// Location is the last reported position of a user. There is at most one
// per username.
type Location struct {
	Username  string  `bson:"username"`
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
	// Timestamp is in milliseconds since the epoch.
	Timestamp int64 `bson:"timestamp"`
}

var (
	UsernameKey  = bsonutil.MustHaveTag(Location{}, "Username")
	LatitudeKey  = bsonutil.MustHaveTag(Location{}, "Latitude")
	LongitudeKey = bsonutil.MustHaveTag(Location{}, "Longitude")
	TimestampKey = bsonutil.MustHaveTag(Location{}, "Timestamp")
)

func (l *Location) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(l.Username == "", "username must not be empty")
	catcher.ErrorfWhen(l.Latitude < -90 || l.Latitude > 90, "latitude %g out of range", l.Latitude)
	catcher.ErrorfWhen(l.Longitude < -180 || l.Longitude > 180, "longitude %g out of range", l.Longitude)
	catcher.ErrorfWhen(l.Timestamp < 0, "timestamp %d must not be negative", l.Timestamp)
	return catcher.Resolve()
}

// Time returns the timestamp as a time.
func (l *Location) Time() time.Time {
	return time.UnixMilli(l.Timestamp)
}

func EnsureIndexes(ctx context.Context, coll *db.Collection) error {
	return coll.EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: UsernameKey, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}

// Find returns the locations matching the query.
func Find(ctx context.Context, coll *db.Collection, q db.Q) ([]Location, error) {
	locations := []Location{}
	if err := coll.FindAll(ctx, q, &locations); err != nil {
		return nil, errors.Wrap(err, "finding locations")
	}
	return locations, nil
}

// FindByUsername returns the user's location, or nil if none is recorded.
func FindByUsername(ctx context.Context, coll *db.Collection, username string) (*Location, error) {
	l := &Location{}
	err := coll.FindOneInto(ctx, db.Query(bson.M{UsernameKey: username}), l)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding location for '%s'", username)
	}
	return l, nil
}

// Upsert records the location for its username, replacing any earlier one.
// A zero timestamp is set to the current time.
func Upsert(ctx context.Context, coll *db.Collection, l *Location) (*db.UpdateResult, error) {
	if l.Timestamp == 0 {
		l.Timestamp = time.Now().UnixMilli()
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid location")
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{UsernameKey: l.Username},
		bson.M{"$set": bson.M{
			LatitudeKey:  l.Latitude,
			LongitudeKey: l.Longitude,
			TimestampKey: l.Timestamp,
		}},
		true,
	)
	return res, errors.Wrapf(err, "upserting location for '%s'", l.Username)
}
