package user

import (
	"context"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "users"

var (
	IDKey        = bsonutil.MustHaveTag(User{}, "ID")
	FirstNameKey = bsonutil.MustHaveTag(User{}, "FirstName")
	LastNameKey  = bsonutil.MustHaveTag(User{}, "LastName")
	UsernameKey  = bsonutil.MustHaveTag(User{}, "Username")
	EmailKey     = bsonutil.MustHaveTag(User{}, "Email")
	PasswordKey  = bsonutil.MustHaveTag(User{}, "Password")
)

// ErrDuplicateUser is returned when the username or email is taken.
var ErrDuplicateUser = errors.New("username or email is already in use")

// EnsureIndexes makes usernames and emails unique. Registration relies on
// these indexes to reject duplicates.
func EnsureIndexes(ctx context.Context, coll *db.Collection) error {
	catcher := grip.NewBasicCatcher()
	for _, key := range []string{UsernameKey, EmailKey} {
		catcher.Add(coll.EnsureIndex(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}))
	}
	return catcher.Resolve()
}

// Find returns the users matching the query.
func Find(ctx context.Context, coll *db.Collection, q db.Q) ([]User, error) {
	users := []User{}
	if err := coll.FindAll(ctx, q, &users); err != nil {
		return nil, errors.Wrap(err, "finding users")
	}
	return users, nil
}

// FindByUsername returns the user, or nil if there is none.
func FindByUsername(ctx context.Context, coll *db.Collection, username string) (*User, error) {
	u := &User{}
	err := coll.FindOneInto(ctx, db.Query(bson.M{UsernameKey: username}), u)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding user '%s'", username)
	}
	return u, nil
}

// Register hashes the user's plain text password and stores the user. The
// password is always hashed, even when it already looks like a hash. A taken
// username or email returns ErrDuplicateUser.
func Register(ctx context.Context, coll *db.Collection, u *User) (*db.InsertResult, error) {
	if err := u.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid user")
	}
	if err := u.SetPassword(u.Password); err != nil {
		return nil, err
	}
	return insert(ctx, coll, u)
}

// RegisterHashed stores a user whose password is already a bcrypt hash, as
// seeded users may be.
func RegisterHashed(ctx context.Context, coll *db.Collection, u *User) (*db.InsertResult, error) {
	if err := u.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid user")
	}
	if !IsHash(u.Password) {
		return nil, errors.Errorf("password of user '%s' is not a bcrypt hash", u.Username)
	}
	return insert(ctx, coll, u)
}

func insert(ctx context.Context, coll *db.Collection, u *User) (*db.InsertResult, error) {
	res, err := coll.InsertOne(ctx, u)
	if db.IsDuplicateKey(err) {
		return nil, errors.Wrapf(ErrDuplicateUser, "registering user '%s'", u.Username)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "registering user '%s'", u.Username)
	}
	if len(res.InsertedIDs) == 1 && u.ID.IsZero() {
		u.ID = db.ParseID(res.InsertedIDs[0])
	}
	return res, nil
}

// Authenticate returns the user when the password matches. The returned
// detail explains a failed login.
func Authenticate(ctx context.Context, coll *db.Collection, username, password string) (*User, string, error) {
	u, err := FindByUsername(ctx, coll, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "Username does not exist.", nil
	}
	if !u.CheckPassword(password) {
		return nil, "Incorrect password", nil
	}
	return u, "Login successful", nil
}

// Update changes the profile of the named user. A non-empty password is
// re-hashed; an empty one leaves the stored hash alone. The username itself
// cannot change.
func Update(ctx context.Context, coll *db.Collection, username string, changes *User) (*db.UpdateResult, error) {
	set := bson.M{}
	if changes.FirstName != "" {
		set[FirstNameKey] = changes.FirstName
	}
	if changes.LastName != "" {
		set[LastNameKey] = changes.LastName
	}
	if changes.Email != "" {
		set[EmailKey] = changes.Email
	}
	if changes.Password != "" {
		hash, err := HashPassword(changes.Password)
		if err != nil {
			return nil, err
		}
		set[PasswordKey] = hash
	}
	if len(set) == 0 {
		return nil, errors.New("no user fields to update")
	}

	res, err := coll.UpdateOne(ctx, bson.M{UsernameKey: username}, bson.M{"$set": set}, false)
	if db.IsDuplicateKey(err) {
		return nil, errors.Wrapf(ErrDuplicateUser, "updating user '%s'", username)
	}
	return res, errors.Wrapf(err, "updating user '%s'", username)
}

func IsDuplicateUser(err error) bool {
	return errors.Cause(err) == ErrDuplicateUser
}
