package user

import (
	"strings"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered customer. The password is only ever stored as a
// bcrypt hash.
type User struct {
	ID        db.ID  `bson:"_id,omitempty"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	Username  string `bson:"username"`
	Email     string `bson:"email"`
	Password  string `bson:"password"`
}

func (u *User) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(u.Username == "", "username must not be empty")
	catcher.NewWhen(strings.ContainsAny(u.Username, " \t\n/"), "username must not contain whitespace or slashes")
	catcher.NewWhen(u.Email == "", "email must not be empty")
	catcher.NewWhen(u.Email != "" && !strings.Contains(u.Email, "@"), "email must contain '@'")
	catcher.NewWhen(u.Password == "", "password must not be empty")
	return catcher.Resolve()
}

// SetPassword replaces the password with the hash of the given plain text.
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CheckPassword reports whether the plain text matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

// IsHash reports whether the value is a bcrypt hash.
func IsHash(password string) bool {
	_, err := bcrypt.Cost([]byte(password))
	return err == nil
}
