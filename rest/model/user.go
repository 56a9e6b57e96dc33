package model

import (
	"github.com/awesome-store/store/model/user"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// APIUser is the model of a user as returned by the API. It never carries
// the password.
type APIUser struct {
	ID        *string `json:"_id,omitempty"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
}

func (a *APIUser) BuildFromService(u user.User) {
	a.ID = idPtr(u.ID)
	a.FirstName = utility.ToStringPtr(u.FirstName)
	a.LastName = utility.ToStringPtr(u.LastName)
	a.Username = utility.ToStringPtr(u.Username)
	a.Email = utility.ToStringPtr(u.Email)
}

// APIRegisterUser is the body of a registration or profile update. The
// password is plain text here and hashed by the service layer.
type APIRegisterUser struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// ToService returns a service layer user. Registration requires every
// identifying field; see user.User.Validate.
func (a *APIRegisterUser) ToService() (*user.User, error) {
	u := &user.User{
		FirstName: utility.FromStringPtr(a.FirstName),
		LastName:  utility.FromStringPtr(a.LastName),
		Username:  utility.FromStringPtr(a.Username),
		Email:     utility.FromStringPtr(a.Email),
		Password:  utility.FromStringPtr(a.Password),
	}
	if err := u.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid user")
	}
	return u, nil
}

// ToUpdate returns the fields to change on an existing user. The username is
// taken from the route, not the body.
func (a *APIRegisterUser) ToUpdate() (*user.User, error) {
	u := &user.User{
		FirstName: utility.FromStringPtr(a.FirstName),
		LastName:  utility.FromStringPtr(a.LastName),
		Email:     utility.FromStringPtr(a.Email),
		Password:  utility.FromStringPtr(a.Password),
	}

	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(a.Username != nil, "username cannot be changed")
	catcher.NewWhen(*u == user.User{}, "no fields to update")
	return u, catcher.Resolve()
}

type APILoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (a *APILoginRequest) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(utility.FromStringPtr(a.Username) == "", "missing username")
	catcher.NewWhen(utility.FromStringPtr(a.Password) == "", "missing password")
	return catcher.Resolve()
}

// APILoginResponse reports the outcome of a login or registration.
type APILoginResponse struct {
	Success bool     `json:"success"`
	Detail  string   `json:"detail"`
	User    *APIUser `json:"user,omitempty"`
}
