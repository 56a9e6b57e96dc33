package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awesome-store/store/model/user"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/model"
	"github.com/awesome-store/store/util"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

////////////////////////////////////////////////
//
// POST /register

type registerHandler struct {
	sc   data.Connector
	user *user.User
}

func makeRegisterUser(sc data.Connector) gimlet.RouteHandler {
	return &registerHandler{sc: sc}
}

func (h *registerHandler) Factory() gimlet.RouteHandler {
	return &registerHandler{sc: h.sc}
}

func (h *registerHandler) Parse(ctx context.Context, r *http.Request) error {
	body := util.NewRequestReader(r)
	defer body.Close()

	apiUser := model.APIRegisterUser{}
	if err := utility.ReadJSON(body, &apiUser); err != nil {
		return errors.Wrap(err, "reading user from JSON request body")
	}

	var err error
	h.user, err = apiUser.ToService()
	return errors.Wrap(err, "invalid API input")
}

// Run registers the user. A taken username or email is a conflict.
func (h *registerHandler) Run(ctx context.Context) gimlet.Responder {
	if _, err := h.sc.RegisterUser(ctx, h.user); err != nil {
		if user.IsDuplicateUser(err) {
			return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
				StatusCode: http.StatusConflict,
				Message:    fmt.Sprintf("username '%s' or its email is already registered", h.user.Username),
			})
		}
		return writeErrorResponder(err, fmt.Sprintf("registering user '%s'", h.user.Username))
	}

	grip.Info(message.Fields{
		"message":  "registered user",
		"username": h.user.Username,
	})

	apiUser := &model.APIUser{}
	apiUser.BuildFromService(*h.user)
	return gimlet.NewJSONResponse(&model.APILoginResponse{
		Success: true,
		Detail:  "Registration successful",
		User:    apiUser,
	})
}

////////////////////////////////////////////////
//
// POST /login

type loginHandler struct {
	sc data.Connector
	p  model.APILoginRequest
}

func makeLoginUser(sc data.Connector) gimlet.RouteHandler {
	return &loginHandler{sc: sc}
}

func (h *loginHandler) Factory() gimlet.RouteHandler {
	return &loginHandler{sc: h.sc}
}

func (h *loginHandler) Parse(ctx context.Context, r *http.Request) error {
	body := util.NewRequestReader(r)
	defer body.Close()

	if err := utility.ReadJSON(body, &h.p); err != nil {
		return errors.Wrap(err, "reading credentials from JSON request body")
	}
	return errors.Wrap(h.p.Validate(), "invalid API input")
}

// Run checks the credentials. A failed login is still a successful request;
// the body says why it failed.
func (h *loginHandler) Run(ctx context.Context) gimlet.Responder {
	username := utility.FromStringPtr(h.p.Username)
	u, detail, err := h.sc.LoginUser(ctx, username, utility.FromStringPtr(h.p.Password))
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("logging in user '%s'", username))
	}

	resp := &model.APILoginResponse{Success: u != nil, Detail: detail}
	if u != nil {
		resp.User = &model.APIUser{}
		resp.User.BuildFromService(*u)
	}
	return gimlet.NewJSONResponse(resp)
}

////////////////////////////////////////////////
//
// GET /users/{username}

type userGetHandler struct {
	sc       data.Connector
	username string
}

func makeGetUser(sc data.Connector) gimlet.RouteHandler {
	return &userGetHandler{sc: sc}
}

func (h *userGetHandler) Factory() gimlet.RouteHandler {
	return &userGetHandler{sc: h.sc}
}

func (h *userGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.username = gimlet.GetVars(r)["username"]
	if h.username == "" {
		return notFound("missing username")
	}
	return nil
}

func (h *userGetHandler) Run(ctx context.Context) gimlet.Responder {
	u, err := h.sc.FindUserByUsername(ctx, h.username)
	if err != nil {
		return readErrorResponder(err, fmt.Sprintf("finding user '%s'", h.username))
	}
	if u == nil {
		return gimlet.MakeJSONErrorResponder(notFound("user '%s' not found", h.username))
	}

	apiUser := model.APIUser{}
	apiUser.BuildFromService(*u)
	return gimlet.NewJSONResponse(map[string]interface{}{
		"user": apiUser,
	})
}

////////////////////////////////////////////////
//
// PUT /users/{username}

type userPutHandler struct {
	sc       data.Connector
	username string
	changes  *user.User
}

func makePutUser(sc data.Connector) gimlet.RouteHandler {
	return &userPutHandler{sc: sc}
}

func (h *userPutHandler) Factory() gimlet.RouteHandler {
	return &userPutHandler{sc: h.sc}
}

func (h *userPutHandler) Parse(ctx context.Context, r *http.Request) error {
	h.username = gimlet.GetVars(r)["username"]
	if h.username == "" {
		return notFound("missing username")
	}

	body := util.NewRequestReader(r)
	defer body.Close()

	apiUser := model.APIRegisterUser{}
	if err := utility.ReadJSON(body, &apiUser); err != nil {
		return errors.Wrap(err, "reading user from JSON request body")
	}
	if username := utility.FromStringPtr(apiUser.Username); username == h.username {
		apiUser.Username = nil
	}

	var err error
	h.changes, err = apiUser.ToUpdate()
	return errors.Wrap(err, "invalid API input")
}

func (h *userPutHandler) Run(ctx context.Context) gimlet.Responder {
	res, err := h.sc.UpdateUser(ctx, h.username, h.changes)
	if err != nil {
		if user.IsDuplicateUser(err) {
			return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
				StatusCode: http.StatusConflict,
				Message:    fmt.Sprintf("email '%s' is already registered", h.changes.Email),
			})
		}
		return writeErrorResponder(err, fmt.Sprintf("updating user '%s'", h.username))
	}
	if res.Acknowledged && res.MatchedCount == 0 {
		return gimlet.MakeJSONErrorResponder(notFound("user '%s' not found", h.username))
	}

	return gimlet.NewJSONResponse(res)
}
