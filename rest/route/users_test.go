package route

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(ctx context.Context, t *testing.T, sc data.Connector, body string) gimlet.Responder {
	h := makeRegisterUser(sc)
	req, err := http.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
	require.NoError(t, err)
	require.NoError(t, h.Parse(ctx, req))
	return h.Run(ctx)
}

const adaJSON = `{"first_name": "Ada", "last_name": "Lovelace", "username": "ada", "email": "ada@example.com", "password": "engine"}`

func TestRegisterUser(t *testing.T) {
	for tName, tCase := range map[string]func(ctx context.Context, t *testing.T, sc *data.MockConnector){
		"Succeeds": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			resp := registerUser(ctx, t, sc, adaJSON)
			require.Equal(t, http.StatusOK, resp.Status())
			body, ok := resp.Data().(*model.APILoginResponse)
			require.True(t, ok)
			assert.True(t, body.Success)
			require.NotNil(t, body.User)
			assert.Equal(t, "ada", utility.FromStringPtr(body.User.Username))

			require.Len(t, sc.Users, 1)
			assert.NotEqual(t, "engine", sc.Users[0].Password)
			assert.True(t, sc.Users[0].CheckPassword("engine"))
		},
		"DuplicateUsernameConflicts": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			require.Equal(t, http.StatusOK, registerUser(ctx, t, sc, adaJSON).Status())

			resp := registerUser(ctx, t, sc, `{"username": "ada", "email": "other@example.com", "password": "x"}`)
			assert.Equal(t, http.StatusConflict, resp.Status())
			assert.Len(t, sc.Users, 1)
		},
		"DuplicateEmailConflicts": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			require.Equal(t, http.StatusOK, registerUser(ctx, t, sc, adaJSON).Status())

			resp := registerUser(ctx, t, sc, `{"username": "countess", "email": "ada@example.com", "password": "x"}`)
			assert.Equal(t, http.StatusConflict, resp.Status())
			assert.Len(t, sc.Users, 1)
		},
		"InvalidBodyFailsParse": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makeRegisterUser(sc)
			req, err := http.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"username": "ada"}`))
			require.NoError(t, err)
			assert.Error(t, h.Parse(ctx, req))
		},
	} {
		t.Run(tName, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tCase(ctx, t, &data.MockConnector{})
		})
	}
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	sc := &data.MockConnector{}
	require.Equal(t, http.StatusOK, registerUser(ctx, t, sc, adaJSON).Status())

	for name, test := range map[string]struct {
		body    string
		success bool
		detail  string
	}{
		"Correct":       {body: `{"username": "ada", "password": "engine"}`, success: true, detail: "Login successful"},
		"WrongPassword": {body: `{"username": "ada", "password": "loom"}`, detail: "Incorrect password"},
		"UnknownUser":   {body: `{"username": "babbage", "password": "engine"}`, detail: "Username does not exist."},
	} {
		t.Run(name, func(t *testing.T) {
			h := makeLoginUser(sc)
			req, err := http.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(test.body))
			require.NoError(t, err)
			require.NoError(t, h.Parse(ctx, req))

			resp := h.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			body := resp.Data().(*model.APILoginResponse)
			assert.Equal(t, test.success, body.Success)
			assert.Equal(t, test.detail, body.Detail)
			assert.Equal(t, test.success, body.User != nil)
		})
	}

	h := makeLoginUser(sc)
	req, err := http.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"username": "ada"}`))
	require.NoError(t, err)
	assert.Error(t, h.Parse(ctx, req))
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	sc := &data.MockConnector{}
	require.Equal(t, http.StatusOK, registerUser(ctx, t, sc, adaJSON).Status())

	h := makeGetUser(sc)
	req, err := http.NewRequest(http.MethodGet, "/users/ada", nil)
	require.NoError(t, err)
	req = gimlet.SetURLVars(req, map[string]string{"username": "ada"})
	require.NoError(t, h.Parse(ctx, req))

	resp := h.Run(ctx)
	require.Equal(t, http.StatusOK, resp.Status())
	u := resp.Data().(map[string]interface{})["user"].(model.APIUser)
	assert.Equal(t, "Lovelace", utility.FromStringPtr(u.LastName))

	h = h.Factory()
	req = gimlet.SetURLVars(req, map[string]string{"username": "babbage"})
	require.NoError(t, h.Parse(ctx, req))
	assert.Equal(t, http.StatusNotFound, h.Run(ctx).Status())
}

func TestPutUser(t *testing.T) {
	for tName, tCase := range map[string]func(ctx context.Context, t *testing.T, sc *data.MockConnector){
		"UpdatesPassword": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makePutUser(sc)
			req, err := http.NewRequest(http.MethodPut, "/users/ada", bytes.NewBufferString(`{"username": "ada", "password": "difference"}`))
			require.NoError(t, err)
			req = gimlet.SetURLVars(req, map[string]string{"username": "ada"})
			require.NoError(t, h.Parse(ctx, req))

			resp := h.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			assert.EqualValues(t, 1, resp.Data().(*db.UpdateResult).MatchedCount)
			assert.True(t, sc.Users[0].CheckPassword("difference"))
		},
		"RenameFailsParse": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makePutUser(sc)
			req, err := http.NewRequest(http.MethodPut, "/users/ada", bytes.NewBufferString(`{"username": "countess"}`))
			require.NoError(t, err)
			req = gimlet.SetURLVars(req, map[string]string{"username": "ada"})
			assert.Error(t, h.Parse(ctx, req))
		},
		"UnknownUserIsNotFound": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makePutUser(sc)
			req, err := http.NewRequest(http.MethodPut, "/users/babbage", bytes.NewBufferString(`{"first_name": "Charles"}`))
			require.NoError(t, err)
			req = gimlet.SetURLVars(req, map[string]string{"username": "babbage"})
			require.NoError(t, h.Parse(ctx, req))

			assert.Equal(t, http.StatusNotFound, h.Run(ctx).Status())
		},
	} {
		t.Run(tName, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sc := &data.MockConnector{}
			require.Equal(t, http.StatusOK, registerUser(ctx, t, sc, adaJSON).Status())
			tCase(ctx, t, sc)
		})
	}
}
