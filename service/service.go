// Package service assembles the store's HTTP handler and server from the
// application environment.
package service

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"time"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
	"github.com/awesome-store/store/rest/data"
	"github.com/awesome-store/store/rest/route"
	"github.com/evergreen-ci/gimlet"
	"github.com/jpillora/backoff"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	timeoutMessage = `{"status":503,"error":"request timed out"}`

	minIndexBackoff = 100 * time.Millisecond
	maxIndexBackoff = 5 * time.Second
)

// GetServer produces an HTTP server instance for a handler.
func GetServer(addr string, n http.Handler) *http.Server {
	grip.Notice(message.Fields{
		"action":  "starting service",
		"service": addr,
		"build":   store.BuildRevision,
		"process": grip.Name(),
	})

	return &http.Server{
		Addr:              addr,
		Handler:           n,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      time.Minute,
	}
}

// GetHandler builds the store's handler over the environment's database.
func GetHandler(env store.Environment) (http.Handler, error) {
	settings := env.Settings()
	sc := data.NewDBConnector(env.DB(), store.ItemCollection, settings.Image)

	var candies data.Connector
	if settings.Api.CandyRoutes {
		candies = data.NewDBConnector(env.DB(), store.CandyCollection, settings.Image)
	}

	return GetRouter(sc, candies, settings.Api)
}

// GetRouter attaches the routes to a new application with request logging
// and panic recovery. Requests that run longer than the configured timeout
// get a 503.
func GetRouter(sc, candies data.Connector, conf store.APIConfig) (http.Handler, error) {
	app := gimlet.NewApp()
	app.ResetMiddleware()
	app.AddMiddleware(gimlet.MakeRecoveryLogger())
	app.AddMiddleware(gimlet.NewAppLogger())

	route.AttachHandlers(app, sc, route.ServiceOptions{
		Name:     store.ServiceName,
		Version:  store.ClientVersion,
		Revision: store.BuildRevision,
		Candies:  candies,
	})

	h, err := app.Handler()
	if err != nil {
		return nil, errors.Wrap(err, "resolving routes")
	}

	if conf.RequestTimeoutSecs > 0 {
		h = http.TimeoutHandler(h, time.Duration(conf.RequestTimeoutSecs)*time.Second, timeoutMessage)
	}

	return h, nil
}

// GetTLSConfig returns the server TLS configuration. When CA certificates
// are configured, clients presenting a certificate are verified against them.
func GetTLSConfig(conf store.APIConfig) (*tls.Config, error) {
	if !conf.TLSEnabled() {
		return nil, nil
	}

	tlsConf := &tls.Config{MinVersion: tls.VersionTLS12}
	if conf.TLSCACerts == "" {
		return tlsConf, nil
	}

	pem, err := os.ReadFile(conf.TLSCACerts)
	if err != nil {
		return nil, errors.Wrapf(err, "reading CA certificates '%s'", conf.TLSCACerts)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.Errorf("no certificates found in '%s'", conf.TLSCACerts)
	}
	tlsConf.ClientCAs = pool
	tlsConf.ClientAuth = tls.VerifyClientCertIfGiven

	return tlsConf, nil
}

// EnsureIndexes creates the indexes the routes rely on for every given item
// collection and the shared collections.
func EnsureIndexes(ctx context.Context, database *db.Database, itemCollections ...string) error {
	catcher := grip.NewBasicCatcher()
	for _, name := range itemCollections {
		catcher.Wrapf(item.EnsureIndexes(ctx, database.Collection(name)), "ensuring indexes for '%s'", name)
	}
	catcher.Wrap(category.EnsureIndexes(ctx, database.Collection(store.CategoryCollection)), "ensuring category indexes")
	catcher.Wrap(user.EnsureIndexes(ctx, database.Collection(store.UserCollection)), "ensuring user indexes")
	catcher.Wrap(location.EnsureIndexes(ctx, database.Collection(store.LocationCollection)), "ensuring location indexes")
	return catcher.Resolve()
}

// WaitForIndexes retries EnsureIndexes with exponential backoff, for a
// database that may still be starting.
func WaitForIndexes(ctx context.Context, database *db.Database, attempts int, itemCollections ...string) error {
	interval := backoff.Backoff{
		Min:    minIndexBackoff,
		Max:    maxIndexBackoff,
		Factor: 2,
	}

	catcher := grip.NewBasicCatcher()
	for i := 0; i < attempts; i++ {
		err := EnsureIndexes(ctx, database, itemCollections...)
		if err == nil {
			return nil
		}
		catcher.Add(err)

		wait := interval.Duration()
		grip.Debug(message.WrapError(err, message.Fields{
			"message": "ensuring indexes failed, retrying",
			"attempt": i + 1,
			"wait":    wait.String(),
		}))
		select {
		case <-ctx.Done():
			catcher.Add(ctx.Err())
			return catcher.Resolve()
		case <-time.After(wait):
		}
	}
	return errors.Wrapf(catcher.Resolve(), "ensuring indexes after %d attempts", attempts)
}
