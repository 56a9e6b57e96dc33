package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultHost           = "localhost"
	DefaultPort           = 27017
	DefaultAuthSource     = "admin"
	DefaultConnectTimeout = 10 * time.Second
)

// ConnectionOptions describe how to reach the document store. Credentials are
// optional; when either the username or the password is missing the
// connection is unauthenticated.
type ConnectionOptions struct {
	Username   string
	Password   string
	Host       string
	Port       int
	Database   string
	AuthSource string
	// URI, if set, is used verbatim and overrides the host, port and
	// credential fields.
	URI string

	TLSCAFile             string
	TLSCertificateKeyFile string

	ConnectTimeout time.Duration
}

// Validate fills in defaults and checks that the options are usable.
func (o *ConnectionOptions) Validate() error {
	if o.Host == "" {
		o.Host = DefaultHost
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.AuthSource == "" {
		o.AuthSource = DefaultAuthSource
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	catcher := grip.NewBasicCatcher()
	catcher.ErrorfWhen(o.Port < 0 || o.Port > 65535, "invalid port %d", o.Port)
	catcher.NewWhen(o.TLSCertificateKeyFile != "" && o.TLSCAFile == "", "TLS certificate key file requires a CA file")
	return catcher.Resolve()
}

// HasCredentials reports whether the connection authenticates.
func (o *ConnectionOptions) HasCredentials() bool {
	return o.Username != "" && o.Password != ""
}

// URL returns the connection string for the options.
func (o *ConnectionOptions) URL() string {
	if o.URI != "" {
		return o.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/",
	}
	if o.HasCredentials() {
		u.User = url.UserPassword(o.Username, o.Password)
		u.Path = "/" + o.Database
		u.RawQuery = url.Values{"authSource": []string{o.AuthSource}}.Encode()
	}

	return u.String()
}

func (o *ConnectionOptions) clientOptions() *options.ClientOptions {
	uri := o.URL()
	if o.TLSCAFile != "" {
		// the driver builds its TLS configuration from the URI options
		params := url.Values{"tls": []string{"true"}, "tlsCAFile": []string{o.TLSCAFile}}
		if o.TLSCertificateKeyFile != "" {
			params.Set("tlsCertificateKeyFile", o.TLSCertificateKeyFile)
		}
		sep := "?"
		if u, err := url.Parse(uri); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		uri += sep + params.Encode()
	}

	return options.Client().ApplyURI(uri).SetConnectTimeout(o.ConnectTimeout)
}

// Manager owns the single client connection to the document store for the
// lifetime of the process. Databases and collections are selected through
// the handles it returns rather than through state on the manager.
type Manager struct {
	opts   ConnectionOptions
	client *mongo.Client
}

// NewManager connects to the document store. A failed connectivity check is
// logged but not returned: the manager is still usable and operations fail
// individually until the server becomes reachable.
func NewManager(ctx context.Context, opts ConnectionOptions) (*Manager, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid connection options")
	}

	client, err := mongo.Connect(ctx, opts.clientOptions())
	if err != nil {
		return nil, errors.Wrap(err, "constructing database client")
	}

	m := &Manager{opts: opts, client: client}

	if err := m.Ping(ctx); err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "database connectivity check failed",
			"host":    opts.Host,
			"port":    opts.Port,
		}))
	}

	return m, nil
}

// Ping runs the cheap, unauthenticated hello command against the server.
func (m *Manager) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.ConnectTimeout)
	defer cancel()

	res := m.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}})
	return errors.Wrap(res.Err(), "checking database connectivity")
}

// Client returns the underlying driver client.
func (m *Manager) Client() *mongo.Client { return m.client }

// Options returns the options the manager was created with, defaults applied.
func (m *Manager) Options() ConnectionOptions { return m.opts }

// Database returns a handle for the named database.
func (m *Manager) Database(name string) *Database {
	return &Database{db: m.client.Database(name)}
}

// DropDatabase deletes the named database.
func (m *Manager) DropDatabase(ctx context.Context, name string) error {
	return errors.Wrapf(m.client.Database(name).Drop(ctx), "dropping database '%s'", name)
}

// Close disconnects the client.
func (m *Manager) Close(ctx context.Context) error {
	return errors.Wrap(m.client.Disconnect(ctx), "disconnecting from database")
}

func (m *Manager) String() string {
	return fmt.Sprintf("Manager(host='%s', port=%d)", m.opts.Host, m.opts.Port)
}
