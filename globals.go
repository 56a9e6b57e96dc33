package store

import (
	"os"
	"time"
)

const (
	ServiceName = "awesome-store"

	ClientVersion = "1.2.0"

	StoreHome = "STORE_HOME"

	DefaultDatabaseName   = "awesome_store"
	DefaultSettingsFile   = "store_settings.yml"
	DefaultEnvFile        = ".env"
	DefaultServicePort    = 8000
	DefaultServiceHost    = "0.0.0.0"
	DefaultDataDirectory  = "data"
	DefaultShutdownWait   = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// BuildRevision is the commit hash of the build, set with -ldflags.
var BuildRevision = ""

// collection names
const (
	ItemCollection     = "items"
	CategoryCollection = "categories"
	UserCollection     = "users"
	LocationCollection = "locations"

	// CandyCollection is the collection used by the candy store
	// deployment, served under the /candies routes.
	CandyCollection = "candies"
)

// environment variables holding secrets
const (
	EnvStoreUser     = "STORE_USER"
	EnvStorePassword = "STORE_PASSWORD"
	EnvDBHost        = "STORE_DB_HOST"
	EnvDBPort        = "STORE_DB_PORT"
	EnvDBName        = "STORE_DB_NAME"
	EnvSSLCertFile   = "SSL_CERTFILE"
	EnvSSLKeyFile    = "SSL_KEYFILE"
	EnvSSLCACerts    = "SSL_CA_CERTS"
)

// FindStoreHome returns the directory named by the STORE_HOME environment
// variable, falling back to the working directory.
func FindStoreHome() string {
	if root := os.Getenv(StoreHome); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
