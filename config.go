package store

import (
	"os"
	"time"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Settings contains all configuration settings for running the store. Secrets
// are not expected in the settings file; they are read from the environment
// by LoadEnv.
type Settings struct {
	Database DBSettings    `yaml:"database"`
	Api      APIConfig     `yaml:"api"`
	Loader   LoaderConfig  `yaml:"loader"`
	Logging  LoggingConfig `yaml:"logging"`
	Image    ImageConfig   `yaml:"image"`
}

// DBSettings configures the connection to the document store.
type DBSettings struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	DB                    string `yaml:"db"`
	Username              string `yaml:"username"`
	Password              string `yaml:"password"`
	AuthSource            string `yaml:"auth_source"`
	URL                   string `yaml:"url"`
	TLSCAFile             string `yaml:"tls_ca_file"`
	TLSCertificateKeyFile string `yaml:"tls_certificate_key_file"`
	ConnectTimeoutSecs    int    `yaml:"connect_timeout_secs"`
}

// ConnectionOptions converts the settings to the options of a db.Manager.
func (s *DBSettings) ConnectionOptions() db.ConnectionOptions {
	return db.ConnectionOptions{
		Username:              s.Username,
		Password:              s.Password,
		Host:                  s.Host,
		Port:                  s.Port,
		Database:              s.DB,
		AuthSource:            s.AuthSource,
		URI:                   s.URL,
		TLSCAFile:             s.TLSCAFile,
		TLSCertificateKeyFile: s.TLSCertificateKeyFile,
		ConnectTimeout:        time.Duration(s.ConnectTimeoutSecs) * time.Second,
	}
}

// APIConfig configures the REST service.
type APIConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	TLSCertFile         string `yaml:"tls_cert_file"`
	TLSKeyFile          string `yaml:"tls_key_file"`
	TLSCACerts          string `yaml:"tls_ca_certs"`
	RequestTimeoutSecs  int    `yaml:"request_timeout_secs"`
	ShutdownWaitSeconds int    `yaml:"shutdown_wait_secs"`
	// CandyRoutes serves the /candies routes over the candy collection.
	CandyRoutes bool `yaml:"candy_routes"`
}

// TLSEnabled reports whether both halves of the server key pair are set.
func (c *APIConfig) TLSEnabled() bool { return c.TLSCertFile != "" && c.TLSKeyFile != "" }

// LoaderConfig configures the fixture loader.
type LoaderConfig struct {
	DataDir        string `yaml:"data_dir"`
	ValidatorsFile string `yaml:"validators_file"`
	UsersFile      string `yaml:"users_file"`
	Reset          bool   `yaml:"reset"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ImageConfig configures how stored image URLs are fetched.
type ImageConfig struct {
	MaxRetries   int `yaml:"max_retries"`
	TimeoutSecs  int `yaml:"timeout_secs"`
	MaxSizeBytes int `yaml:"max_size_bytes"`
}

// NewSettings builds an in-memory representation of the given settings file.
func NewSettings(filename string) (*Settings, error) {
	settings := &Settings{}
	if err := util.ReadFromYAMLFile(filename, settings); err != nil {
		return nil, errors.Wrapf(err, "reading settings file '%s'", filename)
	}

	return settings, nil
}

// LoadEnv overlays secrets and connection details from a dotenv file and the
// process environment. Process environment variables win over the file. A
// missing file is not an error.
func (s *Settings) LoadEnv(envFile string) error {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err = v.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading env file '%s'", envFile)
			}
		}
	}

	setString := func(key string, dst *string) {
		if val := v.GetString(key); val != "" {
			*dst = val
		}
	}

	setString(EnvStoreUser, &s.Database.Username)
	setString(EnvStorePassword, &s.Database.Password)
	setString(EnvDBHost, &s.Database.Host)
	setString(EnvDBName, &s.Database.DB)
	setString(EnvSSLCertFile, &s.Api.TLSCertFile)
	setString(EnvSSLKeyFile, &s.Api.TLSKeyFile)
	setString(EnvSSLCACerts, &s.Api.TLSCACerts)

	if v.IsSet(EnvDBPort) && v.GetString(EnvDBPort) != "" {
		port := v.GetInt(EnvDBPort)
		if port == 0 {
			return errors.Errorf("invalid value '%s' for %s", v.GetString(EnvDBPort), EnvDBPort)
		}
		s.Database.Port = port
	}

	return nil
}

// Validate fills in defaults and checks the settings for errors.
func (s *Settings) Validate() error {
	if s.Database.Host == "" && s.Database.URL == "" {
		s.Database.Host = db.DefaultHost
	}
	if s.Database.Port == 0 {
		s.Database.Port = db.DefaultPort
	}
	if s.Database.DB == "" {
		s.Database.DB = DefaultDatabaseName
	}
	if s.Api.Host == "" {
		s.Api.Host = DefaultServiceHost
	}
	if s.Api.Port == 0 {
		s.Api.Port = DefaultServicePort
	}
	if s.Api.RequestTimeoutSecs == 0 {
		s.Api.RequestTimeoutSecs = int(DefaultRequestTimeout / time.Second)
	}
	if s.Api.ShutdownWaitSeconds == 0 {
		s.Api.ShutdownWaitSeconds = int(DefaultShutdownWait / time.Second)
	}
	if s.Loader.DataDir == "" {
		s.Loader.DataDir = DefaultDataDirectory
	}
	if s.Logging.Level == "" {
		s.Logging.Level = level.Info.String()
	}
	if s.Image.TimeoutSecs == 0 {
		s.Image.TimeoutSecs = 30
	}
	if s.Image.MaxSizeBytes == 0 {
		s.Image.MaxSizeBytes = 10 * 1024 * 1024
	}

	catcher := grip.NewBasicCatcher()
	catcher.ErrorfWhen(s.Database.Port < 0 || s.Database.Port > 65535, "invalid database port %d", s.Database.Port)
	catcher.ErrorfWhen(s.Api.Port < 0 || s.Api.Port > 65535, "invalid service port %d", s.Api.Port)
	catcher.NewWhen((s.Database.Username == "") != (s.Database.Password == "") && s.Database.URL == "",
		"database username and password must be set together")
	catcher.NewWhen((s.Api.TLSCertFile == "") != (s.Api.TLSKeyFile == ""), "TLS certificate and key files must be set together")
	catcher.NewWhen(s.Api.TLSCACerts != "" && !s.Api.TLSEnabled(), "TLS CA certificates require a certificate and key")
	catcher.ErrorfWhen(s.Api.RequestTimeoutSecs < 0, "invalid request timeout %d", s.Api.RequestTimeoutSecs)
	catcher.ErrorfWhen(s.Image.MaxRetries < 0, "invalid image retry count %d", s.Image.MaxRetries)
	catcher.ErrorfWhen(s.Image.TimeoutSecs < 0, "invalid image timeout %d", s.Image.TimeoutSecs)
	catcher.ErrorfWhen(s.Image.MaxSizeBytes < 0, "invalid image size limit %d", s.Image.MaxSizeBytes)
	if lvl := level.FromString(s.Logging.Level); lvl == level.Invalid {
		catcher.Errorf("invalid log level '%s'", s.Logging.Level)
	}

	return catcher.Resolve()
}
