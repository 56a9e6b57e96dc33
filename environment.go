package store

import (
	"context"
	"sync"
	"time"

	"github.com/awesome-store/store/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

var (
	globalEnv     Environment
	globalEnvLock *sync.RWMutex
)

func init() { globalEnvLock = &sync.RWMutex{} }

// GetEnvironment returns the global application level environment. This
// implementation is thread safe, but must be configured before use.
//
// In general you should call this operation once per process execution and
// pass the Environment interface through your application like a context.
func GetEnvironment() Environment {
	globalEnvLock.RLock()
	defer globalEnvLock.RUnlock()

	return globalEnv
}

func SetEnvironment(env Environment) {
	globalEnvLock.Lock()
	defer globalEnvLock.Unlock()

	globalEnv = env
}

// Environment provides application-level services: the settings and the
// database connection.
type Environment interface {
	// Returns the settings object. The settings object is not
	// necessarily safe for concurrent access.
	Settings() *Settings

	Manager() *db.Manager
	DB() *db.Database

	// RegisterCloser adds a function object to an internal
	// tracker to be called by the Close method before process
	// termination. The ID is used in reporting, but must be
	// unique or a new closer could overwrite an existing closer.
	RegisterCloser(string, func(context.Context) error)
	// Close calls all registered closers in the environment.
	Close(context.Context) error
}

// NewEnvironment constructs an Environment instance from the settings file at
// confPath and the environment variables in envFile, and establishes the
// database connection. An unreachable database is logged, not returned.
//
// An empty confPath uses default settings.
func NewEnvironment(ctx context.Context, confPath, envFile string) (Environment, error) {
	settings := &Settings{}
	if confPath != "" {
		var err error
		settings, err = NewSettings(confPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := settings.LoadEnv(envFile); err != nil {
		return nil, errors.Wrap(err, "loading environment variables")
	}

	return NewEnvironmentFromSettings(ctx, settings)
}

// NewEnvironmentFromSettings validates the settings and connects to the
// database they describe.
func NewEnvironmentFromSettings(ctx context.Context, settings *Settings) (Environment, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	e := &envState{
		settings: settings,
		closers:  map[string]func(context.Context) error{},
	}

	manager, err := db.NewManager(ctx, settings.Database.ConnectionOptions())
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	e.manager = manager
	e.RegisterCloser("database", manager.Close)

	grip.Info(message.Fields{
		"message":  "initialized environment",
		"database": settings.Database.DB,
		"manager":  manager.String(),
		"version":  ClientVersion,
		"revision": BuildRevision,
	})

	return e, nil
}

type envState struct {
	settings *Settings
	manager  *db.Manager
	closers  map[string]func(context.Context) error
	mu       sync.RWMutex
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Manager() *db.Manager {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.manager
}

func (e *envState) DB() *db.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.manager.Database(e.settings.Database.DB)
}

func (e *envState) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.closers[name]; ok {
		grip.Critical(message.Fields{
			"closer":  name,
			"message": "duplicate closer registered",
			"cause":   "programmer error",
		})
	}
	e.closers[name] = closer
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	deadline, _ := ctx.Deadline()
	catcher := grip.NewBasicCatcher()
	wg := &sync.WaitGroup{}
	for n, closer := range e.closers {
		if closer == nil {
			continue
		}

		wg.Add(1)
		go func(name string, close func(context.Context) error) {
			defer wg.Done()
			grip.Info(message.Fields{
				"message":      "calling closer",
				"closer":       name,
				"timeout_secs": time.Until(deadline),
				"deadline":     deadline,
			})
			catcher.Wrapf(close(ctx), "closing '%s'", name)
		}(n, closer)
	}

	wg.Wait()
	return catcher.Resolve()
}
