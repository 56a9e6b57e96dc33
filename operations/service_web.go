package operations

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/service"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const indexAttempts = 5

func startWebService() cli.Command {
	return cli.Command{
		Name:  "web",
		Usage: "start the store REST API",
		Flags: serviceConfigFlags(
			cli.BoolFlag{
				Name:  candiesFlagName,
				Usage: "also serve the candy catalog under /candies",
			},
		),
		Before: requireSetFileExists(envFileFlagName),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := store.NewEnvironment(ctx, settingsPath(c), pathFlag(c, envFileFlagName))
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			store.SetEnvironment(env)
			settings := env.Settings()
			if c.Bool(candiesFlagName) {
				settings.Api.CandyRoutes = true
			}

			defer func() {
				closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer closeCancel()
				grip.Error(message.WrapError(env.Close(closeCtx), "closing environment"))
			}()
			if err = applyLogLevel(c, settings.Logging); err != nil {
				return err
			}

			itemCollections := []string{store.ItemCollection}
			if settings.Api.CandyRoutes {
				itemCollections = append(itemCollections, store.CandyCollection)
			}
			// An unreachable database should not keep the service from
			// starting; requests fail until it comes back.
			grip.Warning(message.WrapError(service.WaitForIndexes(ctx, env.DB(), indexAttempts, itemCollections...), message.Fields{
				"message":  "could not ensure indexes",
				"database": settings.Database.DB,
			}))

			handler, err := service.GetHandler(env)
			if err != nil {
				return errors.Wrap(err, "building handler")
			}

			srv := service.GetServer(fmt.Sprintf("%s:%d", settings.Api.Host, settings.Api.Port), handler)
			if srv.TLSConfig, err = service.GetTLSConfig(settings.Api); err != nil {
				return errors.Wrap(err, "configuring TLS")
			}

			serviceWait := make(chan error, 1)
			go func() {
				defer recovery.LogStackTraceAndContinue("store web service")
				serviceWait <- listen(srv, settings.Api)
			}()

			go listenForSignals(cancel)

			select {
			case err = <-serviceWait:
				return errors.Wrap(err, "running web service")
			case <-ctx.Done():
			}

			wait := time.Duration(settings.Api.ShutdownWaitSeconds) * time.Second
			grip.Notice(message.Fields{
				"message": "shutting down web service",
				"wait":    wait.String(),
			})
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), wait)
			defer shutdownCancel()

			catcher := grip.NewBasicCatcher()
			catcher.Wrap(srv.Shutdown(shutdownCtx), "shutting down web service")
			if err = <-serviceWait; err != nil && err != http.ErrServerClosed {
				catcher.Add(err)
			}
			return catcher.Resolve()
		},
	}
}

func listen(srv *http.Server, conf store.APIConfig) error {
	grip.Notice(message.Fields{
		"message": "listening",
		"address": srv.Addr,
		"tls":     conf.TLSEnabled(),
	})
	if conf.TLSEnabled() {
		return srv.ListenAndServeTLS(conf.TLSCertFile, conf.TLSKeyFile)
	}
	return srv.ListenAndServe()
}

func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan
	grip.Infof("received %s, terminating", sig)
	cancel()
}
