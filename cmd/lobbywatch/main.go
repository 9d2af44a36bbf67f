package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"lobbywatch/internal/config"
	"lobbywatch/internal/constants"
	fxmodules "lobbywatch/internal/fx"
	"lobbywatch/internal/matchmaking"
	"lobbywatch/internal/server"
	"lobbywatch/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	args, err := config.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := fx.New(
		fx.Supply(args),
		fxmodules.Module,
		fx.NopLogger,
		fx.Invoke(runWatcher),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "lobbywatch: %v\n", err)
		os.Exit(1)
	}
	app.Run()
}

func runWatcher(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	driver *matchmaking.Driver,
	poller *service.Poller,
	status *server.StatusServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	var srv *http.Server
	if cfg.StatusAddr != "" {
		srv = &http.Server{
			Addr:    cfg.StatusAddr,
			Handler: status.Handler(),
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				driver.Run(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				err := poller.Run(ctx)
				if err != nil {
					logger.Error().Err(err).Msg("poller failed")
					shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				// single-shot mode finishes on its own
				if ctx.Err() == nil {
					shutdowner.Shutdown()
				}
			}()

			if srv != nil {
				go func() {
					logger.Info().Str("addr", srv.Addr).Msg("status server starting")
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error().Err(err).Msg("status server failed")
						shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
			}
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Debug().Msg("stopping watcher")
			cancel()
			wg.Wait()

			if srv == nil {
				return nil
			}
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("status server shutdown failed")
				return err
			}
			logger.Info().Msg("status server stopped")
			return nil
		},
	})
}
