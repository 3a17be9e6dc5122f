// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package daemon runs the long-lived serve mode: inspection server,
// settings watcher and reload wiring.
package daemon

import (
	"context"
	"os"
	"os/signal"

	"github.com/ManuGH/wpconf/internal/config"
	xglog "github.com/ManuGH/wpconf/internal/log"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server is the part of the inspection server the daemon drives.
type Server interface {
	ListenAndServe(ctx context.Context) error
}

// App owns the runtime lifecycle.
type App struct {
	logger       zerolog.Logger
	holder       *config.Holder
	server       Server
	watch        bool
	followDebug  bool
	reloadSignal os.Signal
}

// Option configures an App.
type Option func(*App)

// WithWatch enables the settings file watcher.
func WithWatch(on bool) Option {
	return func(a *App) { a.watch = on }
}

// WithDebugLogLevel makes the process log level follow the site's debug
// flag: debug when it is on, info otherwise.
func WithDebugLogLevel(on bool) Option {
	return func(a *App) { a.followDebug = on }
}

// WithReloadSignal reloads the settings whenever sig is received.
func WithReloadSignal(sig os.Signal) Option {
	return func(a *App) { a.reloadSignal = sig }
}

// NewApp creates a new App.
func NewApp(logger zerolog.Logger, holder *config.Holder, server Server, opts ...Option) *App {
	a := &App{logger: logger, holder: holder, server: server}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best-effort: serving must not fail if it cannot start.
	if a.watch {
		if err := a.holder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str(xglog.FieldEvent, "config.watcher_start_failed").Msg("failed to start settings watcher")
		} else {
			defer a.holder.Stop()
		}
	}

	if a.followDebug {
		applyLogLevel(a.holder.Get())
		updates := make(chan config.Settings, 1)
		a.holder.RegisterListener(updates)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case next := <-updates:
					applyLogLevel(next)
				}
			}
		})
	}

	if a.reloadSignal != nil {
		g.Go(func() error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, a.reloadSignal)
			defer signal.Stop(sigCh)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-sigCh:
					a.logger.Info().
						Str(xglog.FieldEvent, "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading settings")
					if err := a.holder.Reload(ctx); err != nil {
						a.logger.Warn().Err(err).Str(xglog.FieldEvent, "config.reload_failed").Msg("settings reload failed")
					}
				}
			}
		})
	}

	g.Go(func() error {
		return a.server.ListenAndServe(ctx)
	})

	return g.Wait()
}

func applyLogLevel(s config.Settings) {
	if s.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

