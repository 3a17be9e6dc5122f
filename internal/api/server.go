// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves the read-only settings inspection surface.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/ManuGH/wpconf/internal/api/middleware"
	"github.com/ManuGH/wpconf/internal/config"
	"github.com/ManuGH/wpconf/internal/health"
	xglog "github.com/ManuGH/wpconf/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"
)

const (
	defaultShutdownTimeout   = 5 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxConns          = 64
)

// SettingsSource provides the current settings and their origin.
// *config.Holder satisfies it.
type SettingsSource interface {
	Get() config.Settings
	Sources() map[string]config.Source
}

// Config controls the HTTP listener.
type Config struct {
	ListenAddr      string
	EnableRateLimit bool
	// RateLimitWhitelist lists networks exempt from the /settings rate limit.
	RateLimitWhitelist []netip.Prefix
	ShutdownTimeout    time.Duration
	EnableTracing      bool
	// MaxConns caps concurrently accepted connections (default 64).
	MaxConns int
	// Health backs /healthz and /readyz. A monitor without checks is used when nil.
	Health *health.Monitor
}

// Server is the inspection HTTP server.
type Server struct {
	cfg    Config
	src    SettingsSource
	router chi.Router
	logger zerolog.Logger
}

// New builds a server for src. Routes are registered immediately.
func New(src SettingsSource, cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.Health == nil {
		cfg.Health = health.NewMonitor("")
	}
	s := &Server{
		cfg:    cfg,
		src:    src,
		logger: xglog.WithComponent("api"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes registers every operation of the generated ServerInterface. Only the
// settings operations are rate limited, so registration is done here rather
// than through HandlerWithOptions.
func (s *Server) routes() chi.Router {
	stack := middleware.StackConfig{EnableLogging: true}
	if s.cfg.EnableTracing {
		stack.TracingService = "wpconf"
	}
	r := middleware.NewRouter(stack)

	wrapper := ServerInterfaceWrapper{
		Handler:          s,
		ErrorHandlerFunc: writeBindError,
	}

	r.Get("/healthz", wrapper.GetHealth)
	r.Get("/readyz", wrapper.GetReady)
	r.Get("/openapi.yaml", wrapper.GetOpenAPI)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.EnableRateLimit {
			r.Use(middleware.InspectRateLimit(s.cfg.RateLimitWhitelist))
		}
		r.Get("/settings", wrapper.GetSettings)
		r.Get("/settings/env", wrapper.GetSettingsEnv)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. It takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	addr := ln.Addr().String()
	ln = netutil.LimitListener(ln, s.cfg.MaxConns)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(xglog.FieldEvent, "server.start").
			Str("addr", addr).
			Int("max_conns", s.cfg.MaxConns).
			Msg("inspection server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down inspection server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}
