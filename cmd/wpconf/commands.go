// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/wpconf/internal/api"
	"github.com/ManuGH/wpconf/internal/api/middleware"
	"github.com/ManuGH/wpconf/internal/config"
	"github.com/ManuGH/wpconf/internal/daemon"
	"github.com/ManuGH/wpconf/internal/health"
	xglog "github.com/ManuGH/wpconf/internal/log"
	"github.com/ManuGH/wpconf/internal/telemetry"
	"github.com/ManuGH/wpconf/internal/version"
	"github.com/rs/zerolog"
)

func newFlagSet(name string, stderr io.Writer, file *string) *flag.FlagSet {
	fs := flag.NewFlagSet("wpconf "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(file, "file", "", "path to the settings file (.yaml or .env)")
	fs.StringVar(file, "f", "", "path to the settings file (shorthand)")
	return fs
}

func runValidate(args []string, stdout, stderr io.Writer) int {
	var file, siteRoot string
	fs := newFlagSet("validate", stderr, &file)
	fs.StringVar(&siteRoot, "site-root", "", "also check that the uploads path stays inside this directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := resolveSettingsPath(file)
	s, _, ok := loadSettings(path, stderr)
	if !ok {
		return 1
	}

	if siteRoot != "" {
		if _, err := s.UploadsDir(siteRoot); err != nil {
			fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", describe(path), err)
			return 1
		}
	}

	for _, w := range config.ProductionWarnings(s) {
		fmt.Fprintf(stderr, "warning: %s: %s\n", w.Key, w.Message)
	}
	fmt.Fprintf(stdout, "✓ %s is valid\n", describe(path))
	return 0
}

func runDump(args []string, stdout, stderr io.Writer) int {
	var file, format string
	fs := newFlagSet("dump", stderr, &file)
	fs.StringVar(&format, "format", string(config.FormatEnv), "output format: env, yaml, json or php")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	f, err := config.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	s, _, ok := loadSettings(resolveSettingsPath(file), stderr)
	if !ok {
		return 1
	}

	if err := config.Render(stdout, s, f); err != nil {
		fmt.Fprintf(stderr, "Failed to render %s: %v\n", f, err)
		return 1
	}
	return 0
}

func runInit(args []string, stdout, stderr io.Writer) int {
	var file string
	var force bool
	fs := newFlagSet("init", stderr, &file)
	fs.BoolVar(&force, "force", false, "overwrite an existing settings file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := resolveSettingsPath(file)
	if path == "" {
		fmt.Fprintf(stderr, "Error: --file is required (or set $%s)\n", envSettingsFile)
		return 2
	}

	loadPath := path
	if _, err := os.Stat(path); err == nil {
		if !force {
			fmt.Fprintf(stderr, "Error: %s already exists (use --force to overwrite)\n", path)
			return 1
		}
	} else if errors.Is(err, os.ErrNotExist) {
		loadPath = ""
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	s, _, ok := loadSettings(loadPath, stderr)
	if !ok {
		return 1
	}
	if err := config.NewManager(path).Save(s); err != nil {
		fmt.Fprintf(stderr, "Failed to write %s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "✓ wrote %s\n", path)
	return 0
}

func runServe(args []string, stderr io.Writer) int {
	var file, listen, whitelistRaw string
	var watch bool
	fs := newFlagSet("serve", stderr, &file)
	fs.StringVar(&listen, "listen", ":8089", "listen address of the inspection server")
	fs.BoolVar(&watch, "watch", false, "reload when the settings file changes")
	fs.StringVar(&whitelistRaw, "rate-limit-whitelist", os.Getenv(envRateLimitWhitelist),
		"comma-separated IPs or CIDRs exempt from the /settings rate limit (default $"+envRateLimitWhitelist+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	whitelist, err := middleware.ParseWhitelist(strings.Split(whitelistRaw, ","))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level != "" {
		if _, err := zerolog.ParseLevel(level); err != nil {
			fmt.Fprintf(stderr, "Error: LOG_LEVEL=%q: %v\n", level, err)
			return 2
		}
	}

	xglog.Configure(xglog.Config{Level: level, Version: version.Version})
	logger := xglog.WithComponent("daemon")

	path := resolveSettingsPath(file)
	s, loader, ok := loadSettings(path, stderr)
	if !ok {
		return 1
	}

	logger.Info().
		Str(xglog.FieldEvent, "daemon.start").
		Str(xglog.FieldPath, describe(path)).
		Str("version", version.Version).
		Str("commit", version.Commit).
		Msg("starting wpconf")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tcfg, err := telemetry.ConfigFromEnv(os.LookupEnv, version.Version)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	tp, err := telemetry.NewProvider(ctx, tcfg)
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "telemetry.init_failed").Msg("failed to initialise tracing")
		return 1
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("failed to flush traces")
		}
	}()

	holder := config.NewHolder(s, loader)

	hm := health.NewMonitor(version.Version,
		health.NewSettingsFileCheck(path),
		health.NewReloadCheck(holder.LastReload),
	)

	srv := api.New(holder, api.Config{
		ListenAddr:         listen,
		EnableRateLimit:    true,
		RateLimitWhitelist: whitelist,
		EnableTracing:      tcfg.Enabled,
		Health:             hm,
	})
	app := daemon.NewApp(logger, holder, srv,
		daemon.WithWatch(watch),
		daemon.WithReloadSignal(syscall.SIGHUP),
		daemon.WithDebugLogLevel(level == ""),
	)

	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("wpconf stopped with error")
		return 1
	}
	logger.Info().Str(xglog.FieldEvent, "daemon.stopped").Msg("wpconf stopped")
	return 0
}
