// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command wpconf loads, validates, renders and serves the site settings.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/wpconf/internal/config"
	xglog "github.com/ManuGH/wpconf/internal/log"
	"github.com/ManuGH/wpconf/internal/version"
)

const (
	// envSettingsFile names the default settings file when -f is not given.
	envSettingsFile = "WPCONF_FILE"
	// envRateLimitWhitelist is the default of serve --rate-limit-whitelist.
	envRateLimitWhitelist = "WPCONF_RATE_LIMIT_WHITELIST"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "validate", "dump", "init":
		// Keep stdout for command output; validate prints warnings itself.
		xglog.Configure(xglog.Config{Output: stderr, Level: "error", Version: version.Version})
	}

	switch args[0] {
	case "validate":
		return runValidate(args[1:], stdout, stderr)
	case "dump":
		return runDump(args[1:], stdout, stderr)
	case "init":
		return runInit(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "version", "--version":
		fmt.Fprintln(stdout, version.String())
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wpconf validate [--file|-f settings.yaml] [--site-root DIR]")
	fmt.Fprintln(w, "  wpconf dump [--file|-f settings.yaml] [--format=env|yaml|json|php]")
	fmt.Fprintln(w, "  wpconf init --file|-f settings.yaml [--force]")
	fmt.Fprintln(w, "  wpconf serve [--file|-f settings.yaml] [--listen :8089] [--watch] [--rate-limit-whitelist CIDR,...]")
	fmt.Fprintln(w, "  wpconf version")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The settings file defaults to $%s. Without one, defaults and the environment apply.\n", envSettingsFile)
}

func resolveSettingsPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(envSettingsFile))
}

func describe(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}

func loadSettings(path string, stderr io.Writer) (config.Settings, *config.Loader, bool) {
	loader := config.NewLoader(path)
	s, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", describe(path), err)
		return config.Settings{}, nil, false
	}
	return s, loader, true
}
