// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"maps"
	"sync"

	"github.com/ManuGH/wpconf/internal/log"
	"github.com/rs/zerolog"
)

// Loader merges settings with precedence: ENV > File > Defaults.
type Loader struct {
	configPath string
	lookupEnv  LookupEnvFunc
	logger     zerolog.Logger

	mu      sync.Mutex
	sources map[string]Source
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLookupEnv replaces the process environment, mainly for tests and for
// hosts that pass settings explicitly.
func WithLookupEnv(lookup LookupEnvFunc) LoaderOption {
	return func(l *Loader) { l.lookupEnv = lookup }
}

// WithLogger sets the logger used for source tracing and guardrail warnings.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader. An empty configPath means defaults + env only.
func NewLoader(configPath string, opts ...LoaderOption) *Loader {
	l := &Loader{
		configPath: configPath,
		lookupEnv:  ReadOSEnv,
		logger:     log.WithComponent("config"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the settings file path, or "" when running from env only.
func (l *Loader) Path() string { return l.configPath }

// Load builds the effective settings. It has no side effects beyond logging,
// so calling it twice with unchanged inputs yields the same value.
// Order: defaults -> file overlay -> env overlay -> validate.
func (l *Loader) Load() (Settings, error) {
	reg, err := GetRegistry()
	if err != nil {
		return Settings{}, fmt.Errorf("settings registry: %w", err)
	}

	sources := make(map[string]Source, len(reg.Entries))

	// 1. Defaults
	var s Settings
	if err := reg.ApplyDefaults(&s); err != nil {
		return Settings{}, fmt.Errorf("set defaults: %w", err)
	}
	for _, e := range reg.Entries {
		sources[e.Path] = SourceDefault
	}

	// 2. Settings file
	if l.configPath != "" {
		fileVals, err := readSettingsFile(l.configPath, reg)
		if err != nil {
			return Settings{}, fmt.Errorf("load settings file %s: %w", l.configPath, err)
		}
		for _, e := range reg.Entries {
			fv, ok := fileVals[e.Path]
			if !ok || fv.null {
				continue
			}
			if err := e.apply(&s, fv.raw); err != nil {
				return Settings{}, fmt.Errorf("load settings file %s: %w", l.configPath,
					&SettingError{Key: e.Path, Source: SourceFile, Line: fv.line, Err: err})
			}
			sources[e.Path] = SourceFile
		}
	}

	// 3. Environment (highest priority)
	envVals, err := readEnvSettings(l.logger, l.lookupEnv, reg)
	if err != nil {
		return Settings{}, fmt.Errorf("load environment: %w", err)
	}
	for _, e := range reg.Entries {
		ev, ok := envVals[e.Path]
		if !ok {
			continue
		}
		if err := e.apply(&s, ev.raw); err != nil {
			return Settings{}, fmt.Errorf("load environment: %w",
				&SettingError{Key: ev.key, Source: SourceEnv, Err: err})
		}
		sources[e.Path] = SourceEnv
	}

	// 4. Validate
	if err := Validate(s); err != nil {
		return Settings{}, fmt.Errorf("settings validation failed: %w", err)
	}

	CheckProductionSafety(l.logger, s)

	l.mu.Lock()
	l.sources = sources
	l.mu.Unlock()
	return s, nil
}

// Sources reports, per registry path, which layer supplied the value during
// the last successful Load.
func (l *Loader) Sources() map[string]Source {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.sources)
}
