// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"

	"github.com/ManuGH/wpconf/internal/log"
	"github.com/rs/zerolog"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// envValue is one raw setting read from the environment.
type envValue struct {
	key string // the variable that supplied it (canonical or alias)
	raw string
}

// lookupString reads key from lookup. An empty value counts as unset,
// so "DEBUG=" falls back to the lower layers.
func lookupString(logger zerolog.Logger, lookup LookupEnvFunc, key string) (string, bool) {
	value, exists := lookup(key)
	if !exists {
		return "", false
	}
	if value == "" {
		logger.Debug().
			Str(log.FieldKey, key).
			Str(log.FieldSource, string(SourceDefault)).
			Msg("ignoring empty environment variable")
		return "", false
	}
	logger.Debug().
		Str(log.FieldKey, key).
		Str("value", value).
		Str(log.FieldSource, string(SourceEnv)).
		Msg("using environment variable")
	return value, true
}

// readEnvSettings collects raw values from the environment, keyed by registry
// path. A setting may come from its canonical name or one legacy alias, never
// both.
func readEnvSettings(logger zerolog.Logger, lookup LookupEnvFunc, reg *Registry) (map[string]envValue, error) {
	out := make(map[string]envValue)
	for _, entry := range reg.Entries {
		var found []envValue
		for _, key := range append([]string{entry.Env}, entry.Aliases...) {
			if raw, ok := lookupString(logger, lookup, key); ok {
				found = append(found, envValue{key: key, raw: raw})
			}
		}
		if len(found) == 0 {
			continue
		}
		if err := checkAliasConflicts(entry, found); err != nil {
			return nil, err
		}
		if found[0].key != entry.Env {
			logger.Warn().
				Str(log.FieldKey, found[0].key).
				Str("canonical", entry.Env).
				Msg("legacy environment variable in use")
		}
		out[entry.Path] = found[0]
	}
	return out, nil
}

// ReadOSEnv is the process environment lookup used by default.
func ReadOSEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
