// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
)

// checkAliasConflicts rejects a setting supplied under more than one env name.
// Values are compared after parsing: DEBUG=1 with WP_DEBUG=true is a
// duplicate definition, DEBUG=1 with WP_DEBUG=false a conflict.
func checkAliasConflicts(entry ConfigEntry, found []envValue) error {
	if len(found) < 2 {
		return nil
	}

	first, err := entry.Parse(found[0].raw)
	if err != nil {
		return &SettingError{Key: found[0].key, Source: SourceEnv, Err: err}
	}
	for _, other := range found[1:] {
		v, err := entry.Parse(other.raw)
		if err != nil {
			return &SettingError{Key: other.key, Source: SourceEnv, Err: err}
		}
		if !reflect.DeepEqual(first, v) {
			return &SettingError{
				Key:    other.key,
				Source: SourceEnv,
				Err: fmt.Errorf("%w: %s=%q conflicts with %s=%q",
					ErrConflictingSetting, found[0].key, found[0].raw, other.key, other.raw),
			}
		}
	}

	other := found[1]
	return &SettingError{
		Key:    other.key,
		Source: SourceEnv,
		Err: fmt.Errorf("%w: %s is also set as %s; unset one of them",
			ErrDuplicateSetting, found[0].key, other.key),
	}
}
