// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownConfigField classifies strict parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrDuplicateSetting is returned when one source defines a setting twice.
	ErrDuplicateSetting = errors.New("duplicate setting")

	// ErrConflictingSetting is returned when a canonical env var and its legacy
	// alias are both set to different values.
	ErrConflictingSetting = errors.New("conflicting setting")

	// ErrInvalidValue is returned when a value cannot be parsed for its type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidMemoryLimit is returned for malformed memory-limit sizes.
	ErrInvalidMemoryLimit = errors.New("invalid memory limit")
)

// SettingError ties a load failure to the key and layer that caused it.
type SettingError struct {
	Key    string
	Source Source
	Line   int // 1-based line in the settings file, 0 if not applicable
	Err    error
}

func (e *SettingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (%s, line %d): %v", e.Key, e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Key, e.Source, e.Err)
}

func (e *SettingError) Unwrap() error { return e.Err }
