// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"reflect"
)

// ChangeSummary describes the result of comparing two Settings.
type ChangeSummary struct {
	ChangedFields   []string // registry paths that changed, in registry order
	RestartRequired bool     // true if any changed field is applied only at process start
}

// restartFields are read by the host once at start-up.
var restartFields = map[string]struct{}{
	"MemoryLimit": {},
	"UploadsPath": {},
}

// Diff compares two settings values.
func Diff(old, next Settings) (ChangeSummary, error) {
	reg, err := GetRegistry()
	if err != nil {
		return ChangeSummary{}, err
	}

	summary := ChangeSummary{}
	for _, e := range reg.Entries {
		if reflect.DeepEqual(e.Value(old), e.Value(next)) {
			continue
		}
		summary.ChangedFields = append(summary.ChangedFields, e.Path)
		if _, ok := restartFields[e.FieldPath]; ok {
			summary.RestartRequired = true
		}
	}
	return summary, nil
}
