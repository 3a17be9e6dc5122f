// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/wpconf/internal/log"
	"github.com/rs/zerolog"
)

// minRecommendedMemory is the smallest ceiling the platform's admin screens run in.
const minRecommendedMemory MemoryLimit = 64 << 20

// Warning is a non-fatal finding about a valid configuration.
type Warning struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ProductionWarnings lists settings that are legal but risky on a public site.
func ProductionWarnings(s Settings) []Warning {
	var out []Warning
	if s.DebugDisplay {
		out = append(out, Warning{Key: "debugDisplay", Message: "errors are rendered in responses"})
	}
	if !s.DisallowFileEdit {
		out = append(out, Warning{Key: "disallowFileEdit", Message: "source files can be edited from the admin panel"})
	}
	if s.DebugLog && !s.Debug {
		out = append(out, Warning{Key: "debugLog", Message: "has no effect while debug is off"})
	}
	if s.DebugDisplay && !s.Debug {
		out = append(out, Warning{Key: "debugDisplay", Message: "has no effect while debug is off"})
	}
	if !s.MemoryLimit.Unlimited() && s.MemoryLimit < minRecommendedMemory {
		out = append(out, Warning{Key: "memoryLimit", Message: "below " + minRecommendedMemory.String()})
	}
	return out
}

// CheckProductionSafety logs ProductionWarnings. It never fails the load.
func CheckProductionSafety(logger zerolog.Logger, s Settings) {
	for _, w := range ProductionWarnings(s) {
		logger.Warn().
			Str(log.FieldKey, w.Key).
			Str(log.FieldEvent, "config.guardrail").
			Msg(w.Message)
	}
}
