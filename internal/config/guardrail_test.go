// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func warningKeys(ws []Warning) []string {
	keys := make([]string, 0, len(ws))
	for _, w := range ws {
		keys = append(keys, w.Key)
	}
	return keys
}

func TestProductionWarnings(t *testing.T) {
	assert.Empty(t, ProductionWarnings(Defaults()))

	s := Defaults()
	s.DebugDisplay = true
	s.DisallowFileEdit = false
	assert.Equal(t, []string{"debugDisplay", "disallowFileEdit"}, warningKeys(ProductionWarnings(s)))

	s = Defaults()
	s.Debug = false
	assert.Equal(t, []string{"debugLog"}, warningKeys(ProductionWarnings(s)))

	s = Defaults()
	s.MemoryLimit = MustParseMemoryLimit("32M")
	assert.Equal(t, []string{"memoryLimit"}, warningKeys(ProductionWarnings(s)))

	s.MemoryLimit = UnlimitedMemory
	assert.Empty(t, ProductionWarnings(s))
}

func TestCheckProductionSafety_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	s := Defaults()
	s.DebugDisplay = true
	CheckProductionSafety(logger, s)

	assert.Contains(t, buf.String(), `"key":"debugDisplay"`)
	assert.Contains(t, buf.String(), `"event":"config.guardrail"`)
}
