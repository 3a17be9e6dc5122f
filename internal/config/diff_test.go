// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	base := Defaults()

	t.Run("identical", func(t *testing.T) {
		got, err := Diff(base, Defaults())
		require.NoError(t, err)
		assert.Empty(t, got.ChangedFields)
		assert.False(t, got.RestartRequired)
	})

	t.Run("hot flags", func(t *testing.T) {
		next := base
		next.Debug = false
		next.ScriptDebug = false

		got, err := Diff(base, next)
		require.NoError(t, err)
		assert.Equal(t, []string{"debug", "scriptDebug"}, got.ChangedFields)
		assert.False(t, got.RestartRequired)
	})

	t.Run("memory limit needs restart", func(t *testing.T) {
		next := base
		next.MemoryLimit = MustParseMemoryLimit("512M")

		got, err := Diff(base, next)
		require.NoError(t, err)
		assert.Equal(t, []string{"memoryLimit"}, got.ChangedFields)
		assert.True(t, got.RestartRequired)
	})

	t.Run("uploads path needs restart", func(t *testing.T) {
		next := base
		next.UploadsPath = "uploads"

		got, err := Diff(base, next)
		require.NoError(t, err)
		assert.True(t, got.RestartRequired)
	})
}
