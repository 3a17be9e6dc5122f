// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CoversEverySettingsField(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.ValidateFieldCoverage())
	assert.Len(t, reg.Entries, 8)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	base := ConfigEntry{Path: "debug", Env: "DEBUG", FieldPath: "Debug", Kind: KindBool}

	cases := map[string][]ConfigEntry{
		"path": {base, {Path: "debug", Env: "OTHER", FieldPath: "DebugLog", Kind: KindBool}},
		"field": {base, {Path: "other", Env: "OTHER", FieldPath: "Debug", Kind: KindBool}},
		"env": {base, {Path: "other", Env: "DEBUG", FieldPath: "DebugLog", Kind: KindBool}},
		"alias vs env": {base, {Path: "other", Env: "OTHER", Aliases: []string{"DEBUG"}, FieldPath: "DebugLog", Kind: KindBool}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildRegistry(entries)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "duplicate registry"), err.Error())
		})
	}
}

func TestRegistry_RejectsIncompleteEntry(t *testing.T) {
	_, err := buildRegistry([]ConfigEntry{{Path: "debug", FieldPath: "Debug"}})
	require.Error(t, err)
}

func TestDefaults_MatchDeclaredValues(t *testing.T) {
	d := Defaults()

	assert.Equal(t, "wp-content/media-files", d.UploadsPath)
	assert.False(t, d.AutoUpdateCore)
	assert.True(t, d.DisallowFileEdit)
	assert.True(t, d.Debug)
	assert.True(t, d.DebugLog)
	assert.False(t, d.DebugDisplay)
	assert.True(t, d.ScriptDebug)
	assert.Equal(t, "256M", d.MemoryLimit.String())
	assert.Equal(t, int64(256<<20), d.MemoryLimit.Bytes())

	require.NoError(t, Validate(d))
}

func TestDefaults_ReturnsIndependentCopies(t *testing.T) {
	a := Defaults()
	a.Debug = false
	a.UploadsPath = "elsewhere"

	b := Defaults()
	assert.True(t, b.Debug)
	assert.Equal(t, "wp-content/media-files", b.UploadsPath)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "TRUE", "1", "yes", "on", " True "} {
		v, err := parseBool(in)
		require.NoError(t, err, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"false", "0", "no", "Off"} {
		v, err := parseBool(in)
		require.NoError(t, err, in)
		assert.False(t, v, in)
	}
	_, err := parseBool("maybe")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
