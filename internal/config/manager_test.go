// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SaveAndLoad(t *testing.T) {
	for _, name := range []string{"settings.yaml", "site.env"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "conf", name)

			s := Defaults()
			s.AutoUpdateCore = true
			s.MemoryLimit = UnlimitedMemory

			require.NoError(t, NewManager(path).Save(s))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			got, err := NewLoader(path, WithLookupEnv(envMap(nil))).Load()
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
}

func TestManager_DotenvRoundTripKeepsAwkwardPaths(t *testing.T) {
	for _, uploads := range []string{"media #1", "'quoted'", " lead", `say "hi"`, "trail ", "media#1"} {
		t.Run(uploads, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "site.env")

			s := Defaults()
			s.UploadsPath = uploads
			require.NoError(t, NewManager(path).Save(s))

			got, err := NewLoader(path, WithLookupEnv(envMap(nil))).Load()
			require.NoError(t, err)
			assert.Equal(t, uploads, got.UploadsPath)
			assert.Equal(t, s, got)
		})
	}
}

func TestManager_RefusesInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := Defaults()
	s.UploadsPath = "/absolute"
	require.Error(t, NewManager(path).Save(s))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing must be written")
}

func TestManager_UnsupportedExtension(t *testing.T) {
	err := NewManager(filepath.Join(t.TempDir(), "settings.ini")).Save(Defaults())
	require.Error(t, err)
}
