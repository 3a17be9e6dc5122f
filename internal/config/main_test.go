// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	// Unset every managed variable so tests that read the real process
	// environment start from a clean slate.
	reg, err := GetRegistry()
	if err != nil {
		panic("settings registry: " + err.Error())
	}
	for key := range reg.ByEnv {
		if err := os.Unsetenv(key); err != nil {
			panic("failed to unset env: " + err.Error())
		}
	}

	os.Exit(m.Run())
}

// envMap returns a lookup backed by m instead of the process environment.
func envMap(m map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// writeSettingsFile writes content to a temp file with the given name.
func writeSettingsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0600); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}
