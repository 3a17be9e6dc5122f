// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"io"

	"github.com/ManuGH/wpconf/internal/fsutil"
)

// Manager handles settings persistence.
type Manager struct {
	configPath string
}

// NewManager creates a new settings manager.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Save validates s and writes every key to the settings file, in the file's
// own syntax. The write is atomic, so a running watcher sees either the old
// or the new file.
func (m *Manager) Save(s Settings) error {
	if err := Validate(s); err != nil {
		return fmt.Errorf("refusing to save invalid settings: %w", err)
	}

	fileFormat, err := DetectFileFormat(m.configPath)
	if err != nil {
		return err
	}
	format := FormatYAML
	if fileFormat == FileFormatDotenv {
		format = FormatEnv
	}

	if err := fsutil.WriteFileAtomic(m.configPath, 0600, func(w io.Writer) error {
		return Render(w, s, format)
	}); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
