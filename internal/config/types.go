// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Settings is the effective site configuration.
// It is a plain value: copies are independent and nothing mutates it after Load.
type Settings struct {
	UploadsPath      string      `yaml:"uploadsPath" json:"uploadsPath"`
	AutoUpdateCore   bool        `yaml:"autoUpdateCore" json:"autoUpdateCore"`
	DisallowFileEdit bool        `yaml:"disallowFileEdit" json:"disallowFileEdit"`
	Debug            bool        `yaml:"debug" json:"debug"`
	DebugLog         bool        `yaml:"debugLog" json:"debugLog"`
	DebugDisplay     bool        `yaml:"debugDisplay" json:"debugDisplay"`
	ScriptDebug      bool        `yaml:"scriptDebug" json:"scriptDebug"`
	MemoryLimit      MemoryLimit `yaml:"memoryLimit" json:"memoryLimit"`
}

// FileConfig is the on-disk YAML shape. Pointer fields distinguish
// "absent" from an explicit zero value.
type FileConfig struct {
	UploadsPath      *string `yaml:"uploadsPath,omitempty"`
	AutoUpdateCore   *bool   `yaml:"autoUpdateCore,omitempty"`
	DisallowFileEdit *bool   `yaml:"disallowFileEdit,omitempty"`
	Debug            *bool   `yaml:"debug,omitempty"`
	DebugLog         *bool   `yaml:"debugLog,omitempty"`
	DebugDisplay     *bool   `yaml:"debugDisplay,omitempty"`
	ScriptDebug      *bool   `yaml:"scriptDebug,omitempty"`
	MemoryLimit      *string `yaml:"memoryLimit,omitempty"`
}

// Source records which layer supplied a setting's effective value.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
)

// Defaults returns the documented default settings.
func Defaults() Settings {
	var s Settings
	reg, err := GetRegistry()
	if err != nil {
		// The registry is static; an error here is a programming bug caught by tests.
		panic(err)
	}
	if err := reg.ApplyDefaults(&s); err != nil {
		panic(err)
	}
	return s
}

// fileConfigFromSettings maps effective settings back to the file shape,
// setting every key explicitly.
func fileConfigFromSettings(s Settings) FileConfig {
	mem := s.MemoryLimit.String()
	return FileConfig{
		UploadsPath:      &s.UploadsPath,
		AutoUpdateCore:   &s.AutoUpdateCore,
		DisallowFileEdit: &s.DisallowFileEdit,
		Debug:            &s.Debug,
		DebugLog:         &s.DebugLog,
		DebugDisplay:     &s.DebugDisplay,
		ScriptDebug:      &s.ScriptDebug,
		MemoryLimit:      &mem,
	}
}
