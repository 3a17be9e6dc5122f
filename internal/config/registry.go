// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Kind is the value type of a setting.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindMemory Kind = "memory"
)

// ConfigEntry defines a single setting's metadata.
type ConfigEntry struct {
	Path        string   // YAML key (e.g. "uploadsPath")
	Env         string   // Canonical environment variable (e.g. "UPLOADS_PATH")
	Aliases     []string // Legacy environment names accepted for the same setting
	FieldPath   string   // Settings field name (e.g. "UploadsPath")
	Kind        Kind
	Default     any // typed default value
	PHPConst    string // constant name for the PHP fragment, empty if not a define()
	PHPIni      string // ini directive for the PHP fragment, empty if not an ini_set()
	Description string
}

// Registry is the inventory of all settings.
type Registry struct {
	Entries []ConfigEntry // declaration order; rendering follows it
	ByPath  map[string]ConfigEntry
	ByField map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry // canonical names and aliases
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global settings registry.
// It returns an error if the registry contains duplicates.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry(defaultEntries())
	})
	return globalRegistry, globalRegistryErr
}

func defaultEntries() []ConfigEntry {
	return []ConfigEntry{
		{
			Path: "uploadsPath", Env: "UPLOADS_PATH", Aliases: []string{"UPLOADS"}, FieldPath: "UploadsPath",
			Kind: KindString, Default: "wp-content/media-files", PHPConst: "UPLOADS",
			Description: "Where uploaded media is stored, relative to the site root.",
		},
		{
			Path: "autoUpdateCore", Env: "AUTO_UPDATE_CORE", Aliases: []string{"WP_AUTO_UPDATE_CORE"}, FieldPath: "AutoUpdateCore",
			Kind: KindBool, Default: false, PHPConst: "WP_AUTO_UPDATE_CORE",
			Description: "Whether the platform updates its own core.",
		},
		{
			Path: "disallowFileEdit", Env: "DISALLOW_FILE_EDIT", FieldPath: "DisallowFileEdit",
			Kind: KindBool, Default: true, PHPConst: "DISALLOW_FILE_EDIT",
			Description: "Whether source editing from the admin panel is blocked.",
		},
		{
			Path: "debug", Env: "DEBUG", Aliases: []string{"WP_DEBUG"}, FieldPath: "Debug",
			Kind: KindBool, Default: true, PHPConst: "WP_DEBUG",
			Description: "Whether verbose error reporting is on.",
		},
		{
			Path: "debugLog", Env: "DEBUG_LOG", Aliases: []string{"WP_DEBUG_LOG"}, FieldPath: "DebugLog",
			Kind: KindBool, Default: true, PHPConst: "WP_DEBUG_LOG",
			Description: "Whether errors are written to the debug log.",
		},
		{
			Path: "debugDisplay", Env: "DEBUG_DISPLAY", Aliases: []string{"WP_DEBUG_DISPLAY"}, FieldPath: "DebugDisplay",
			Kind: KindBool, Default: false, PHPConst: "WP_DEBUG_DISPLAY",
			Description: "Whether errors are rendered in responses. Keep off in production.",
		},
		{
			Path: "scriptDebug", Env: "SCRIPT_DEBUG", FieldPath: "ScriptDebug",
			Kind: KindBool, Default: true, PHPConst: "SCRIPT_DEBUG",
			Description: "Whether unminified scripts and styles are served.",
		},
		{
			Path: "memoryLimit", Env: "MEMORY_LIMIT", Aliases: []string{"WP_MEMORY_LIMIT"}, FieldPath: "MemoryLimit",
			Kind: KindMemory, Default: MustParseMemoryLimit("256M"), PHPIni: "memory_limit",
			Description: "Per-process memory ceiling, e.g. 256M, 1G or -1 for unlimited.",
		},
	}
}

func buildRegistry(entries []ConfigEntry) (*Registry, error) {
	r := &Registry{
		Entries: entries,
		ByPath:  make(map[string]ConfigEntry),
		ByField: make(map[string]ConfigEntry),
		ByEnv:   make(map[string]ConfigEntry),
	}

	for _, e := range entries {
		if e.Path == "" || e.FieldPath == "" || e.Env == "" {
			return nil, fmt.Errorf("incomplete registry entry: %+v", e)
		}
		if _, dup := r.ByPath[e.Path]; dup {
			return nil, fmt.Errorf("duplicate registry path: %s", e.Path)
		}
		r.ByPath[e.Path] = e

		if _, dup := r.ByField[e.FieldPath]; dup {
			return nil, fmt.Errorf("duplicate registry field: %s", e.FieldPath)
		}
		r.ByField[e.FieldPath] = e

		for _, env := range append([]string{e.Env}, e.Aliases...) {
			if _, dup := r.ByEnv[env]; dup {
				return nil, fmt.Errorf("duplicate registry env: %s", env)
			}
			r.ByEnv[env] = e
		}
	}

	return r, nil
}

// ValidateFieldCoverage uses reflection to ensure every Settings field is registered.
func (r *Registry) ValidateFieldCoverage() error {
	t := reflect.TypeOf(Settings{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if _, ok := r.ByField[f.Name]; !ok {
			return fmt.Errorf("field %q is not registered in the settings registry", f.Name)
		}
	}
	return nil
}

// ApplyDefaults applies registered default values to s.
// Returns an error if any default cannot be set (indicates registry misconfiguration).
func (r *Registry) ApplyDefaults(s *Settings) error {
	v := reflect.ValueOf(s).Elem()
	for _, entry := range r.Entries {
		if entry.Default == nil {
			continue
		}
		if err := setField(v, entry.FieldPath, entry.Default); err != nil {
			return fmt.Errorf("failed to set default for %s: %w", entry.FieldPath, err)
		}
	}
	return nil
}

// Parse converts a raw string into the entry's typed value.
func (e ConfigEntry) Parse(raw string) (any, error) {
	switch e.Kind {
	case KindString:
		return raw, nil
	case KindBool:
		return parseBool(raw)
	case KindMemory:
		return ParseMemoryLimit(raw)
	default:
		return nil, fmt.Errorf("unsupported kind %q", e.Kind)
	}
}

// Value returns the entry's current value in s.
func (e ConfigEntry) Value(s Settings) any {
	return reflect.ValueOf(s).FieldByName(e.FieldPath).Interface()
}

// Format renders the entry's value in s the way it is written in env files.
func (e ConfigEntry) Format(s Settings) string {
	switch v := e.Value(s).(type) {
	case bool:
		return strconv.FormatBool(v)
	case MemoryLimit:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// apply parses raw and assigns it to the entry's field in s.
func (e ConfigEntry) apply(s *Settings, raw string) error {
	value, err := e.Parse(raw)
	if err != nil {
		return err
	}
	return setField(reflect.ValueOf(s).Elem(), e.FieldPath, value)
}

// parseBool accepts "true", "false", "1", "0", "yes", "no", "on", "off" (case-insensitive).
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
	}
}

func setField(v reflect.Value, fieldPath string, value any) error {
	f := v.FieldByName(fieldPath)
	if !f.IsValid() {
		return fmt.Errorf("field %s not found", fieldPath)
	}

	val := reflect.ValueOf(value)
	if f.Type() != val.Type() {
		if !val.Type().ConvertibleTo(f.Type()) {
			return fmt.Errorf("type mismatch for %s: expected %v, got %v", fieldPath, f.Type(), val.Type())
		}
		val = val.Convert(f.Type())
	}
	f.Set(val)
	return nil
}
