// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ManuGH/wpconf/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// FileFormat is the syntax of a settings file.
type FileFormat string

const (
	FileFormatYAML   FileFormat = "yaml"
	FileFormatDotenv FileFormat = "env"
)

// DetectFileFormat picks the syntax from the file name.
func DetectFileFormat(path string) (FileFormat, error) {
	base := strings.ToLower(filepath.Base(path))
	switch ext := filepath.Ext(base); {
	case ext == ".yaml" || ext == ".yml":
		return FileFormatYAML, nil
	case base == ".env" || ext == ".env":
		return FileFormatDotenv, nil
	default:
		return "", fmt.Errorf("unsupported settings file format: %q (want .yaml, .yml or .env)", filepath.Base(path))
	}
}

// fileValue is one raw setting read from a file.
type fileValue struct {
	raw  string
	line int
	null bool
}

// readSettingsFile reads path and returns raw values keyed by registry path.
func readSettingsFile(path string, reg *Registry) (map[string]fileValue, error) {
	path = filepath.Clean(path)

	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	if err := fsutil.IsRegularFile(path); err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	// #nosec G304 -- settings file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch format {
	case FileFormatYAML:
		return parseYAMLSettings(data, reg)
	default:
		return parseDotenvSettings(data, reg)
	}
}

// parseYAMLSettings parses a strict, single-document YAML mapping of scalars.
// The walk runs on the node tree because decoding into a struct would either
// accept duplicate keys silently (last wins) or fail without the key name.
func parseYAMLSettings(data []byte, reg *Registry) (map[string]fileValue, error) {
	out := make(map[string]fileValue)

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("settings file contains multiple documents or trailing content")
	}

	if len(doc.Content) == 0 {
		return out, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return out, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("settings file must be a mapping, got %s", nodeKindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if _, ok := reg.ByPath[k.Value]; !ok {
			return nil, &SettingError{Key: k.Value, Source: SourceFile, Line: k.Line, Err: ErrUnknownConfigField}
		}
		if prev, dup := out[k.Value]; dup {
			return nil, &SettingError{
				Key: k.Value, Source: SourceFile, Line: k.Line,
				Err: fmt.Errorf("%w: first defined at line %d", ErrDuplicateSetting, prev.line),
			}
		}
		if v.Kind != yaml.ScalarNode {
			return nil, &SettingError{
				Key: k.Value, Source: SourceFile, Line: v.Line,
				Err: fmt.Errorf("%w: expected a scalar, got %s", ErrInvalidValue, nodeKindName(v.Kind)),
			}
		}
		// "key: ~" is recorded (so a second definition is still caught) but
		// leaves the setting at its default.
		out[k.Value] = fileValue{raw: v.Value, line: k.Line, null: v.Tag == "!!null"}
	}

	return out, nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "scalar"
	}
}

// parseDotenvSettings parses KEY=VALUE lines. Keys are canonical or legacy env
// names; each setting may appear once, under whichever name.
func parseDotenvSettings(data []byte, reg *Registry) (map[string]fileValue, error) {
	out := make(map[string]fileValue)

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE, got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)

		entry, known := reg.ByEnv[key]
		if !known {
			return nil, &SettingError{Key: key, Source: SourceFile, Line: lineNo, Err: ErrUnknownConfigField}
		}

		value, err := unquoteDotenv(strings.TrimSpace(value))
		if err != nil {
			return nil, &SettingError{Key: key, Source: SourceFile, Line: lineNo, Err: err}
		}

		if prev, dup := out[entry.Path]; dup {
			return nil, &SettingError{
				Key: key, Source: SourceFile, Line: lineNo,
				Err: fmt.Errorf("%w: %s already defined at line %d", ErrDuplicateSetting, entry.Env, prev.line),
			}
		}
		out[entry.Path] = fileValue{raw: value, line: lineNo}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan settings file: %w", err)
	}

	return out, nil
}

// unquoteDotenv strips matching quotes and, for unquoted values, a trailing
// " # comment".
func unquoteDotenv(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	switch q := v[0]; q {
	case '"', '\'':
		end := closingQuote(v, q)
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated quote", ErrInvalidValue)
		}
		rest := strings.TrimSpace(v[end+1:])
		if rest != "" && !strings.HasPrefix(rest, "#") {
			return "", fmt.Errorf("%w: trailing content after quoted value", ErrInvalidValue)
		}
		if q == '\'' {
			return v[1:end], nil
		}
		out, err := strconv.Unquote(v[:end+1])
		if err != nil {
			return "", fmt.Errorf("%w: bad escape in %s", ErrInvalidValue, v[:end+1])
		}
		return out, nil
	}

	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v, nil
}

// closingQuote returns the index of the quote closing v[0], or -1. Double
// quotes honour backslash escapes; single quotes are literal.
func closingQuote(v string, q byte) int {
	for i := 1; i < len(v); i++ {
		switch {
		case q == '"' && v[i] == '\\':
			i++
		case v[i] == q:
			return i
		}
	}
	return -1
}
