// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output syntax for Render.
type Format string

const (
	FormatEnv  Format = "env"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatPHP  Format = "php"
)

// Formats lists every supported output syntax.
var Formats = []string{string(FormatEnv), string(FormatYAML), string(FormatJSON), string(FormatPHP)}

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias for yaml.
func ParseFormat(raw string) (Format, error) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "yml":
		return FormatYAML, nil
	case string(FormatEnv), string(FormatYAML), string(FormatJSON), string(FormatPHP):
		return Format(f), nil
	default:
		return "", fmt.Errorf("unknown format %q (want one of %s)", raw, strings.Join(Formats, ", "))
	}
}

// Environ returns the settings as canonical KEY=VALUE pairs in registry order.
func (s Settings) Environ() []string {
	reg, err := GetRegistry()
	if err != nil {
		panic(err)
	}
	out := make([]string, 0, len(reg.Entries))
	for _, e := range reg.Entries {
		out = append(out, e.Env+"="+quoteDotenv(e.Format(s)))
	}
	return out
}

// quoteDotenv double-quotes v when the dotenv reader would otherwise change
// it: comment markers, quotes, escapes and edge whitespace.
func quoteDotenv(v string) string {
	if v == strings.TrimSpace(v) && !strings.ContainsAny(v, "#\"'`") && strconv.CanBackquote(v) {
		return v
	}
	return strconv.Quote(v)
}

// Render writes s to w in the given format.
func Render(w io.Writer, s Settings, format Format) error {
	switch format {
	case FormatEnv:
		for _, kv := range s.Environ() {
			if _, err := fmt.Fprintln(w, kv); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fileConfigFromSettings(s)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatPHP:
		return renderPHP(w, s)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// renderPHP writes an includable fragment of define() and ini_set() calls.
func renderPHP(w io.Writer, s Settings) error {
	reg, err := GetRegistry()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("<?php\n")
	b.WriteString("// Generated by wpconf. Do not edit; change the settings source and re-render.\n\n")
	for _, e := range reg.Entries {
		lit := phpLiteral(e.Value(s))
		switch {
		case e.PHPConst != "":
			fmt.Fprintf(&b, "define(%s, %s);\n", phpString(e.PHPConst), lit)
		case e.PHPIni != "":
			fmt.Fprintf(&b, "ini_set(%s, %s);\n", phpString(e.PHPIni), lit)
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func phpLiteral(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case MemoryLimit:
		return phpString(t.String())
	case string:
		return phpString(t)
	default:
		return phpString(fmt.Sprint(t))
	}
}

// phpString quotes s as a single-quoted PHP literal.
func phpString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
