// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// MemoryLimit is a process memory ceiling in bytes, written in the host
// runtime's shorthand ("256M", "1G", "512K", "-1").
// The zero value means "not set" and fails validation.
type MemoryLimit int64

// UnlimitedMemory disables the ceiling ("-1").
const UnlimitedMemory MemoryLimit = -1

var memoryLimitPattern = regexp.MustCompile(`^(-1|[0-9]+)([kKmMgG]?)$`)

var memoryUnits = map[string]int64{
	"":  1,
	"k": humanize.KiByte,
	"m": humanize.MiByte,
	"g": humanize.GiByte,
}

// ParseMemoryLimit parses a shorthand size. Units are binary multiples.
func ParseMemoryLimit(raw string) (MemoryLimit, error) {
	value := strings.TrimSpace(raw)
	m := memoryLimitPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("%w: %q (want <digits>[K|M|G] or -1)", ErrInvalidMemoryLimit, raw)
	}

	if m[1] == "-1" {
		if m[2] != "" {
			return 0, fmt.Errorf("%w: %q (-1 takes no unit)", ErrInvalidMemoryLimit, raw)
		}
		return UnlimitedMemory, nil
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (too large)", ErrInvalidMemoryLimit, raw)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q (must be greater than zero)", ErrInvalidMemoryLimit, raw)
	}
	unit := memoryUnits[strings.ToLower(m[2])]
	if n > math.MaxInt64/unit {
		return 0, fmt.Errorf("%w: %q (too large)", ErrInvalidMemoryLimit, raw)
	}
	return MemoryLimit(n * unit), nil
}

// MustParseMemoryLimit is ParseMemoryLimit for static defaults.
func MustParseMemoryLimit(raw string) MemoryLimit {
	m, err := ParseMemoryLimit(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Bytes returns the ceiling in bytes, or -1 when unlimited.
func (m MemoryLimit) Bytes() int64 { return int64(m) }

// Unlimited reports whether the ceiling is disabled.
func (m MemoryLimit) Unlimited() bool { return m == UnlimitedMemory }

// Valid reports whether m is unlimited or a positive byte count.
func (m MemoryLimit) Valid() bool { return m == UnlimitedMemory || m > 0 }

// String renders the shorthand using the largest unit that divides evenly.
func (m MemoryLimit) String() string {
	switch {
	case m == UnlimitedMemory:
		return "-1"
	case m <= 0:
		return ""
	}
	n := int64(m)
	for _, u := range []struct {
		suffix string
		size   int64
	}{
		{"G", humanize.GiByte},
		{"M", humanize.MiByte},
		{"K", humanize.KiByte},
	} {
		if n%u.size == 0 {
			return strconv.FormatInt(n/u.size, 10) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}

// Human renders the ceiling for log output, e.g. "256 MiB".
func (m MemoryLimit) Human() string {
	if m.Unlimited() {
		return "unlimited"
	}
	if m <= 0 {
		return "unset"
	}
	return humanize.IBytes(uint64(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m MemoryLimit) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidMemoryLimit, int64(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MemoryLimit) UnmarshalText(text []byte) error {
	parsed, err := ParseMemoryLimit(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
