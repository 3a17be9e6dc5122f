// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package health evaluates whether the serve mode holds usable settings.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ManuGH/wpconf/internal/fsutil"
	"github.com/dustin/go-humanize"
)

// State is the outcome of one check, or the worst outcome of a report.
type State string

const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

func (s State) rank() int {
	switch s {
	case StateUnhealthy:
		return 2
	case StateDegraded:
		return 1
	default:
		return 0
	}
}

// Result is what a Check found.
type Result struct {
	State  State
	Detail string
	Err    error
}

// Check inspects one input of the settings pipeline.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the combined result of every registered check.
type Report struct {
	State     State
	CheckedAt time.Time
	Results   map[string]Result
}

// Ready reports whether the process can serve settings. Degraded still
// serves: a failed reload keeps the previous value.
func (r Report) Ready() bool { return r.State != StateUnhealthy }

// Monitor runs the checks. Register every check before serving.
type Monitor struct {
	version   string
	startedAt time.Time
	checks    []Check
}

// NewMonitor creates a monitor for the given build version.
func NewMonitor(version string, checks ...Check) *Monitor {
	return &Monitor{version: version, startedAt: time.Now(), checks: checks}
}

// Register adds a check.
func (m *Monitor) Register(c Check) { m.checks = append(m.checks, c) }

// Version is the build version reported by /healthz.
func (m *Monitor) Version() string { return m.version }

// Uptime is the time since the monitor was created.
func (m *Monitor) Uptime() time.Duration { return time.Since(m.startedAt) }

// Run executes every check in registration order.
func (m *Monitor) Run(ctx context.Context) Report {
	rep := Report{State: StateHealthy, CheckedAt: time.Now()}
	if len(m.checks) == 0 {
		return rep
	}
	rep.Results = make(map[string]Result, len(m.checks))
	for _, c := range m.checks {
		res := c.Run(ctx)
		rep.Results[c.Name()] = res
		if res.State.rank() > rep.State.rank() {
			rep.State = res.State
		}
	}
	return rep
}

// SettingsFileCheck verifies the settings file is still a readable regular
// file. An empty path means env-only configuration and always passes.
type SettingsFileCheck struct {
	path string
}

// NewSettingsFileCheck creates a check for path.
func NewSettingsFileCheck(path string) *SettingsFileCheck {
	return &SettingsFileCheck{path: path}
}

func (c *SettingsFileCheck) Name() string { return "settings_file" }

func (c *SettingsFileCheck) Run(_ context.Context) Result {
	if c.path == "" {
		return Result{State: StateHealthy, Detail: "no settings file, environment only"}
	}
	if err := fsutil.IsRegularFile(c.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{State: StateUnhealthy, Detail: "settings file missing", Err: err}
		}
		return Result{State: StateUnhealthy, Detail: "settings file unusable", Err: err}
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return Result{State: StateUnhealthy, Detail: "settings file unusable", Err: err}
	}
	if info.Size() == 0 {
		return Result{State: StateDegraded, Detail: "settings file is empty, defaults apply"}
	}
	return Result{
		State:  StateHealthy,
		Detail: fmt.Sprintf("%s, modified %s", humanize.IBytes(uint64(info.Size())), info.ModTime().UTC().Format(time.RFC3339)),
	}
}

// ReloadCheck reports the outcome of the most recent settings load.
type ReloadCheck struct {
	lastReload func() (time.Time, error)
}

// NewReloadCheck creates a check over a holder's LastReload.
func NewReloadCheck(lastReload func() (time.Time, error)) *ReloadCheck {
	return &ReloadCheck{lastReload: lastReload}
}

func (c *ReloadCheck) Name() string { return "settings_reload" }

func (c *ReloadCheck) Run(_ context.Context) Result {
	at, err := c.lastReload()
	switch {
	case at.IsZero():
		return Result{State: StateUnhealthy, Detail: "settings not loaded yet", Err: err}
	case err != nil:
		return Result{State: StateDegraded, Detail: "last reload failed, serving previous settings", Err: err}
	default:
		return Result{State: StateHealthy, Detail: "settings loaded at " + at.UTC().Format(time.RFC3339)}
	}
}
