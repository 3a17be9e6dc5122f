// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/wpconf/internal/api/middleware"
	"github.com/ManuGH/wpconf/internal/config"
	"github.com/ManuGH/wpconf/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type staticSource struct {
	settings config.Settings
	sources  map[string]config.Source
}

func (s staticSource) Get() config.Settings               { return s.settings }
func (s staticSource) Sources() map[string]config.Source { return s.sources }

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, staticSource) {
	t.Helper()
	src := staticSource{
		settings: config.Defaults(),
		sources: map[string]config.Source{
			"uploadsPath": config.SourceFile,
			"memoryLimit": config.SourceEnv,
		},
	}
	ts := httptest.NewServer(New(src, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts, src
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var out HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, StatusHealthy, out.Status)
	assert.Nil(t, out.Checks)
}

func TestHealthz_VerboseReportsChecks(t *testing.T) {
	hm := health.NewMonitor("v9.9.9")
	hm.Register(health.NewReloadCheck(func() (time.Time, error) {
		return time.Now(), errors.New("bad memory limit")
	}))
	ts, _ := newTestServer(t, Config{Health: hm})

	resp, body := get(t, ts.URL+"/healthz?verbose=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, StatusDegraded, out.Status)
	require.NotNil(t, out.Version)
	assert.Equal(t, "v9.9.9", *out.Version)
	require.NotNil(t, out.Checks)
	check := (*out.Checks)["settings_reload"]
	require.NotNil(t, check.Error)
	assert.Equal(t, "bad memory limit", *check.Error)
}

func TestHealthz_BadVerboseIsBadRequest(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/healthz?verbose=sometimes")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out Problem
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "invalid_parameter", out.Error)
	require.NotNil(t, out.Detail)
	assert.Contains(t, *out.Detail, "verbose")
}

func TestReadyz_ReflectsChecks(t *testing.T) {
	hm := health.NewMonitor("test")
	hm.Register(health.NewReloadCheck(func() (time.Time, error) {
		return time.Time{}, nil
	}))
	ts, _ := newTestServer(t, Config{Health: hm})

	resp, body := get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var out ReadinessResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.False(t, out.Ready)
	require.NotNil(t, out.Checks)
	assert.Equal(t, StatusUnhealthy, (*out.Checks)["settings_reload"].Status)
}

func TestSettings_JSON(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/settings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	assert.Equal(t, "wp-content/media-files", raw["settings"]["uploadsPath"])
	assert.Equal(t, "256M", raw["settings"]["memoryLimit"])
	assert.Equal(t, true, raw["settings"]["disallowFileEdit"])
	assert.Equal(t, false, raw["settings"]["autoUpdateCore"])
	assert.Equal(t, "file", raw["sources"]["uploadsPath"])
	assert.Equal(t, "env", raw["sources"]["memoryLimit"])
}

func TestSettings_IncludesWarnings(t *testing.T) {
	s := config.Defaults()
	s.DisallowFileEdit = false
	ts := httptest.NewServer(New(staticSource{settings: s}, Config{}).Handler())
	defer ts.Close()

	_, body := get(t, ts.URL+"/settings")

	var out SettingsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "disallowFileEdit", out.Warnings[0].Key)
	assert.False(t, out.Settings.DisallowFileEdit)
	assert.Equal(t, "256M", out.Settings.MemoryLimit)
	assert.Empty(t, out.Sources)
}

func TestSettingsEnv(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/settings/env")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Equal(t, config.Defaults().Environ(), lines)
	assert.Contains(t, lines, "MEMORY_LIMIT=256M")
	assert.Contains(t, lines, "UPLOADS_PATH=wp-content/media-files")
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "wpconf_memory_limit_bytes")
}

func TestSettings_RateLimited(t *testing.T) {
	ts, _ := newTestServer(t, Config{EnableRateLimit: true})

	for i := 0; i < 120; i++ {
		resp, _ := get(t, ts.URL+"/settings/env")
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
	}
	resp, _ := get(t, ts.URL+"/settings/env")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Health checks are not limited.
	resp, _ = get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSettings_RateLimitWhitelist(t *testing.T) {
	whitelist, err := middleware.ParseWhitelist([]string{"127.0.0.0/8", "::1"})
	require.NoError(t, err)
	ts, _ := newTestServer(t, Config{EnableRateLimit: true, RateLimitWhitelist: whitelist})

	for i := 0; i < 130; i++ {
		resp, _ := get(t, ts.URL+"/settings/env")
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, _ := get(t, ts.URL+"/settings/php")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(staticSource{settings: config.Defaults()}, Config{MaxConns: 2})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_BadAddress(t *testing.T) {
	srv := New(staticSource{settings: config.Defaults()}, Config{ListenAddr: "256.0.0.1:bad"})
	err := srv.ListenAndServe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
