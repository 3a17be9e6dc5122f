// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/wpconf/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func newTestHolder(t *testing.T, path string, env map[string]string) *Holder {
	t.Helper()
	loader := NewLoader(path, WithLookupEnv(envMap(env)))
	initial, err := loader.Load()
	require.NoError(t, err)
	return NewHolder(initial, loader)
}

func TestHolder_ReloadAppliesChanges(t *testing.T) {
	path := writeSettingsFile(t, "settings.yaml", "debug: true\n")
	h := newTestHolder(t, path, nil)

	ch := make(chan Settings, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0600))
	require.NoError(t, h.Reload(context.Background()))

	assert.False(t, h.Get().Debug)
	assert.Equal(t, SourceFile, h.Sources()["debug"])

	select {
	case got := <-ch:
		assert.False(t, got.Debug)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ReloadUnchangedDoesNotNotify(t *testing.T) {
	path := writeSettingsFile(t, "settings.yaml", "debug: true\n")
	h := newTestHolder(t, path, nil)

	ch := make(chan Settings, 1)
	h.RegisterListener(ch)

	require.NoError(t, h.Reload(context.Background()))
	select {
	case <-ch:
		t.Fatal("listener notified although nothing changed")
	default:
	}
}

func TestHolder_ReloadFailureKeepsCurrent(t *testing.T) {
	path := writeSettingsFile(t, "settings.yaml", "memoryLimit: 512M\n")
	h := newTestHolder(t, path, nil)
	before := h.Get()

	require.NoError(t, os.WriteFile(path, []byte("memoryLimit: 512X\n"), 0600))
	err := h.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMemoryLimit)

	assert.Equal(t, before, h.Get())
	at, lastErr := h.LastReload()
	assert.False(t, at.IsZero())
	assert.ErrorIs(t, lastErr, ErrInvalidMemoryLimit)

	require.NoError(t, os.WriteFile(path, []byte("memoryLimit: 1G\n"), 0600))
	require.NoError(t, h.Reload(context.Background()))
	_, lastErr = h.LastReload()
	assert.NoError(t, lastErr)
}

func TestHolder_FullListenerIsSkipped(t *testing.T) {
	path := writeSettingsFile(t, "settings.yaml", "debug: true\n")
	h := newTestHolder(t, path, nil)

	ch := make(chan Settings) // unbuffered, nobody reading
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0600))

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Reload blocked on a full listener")
	}
}

func TestHolder_WatcherDisabledWithoutFile(t *testing.T) {
	h := newTestHolder(t, "", nil)
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}

func TestHolder_WatcherReloadsOnAtomicSave(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, NewManager(path).Save(Defaults()))

	h := newTestHolder(t, path, nil)
	h.debounce = 20 * time.Millisecond

	ch := make(chan Settings, 1)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	require.Error(t, h.StartWatcher(ctx), "second watcher must be rejected")

	next := Defaults()
	next.ScriptDebug = false
	require.NoError(t, NewManager(path).Save(next))

	select {
	case got := <-ch:
		assert.False(t, got.ScriptDebug)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload after save")
	}
	assert.False(t, h.Get().ScriptDebug)

	h.Stop()
}

func TestHolder_WatcherStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeSettingsFile(t, "settings.yaml", "debug: true\n")
	h := newTestHolder(t, path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))
	cancel()

	// Stop must return once the loop has exited via ctx.
	stopped := make(chan struct{})
	go func() {
		h.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}

// gatedEnv is a mutable environment whose next lookup of one key can be held
// until released.
type gatedEnv struct {
	mu      sync.Mutex
	vals    map[string]string
	holdKey string
	entered chan struct{}
	release chan struct{}
}

func (e *gatedEnv) set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vals[key] = value
}

// holdNext makes the next lookup of key read its value and then block.
func (e *gatedEnv) holdNext(key string) (entered, release chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdKey = key
	e.entered = make(chan struct{})
	e.release = make(chan struct{})
	return e.entered, e.release
}

func (e *gatedEnv) lookup(key string) (string, bool) {
	e.mu.Lock()
	v, ok := e.vals[key]
	var entered, release chan struct{}
	if key == e.holdKey {
		entered, release = e.entered, e.release
		e.holdKey = ""
	}
	e.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return v, ok
}

func TestHolder_ConcurrentReloadsKeepNewestValue(t *testing.T) {
	env := &gatedEnv{vals: map[string]string{"DEBUG": "true"}}
	loader := NewLoader("", WithLookupEnv(env.lookup))
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	// The first reload reads DEBUG=true and stalls.
	entered, release := env.holdNext("DEBUG")
	first := make(chan error, 1)
	go func() { first <- h.Reload(context.Background()) }()
	<-entered

	// The environment changes and a second reload is requested.
	env.set("DEBUG", "false")
	second := make(chan error, 1)
	go func() { second <- h.Reload(context.Background()) }()

	select {
	case <-second:
		t.Fatal("second reload ran while the first was still loading")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	assert.False(t, h.Get().Debug, "the reload that started last must win")
	assert.Equal(t, SourceEnv, h.Sources()["debug"])
}

func TestHolder_ReloadWithCancelledContext(t *testing.T) {
	h := newTestHolder(t, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Reload(ctx), context.Canceled)
}

func TestHolder_StopAbandonsPendingReload(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeSettingsFile(t, "settings.yaml", "debug: true\n")
	h := newTestHolder(t, path, nil)
	h.debounce = 10 * time.Millisecond
	// Exhaust the limiter so the next file-triggered reload has to wait.
	h.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, h.limiter.Allow())

	require.NoError(t, h.StartWatcher(context.Background()))
	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0600))

	// Let the debounce fire so the reload is parked on the limiter.
	time.Sleep(300 * time.Millisecond)
	h.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.True(t, h.Get().Debug, "no reload may run after Stop")
}

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exp
}

func spanAttr(span tracetest.SpanStub, key string) attribute.Value {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestHolder_ReloadRecordsSpan(t *testing.T) {
	exp := recordSpans(t)

	path := writeSettingsFile(t, "settings.yaml", "memoryLimit: 256M\n")
	h := newTestHolder(t, path, nil)

	require.NoError(t, os.WriteFile(path, []byte("memoryLimit: 512M\n"), 0600))
	require.NoError(t, h.Reload(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("memoryLimit: 512Q\n"), 0600))
	require.Error(t, h.Reload(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 2)

	applied := spans[0]
	assert.Equal(t, "config.reload", applied.Name)
	assert.Equal(t, "applied", spanAttr(applied, telemetry.ReloadResultKey).AsString())
	assert.Equal(t, []string{"memoryLimit"}, spanAttr(applied, telemetry.ReloadChangedKey).AsStringSlice())
	assert.True(t, spanAttr(applied, telemetry.ReloadRestartKey).AsBool())
	assert.Equal(t, "yaml", spanAttr(applied, telemetry.SettingsFormatKey).AsString())

	failed := spans[1]
	assert.Equal(t, "failed", spanAttr(failed, telemetry.ReloadResultKey).AsString())
	assert.Equal(t, codes.Error, failed.Status.Code)
}
