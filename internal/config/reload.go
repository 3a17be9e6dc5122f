// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"sync"
	"time"

	xglog "github.com/ManuGH/wpconf/internal/log"
	"github.com/ManuGH/wpconf/internal/metrics"
	"github.com/ManuGH/wpconf/internal/telemetry"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const defaultDebounce = 500 * time.Millisecond

// Rate cap for file-triggered reloads.
const (
	watchReloadInterval = 2 * time.Second
	watchReloadBurst    = 3
)

// Holder holds the current settings value and swaps it atomically on reload.
// Each value handed out by Get is immutable; a reload replaces it wholesale.
type Holder struct {
	mu      sync.RWMutex
	current Settings
	sources map[string]Source

	// outcome of the latest load attempt
	lastLoadAt  time.Time
	lastLoadErr error

	// reloadMu serializes Reload so a slow load cannot overwrite a newer one.
	reloadMu   sync.Mutex
	loader     *Loader
	configPath string
	logger     zerolog.Logger
	debounce   time.Duration
	limiter    *rate.Limiter

	watchMu     sync.Mutex
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
	done        chan struct{}

	// Reload notifications
	listenersMu     sync.RWMutex
	reloadListeners []chan<- Settings
}

// NewHolder creates a holder with an initial, already validated value.
func NewHolder(initial Settings, loader *Loader) *Holder {
	h := &Holder{
		current:    initial,
		sources:    loader.Sources(),
		loader:     loader,
		configPath: loader.Path(),
		logger:     xglog.WithComponent("config"),
		debounce:   defaultDebounce,
		limiter:    rate.NewLimiter(rate.Every(watchReloadInterval), watchReloadBurst),
		lastLoadAt: time.Now(),
	}
	metrics.ObserveSettings(initial.MemoryLimit.Bytes(), flagValues(initial))
	return h
}

// Get returns the current settings.
func (h *Holder) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Sources returns the layer that supplied each key of the current settings.
func (h *Holder) Sources() map[string]Source {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return maps.Clone(h.sources)
}

// LastReload reports when settings were last loaded and, if the most recent
// reload failed, why.
func (h *Holder) LastReload() (time.Time, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastLoadAt, h.lastLoadErr
}

// Reload loads and validates the settings again. On failure the current value
// is kept and the error returned. Concurrent calls run one after another, so
// the value left in place is always from the load that started last.
func (h *Holder) Reload(ctx context.Context) error {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	reloadID := uuid.NewString()
	ctx = xglog.ContextWithReloadID(ctx, reloadID)
	logger := xglog.WithContext(ctx, h.logger)

	_, span := telemetry.Tracer("wpconf/config").Start(ctx, "config.reload")
	defer span.End()
	if h.configPath != "" {
		if f, err := DetectFileFormat(h.configPath); err == nil {
			span.SetAttributes(telemetry.SettingsSourceAttributes(h.configPath, string(f))...)
		}
	}

	logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading settings")

	next, err := h.loader.Load()
	if err != nil {
		h.mu.Lock()
		h.lastLoadErr = err
		h.mu.Unlock()
		metrics.RecordReload(metrics.ReloadFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		span.SetAttributes(telemetry.ReloadAttributes(reloadID, metrics.ReloadFailed, nil, false)...)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("failed to load new settings, keeping current value")
		return fmt.Errorf("load settings: %w", err)
	}

	h.mu.Lock()
	old := h.current
	h.current = next
	h.sources = h.loader.Sources()
	h.lastLoadAt = time.Now()
	h.lastLoadErr = nil
	h.mu.Unlock()

	summary, err := Diff(old, next)
	if err != nil {
		return err
	}
	if len(summary.ChangedFields) == 0 {
		metrics.RecordReload(metrics.ReloadUnchanged)
		span.SetAttributes(telemetry.ReloadAttributes(reloadID, metrics.ReloadUnchanged, nil, false)...)
		logger.Info().Str(xglog.FieldEvent, "config.reload_unchanged").Msg("settings unchanged")
		return nil
	}

	metrics.RecordReload(metrics.ReloadApplied)
	span.SetAttributes(telemetry.ReloadAttributes(reloadID, metrics.ReloadApplied, summary.ChangedFields, summary.RestartRequired)...)
	metrics.ObserveSettings(next.MemoryLimit.Bytes(), flagValues(next))
	h.notifyListeners(next)

	ev := logger.Info()
	if summary.RestartRequired {
		ev = logger.Warn()
	}
	ev.Str(xglog.FieldEvent, "config.reload_success").
		Strs("changed", summary.ChangedFields).
		Bool("restart_required", summary.RestartRequired).
		Msg("settings reloaded")

	return nil
}

// StartWatcher watches the settings file and reloads on change.
// If there is no settings file, this is a no-op (env-only configuration).
// The parent directory is watched so atomic replace-by-rename is seen.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("settings watcher disabled (env-only configuration)")
		return nil
	}

	h.watchMu.Lock()
	defer h.watchMu.Unlock()
	if h.watcher != nil {
		return fmt.Errorf("settings watcher already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(h.configPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch settings dir: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	h.watcher = watcher
	h.watchCancel = cancel
	h.done = make(chan struct{})

	h.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, h.configPath).
		Msg("watching settings file for changes")

	go h.watchLoop(watchCtx, watcher, h.done)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	target := filepath.Clean(h.configPath)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("settings watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			h.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("settings file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(h.debounce, func() {
				if err := h.limiter.Wait(ctx); err != nil {
					return
				}
				if err := h.Reload(ctx); err != nil && ctx.Err() == nil {
					h.logger.Error().
						Err(err).
						Str(xglog.FieldEvent, "config.auto_reload_failed").
						Msg("automatic settings reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("settings watcher error")
		}
	}
}

// Stop stops the watcher (if running) and waits for its goroutine to exit.
// A file-triggered reload that is already running finishes before Stop
// returns; none starts afterwards.
func (h *Holder) Stop() {
	h.watchMu.Lock()
	watcher, cancel, done := h.watcher, h.watchCancel, h.done
	h.watcher, h.watchCancel, h.done = nil, nil, nil
	h.watchMu.Unlock()

	if watcher == nil {
		return
	}
	cancel()
	_ = watcher.Close()
	<-done

	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
}

// RegisterListener registers a channel that receives the new settings after
// every reload that changed something. The caller owns the channel.
func (h *Holder) RegisterListener(ch chan<- Settings) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

// notifyListeners sends the new settings to all listeners (non-blocking).
func (h *Holder) notifyListeners(next Settings) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- next:
		default:
			h.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func flagValues(s Settings) map[string]bool {
	reg, err := GetRegistry()
	if err != nil {
		return nil
	}
	out := make(map[string]bool)
	for _, e := range reg.Entries {
		if b, ok := e.Value(s).(bool); ok {
			out[e.Path] = b
		}
	}
	return out
}
