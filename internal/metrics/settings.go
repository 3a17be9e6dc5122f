// Package metrics provides Prometheus metrics for wpconf.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reload outcomes. Bounded label set.
const (
	ReloadApplied   = "applied"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
)

var (
	// ReloadTotal counts settings reloads by outcome.
	ReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wpconf_reload_total",
		Help: "Total number of settings reloads, by result.",
	}, []string{"result"})

	// MemoryLimitBytes is the effective memory ceiling (-1 when unlimited).
	MemoryLimitBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wpconf_memory_limit_bytes",
		Help: "Effective per-process memory limit in bytes, -1 when unlimited.",
	})

	// Flag reports each boolean setting as 0 or 1.
	Flag = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wpconf_flag",
		Help: "Effective value of boolean settings (1 = enabled).",
	}, []string{"key"})
)

// RecordReload counts one reload attempt.
func RecordReload(result string) {
	ReloadTotal.WithLabelValues(result).Inc()
}

// ObserveSettings publishes the effective values.
func ObserveSettings(memoryLimitBytes int64, flags map[string]bool) {
	MemoryLimitBytes.Set(float64(memoryLimitBytes))
	for key, on := range flags {
		v := 0.0
		if on {
			v = 1
		}
		Flag.WithLabelValues(key).Set(v)
	}
}
