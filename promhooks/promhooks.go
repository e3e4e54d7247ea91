// Package promhooks counts objcache hook events as Prometheus metrics.
package promhooks

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/objcache"
	pr "github.com/unkn0wn-root/objcache/provider"
)

type Hooks struct {
	cleared        *prometheus.CounterVec
	clearedEntries *prometheus.CounterVec
	failed         *prometheus.CounterVec
	panicked       *prometheus.CounterVec
}

var _ objcache.Hooks = (*Hooks)(nil)

// New registers the collectors on reg (prometheus.DefaultRegisterer when
// nil). namespace prefixes every metric name, e.g. "myapp".
func New(reg prometheus.Registerer, namespace string) (*Hooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		cleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objcache",
			Name:      "memory_clears_total",
			Help:      "Memory tier clears by reason.",
		}, []string{"reason"}),
		clearedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objcache",
			Name:      "memory_cleared_entries_total",
			Help:      "Entries dropped from the Memory tier by reason.",
		}, []string{"reason"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objcache",
			Name:      "tier_failures_total",
			Help:      "Failed tier operations.",
		}, []string{"op", "tier", "rejected"}),
		panicked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objcache",
			Name:      "transform_panics_total",
			Help:      "Recovered transform panics.",
		}, []string{"op"}),
	}
	for _, c := range []prometheus.Collector{h.cleared, h.clearedEntries, h.failed, h.panicked} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) MemoryCleared(entries int, reason string) {
	h.cleared.WithLabelValues(reason).Inc()
	h.clearedEntries.WithLabelValues(reason).Add(float64(entries))
}

func (h *Hooks) TierFailed(op string, tier objcache.Location, _ string, err error) {
	rejected := strconv.FormatBool(errors.Is(err, pr.ErrRejected))
	h.failed.WithLabelValues(op, tier.String(), rejected).Inc()
}

func (h *Hooks) TransformPanicked(op, _ string, _ any) {
	h.panicked.WithLabelValues(op).Inc()
}
