// Package metrics exposes game counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blockquest"

// Metrics groups the game's collectors. A nil *Metrics is valid and
// records nothing, so components can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	sessions        prometheus.Gauge
	blocksPlaced    prometheus.Counter
	blocksRemoved   prometheus.Counter
	levelsCompleted prometheus.Counter
	sandboxReached  prometheus.Counter
	decodeErrors    prometheus.Counter
	storageErrors   *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Connected player sessions.",
		}),
		blocksPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_placed_total",
			Help:      "Blocks inserted into a grid.",
		}),
		blocksRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_removed_total",
			Help:      "Blocks removed from a grid.",
		}),
		levelsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_completed_total",
			Help:      "Blueprints matched by players.",
		}),
		sandboxReached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sandbox_unlocked_total",
			Help:      "Players who finished the last level.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blueprint_decode_errors_total",
			Help:      "Level blueprints that failed to decode.",
		}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Progress store failures by operation.",
		}, []string{"op"}),
	}
	m.registry.MustRegister(
		m.sessions,
		m.blocksPlaced,
		m.blocksRemoved,
		m.levelsCompleted,
		m.sandboxReached,
		m.decodeErrors,
		m.storageErrors,
	)
	return m
}

// Registry returns the registry holding the game collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) BlockPlaced() {
	if m != nil {
		m.blocksPlaced.Inc()
	}
}

func (m *Metrics) BlockRemoved() {
	if m != nil {
		m.blocksRemoved.Inc()
	}
}

func (m *Metrics) LevelCompleted() {
	if m != nil {
		m.levelsCompleted.Inc()
	}
}

func (m *Metrics) SandboxUnlocked() {
	if m != nil {
		m.sandboxReached.Inc()
	}
}

func (m *Metrics) DecodeError() {
	if m != nil {
		m.decodeErrors.Inc()
	}
}

// StorageError counts a failed store operation ("load", "save", "export", "import").
func (m *Metrics) StorageError(op string) {
	if m != nil {
		m.storageErrors.WithLabelValues(op).Inc()
	}
}
