// Package metrics exposes tournament counters in the Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "swiss"

const (
	KindAdHoc  = "ad_hoc"
	KindPaired = "paired"
)

// Metrics is safe to use through a nil pointer, in which case nothing is
// recorded.
type Metrics struct {
	registry *prometheus.Registry

	playersRegistered prometheus.Counter
	matchesReported   *prometheus.CounterVec
	roundsOpened      prometheus.Counter
	roundsCompleted   prometheus.Counter
	pairingFallbacks  prometheus.Counter
	integrityChecks   *prometheus.CounterVec
	currentRound      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		playersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_registered_total",
			Help:      "Players registered since start.",
		}),
		matchesReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_reported_total",
			Help:      "Match results recorded, by whether they belonged to a round.",
		}, []string{"kind"}),
		roundsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_opened_total",
			Help:      "Rounds opened by issuing pairings.",
		}),
		roundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Rounds whose pairings have all been reported.",
		}),
		pairingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_rematch_fallbacks_total",
			Help:      "Rounds that could not avoid a rematch.",
		}),
		integrityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_checks_total",
			Help:      "Record reconciliation runs, by result.",
		}, []string{"result"}),
		currentRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_round",
			Help:      "Number of the latest round, 0 before the first pairings.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.playersRegistered,
		m.matchesReported,
		m.roundsOpened,
		m.roundsCompleted,
		m.pairingFallbacks,
		m.integrityChecks,
		m.currentRound,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) PlayerRegistered() {
	if m == nil {
		return
	}
	m.playersRegistered.Inc()
}

func (m *Metrics) MatchReported(kind string) {
	if m == nil {
		return
	}
	m.matchesReported.WithLabelValues(kind).Inc()
}

func (m *Metrics) RoundOpened(number int, rematches bool) {
	if m == nil {
		return
	}
	m.roundsOpened.Inc()
	m.currentRound.Set(float64(number))
	if rematches {
		m.pairingFallbacks.Inc()
	}
}

func (m *Metrics) RoundCompleted() {
	if m == nil {
		return
	}
	m.roundsCompleted.Inc()
}

func (m *Metrics) RoundsReset() {
	if m == nil {
		return
	}
	m.currentRound.Set(0)
}

func (m *Metrics) IntegrityChecked(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.integrityChecks.WithLabelValues(result).Inc()
}

var Module = fx.Provide(New)
