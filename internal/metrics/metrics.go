// Package metrics exposes Prometheus counters for the simulator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the simulator. A nil *Metrics is
// valid and turns every increment into a no-op, so components can run without
// a registry in tests.
type Metrics struct {
	PriceTicksTotal          prometheus.Counter
	TradesTotal              *prometheus.CounterVec
	TradeRejectionsTotal     prometheus.Counter
	PersistenceFailuresTotal prometheus.Counter

	registry *prometheus.Registry
}

// New creates a metrics set on its own registry.
func New() *Metrics {
	m := &Metrics{
		PriceTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "investsim_price_ticks_total",
			Help: "Completed price feed ticks.",
		}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "investsim_trades_total",
			Help: "Executed trades by kind.",
		}, []string{"kind"}),
		TradeRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "investsim_trade_rejections_total",
			Help: "Trade intents rejected by the ledger.",
		}),
		PersistenceFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "investsim_persistence_failures_total",
			Help: "Account snapshot or journal writes that failed.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.PriceTicksTotal,
		m.TradesTotal,
		m.TradeRejectionsTotal,
		m.PersistenceFailuresTotal,
	)
	return m
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncPriceTick counts one completed feed tick.
func (m *Metrics) IncPriceTick() {
	if m == nil {
		return
	}
	m.PriceTicksTotal.Inc()
}

// IncTrade counts one executed trade.
func (m *Metrics) IncTrade(kind string) {
	if m == nil {
		return
	}
	m.TradesTotal.WithLabelValues(kind).Inc()
}

// IncTradeRejection counts one rejected trade intent.
func (m *Metrics) IncTradeRejection() {
	if m == nil {
		return
	}
	m.TradeRejectionsTotal.Inc()
}

// IncPersistenceFailure counts one failed snapshot or journal write.
func (m *Metrics) IncPersistenceFailure() {
	if m == nil {
		return
	}
	m.PersistenceFailuresTotal.Inc()
}
