// Package metrics exposes Prometheus metrics for the quoting engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's collectors, labelled per ticker so several
// loop instances share one registry.
type Metrics struct {
	registry *prometheus.Registry

	TicksProcessed  *prometheus.CounterVec
	TicksSkipped    *prometheus.CounterVec
	OrdersPlaced    *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	GuardBlocked    *prometheus.CounterVec
	CancelAlls      *prometheus.CounterVec
	ThrottledPasses *prometheus.CounterVec

	Position  *prometheus.GaugeVec
	RiskState *prometheus.GaugeVec
	Cushion   *prometheus.GaugeVec
	Spread    *prometheus.GaugeVec
	Imbalance *prometheus.GaugeVec
}

// New builds a Metrics set on its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rit"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"ticker"}

	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "maker", Name: name, Help: help,
		}, labels)
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "maker", Name: name, Help: help,
		}, labels)
	}

	return &Metrics{
		registry:        reg,
		TicksProcessed:  counter("ticks_processed_total", "Ticks the loop acted on."),
		TicksSkipped:    counter("ticks_skipped_total", "Ticks skipped due to unavailable market data."),
		OrdersPlaced:    counter("orders_placed_total", "Orders accepted by the exchange."),
		OrdersRejected:  counter("orders_rejected_total", "Orders the exchange rejected."),
		GuardBlocked:    counter("orders_guard_blocked_total", "Orders blocked by pre-order guards."),
		CancelAlls:      counter("cancel_all_total", "Flatten-triggered cancel-all commands."),
		ThrottledPasses: counter("throttled_passes_total", "Lifecycle passes cut short by the open-order cap."),
		Position:        gauge("position_shares", "Current signed position."),
		RiskState:       gauge("risk_state", "Risk gate state (0 normal, 1 skew, 2 flatten, 3 reverse block)."),
		Cushion:         gauge("cushion", "Liquidity cushion applied to quote bases."),
		Spread:          gauge("spread", "Current spread accumulator value."),
		Imbalance:       gauge("imbalance_shares", "Ask minus bid counterparty volume."),
	}
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StartServer serves /metrics on addr in the background. An empty addr
// disables the server.
func (m *Metrics) StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
