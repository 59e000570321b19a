// Package metrics exposes service-desk counters and gauges to Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "servicedesk"

// Transition outcomes used as the result label.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	transitions   *prometheus.CounterVec
	staleOrders   *prometheus.GaugeVec
	purgedEntries prometheus.Counter
	purgedOrders  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Status transition attempts by target status and result.",
		}, []string{"to_status", "result"}),
		staleOrders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_orders",
			Help:      "Active orders idle beyond the threshold at the last scan, by priority.",
		}, []string{"priority"}),
		purgedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_purged_entries_total",
			Help:      "Ledger entries removed by retention purges.",
		}),
		purgedOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_purged_orders_total",
			Help:      "Order histories removed by retention purges.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.staleOrders,
		m.purgedEntries,
		m.purgedOrders,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTransition counts one transition attempt.
func (m *Metrics) ObserveTransition(to order.Status, err error) {
	m.transitions.WithLabelValues(to.String(), Result(err)).Inc()
}

// SetStaleOrders replaces the stale-order gauge with the latest scan.
func (m *Metrics) SetStaleOrders(stale []services.StaleOrder) {
	counts := map[services.StalePriority]int{
		services.StalePriorityMedium: 0,
		services.StalePriorityHigh:   0,
	}
	for _, s := range stale {
		counts[s.Priority]++
	}
	for priority, n := range counts {
		m.staleOrders.WithLabelValues(string(priority)).Set(float64(n))
	}
}

// AddPurged counts what a retention purge removed.
func (m *Metrics) AddPurged(result ports.PurgeResult) {
	m.purgedEntries.Add(float64(result.Entries))
	m.purgedOrders.Add(float64(result.Orders))
}

// Result maps a transition error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, errs.ErrConcurrentModification):
		return ResultConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return ResultNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ResultInvalid
	default:
		return ResultError
	}
}
