// Package metrics provides Prometheus metrics for inspection operations
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeValidation   = "validation_error"
	OutcomeNotFound     = "not_found"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInternal     = "internal_error"
)

// InspectionMetrics contains Prometheus metrics for the reconciliation engine.
// A nil *InspectionMetrics is valid and records nothing.
type InspectionMetrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rowsReplaced      *prometheus.CounterVec
}

// NewInspectionMetrics creates and registers inspection metrics
func NewInspectionMetrics(registry *prometheus.Registry) (*InspectionMetrics, error) {
	m := &InspectionMetrics{
		registry: registry,
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fertiscan",
				Name:      "inspection_operations_total",
				Help:      "Total number of inspection operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fertiscan",
				Name:      "inspection_operation_duration_seconds",
				Help:      "Time taken by inspection operations",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"op"},
		),
		rowsReplaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fertiscan",
				Name:      "collection_rows_written_total",
				Help:      "Rows inserted while replacing label child collections",
			},
			[]string{"collection"},
		),
	}

	for _, c := range []prometheus.Collector{m.operationsTotal, m.operationDuration, m.rowsReplaced} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func (m *InspectionMetrics) ObserveOperation(op, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(op, outcome).Inc()
	m.operationDuration.WithLabelValues(op).Observe(took.Seconds())
}

func (m *InspectionMetrics) AddRowsWritten(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsReplaced.WithLabelValues(collection).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *InspectionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
