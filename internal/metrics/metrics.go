package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the checker.
type Metrics struct {
	Registry      *prometheus.Registry
	ChecksTotal   *prometheus.CounterVec
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	RetriesTotal  prometheus.Counter
	ErrorsTotal   *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	checks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skuchecker_checks_total",
			Help: "Total SKU checks by site and resulting status.",
		},
		[]string{"site", "status"},
	)
	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skuchecker_fetches_total",
			Help: "Total page fetches by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skuchecker_fetch_duration_seconds",
			Help:    "Page fetch latency including retries.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skuchecker_retries_total",
			Help: "Total number of retry attempts scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skuchecker_errors_total",
			Help: "Total number of checker errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(checks, fetches, fetchDuration, retries, errorsTotal)

	return &Metrics{
		Registry:      registry,
		ChecksTotal:   checks,
		FetchesTotal:  fetches,
		FetchDuration: fetchDuration,
		RetriesTotal:  retries,
		ErrorsTotal:   errorsTotal,
	}
}

// IncCheck increments the checks counter for a site/status pair.
func (m *Metrics) IncCheck(site, status string) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(site, status).Inc()
}

// IncFetch increments the fetches counter for an outcome label.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchDuration records one fetch duration.
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
