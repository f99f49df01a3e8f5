// Package metrics exposes Prometheus metrics for the search pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arbitrage"

// Outcome label of a successful search.
const OutcomeSuccess = "success"

// Metrics holds the pipeline collectors and the registry they are registered on.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	searches      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	pollAttempts  prometheus.Histogram
	listings      *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total searches by outcome (success or failure kind)",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each search pipeline stage",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		pollAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_attempts",
			Help:      "Status checks made per scrape job",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_total",
			Help:      "Scraped records by normalization result (kept or dropped)",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searches,
		m.stageDuration,
		m.pollAttempts,
		m.listings,
	)
	return m
}

// ObserveSearch counts a finished search.
func (m *Metrics) ObserveSearch(outcome string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObservePollAttempts records the number of status checks for one job.
func (m *Metrics) ObservePollAttempts(attempts int) {
	if m == nil {
		return
	}
	m.pollAttempts.Observe(float64(attempts))
}

// ObserveListings counts normalized and dropped records.
func (m *Metrics) ObserveListings(kept, dropped int) {
	if m == nil {
		return
	}
	m.listings.WithLabelValues("kept").Add(float64(kept))
	m.listings.WithLabelValues("dropped").Add(float64(dropped))
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
