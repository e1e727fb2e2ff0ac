// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface used by the HTTP layer and
// background workers.
type Recorder interface {
	RecordRequest(method, path string, statusCode int, duration time.Duration)
	SetShelfSize(count int)
	RecordCatalogSearch(superseded bool)
	RecordCoachReview(ok bool)
}

// Collector implements Recorder on Prometheus metrics.
type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	shelfSize       prometheus.Gauge
	catalogSearches *prometheus.CounterVec
	coachReviews    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "libris_http_requests_total",
			Help: "HTTP requests by method, path and status code",
		}, []string{"method", "path", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "libris_http_request_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		shelfSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "libris_shelf_books",
			Help: "Number of books currently on the shelf",
		}),
		catalogSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "libris_catalog_searches_total",
			Help: "Catalog searches by outcome",
		}, []string{"outcome"}),
		coachReviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "libris_coach_reviews_total",
			Help: "Coach feedback requests by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.shelfSize,
		c.catalogSearches,
		c.coachReviews,
	)

	return c
}

// RecordRequest counts one handled HTTP request.
func (c *Collector) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// SetShelfSize updates the shelf size gauge.
func (c *Collector) SetShelfSize(count int) {
	c.shelfSize.Set(float64(count))
}

// RecordCatalogSearch counts one catalog search.
func (c *Collector) RecordCatalogSearch(superseded bool) {
	outcome := "delivered"
	if superseded {
		outcome = "superseded"
	}
	c.catalogSearches.WithLabelValues(outcome).Inc()
}

// RecordCoachReview counts one coach feedback request.
func (c *Collector) RecordCoachReview(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.coachReviews.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
