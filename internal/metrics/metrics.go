// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry

	submissionsTotal *prometheus.CounterVec
	uploadDuration   *prometheus.HistogramVec
	orphanedUploads  prometheus.Counter

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	catalogMessagesTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		submissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groovity_submissions_total",
				Help: "Total number of registration and beat order submissions",
			},
			[]string{"kind", "outcome"}, // outcome: created, invalid, upload_failed, persist_failed
		),
		uploadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "groovity_upload_duration_seconds",
				Help:    "Duration of payment screenshot uploads",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		orphanedUploads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "groovity_orphaned_uploads_total",
				Help: "Uploaded objects whose database insert failed afterwards",
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Time taken for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		catalogMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groovity_catalog_messages_total",
				Help: "Catalog sync messages handled by the consumer",
			},
			[]string{"routing_key", "outcome"}, // outcome: stored, duplicate, rejected, requeued
		),
	}

	for _, c := range []prometheus.Collector{
		m.submissionsTotal,
		m.uploadDuration,
		m.orphanedUploads,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.catalogMessagesTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordSubmission(kind, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveUpload(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.uploadDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) RecordOrphanedUpload() {
	if m == nil {
		return
	}
	m.orphanedUploads.Inc()
}

// ObserveHTTPRequest records one request. path is the route template, not the
// raw URI, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) RecordCatalogMessage(routingKey, outcome string) {
	if m == nil {
		return
	}
	m.catalogMessagesTotal.WithLabelValues(routingKey, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
