package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Filter metrics
	FilterApplications *prometheus.CounterVec
	FilterResults      prometheus.Histogram

	// Catalog metrics
	CatalogLoads *prometheus.CounterVec
	CatalogItems prometheus.Gauge

	// Session metrics
	ActiveSessions prometheus.Gauge
}

// NewCollector creates a collector with its own registry under namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FilterApplications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "filter_applications_total",
				Help:      "Total number of filter applications by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		FilterResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "filter_result_items",
				Help:      "Number of items in the visible subset",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		CatalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_loads_total",
				Help:      "Total number of dataset loads by status",
			},
			[]string{"status"},
		),
		CatalogItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_items",
				Help:      "Number of items in the published dataset",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of live browsing sessions",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.FilterApplications,
		c.FilterResults,
		c.CatalogLoads,
		c.CatalogItems,
		c.ActiveSessions,
	)

	return c
}

// Handler exposes the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveFilter records one engine application. Rejected categories are
// user input, so they share a single label value.
func (c *Collector) ObserveFilter(category string, results int, err error) {
	if err != nil {
		c.FilterApplications.WithLabelValues("invalid", "rejected").Inc()
		return
	}
	c.FilterApplications.WithLabelValues(category, "ok").Inc()
	c.FilterResults.Observe(float64(results))
}

// ObserveLoad records a dataset load attempt
func (c *Collector) ObserveLoad(items int, err error) {
	if err != nil {
		c.CatalogLoads.WithLabelValues("failed").Inc()
		return
	}
	c.CatalogLoads.WithLabelValues("ok").Inc()
	c.CatalogItems.Set(float64(items))
}
