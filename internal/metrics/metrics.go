package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service collectors behind one private
// prometheus registry, exposed on /metrics.
type Registry struct {
	reg *prometheus.Registry

	CatalogEntries   prometheus.Counter
	CatalogSkips     prometheus.Counter
	CatalogFallbacks prometheus.Counter

	HTTPRequests   *prometheus.CounterVec
	HTTPLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	entries := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookify_catalog_entries_total"})
	skips := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookify_catalog_skips_total"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookify_catalog_fallbacks_total"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bookify_http_requests_total"}, []string{"method", "status"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookify_http_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(entries, skips, fallbacks, requests, latency)
	return &Registry{
		reg:              r,
		CatalogEntries:   entries,
		CatalogSkips:     skips,
		CatalogFallbacks: fallbacks,
		HTTPRequests:     requests,
		HTTPLatencySec:   latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
