package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schemagraph_http_requests_total",
		Help: "Total number of HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schemagraph_http_request_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schemagraph_http_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter.",
	})

	CatalogQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schemagraph_catalog_query_seconds",
		Help:    "Time spent running a catalog query.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	CatalogQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schemagraph_catalog_query_errors_total",
		Help: "Total number of failed catalog queries.",
	}, []string{"query"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "schemagraph_reconcile_seconds",
		Help:    "Time spent reconciling catalog rows into a schema graph.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	ReconcileSkippedRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schemagraph_reconcile_skipped_rows_total",
		Help: "Constraint rows not applied during reconciliation, by reason.",
	}, []string{"reason"})

	SchemaTables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schemagraph_schema_tables",
		Help: "Number of tables in the most recently built schema graph.",
	})

	SchemaRelationships = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schemagraph_schema_relationships",
		Help: "Number of relationships in the most recently built schema graph.",
	})
)
