package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_db_queries_total",
			Help: "Total number of catalog store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_catalog_db_query_duration_seconds",
			Help:    "Catalog store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_db_connections_open",
			Help: "Number of open catalog store connections",
		},
	)
)

// Reconciler metrics
var (
	ReconcileRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movie_catalog_reconcile_runs_total",
			Help: "Total number of reconciliation runs",
		},
	)

	ReconcileLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_reconcile_last_run_timestamp",
			Help: "Timestamp of the last reconciliation run",
		},
	)

	ReconcileLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_reconcile_last_run_duration_seconds",
			Help: "Duration of the last reconciliation run in seconds",
		},
	)

	ReconcileIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_reconcile_running",
			Help: "Whether a reconciliation is currently running (1 = running, 0 = idle)",
		},
	)

	ReconcileItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_reconcile_items_total",
			Help: "Total number of items processed by reconciliation, by outcome",
		},
		[]string{"outcome"}, // "added", "updated", "removed", "error"
	)

	ReconcileErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movie_catalog_reconcile_errors_total",
			Help: "Total number of fatal reconciliation errors",
		},
	)
)

// Catalog content metrics, refreshed by the Collector.
var (
	CatalogMoviesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_movies_total",
			Help: "Number of movies currently in the catalog",
		},
	)

	CatalogGenresTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_genres_total",
			Help: "Number of distinct genres referenced by the catalog",
		},
	)

	CatalogActorsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_catalog_actors_total",
			Help: "Number of distinct actors referenced by the catalog",
		},
	)
)
