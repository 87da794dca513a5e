// Package metrics defines the Prometheus instrumentation for the movie
// catalog service.
//
// Metrics are grouped by subsystem:
//   - HTTP request counts, durations, and in-flight gauge
//   - Catalog store query counts and durations
//   - Reconciler run counters, timings, and outcome totals
//   - Catalog content gauges (movies, genres, actors)
//
// All metrics use the movie_catalog_ prefix and are registered via
// promauto at package initialization. InitializeMetrics pre-populates the
// expected label combinations so every series is present from the first
// scrape.
package metrics
