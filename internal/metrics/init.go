package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{
		"initialize_schema", "upsert_movie", "delete_missing",
		"get_movie", "list_movies", "movie_keys",
		"distinct_genres", "distinct_actors", "calculate_stats",
		"rebuild_fts",
	} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, outcome := range []string{"added", "updated", "removed", "error"} {
		ReconcileItemsTotal.WithLabelValues(outcome)
	}
}
