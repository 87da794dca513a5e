package catalog

import (
	"context"
	"fmt"
	"time"
)

// DistinctGenres returns every genre referenced by at least one movie,
// sorted case-insensitively. Orphaned genre rows are excluded.
func (s *Store) DistinctGenres(ctx context.Context) ([]string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("distinct_genres", start, err) }()

	names, err := s.distinctFacets(ctx, "genres", "movie_genres", "genre_id")
	return names, err
}

// DistinctActors returns every actor referenced by at least one movie,
// sorted case-insensitively. Orphaned actor rows are excluded.
func (s *Store) DistinctActors(ctx context.Context) ([]string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("distinct_actors", start, err) }()

	names, err := s.distinctFacets(ctx, "actors", "movie_actors", "actor_id")
	return names, err
}

func (s *Store) distinctFacets(ctx context.Context, facetTable, joinTable, joinColumn string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT DISTINCT f.name
		FROM %s f
		INNER JOIN %s j ON f.id = j.%s
		ORDER BY f.name COLLATE NOCASE ASC
	`, facetTable, joinTable, joinColumn)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// CalculateStats counts movies and referenced facets. The result is also
// written to the stats cache so /api/stats and the metrics collector see
// fresh numbers without re-querying.
func (s *Store) CalculateStats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("calculate_stats", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	prev := s.GetStats()
	stats := Stats{
		LastReconciled:    prev.LastReconciled,
		ReconcileDuration: prev.ReconcileDuration,
	}

	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&stats.TotalMovies); err != nil {
		return Stats{}, err
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT genre_id) FROM movie_genres").Scan(&stats.TotalGenres); err != nil {
		return Stats{}, err
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT actor_id) FROM movie_actors").Scan(&stats.TotalActors); err != nil {
		return Stats{}, err
	}

	s.UpdateStats(stats)
	return stats, nil
}
