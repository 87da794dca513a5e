package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/logging"
)

// UpsertMovie inserts or updates the movie identified by key in a single
// transaction. Scalar fields are replaced and the movie's genre and actor
// associations are fully replaced: stale links never survive an update.
// Facet rows are created lazily with get-or-create semantics. Returns the
// movie's stable row id.
func (s *Store) UpsertMovie(ctx context.Context, key string, fields MovieFields, genres, actors []string) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_movie", start, err) }()

	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		err = errors.New("movie key cannot be empty")
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	addedAt := fields.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	// added_at is deliberately left out of the update set: the catalog
	// timestamp records first insertion, not the latest rescan.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO movies (key, title, year, synopsis, poster, folder_path, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			synopsis = excluded.synopsis,
			poster = excluded.poster,
			folder_path = excluded.folder_path,
			updated_at = strftime('%s', 'now')
	`, key, fields.Title, fields.Year, fields.Synopsis, fields.Poster, fields.FolderPath, addedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("upsert movie %s: %w", key, err)
	}

	var movieID int64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE key = ?", key).Scan(&movieID); err != nil {
		return 0, fmt.Errorf("resolve movie id for %s: %w", key, err)
	}

	if err = replaceAssociations(ctx, tx, movieID, "genres", "movie_genres", "genre_id", genres); err != nil {
		return 0, fmt.Errorf("replace genres for %s: %w", key, err)
	}
	if err = replaceAssociations(ctx, tx, movieID, "actors", "movie_actors", "actor_id", actors); err != nil {
		return 0, fmt.Errorf("replace actors for %s: %w", key, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return movieID, nil
}

// replaceAssociations removes the movie's existing links in joinTable and
// relinks it to the named facet values, creating missing facet rows. The
// insert-or-ignore on the facet name makes concurrent get-or-create safe:
// two writers referencing the same new name converge on one row.
func replaceAssociations(ctx context.Context, tx *sql.Tx, movieID int64, facetTable, joinTable, joinColumn string, names []string) error {
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE movie_id = ?", joinTable), movieID); err != nil {
		return err
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name) VALUES (?) ON CONFLICT(name) DO NOTHING", facetTable), name); err != nil {
			return err
		}

		var facetID int64
		if err := tx.QueryRowContext(ctx,
			fmt.Sprintf("SELECT id FROM %s WHERE name = ? COLLATE NOCASE", facetTable), name).Scan(&facetID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT OR IGNORE INTO %s (movie_id, %s) VALUES (?, ?)", joinTable, joinColumn),
			movieID, facetID); err != nil {
			return err
		}
	}

	return nil
}

// DeleteMoviesNotIn removes every movie whose key is absent from keys,
// along with its facet associations, and returns the number removed.
// Orphaned facet rows are left in place; they only affect filter
// vocabulary through DistinctGenres/DistinctActors, which join against
// surviving movies.
func (s *Store) DeleteMoviesNotIn(ctx context.Context, keys map[string]struct{}) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_missing", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	placeholders := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for key := range keys {
		placeholders = append(placeholders, "?")
		args = append(args, strings.ToLower(key))
	}

	keyFilter := "1=1" // empty set: everything is missing
	if len(args) > 0 {
		keyFilter = fmt.Sprintf("key NOT IN (%s)", strings.Join(placeholders, ","))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	for _, joinTable := range []string{"movie_genres", "movie_actors"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE movie_id IN (SELECT id FROM movies WHERE %s)", joinTable, keyFilter)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}

	result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM movies WHERE %s", keyFilter), args...)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return removed, nil
}

// MovieKeys returns the set of keys currently in the catalog.
func (s *Store) MovieKeys(ctx context.Context) (map[string]struct{}, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("movie_keys", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM movies")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// GetMovie retrieves a single movie by key, including its facet lists.
// Returns ErrNotFound if no movie has that key.
func (s *Store) GetMovie(ctx context.Context, key string) (*Movie, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_movie", start, err) }()

	key = strings.ToLower(strings.TrimSpace(key))

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	movie, err := s.scanMovie(ctx, "SELECT id, key, title, year, synopsis, poster, folder_path, added_at FROM movies WHERE key = ?", key)
	return movie, err
}

// GetMovieByID retrieves a single movie by row id.
func (s *Store) GetMovieByID(ctx context.Context, id int64) (*Movie, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_movie", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	movie, err := s.scanMovie(ctx, "SELECT id, key, title, year, synopsis, poster, folder_path, added_at FROM movies WHERE id = ?", id)
	return movie, err
}

// scanMovie executes a single-row movie query and loads the movie's facet
// lists. Caller must hold at least a read lock.
func (s *Store) scanMovie(ctx context.Context, query string, arg interface{}) (*Movie, error) {
	var movie Movie
	var addedAt int64

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&movie.ID, &movie.Key, &movie.Title, &movie.Year,
		&movie.Synopsis, &movie.Poster, &movie.FolderPath, &addedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	movie.AddedAt = time.Unix(addedAt, 0)

	if movie.Genres, err = s.movieFacets(ctx, "genres", "movie_genres", "genre_id", movie.ID); err != nil {
		return nil, err
	}
	if movie.Actors, err = s.movieFacets(ctx, "actors", "movie_actors", "actor_id", movie.ID); err != nil {
		return nil, err
	}

	return &movie, nil
}

// movieFacets returns the movie's facet names sorted ascending.
// Caller must hold at least a read lock.
func (s *Store) movieFacets(ctx context.Context, facetTable, joinTable, joinColumn string, movieID int64) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT f.name
		FROM %s f
		INNER JOIN %s j ON f.id = j.%s
		WHERE j.movie_id = ?
		ORDER BY f.name COLLATE NOCASE
	`, facetTable, joinTable, joinColumn)

	rows, err := s.db.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
