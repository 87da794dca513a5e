package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"movie-catalog/internal/logging"
	"movie-catalog/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// ErrNotFound indicates the requested movie is not in the catalog.
var ErrNotFound = errors.New("movie not found")

// Store manages all catalog persistence for the movie library.
type Store struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	stats   Stats
	statsMu sync.RWMutex
}

// Open opens (or creates) the catalog database at dbPath and initializes
// the schema. dbPath must be the full path to the database file; its
// parent directory must already exist and be writable.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL mode lets queries run concurrently with a reconciliation;
	// busy_timeout prevents "database is locked" errors under load.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info("Catalog store initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	start := time.Now()
	schema := `
	-- Movies table, one row per library folder
	CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		year TEXT NOT NULL DEFAULT '',
		synopsis TEXT NOT NULL DEFAULT '',
		poster TEXT NOT NULL DEFAULT '',
		folder_path TEXT NOT NULL,
		added_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_movies_added_at ON movies(added_at);

	-- Facet tables, unique by case-insensitive name
	CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE
	);

	CREATE TABLE IF NOT EXISTS actors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE
	);

	-- Movie-facet associations
	CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER NOT NULL,
		genre_id INTEGER NOT NULL,
		UNIQUE(movie_id, genre_id)
	);

	CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres(genre_id);

	CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		UNIQUE(movie_id, actor_id)
	);

	CREATE INDEX IF NOT EXISTS idx_movie_actors_actor ON movie_actors(actor_id);

	-- Full-text search over titles
	CREATE VIRTUAL TABLE IF NOT EXISTS movies_fts USING fts5(
		title,
		content='movies',
		content_rowid='id',
		tokenize='trigram'
	);

	CREATE TRIGGER IF NOT EXISTS movies_ai AFTER INSERT ON movies BEGIN
		INSERT INTO movies_fts(rowid, title) VALUES (new.id, new.title);
	END;

	CREATE TRIGGER IF NOT EXISTS movies_ad AFTER DELETE ON movies BEGIN
		INSERT INTO movies_fts(movies_fts, rowid, title) VALUES('delete', old.id, old.title);
	END;

	CREATE TRIGGER IF NOT EXISTS movies_au AFTER UPDATE ON movies BEGIN
		INSERT INTO movies_fts(movies_fts, rowid, title) VALUES('delete', old.id, old.title);
		INSERT INTO movies_fts(rowid, title) VALUES (new.id, new.title);
	END;
	`

	_, err := s.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RebuildFTS rebuilds the full-text search index from the movies table.
func (s *Store) RebuildFTS() error {
	start := time.Now()
	var err error
	defer func() { recordQuery("rebuild_fts", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = s.db.ExecContext(ctx, "INSERT INTO movies_fts(movies_fts) VALUES('rebuild')")
	return err
}

// UpdateStats updates the cached catalog statistics.
func (s *Store) UpdateStats(stats Stats) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats = stats
}

// GetStats returns the cached catalog statistics.
func (s *Store) GetStats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

// UpdateDBMetrics updates database connection metrics
func (s *Store) UpdateDBMetrics() {
	stats := s.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records store query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
