// Package catalog provides the SQLite-backed catalog store for the movie
// library.
//
// It persists three logical relations:
//   - movies, keyed by a case-normalized folder key
//   - facet values (genres, actors), unique by case-insensitive name
//   - movie-facet associations
//
// Mutations are transactional per movie: an upsert replaces the movie's
// scalar fields and fully replaces its facet associations in one
// transaction, so readers never observe a half-written movie. The store
// uses WAL mode so queries can run concurrently with a reconciliation,
// and an FTS5 trigram index over titles backs free-text search.
//
// The schema requires SQLite's FTS5 extension, so builds (including
// tests) need the sqlite_fts5 build tag:
//
//	go build -tags 'sqlite_fts5' ./...
//	go test -tags 'sqlite_fts5' ./...
//
// Without it, Open fails with "no such module: fts5".
package catalog
