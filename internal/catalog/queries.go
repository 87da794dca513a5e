package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"movie-catalog/internal/logging"
)

// listSpec accumulates the shared FROM/WHERE fragments for a movie listing
// so the count query and the page query always agree.
type listSpec struct {
	joins []string
	conds []string
	args  []interface{}
}

func (ls *listSpec) where() string {
	if len(ls.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(ls.conds, " AND ")
}

func (ls *listSpec) from() string {
	sb := strings.Builder{}
	sb.WriteString("movies m")
	for _, j := range ls.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	return sb.String()
}

// ListMovies returns one page of the catalog after applying the search,
// genre, and actor filters and the requested sort. All filters are ANDed.
// Title search uses the FTS index when available and falls back to a LIKE
// scan if the FTS query fails. Page numbers are 1-based; out-of-range
// pages return an empty movie list with accurate totals.
func (s *Store) ListMovies(ctx context.Context, opts ListOptions) (*MovieListing, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_movies", start, err) }()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// The trigram tokenizer cannot match queries shorter than three
	// characters and reports an empty result rather than an error, so
	// short searches go straight to the LIKE scan.
	search := strings.TrimSpace(opts.Search)
	if utf8.RuneCountInString(search) >= 3 {
		listing, ftsErr := s.listPage(ctx, opts, buildListSpec(opts, true))
		if ftsErr == nil {
			return listing, nil
		}
		logging.Debug("FTS search failed, falling back to LIKE: %v", ftsErr)
	}

	listing, err := s.listPage(ctx, opts, buildListSpec(opts, false))
	return listing, err
}

// buildListSpec assembles the joins and predicates for the given options.
// useFTS selects the trigram index for the title search; otherwise a
// case-insensitive LIKE is used.
func buildListSpec(opts ListOptions, useFTS bool) *listSpec {
	ls := &listSpec{}

	if search := strings.TrimSpace(opts.Search); search != "" {
		if useFTS {
			ls.joins = append(ls.joins, "INNER JOIN movies_fts ON movies_fts.rowid = m.id")
			ls.conds = append(ls.conds, "movies_fts MATCH ?")
			ls.args = append(ls.args, prepareSearchTerm(search))
		} else {
			ls.conds = append(ls.conds, "m.title LIKE ? COLLATE NOCASE")
			ls.args = append(ls.args, "%"+search+"%")
		}
	}

	if genre := strings.TrimSpace(opts.Genre); genre != "" {
		ls.conds = append(ls.conds, `EXISTS (
			SELECT 1 FROM movie_genres mg
			INNER JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id AND g.name LIKE ? COLLATE NOCASE
		)`)
		ls.args = append(ls.args, "%"+genre+"%")
	}

	if actor := strings.TrimSpace(opts.Actor); actor != "" {
		ls.conds = append(ls.conds, `EXISTS (
			SELECT 1 FROM movie_actors ma
			INNER JOIN actors a ON a.id = ma.actor_id
			WHERE ma.movie_id = m.id AND a.name LIKE ? COLLATE NOCASE
		)`)
		ls.args = append(ls.args, "%"+actor+"%")
	}

	return ls
}

// prepareSearchTerm quotes the user's search string for an FTS5 MATCH so
// query syntax characters are treated literally.
func prepareSearchTerm(search string) string {
	return `"` + strings.ReplaceAll(search, `"`, `""`) + `"`
}

// orderClause maps a Sort to its ORDER BY. Ties break on key so paging is
// stable across requests.
func orderClause(sort Sort) string {
	switch sort {
	case SortOldest:
		return "ORDER BY m.added_at ASC, m.key ASC"
	case SortTitleAZ:
		return "ORDER BY m.title COLLATE NOCASE ASC, m.key ASC"
	case SortTitleZA:
		return "ORDER BY m.title COLLATE NOCASE DESC, m.key ASC"
	default:
		return "ORDER BY m.added_at DESC, m.key ASC"
	}
}

// listPage runs the count and page queries for one spec. Caller must hold
// at least a read lock.
func (s *Store) listPage(ctx context.Context, opts ListOptions, ls *listSpec) (*MovieListing, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", ls.from(), ls.where())

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, ls.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(opts.PageSize)))

	listing := &MovieListing{
		Movies:     []Movie{},
		TotalItems: total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
	}

	offset := (opts.Page - 1) * opts.PageSize
	if total == 0 || offset >= total {
		return listing, nil
	}

	pageQuery := fmt.Sprintf(`
		SELECT m.id, m.key, m.title, m.year, m.synopsis, m.poster, m.folder_path, m.added_at
		FROM %s%s
		%s
		LIMIT ? OFFSET ?
	`, ls.from(), ls.where(), orderClause(opts.Sort))

	args := append(append([]interface{}{}, ls.args...), opts.PageSize, offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movie Movie
		var addedAt int64
		if err := rows.Scan(&movie.ID, &movie.Key, &movie.Title, &movie.Year,
			&movie.Synopsis, &movie.Poster, &movie.FolderPath, &addedAt); err != nil {
			return nil, err
		}
		movie.AddedAt = time.Unix(addedAt, 0)
		listing.Movies = append(listing.Movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range listing.Movies {
		m := &listing.Movies[i]
		var err error
		if m.Genres, err = s.movieFacets(ctx, "genres", "movie_genres", "genre_id", m.ID); err != nil {
			return nil, err
		}
		if m.Actors, err = s.movieFacets(ctx, "actors", "movie_actors", "actor_id", m.ID); err != nil {
			return nil, err
		}
	}

	return listing, nil
}
