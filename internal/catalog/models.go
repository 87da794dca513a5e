package catalog

import "time"

// Movie is one catalog entry, one library folder.
type Movie struct {
	ID         int64     `json:"id"`
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	Year       string    `json:"year,omitempty"`
	Synopsis   string    `json:"synopsis,omitempty"`
	Poster     string    `json:"poster,omitempty"`
	FolderPath string    `json:"folderPath"`
	AddedAt    time.Time `json:"addedAt"`
	Genres     []string  `json:"genres"`
	Actors     []string  `json:"actors"`
}

// MovieFields are the scalar fields written by an upsert. AddedAt is only
// applied on insert; updates preserve the original catalog timestamp.
type MovieFields struct {
	Title      string
	Year       string
	Synopsis   string
	Poster     string
	FolderPath string
	AddedAt    time.Time
}

// DefaultPageSize is the listing page size applied when the caller does
// not supply one.
const DefaultPageSize = 100

// Sort selects the ordering of a movie listing.
type Sort string

const (
	// SortNewest orders by catalog timestamp descending (default).
	SortNewest Sort = "newest"
	// SortOldest orders by catalog timestamp ascending.
	SortOldest Sort = "oldest"
	// SortTitleAZ orders by title ascending.
	SortTitleAZ Sort = "az"
	// SortTitleZA orders by title descending.
	SortTitleZA Sort = "za"
)

// ParseSort maps a query-string sort value to a Sort, defaulting to newest.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortOldest, SortTitleAZ, SortTitleZA:
		return Sort(s)
	default:
		return SortNewest
	}
}

// ListOptions is the composable query specification consumed by
// ListMovies. One specification drives both the total count and the page
// fetch. All filters are optional.
type ListOptions struct {
	// Search matches titles by case-insensitive substring.
	Search string
	// Genre matches movies with a genre name containing this substring.
	Genre string
	// Actor matches movies with an actor name containing this substring.
	Actor string
	Sort  Sort
	// Page is 1-based.
	Page     int
	PageSize int
}

// MovieListing is one page of query results.
type MovieListing struct {
	Movies     []Movie `json:"movies"`
	TotalItems int     `json:"totalItems"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// Stats holds catalog content statistics.
type Stats struct {
	TotalMovies       int       `json:"totalMovies"`
	TotalGenres       int       `json:"totalGenres"`
	TotalActors       int       `json:"totalActors"`
	LastReconciled    time.Time `json:"lastReconciled"`
	ReconcileDuration string    `json:"reconcileDuration,omitempty"`
}
