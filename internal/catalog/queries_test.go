package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func seedListingFixture(t *testing.T, store *Store) {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []struct {
		key    string
		title  string
		year   string
		genres []string
		actors []string
	}{
		{"alien (1979)", "Alien", "1979", []string{"Horror", "Sci-Fi"}, []string{"Sigourney Weaver"}},
		{"aliens (1986)", "Aliens", "1986", []string{"Action", "Sci-Fi"}, []string{"Sigourney Weaver", "Michael Biehn"}},
		{"heat (1995)", "Heat", "1995", []string{"Crime"}, []string{"Al Pacino", "Robert De Niro"}},
		{"zodiac (2007)", "Zodiac", "2007", []string{"Crime", "Mystery"}, []string{"Jake Gyllenhaal"}},
	}

	for i, f := range fixtures {
		mustUpsert(t, store, f.key, MovieFields{
			Title:      f.title,
			Year:       f.year,
			FolderPath: "/movies/" + f.key,
			AddedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}, f.genres, f.actors)
	}
}

func titles(listing *MovieListing) []string {
	out := make([]string, 0, len(listing.Movies))
	for _, m := range listing.Movies {
		out = append(out, m.Title)
	}
	return out
}

func TestListMoviesDefaultSort(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}

	if listing.TotalItems != 4 {
		t.Errorf("TotalItems = %d, want 4", listing.TotalItems)
	}
	got := titles(listing)
	want := []string{"Zodiac", "Heat", "Aliens", "Alien"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("newest order = %v, want %v", got, want)
		}
	}
}

func TestListMoviesSorts(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	tests := []struct {
		sort  Sort
		first string
		last  string
	}{
		{SortNewest, "Zodiac", "Alien"},
		{SortOldest, "Alien", "Zodiac"},
		{SortTitleAZ, "Alien", "Zodiac"},
		{SortTitleZA, "Zodiac", "Alien"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			listing, err := store.ListMovies(context.Background(), ListOptions{Sort: tt.sort})
			if err != nil {
				t.Fatalf("ListMovies() error = %v", err)
			}
			got := titles(listing)
			if got[0] != tt.first || got[len(got)-1] != tt.last {
				t.Errorf("order = %v, want first %q last %q", got, tt.first, tt.last)
			}
		})
	}
}

func TestListMoviesSearch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	tests := []struct {
		search string
		want   int
	}{
		{"alien", 2},
		{"ALIEN", 2},
		{"heat", 1},
		{"nomatch", 0},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			listing, err := store.ListMovies(context.Background(), ListOptions{Search: tt.search})
			if err != nil {
				t.Fatalf("ListMovies(search=%q) error = %v", tt.search, err)
			}
			if listing.TotalItems != tt.want {
				t.Errorf("TotalItems = %d, want %d", listing.TotalItems, tt.want)
			}
		})
	}
}

func TestListMoviesShortSearch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	mustUpsert(t, store, "dracula", MovieFields{Title: "Dracula", FolderPath: "/m/dracula"}, nil, nil)

	// Queries below the trigram minimum still match by substring.
	tests := []struct {
		search string
		want   int
	}{
		{"d", 1},
		{"dr", 1},
		{"DR", 1},
		{"dra", 1},
		{"xy", 0},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			listing, err := store.ListMovies(context.Background(), ListOptions{Search: tt.search})
			if err != nil {
				t.Fatalf("ListMovies(search=%q) error = %v", tt.search, err)
			}
			if listing.TotalItems != tt.want {
				t.Errorf("TotalItems = %d, want %d", listing.TotalItems, tt.want)
			}
		})
	}
}

func TestListMoviesSearchQuotesSpecialCharacters(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	mustUpsert(t, store, "m1", MovieFields{Title: `The "Quoted" One`, FolderPath: "/m/1"}, nil, nil)

	listing, err := store.ListMovies(context.Background(), ListOptions{Search: `"quoted"`})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if listing.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", listing.TotalItems)
	}
}

func TestListMoviesGenreFilter(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{Genre: "sci-fi"})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if listing.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", listing.TotalItems)
	}
	for _, m := range listing.Movies {
		if len(m.Genres) == 0 {
			t.Errorf("movie %q returned without facet lists", m.Title)
		}
	}
}

func TestListMoviesActorFilter(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{Actor: "weaver"})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if listing.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", listing.TotalItems)
	}
}

func TestListMoviesCombinedFilters(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{
		Search: "alien",
		Genre:  "action",
		Actor:  "biehn",
	})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if listing.TotalItems != 1 {
		t.Fatalf("TotalItems = %d, want 1", listing.TotalItems)
	}
	if listing.Movies[0].Title != "Aliens" {
		t.Errorf("Title = %q, want Aliens", listing.Movies[0].Title)
	}
}

func TestListMoviesPagination(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		key := fmt.Sprintf("movie-%02d", i)
		mustUpsert(t, store, key, MovieFields{
			Title:      fmt.Sprintf("Movie %02d", i),
			FolderPath: "/m/" + key,
			AddedAt:    base.Add(time.Duration(i) * time.Hour),
		}, nil, nil)
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		listing, err := store.ListMovies(context.Background(), ListOptions{Sort: SortTitleAZ, Page: page, PageSize: 3})
		if err != nil {
			t.Fatalf("ListMovies(page=%d) error = %v", page, err)
		}
		if listing.TotalItems != 7 {
			t.Errorf("TotalItems = %d, want 7", listing.TotalItems)
		}
		if listing.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", listing.TotalPages)
		}
		wantLen := 3
		if page == 3 {
			wantLen = 1
		}
		if len(listing.Movies) != wantLen {
			t.Errorf("page %d has %d movies, want %d", page, len(listing.Movies), wantLen)
		}
		for _, m := range listing.Movies {
			if seen[m.Key] {
				t.Errorf("movie %q appeared on more than one page", m.Key)
			}
			seen[m.Key] = true
		}
	}
	if len(seen) != 7 {
		t.Errorf("pages covered %d movies, want 7", len(seen))
	}
}

func TestListMoviesPageBeyondEnd(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{Page: 50})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if len(listing.Movies) != 0 {
		t.Errorf("page 50 has %d movies, want 0", len(listing.Movies))
	}
	if listing.TotalItems != 4 {
		t.Errorf("TotalItems = %d, want 4", listing.TotalItems)
	}
}

func TestListMoviesDefaultsPageAndSize(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedListingFixture(t, store)

	listing, err := store.ListMovies(context.Background(), ListOptions{Page: -5, PageSize: 0})
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if listing.Page != 1 {
		t.Errorf("Page = %d, want 1", listing.Page)
	}
	if listing.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", listing.PageSize, DefaultPageSize)
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Sort
	}{
		{"newest", SortNewest},
		{"oldest", SortOldest},
		{"az", SortTitleAZ},
		{"za", SortTitleZA},
		{"", SortNewest},
		{"bogus", SortNewest},
	}

	for _, tt := range tests {
		if got := ParseSort(tt.in); got != tt.want {
			t.Errorf("ParseSort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
