package nfo

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie.nfo")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return path
}

func TestParseFullDescriptor(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `<?xml version="1.0" encoding="UTF-8"?>
<movie>
  <title>Blade Runner</title>
  <year>1982</year>
  <plot>A blade runner must pursue and terminate four replicants.</plot>
  <genre>Sci-Fi</genre>
  <genre>Thriller</genre>
  <actor>
    <name>Harrison Ford</name>
    <role>Deckard</role>
  </actor>
  <actor>
    <name>Rutger Hauer</name>
  </actor>
</movie>`)

	meta, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if meta.Title != "Blade Runner" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Year != "1982" {
		t.Errorf("Year = %q", meta.Year)
	}
	if meta.Synopsis == "" {
		t.Error("Synopsis is empty")
	}
	if want := []string{"Sci-Fi", "Thriller"}; !reflect.DeepEqual(meta.Genres, want) {
		t.Errorf("Genres = %v, want %v", meta.Genres, want)
	}
	if want := []string{"Harrison Ford", "Rutger Hauer"}; !reflect.DeepEqual(meta.Actors, want) {
		t.Errorf("Actors = %v, want %v", meta.Actors, want)
	}
	if len(meta.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", meta.Warnings)
	}
}

func TestParseLegacyActorForm(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `<movie>
  <title>Alien</title>
  <actor>Sigourney Weaver</actor>
</movie>`)

	meta, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"Sigourney Weaver"}; !reflect.DeepEqual(meta.Actors, want) {
		t.Errorf("Actors = %v, want %v", meta.Actors, want)
	}
}

func TestParseMissingFieldsWarn(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `<movie><plot>something</plot></movie>`)

	meta, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Title != "" {
		t.Errorf("Title = %q, want empty", meta.Title)
	}
	if len(meta.Genres) != 0 || len(meta.Actors) != 0 {
		t.Errorf("facets = %v / %v, want empty", meta.Genres, meta.Actors)
	}
	if len(meta.Warnings) == 0 {
		t.Error("expected warnings for missing title and year")
	}
}

func TestParseDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `<movie>
  <title>T</title><year>2000</year>
  <genre> Drama </genre>
  <genre>Comedy</genre>
  <genre>Drama</genre>
  <actor><name>X</name></actor>
  <actor><name> X </name></actor>
  <actor><name>Y</name></actor>
</movie>`)

	meta, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"Drama", "Comedy"}; !reflect.DeepEqual(meta.Genres, want) {
		t.Errorf("Genres = %v, want %v", meta.Genres, want)
	}
	if want := []string{"X", "Y"}; !reflect.DeepEqual(meta.Actors, want) {
		t.Errorf("Actors = %v, want %v", meta.Actors, want)
	}
}

func TestParseTrailingURLTolerated(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `<movie><title>Heat</title><year>1995</year></movie>
https://www.themoviedb.org/movie/949-heat`)

	meta, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Title != "Heat" {
		t.Errorf("Title = %q, want Heat", meta.Title)
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Parse(filepath.Join(t.TempDir(), "absent.nfo"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"not xml", "this is not a descriptor"},
		{"truncated", "<movie><title>Unfinished"},
		{"wrong root", "<episodedetails><title>ep</title></episodedetails>"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeDescriptor(t, tt.content)
			_, err := Parse(path)

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("err = %v, want *ParseError", err)
			}
		})
	}
}
