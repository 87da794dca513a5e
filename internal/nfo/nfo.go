package nfo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound indicates the descriptor file does not exist.
var ErrNotFound = errors.New("descriptor not found")

// ParseError indicates the descriptor file exists but could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse descriptor %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Metadata is the structured result of parsing one descriptor file.
// Fields absent from the descriptor are left at their zero value and
// noted in Warnings; an empty Genres or Actors list is valid.
type Metadata struct {
	Title    string
	Year     string
	Synopsis string
	Genres   []string
	Actors   []string
	Warnings []string
}

// xmlMovie is the <movie> root element of a Kodi movie NFO.
type xmlMovie struct {
	XMLName xml.Name   `xml:"movie"`
	Title   string     `xml:"title"`
	Year    string     `xml:"year"`
	Plot    string     `xml:"plot"`
	Genres  []string   `xml:"genre"`
	Actors  []xmlActor `xml:"actor"`
}

// xmlActor is one <actor> entry. Modern NFOs nest the name in a child
// element; the legacy form puts it directly in the element text.
type xmlActor struct {
	Name string `xml:"name"`
	Text string `xml:",chardata"`
}

func (a xmlActor) name() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return strings.TrimSpace(a.Text)
}

// Parse reads and parses the descriptor at path.
//
// It returns ErrNotFound if the file is missing and a *ParseError if the
// content cannot be understood as a movie descriptor. Any other result is
// a Metadata whose Warnings record fields the descriptor did not provide.
func Parse(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var movie xmlMovie
	if err := xml.Unmarshal(data, &movie); err != nil {
		// Kodi and several scrapers append a provider URL after the
		// closing tag, which encoding/xml rejects as trailing garbage.
		// Retry on just the <movie> element before giving up.
		trimmed, ok := extractMovieElement(data)
		if !ok {
			return nil, &ParseError{Path: path, Err: err}
		}
		if err := xml.Unmarshal(trimmed, &movie); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	meta := &Metadata{
		Title:    strings.TrimSpace(movie.Title),
		Year:     strings.TrimSpace(movie.Year),
		Synopsis: strings.TrimSpace(movie.Plot),
		Genres:   dedupeTrimmed(movie.Genres),
	}

	var actorNames []string
	for _, actor := range movie.Actors {
		actorNames = append(actorNames, actor.name())
	}
	meta.Actors = dedupeTrimmed(actorNames)

	if meta.Title == "" {
		meta.Warnings = append(meta.Warnings, "missing title")
	}
	if meta.Year == "" {
		meta.Warnings = append(meta.Warnings, "missing year")
	}
	if len(movie.Actors) > len(meta.Actors) {
		meta.Warnings = append(meta.Warnings,
			fmt.Sprintf("dropped %d empty or duplicate actor entries", len(movie.Actors)-len(meta.Actors)))
	}

	return meta, nil
}

// extractMovieElement returns the slice of data spanning the <movie>
// element, or ok=false when no such element is present.
func extractMovieElement(data []byte) ([]byte, bool) {
	s := string(data)
	start := strings.Index(s, "<movie")
	if start == -1 {
		return nil, false
	}
	end := strings.LastIndex(s, "</movie>")
	if end == -1 || end < start {
		return nil, false
	}
	return []byte(s[start : end+len("</movie>")]), true
}

// dedupeTrimmed trims each name, drops empties, and removes exact
// duplicates while preserving first-seen order.
func dedupeTrimmed(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
