package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"movie-catalog/internal/logging"
)

// ErrRootNotFound indicates the library root is missing or unreadable.
var ErrRootNotFound = errors.New("library root not found")

// Candidate is one discovered library folder, paired with its descriptor
// and artwork findings, prior to being committed to the catalog.
type Candidate struct {
	// Name is the folder's display name, case preserved.
	Name string
	// Key is the catalog identity for the folder: its name lower-cased.
	Key string
	// FolderPath is the absolute path of the folder.
	FolderPath string
	// ModTime is the folder's modification time.
	ModTime time.Time
	// DescriptorPath is the path of the folder's .nfo file, or "" if none.
	DescriptorPath string
	// ArtworkCandidates lists the folder's artwork files in priority
	// order. Entries existed at scan time; resolution re-checks them.
	ArtworkCandidates []string
}

// KeyFor derives the catalog key for a folder name. Keys compare
// case-insensitively while stored display values preserve case.
func KeyFor(folderName string) string {
	return strings.ToLower(strings.TrimSpace(folderName))
}

// Scan walks the direct subdirectories of root and returns one Candidate
// per folder, sorted lexicographically by folder name. artworkNames is the
// poster filename priority list, matched case-insensitively against each
// folder's immediate files.
func Scan(root string, artworkNames []string) ([]Candidate, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		folder := filepath.Join(root, entry.Name())
		candidate := Candidate{
			Name:       entry.Name(),
			Key:        KeyFor(entry.Name()),
			FolderPath: folder,
		}

		if info, err := entry.Info(); err == nil {
			candidate.ModTime = info.ModTime()
		}

		files, err := os.ReadDir(folder)
		if err != nil {
			// Folder vanished or became unreadable mid-scan; still
			// yield it so the reconciler records a bare entry.
			logging.Warn("Cannot read library folder %s: %v", folder, err)
			candidates = append(candidates, candidate)
			continue
		}

		candidate.DescriptorPath = findDescriptor(folder, files)
		candidate.ArtworkCandidates = findArtwork(folder, files, artworkNames)
		candidates = append(candidates, candidate)
	}

	// os.ReadDir sorts by filename already; keep the guarantee explicit
	// since the reconciler relies on deterministic order.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})

	return candidates, nil
}

// findDescriptor returns the path of the first .nfo file (lexicographic)
// among the folder's immediate files, or "".
func findDescriptor(folder string, files []os.DirEntry) string {
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(f.Name()), ".nfo") {
			return filepath.Join(folder, f.Name())
		}
	}
	return ""
}

// findArtwork returns the folder's artwork files in priority order,
// matching names case-insensitively against the immediate files only.
func findArtwork(folder string, files []os.DirEntry, artworkNames []string) []string {
	var found []string
	for _, want := range artworkNames {
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if strings.EqualFold(f.Name(), want) {
				found = append(found, filepath.Join(folder, f.Name()))
				break
			}
		}
	}
	return found
}
