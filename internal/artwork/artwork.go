package artwork

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve returns the first candidate path that exists on disk, else
// fallback. The fallback is returned unverified; checking it is the
// caller's responsibility at serve time.
func Resolve(candidates []string, fallback string) string {
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return fallback
}

// ResolveStored resolves artwork for a movie whose poster path was stored
// at reconciliation time. The stored path is preferred if it still exists;
// otherwise the movie folder is re-probed against the priority name list,
// and finally the fallback applies. Name matching is case-insensitive.
func ResolveStored(stored, folderPath string, artworkNames []string, fallback string) string {
	if stored != "" && stored != fallback && fileExists(stored) {
		return stored
	}
	return Resolve(probeFolder(folderPath, artworkNames), fallback)
}

// probeFolder lists the folder's immediate files and returns those
// matching the priority names, in priority order.
func probeFolder(folderPath string, artworkNames []string) []string {
	if folderPath == "" {
		return nil
	}
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, want := range artworkNames {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(entry.Name(), want) {
				candidates = append(candidates, filepath.Join(folderPath, entry.Name()))
				break
			}
		}
	}
	return candidates
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
