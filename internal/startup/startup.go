package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"movie-catalog/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// DefaultArtworkNames is the poster filename priority order used when
// ARTWORK_NAMES is not set. Matching is case-insensitive.
var DefaultArtworkNames = []string{
	"poster.jpg",
	"poster.jpeg",
	"poster.png",
	"poster.webp",
	"folder.jpg",
	"cover.jpg",
}

// Config holds all application configuration
type Config struct {
	LibraryDir      string
	DatabaseDir     string
	Port            string
	MetricsEnabled  bool
	RescanInterval  time.Duration
	PageSize        int
	FallbackPoster  string
	ArtworkNames    []string
	StaticDir       string
	LogStaticFiles  bool
	LogHealthChecks bool

	// Derived paths
	DatabasePath string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	libraryDir := getEnv("LIBRARY_DIR", "/movies")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	port := getEnv("PORT", "8080")
	rescanIntervalStr := getEnv("RESCAN_INTERVAL", "0")
	pageSize := getEnvInt("PAGE_SIZE", 100)
	fallbackPoster := getEnv("FALLBACK_POSTER", "/static/no-poster.png")
	staticDir := getEnv("STATIC_DIR", "./static")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)

	artworkNames := DefaultArtworkNames
	if raw := os.Getenv("ARTWORK_NAMES"); raw != "" {
		artworkNames = splitList(raw)
	}

	logging.Info("  LIBRARY_DIR:       %s", libraryDir)
	logging.Info("  DATABASE_DIR:      %s", databaseDir)
	logging.Info("  PORT:              %s", port)
	logging.Info("  RESCAN_INTERVAL:   %s", rescanIntervalStr)
	logging.Info("  PAGE_SIZE:         %d", pageSize)
	logging.Info("  FALLBACK_POSTER:   %s", fallbackPoster)
	logging.Info("  STATIC_DIR:        %s", staticDir)
	logging.Info("  ARTWORK_NAMES:     %s", strings.Join(artworkNames, ", "))
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	rescanInterval, err := time.ParseDuration(rescanIntervalStr)
	if err != nil {
		if rescanIntervalStr != "0" {
			logging.Warn("  Invalid RESCAN_INTERVAL %q, periodic rescans disabled", rescanIntervalStr)
		}
		rescanInterval = 0
	}

	if pageSize < 1 {
		logging.Warn("  Invalid PAGE_SIZE %d, using default: 100", pageSize)
		pageSize = 100
	}

	libraryDir, err = filepath.Abs(libraryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library directory path: %w", err)
	}

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	config := &Config{
		LibraryDir:      libraryDir,
		DatabaseDir:     databaseDir,
		Port:            port,
		MetricsEnabled:  metricsEnabled,
		RescanInterval:  rescanInterval,
		PageSize:        pageSize,
		FallbackPoster:  fallbackPoster,
		ArtworkNames:    artworkNames,
		StaticDir:       staticDir,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
		DatabasePath:    filepath.Join(databaseDir, "catalog.db"),
	}

	// The library directory only warns: it may be an unmounted volume at
	// startup, and a rescan will report RootNotFound until it appears.
	if info, err := os.Stat(libraryDir); err != nil {
		logging.Warn("  Library directory not accessible: %v", err)
	} else if !info.IsDir() {
		logging.Warn("  Library path is not a directory: %s", libraryDir)
	}

	if err := os.MkdirAll(databaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable: %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	return config, nil
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("  movie-catalog %s (%s)", Version, Commit)
	logging.Info("  %s %s/%s", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("============================================================")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write-test file %s: %v", testFile, err)
	}
	return nil
}

// LogFatal logs a fatal startup error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// LogServerStarted logs that the HTTP server is accepting connections
func LogServerStarted(port string, startupDuration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Listening on :%s (startup took %v)", port, startupDuration)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownInitiated logs the start of graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("Received %s, shutting down gracefully...", signal)
}

// LogShutdownComplete logs the completion of graceful shutdown
func LogShutdownComplete() {
	logging.Info("Shutdown complete")
}
