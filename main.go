// movie-catalog is a self-hosted HTTP service that reconciles a movie
// library directory into a SQLite catalog and serves query, facet, and
// artwork endpoints over it.
//
// # Build Requirements
//
// The catalog schema uses SQLite's FTS5 extension for title search, so
// the binary must be built with CGO and the FTS5 build tag:
//
//	go build -tags 'sqlite_fts5' -o movie-catalog .
//
// Without the tag, opening the catalog fails at startup with
// "no such module: fts5".
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movie-catalog/internal/catalog"
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/logging"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/reconciler"
	"movie-catalog/internal/startup"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Open catalog store
	store, err := catalog.Open(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to open catalog: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("Failed to close catalog: %v", err)
		}
	}()

	// Initialize reconciler and kick off the initial library scan
	rec := reconciler.New(store, config.LibraryDir, config.RescanInterval,
		config.ArtworkNames, config.FallbackPoster)
	rec.Start()

	// Metrics
	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		collector = metrics.NewCollector(statsAdapter{store}, 30*time.Second)
		collector.Start()
	}

	// Initialize handlers
	h := handlers.New(store, rec, config)

	// Setup router
	router := setupRouter(h, config)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, rec, collector)

	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Without this, a method mismatch inside a subrouter falls through
	// to a plain 404.
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, `{"error":"method not allowed"}`)
	})

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/movies", h.ListMovies).Methods("GET")
	api.HandleFunc("/movies/{key}", h.GetMovie).Methods("GET")
	api.HandleFunc("/genres", h.ListGenres).Methods("GET")
	api.HandleFunc("/actors", h.ListActors).Methods("GET")
	api.HandleFunc("/poster/{key}", h.GetPoster).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/rescan", h.Rescan).Methods("POST")

	// Static files (fallback poster and any bundled assets)
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(config.StaticDir))))

	return r
}

// statsAdapter bridges the catalog store's stats to the metrics collector.
type statsAdapter struct {
	store *catalog.Store
}

func (a statsAdapter) GetStats() metrics.Stats {
	stats := a.store.GetStats()
	return metrics.Stats{
		TotalMovies: stats.TotalMovies,
		TotalGenres: stats.TotalGenres,
		TotalActors: stats.TotalActors,
	}
}

func handleShutdown(srv *http.Server, rec *reconciler.Reconciler, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec.Stop()
	if collector != nil {
		collector.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	startup.LogShutdownComplete()
}
