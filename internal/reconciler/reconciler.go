package reconciler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"movie-catalog/internal/artwork"
	"movie-catalog/internal/catalog"
	"movie-catalog/internal/logging"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/nfo"
	"movie-catalog/internal/scanner"
	"movie-catalog/internal/workers"
)

// ErrInProgress is returned when a reconciliation is triggered while
// another one is still running.
var ErrInProgress = errors.New("reconciliation already in progress")

// Reconciler synchronizes the catalog with the library root.
type Reconciler struct {
	store          *catalog.Store
	libraryDir     string
	interval       time.Duration
	artworkNames   []string
	fallbackPoster string
	numWorkers     int
	stopChan       chan struct{}

	mu              sync.Mutex
	running         bool
	lastRun         time.Time
	lastReport      Report
	initialComplete bool
	initialRunError error
	startTime       time.Time
}

// Report summarizes one reconciliation run.
type Report struct {
	Added     int           `json:"added"`
	Updated   int           `json:"updated"`
	Removed   int           `json:"removed"`
	Errors    int           `json:"errors"`
	Scanned   int           `json:"scanned"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"-"`
}

// HealthStatus contains readiness and progress information for the
// health endpoints.
type HealthStatus struct {
	Ready           bool      `json:"ready"`
	Reconciling     bool      `json:"reconciling"`
	StartTime       time.Time `json:"startTime"`
	Uptime          string    `json:"uptime"`
	LastReconciled  time.Time `json:"lastReconciled,omitempty"`
	InitialRunError string    `json:"initialRunError,omitempty"`
	LastReport      *Report   `json:"lastReport,omitempty"`
}

// New creates a Reconciler over store for the given library root.
// interval of zero disables the periodic loop; Reconcile can still be
// called directly.
func New(store *catalog.Store, libraryDir string, interval time.Duration, artworkNames []string, fallbackPoster string) *Reconciler {
	return &Reconciler{
		store:          store,
		libraryDir:     libraryDir,
		interval:       interval,
		artworkNames:   artworkNames,
		fallbackPoster: fallbackPoster,
		numWorkers:     workers.ForIO(16),
		stopChan:       make(chan struct{}),
		startTime:      time.Now(),
	}
}

// Start runs the initial reconciliation in the background and, when an
// interval is configured, starts the periodic loop.
func (r *Reconciler) Start() {
	go func() {
		logging.Info("Starting initial reconciliation in background...")
		if _, err := r.Reconcile(context.Background()); err != nil {
			logging.Error("Initial reconciliation error: %v", err)
			r.mu.Lock()
			r.initialRunError = err
			r.initialComplete = true
			r.mu.Unlock()
		}
	}()

	if r.interval > 0 {
		go r.periodicReconcile()
	}
}

// Stop stops the periodic loop. An in-flight run finishes normally.
func (r *Reconciler) Stop() {
	close(r.stopChan)
}

func (r *Reconciler) periodicReconcile() {
	logging.Info("Periodic reconciliation enabled (interval: %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic reconciliation triggered")
			if _, err := r.Reconcile(context.Background()); err != nil && !errors.Is(err, ErrInProgress) {
				logging.Error("Periodic reconciliation failed: %v", err)
			}
		case <-r.stopChan:
			logging.Info("Periodic reconciliation stopped")
			return
		}
	}
}

// Reconcile performs one full synchronization of the catalog against the
// library root and returns a summary. Returns ErrInProgress when another
// run is active. Per-item failures are counted in the report and do not
// abort the run; only a failed scan or a failed removal pass does.
func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	if !r.tryStart() {
		return Report{}, ErrInProgress
	}
	defer r.finish()

	metrics.ReconcileIsRunning.Set(1)
	defer metrics.ReconcileIsRunning.Set(0)
	metrics.ReconcileRunsTotal.Inc()

	start := time.Now()
	report := Report{StartedAt: start}
	logging.Info("Starting reconciliation of %s", r.libraryDir)

	candidates, err := scanner.Scan(r.libraryDir, r.artworkNames)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return report, err
	}
	report.Scanned = len(candidates)

	before, err := r.store.MovieKeys(ctx)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return report, err
	}

	found := make(map[string]struct{}, len(candidates))
	for _, cand := range candidates {
		found[cand.Key] = struct{}{}
	}

	var added, updated, failed atomic.Int64

	jobs := make(chan scanner.Candidate)
	var wg sync.WaitGroup

	for i := 0; i < r.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				_, existed := before[cand.Key]
				if err := r.upsertCandidate(ctx, cand); err != nil {
					logging.Error("Failed to reconcile %s: %v", cand.Name, err)
					failed.Add(1)
					metrics.ReconcileItemsTotal.WithLabelValues("error").Inc()
					continue
				}
				if existed {
					updated.Add(1)
					metrics.ReconcileItemsTotal.WithLabelValues("updated").Inc()
				} else {
					added.Add(1)
					metrics.ReconcileItemsTotal.WithLabelValues("added").Inc()
				}
			}
		}()
	}

	for _, cand := range candidates {
		select {
		case jobs <- cand:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			metrics.ReconcileErrors.Inc()
			return report, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	removed, err := r.store.DeleteMoviesNotIn(ctx, found)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return report, err
	}
	metrics.ReconcileItemsTotal.WithLabelValues("removed").Add(float64(removed))

	if err := r.store.RebuildFTS(); err != nil {
		logging.Warn("Search index rebuild failed: %v", err)
	}

	report.Added = int(added.Load())
	report.Updated = int(updated.Load())
	report.Removed = int(removed)
	report.Errors = int(failed.Load())
	report.Duration = time.Since(start)

	r.finalize(ctx, report)

	logging.Info("Reconciliation complete: %d added, %d updated, %d removed, %d errors in %v",
		report.Added, report.Updated, report.Removed, report.Errors, report.Duration)

	return report, nil
}

// upsertCandidate converts one folder into catalog state. A folder with
// a missing or unparseable descriptor still gets a catalog entry using
// the folder name as its title, with no facets.
func (r *Reconciler) upsertCandidate(ctx context.Context, cand scanner.Candidate) error {
	meta := r.metadataFor(cand)

	// The folder's mtime becomes the catalog timestamp on first insert,
	// so newest/oldest sorts reflect when the folder appeared rather
	// than when it was first scanned. Zero when the stat failed; the
	// store falls back to wall clock.
	fields := catalog.MovieFields{
		Title:      meta.Title,
		Year:       meta.Year,
		Synopsis:   meta.Synopsis,
		Poster:     artwork.Resolve(cand.ArtworkCandidates, r.fallbackPoster),
		FolderPath: cand.FolderPath,
		AddedAt:    cand.ModTime,
	}
	if fields.Title == "" {
		fields.Title = cand.Name
	}

	_, err := r.store.UpsertMovie(ctx, cand.Key, fields, meta.Genres, meta.Actors)
	return err
}

// metadataFor parses the candidate's descriptor, degrading to folder-name
// metadata when the descriptor is absent or malformed.
func (r *Reconciler) metadataFor(cand scanner.Candidate) *nfo.Metadata {
	if cand.DescriptorPath == "" {
		logging.Debug("No descriptor for %s, using folder name", cand.Name)
		return &nfo.Metadata{Title: cand.Name}
	}

	meta, err := nfo.Parse(cand.DescriptorPath)
	if err != nil {
		logging.Warn("Descriptor for %s unusable (%v), using folder name", cand.Name, err)
		return &nfo.Metadata{Title: cand.Name}
	}

	for _, warning := range meta.Warnings {
		logging.Debug("Descriptor %s: %s", cand.DescriptorPath, warning)
	}
	return meta
}

// finalize records run state and refreshes catalog statistics.
func (r *Reconciler) finalize(ctx context.Context, report Report) {
	now := time.Now()

	r.mu.Lock()
	r.lastRun = now
	r.lastReport = report
	r.mu.Unlock()

	stats, err := r.store.CalculateStats(ctx)
	if err != nil {
		logging.Warn("Failed to refresh catalog statistics: %v", err)
	} else {
		stats.LastReconciled = now
		stats.ReconcileDuration = report.Duration.String()
		r.store.UpdateStats(stats)
		metrics.CatalogMoviesTotal.Set(float64(stats.TotalMovies))
		metrics.CatalogGenresTotal.Set(float64(stats.TotalGenres))
		metrics.CatalogActorsTotal.Set(float64(stats.TotalActors))
	}

	metrics.ReconcileLastRunTimestamp.Set(float64(now.Unix()))
	metrics.ReconcileLastRunDuration.Set(report.Duration.Seconds())
	r.store.UpdateDBMetrics()
}

func (r *Reconciler) tryStart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Reconciler) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	r.initialComplete = true
}

// IsRunning reports whether a reconciliation is currently in progress.
func (r *Reconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// IsReady reports whether the initial reconciliation has completed.
func (r *Reconciler) IsReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialComplete
}

// LastReport returns the summary of the most recent completed run.
func (r *Reconciler) LastReport() (Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReport, !r.lastRun.IsZero()
}

// GetHealthStatus returns detailed health information.
func (r *Reconciler) GetHealthStatus() HealthStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := HealthStatus{
		Ready:          r.initialComplete,
		Reconciling:    r.running,
		StartTime:      r.startTime,
		Uptime:         time.Since(r.startTime).String(),
		LastReconciled: r.lastRun,
	}

	if r.initialRunError != nil {
		status.InitialRunError = r.initialRunError.Error()
	}
	if !r.lastRun.IsZero() {
		report := r.lastReport
		status.LastReport = &report
	}

	return status
}
