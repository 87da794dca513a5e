package metrics

import (
	"time"

	"movie-catalog/internal/logging"
)

// StatsProvider interface for collecting catalog stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	TotalMovies int
	TotalGenres int
	TotalActors int
}

// Collector periodically collects and updates catalog content metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogMoviesTotal.Set(float64(stats.TotalMovies))
	CatalogGenresTotal.Set(float64(stats.TotalGenres))
	CatalogActorsTotal.Set(float64(stats.TotalActors))

	logging.Debug("Metrics collected: movies=%d, genres=%d, actors=%d",
		stats.TotalMovies, stats.TotalGenres, stats.TotalActors)
}
