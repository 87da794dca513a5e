// Package workers provides worker pool sizing for concurrent tasks.
//
// Worker counts are derived from the available CPU count (respecting
// container CPU limits via GOMAXPROCS) and can be overridden with the
// RESCAN_WORKERS environment variable.
package workers
