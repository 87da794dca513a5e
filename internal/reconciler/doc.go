// Package reconciler drives the library-to-catalog synchronization loop.
// A reconciliation scans the library root, parses each folder's
// descriptor, resolves artwork, and upserts the result into the catalog,
// then removes catalog entries whose folders are gone. Runs are
// single-flight: a second trigger while one is active is rejected rather
// than queued. An optional ticker re-runs the loop on a fixed interval.
package reconciler
