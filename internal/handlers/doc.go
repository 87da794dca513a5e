// Package handlers implements the HTTP API: movie listing and detail,
// facet vocabularies, poster serving, rescan triggering, and the health,
// version, and stats endpoints.
package handlers
