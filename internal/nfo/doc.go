// Package nfo parses Kodi-compatible .nfo sidecar descriptor files.
//
// A descriptor is an XML document with a <movie> root element carrying the
// title, release year, plot, genre list, and actor list for one library
// folder. The parser is deliberately tolerant: missing fields produce
// warnings rather than errors, and junk surrounding the <movie> element
// (media managers commonly append a provider URL after the XML) is ignored.
package nfo
