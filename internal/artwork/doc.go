// Package artwork resolves the preferred poster file for a catalog movie.
//
// Resolution walks an ordered candidate list and returns the first path
// that exists on disk at resolution time, degrading to a configured
// fallback. Existence is always re-probed, never cached: a poster deleted
// between rescans degrades to the fallback instead of erroring.
package artwork
