// Package scanner walks a movie library root and produces one Candidate
// per qualifying subdirectory.
//
// Only direct subdirectories of the root qualify; files and dotfolders at
// the root are skipped. Each Candidate pairs the folder with its descriptor
// file (first .nfo, if any) and the artwork files matching the configured
// priority list. Every scan re-walks from scratch and returns candidates
// in lexicographic folder order so successive runs are reproducible.
package scanner
