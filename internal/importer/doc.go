// Package importer bulk-loads flashcards from xlsx or csv files into a deck.
//
// Each row holds front, back, notes, hints, tags, difficulty and priority in
// that order. Hints and tags are separated by semicolons. Rows before the
// configured start row are treated as headers.
package importer
