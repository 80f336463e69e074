// Package store defines the persistence interfaces for cards, decks, review
// records and user progress, plus the transaction helper services use to
// make multi-store writes atomic.
package store
