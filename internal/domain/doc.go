// Package domain contains the core business entities, value objects, and
// domain logic of the application: decks, flashcards with their
// spaced-repetition review state, grades and review records. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
