package service

import "errors"

// Service sentinel errors. Callers match them with errors.Is; the API layer
// maps them to status codes.
var (
	// ErrDeckNotFound indicates the deck does not exist or belongs to
	// another user. API layer should map this to HTTP 404 Not Found.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the card does not exist, belongs to another
	// user or is already deactivated. API layer should map this to HTTP 404.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidInput indicates a malformed request parameter.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")
)
