// Package api implements the HTTP handlers for decks, card reviews and
// learner progress. Handlers decode and validate requests, call the service
// layer and map service errors to status codes without leaking internal
// details to clients.
package api
