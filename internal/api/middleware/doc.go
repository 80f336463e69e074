// Package middleware contains the HTTP middleware for request tracing and
// bearer token authentication.
package middleware
