// Package auth issues and validates the HMAC-signed bearer tokens that carry
// the caller's user ID.
package auth
