// Package common defines shared constants and sentinel errors used across
// the server and the terminal client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrorPersistence marks a failed durable read or write of the store.
	ErrorPersistence = errors.New("persistence failure")

	// Collaborator errors (agent, transcription).
	ErrorCollaborator  = errors.New("collaborator failure")
	ErrorNotConfigured = errors.New("collaborator not configured")

	// Auth errors (invalid or malformed token).
	ErrorInvalidToken = errors.New("invalid token")
)
