package vault

import "errors"

// Vault service errors.
var (
	// ErrNotFound indicates the named entity does not exist.
	ErrNotFound = errors.New("vault: not found")

	// ErrExists indicates the entity is already present.
	ErrExists = errors.New("vault: already exists")

	// ErrUnauthorized indicates a failed login or revoked session.
	ErrUnauthorized = errors.New("vault: unauthorized")
)
