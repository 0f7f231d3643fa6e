package store

import "errors"

var (
	// ErrNotFound is returned when a requested entity is not stored.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProfile indicates a profile without a name or email.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrInvalidRecord indicates an entity that fails its own validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrStorageUnavailable wraps every failure of the underlying medium.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrProfileExists is returned by CreateUserProfile when a profile is
	// already stored.
	ErrProfileExists = errors.New("profile already exists")
)
