package service

import "errors"

// Sentinel errors the API layer translates into HTTP statuses.
var (
	// ErrNotFound means the requested record does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner means the record exists but belongs to another user.
	ErrNotOwner = errors.New("not the owner of this record")

	// ErrDuplicate means a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("record already exists")

	// ErrInvalidCredentials covers both unknown emails and wrong
	// passwords so login failures stay indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrFeatureUnavailable means a backing relation for the feature has
	// not been provisioned in this deployment.
	ErrFeatureUnavailable = errors.New("feature not available yet")

	// ErrMediaLimit means a recipe is already at its attachment ceiling.
	ErrMediaLimit = errors.New("media attachment limit reached")
)
