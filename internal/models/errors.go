package models

import "errors"

var (
	// ErrInvalidIdentifier is returned when an id string is not a valid store id.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps connectivity and operational failures of the store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidLimit is returned when a search limit is outside the allowed bound.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrCorruptRecord is returned when a stored record cannot be mapped to a Product.
	ErrCorruptRecord = errors.New("corrupt record")
)
