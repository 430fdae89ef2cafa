package store

import "errors"

var (
	// ErrNotFound is returned when a document doesn't exist.
	ErrNotFound = errors.New("arbor: document not found")

	// ErrAlreadyExists is returned when creating a document whose key
	// already exists.
	ErrAlreadyExists = errors.New("arbor: document already exists")

	// ErrDuplicateValue is returned when a unique constraint is violated.
	ErrDuplicateValue = errors.New("arbor: duplicate value for unique field")

	// ErrNotMounted is returned when a document type has no table mounted.
	ErrNotMounted = errors.New("arbor: document type not mounted")
)
