package document

import "errors"

var (
	// ErrUnknownField is returned when a field name is not declared on
	// the document type.
	ErrUnknownField = errors.New("arbor: unknown field")

	// ErrRequiredField is returned when a required field has no value.
	ErrRequiredField = errors.New("arbor: required field missing")

	// ErrInvalidValue is returned when a field value fails validation.
	ErrInvalidValue = errors.New("arbor: field value failed validation")

	// ErrTypeRegistered is returned when registering a type name twice.
	ErrTypeRegistered = errors.New("arbor: document type already registered")

	// ErrFieldConflict is returned when an inverse link would shadow an
	// existing field on the target type.
	ErrFieldConflict = errors.New("arbor: inverse link conflicts with existing field")
)
