package property

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidType is returned when a value has no valid coercion for
	// the property it was given to.
	ErrInvalidType = errors.New("arbor: invalid type for property")

	// ErrConfiguration is returned for structurally invalid property
	// setups detected at construction time.
	ErrConfiguration = errors.New("arbor: invalid property configuration")

	// ErrNoLookup is returned by HasValue when a unique property has no
	// existence lookup configured.
	ErrNoLookup = errors.New("arbor: no existence lookup configured")

	// ErrNoLoader is returned when reference resolution is attempted
	// against a target that cannot load documents.
	ErrNoLoader = errors.New("arbor: reference target cannot load documents")
)

// typeErr wraps ErrInvalidType with detail about the offending value.
func typeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidType, fmt.Sprintf(format, args...))
}

// configErr wraps ErrConfiguration with detail.
func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
