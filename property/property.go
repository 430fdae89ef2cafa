package property

import (
	"context"
)

// Processor transforms a value at one stage of the conversion pipeline.
// Processors must tolerate nil input.
type Processor func(value any) any

// Validator reports whether a value is acceptable. Validators must not
// panic; malformed input should simply return false.
type Validator func(value any) bool

// ExistenceLookup checks whether a raw value is already stored for a
// field. It backs unique-constraint checks via [Base.HasValue].
type ExistenceLookup interface {
	Exists(ctx context.Context, field string, value any) (bool, error)
}

// Document is the minimal view of a document that reference properties
// need for inverse-link deletion: a key and the raw field data mapping.
type Document interface {
	Key() string
	Data() map[string]any
}

// Property is the contract every field descriptor satisfies. The owning
// document framework calls Standardize on assignment, Validate and
// ConvertToDb before persisting, and ConvertFromDb after loading.
type Property interface {
	// Name returns the bound field name, or "" before binding.
	Name() string

	// Bind sets the field name. Called once by the owning document type
	// after declaration.
	Bind(name string)

	// Required reports whether the owning document must have a non-nil
	// value for this field. Enforced by the document, not the property.
	Required() bool

	// Unique reports whether values of this field must be unique.
	// Enforcement is advisory: the property only exposes HasValue.
	Unique() bool

	// Standardize converts a value from any form into the canonical
	// in-memory form. Returns ErrInvalidType for values with no
	// coercion.
	Standardize(value any) (any, error)

	// Validate reports whether a value is acceptable. It never panics
	// and never returns an error; malformed input is false.
	Validate(value any) bool

	// ConvertToDb serializes a standardized value into a storage-safe
	// primitive.
	ConvertToDb(value any) (any, error)

	// ConvertFromDb deserializes a raw storage value back into the
	// canonical form. A nil raw value is substituted with the resolved
	// default when that default is non-nil, so fields added to a type
	// after records were written are back-filled on load.
	ConvertFromDb(value any) (any, error)

	// DefaultValue resolves the configured default. A func() any default
	// is invoked on every call, so mutable defaults are always fresh.
	DefaultValue() any

	// HasValue checks the existence lookup for the raw value. For
	// non-unique properties the check is skipped and (false, nil) is
	// returned; callers should consult Unique first.
	HasValue(ctx context.Context, value any) (bool, error)
}

// Options configures a property. The zero value is a non-required,
// non-unique property with no default and no processors.
type Options struct {
	// Required marks the field as mandatory for the owning document.
	Required bool

	// Unique marks the field's values as unique across documents.
	Unique bool

	// Default is the value substituted when the field is absent. A
	// func() any is invoked each time a default is needed.
	Default any

	// Validators are ANDed together; an empty list is always valid.
	Validators []Validator

	// ForwardProcessors run at the start of ConvertToDb.
	ForwardProcessors []Processor

	// BackwardProcessors run at the end of ConvertFromDb.
	BackwardProcessors []Processor

	// StandardProcessors run at the start of Standardize.
	StandardProcessors []Processor

	// Lookup backs HasValue for unique properties.
	Lookup ExistenceLookup
}

// applyProcessors threads value through each processor in order. An empty
// list is the identity. Processors may receive nil.
func applyProcessors(value any, processors []Processor) any {
	for _, p := range processors {
		value = p(value)
	}
	return value
}

// Base implements the four-stage contract from composed strategy
// functions. Variants are built by configuring the strategies at
// construction time rather than overriding methods, so the processor
// pipeline and default substitution can never be skipped.
type Base struct {
	name string
	opts Options

	// coerce converts an input value to canonical form inside
	// Standardize, after standard processors. Nil means identity.
	coerce func(value any) (any, error)

	// check is the variant's structural domain check, ANDed with the
	// configured validators. Nil means always true.
	check func(value any) bool

	// encode serializes to the storage form inside ConvertToDb, after
	// forward processors. Nil means identity.
	encode func(value any) (any, error)

	// decode deserializes a non-nil raw storage value inside
	// ConvertFromDb, before default substitution and backward
	// processors. Nil means identity.
	decode func(value any) (any, error)

	// emptyDefault produces the variant's empty container when no
	// default is configured. Nil means the default stays nil.
	emptyDefault func() any
}

func newBase(opts Options) Base {
	return Base{opts: opts}
}

// Name returns the bound field name, or "" before binding.
func (b *Base) Name() string { return b.name }

// Bind sets the field name.
func (b *Base) Bind(name string) { b.name = name }

// Required reports whether the field is mandatory.
func (b *Base) Required() bool { return b.opts.Required }

// Unique reports whether the field's values must be unique.
func (b *Base) Unique() bool { return b.opts.Unique }

// Standardize runs the standard processors, then the variant coercion.
func (b *Base) Standardize(value any) (any, error) {
	value = applyProcessors(value, b.opts.StandardProcessors)
	if b.coerce != nil {
		return b.coerce(value)
	}
	return value, nil
}

// Validate runs the configured validators, then the variant's structural
// check. All results are ANDed.
func (b *Base) Validate(value any) bool {
	for _, v := range b.opts.Validators {
		if !v(value) {
			return false
		}
	}
	if b.check != nil {
		return b.check(value)
	}
	return true
}

// ConvertToDb runs the forward processors, then the variant encoding.
func (b *Base) ConvertToDb(value any) (any, error) {
	value = applyProcessors(value, b.opts.ForwardProcessors)
	if b.encode != nil {
		return b.encode(value)
	}
	return value, nil
}

// ConvertFromDb decodes a non-nil raw value, substitutes the default for
// nil, then runs the backward processors.
func (b *Base) ConvertFromDb(value any) (any, error) {
	if value != nil && b.decode != nil {
		decoded, err := b.decode(value)
		if err != nil {
			return nil, err
		}
		value = decoded
	}
	if value == nil {
		if d := b.DefaultValue(); d != nil {
			value = d
		}
	}
	return applyProcessors(value, b.opts.BackwardProcessors), nil
}

// DefaultValue resolves the configured default, invoking it when it is a
// func() any. When no default is configured the variant's empty container
// is produced instead, fresh on every call.
func (b *Base) DefaultValue() any {
	d := b.opts.Default
	if fn, ok := d.(func() any); ok {
		d = fn()
	}
	if d == nil && b.emptyDefault != nil {
		return b.emptyDefault()
	}
	return d
}

// HasValue checks whether value already exists in storage. The check only
// applies to unique properties; otherwise it is skipped.
func (b *Base) HasValue(ctx context.Context, value any) (bool, error) {
	if !b.opts.Unique {
		return false, nil
	}
	if b.opts.Lookup == nil {
		return false, ErrNoLookup
	}
	return b.opts.Lookup.Exists(ctx, b.name, value)
}
