package document

import (
	"fmt"

	"github.com/jacentio/arbor/property"
)

// EmType adapts a document Type into the embedded-document capability
// consumed by embedded properties. Embedded documents have no key of
// their own; they are serialized inline within their parent.
type EmType struct {
	typ *Type
}

// NewEmType creates the embedded adapter for typ.
func NewEmType(typ *Type) *EmType {
	return &EmType{typ: typ}
}

// Type returns the underlying document type.
func (e *EmType) Type() *Type { return e.typ }

// New constructs an embedded instance from application-supplied fields,
// standardizing each through its property.
func (e *EmType) New(fields map[string]any) (property.Embeddable, error) {
	em := &Em{typ: e, data: make(map[string]any, len(fields))}
	for field, value := range fields {
		if err := em.Set(field, value); err != nil {
			return nil, err
		}
	}
	return em, nil
}

// Construct rebuilds an embedded instance from its storage form.
func (e *EmType) Construct(data map[string]any) (property.Embeddable, error) {
	converted, err := e.typ.FromDb(data)
	if err != nil {
		return nil, err
	}
	return &Em{typ: e, data: converted}, nil
}

// Instance reports whether v is an embedded instance of this type.
func (e *EmType) Instance(v any) (property.Embeddable, bool) {
	em, ok := v.(*Em)
	if !ok || em.typ != e {
		return nil, false
	}
	return em, true
}

// Em is one embedded document instance.
type Em struct {
	typ  *EmType
	data map[string]any
}

// Set standardizes value through the field's property and stores it.
func (m *Em) Set(field string, value any) error {
	standardized, err := m.typ.typ.Standardize(field, value)
	if err != nil {
		return err
	}
	m.data[field] = standardized
	return nil
}

// Get returns the stored value for field, or the field's default.
func (m *Em) Get(field string) (any, error) {
	prop, ok := m.typ.typ.Property(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, m.typ.typ.name, field)
	}
	if value, ok := m.data[field]; ok && value != nil {
		return value, nil
	}
	return prop.DefaultValue(), nil
}

// Data returns the live field data mapping.
func (m *Em) Data() map[string]any { return m.data }

// Serialize validates the embedded document and converts it to its
// storage form.
func (m *Em) Serialize() (map[string]any, error) {
	if err := m.typ.typ.Validate(m.data); err != nil {
		return nil, err
	}
	return m.typ.typ.ToDb(m.data)
}
