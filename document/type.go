package document

import (
	"fmt"
	"sort"

	"github.com/jacentio/arbor/property"
)

// Type is a named document type: a set of properties bound to field
// names. Types are declared once and treated as read-only configuration
// afterwards; all per-document state lives in the document's data
// mapping.
type Type struct {
	name  string
	props map[string]property.Property
}

// NewType declares a document type, binding each property to its field
// name.
func NewType(name string, props map[string]property.Property) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: document type needs a name", property.ErrConfiguration)
	}
	t := &Type{
		name:  name,
		props: make(map[string]property.Property, len(props)),
	}
	for field, prop := range props {
		if err := t.addProperty(field, prop); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Type) addProperty(field string, prop property.Property) error {
	if field == "" || prop == nil {
		return fmt.Errorf("%w: type %q has an empty field declaration", property.ErrConfiguration, t.name)
	}
	if _, exists := t.props[field]; exists {
		return fmt.Errorf("%w: type %q declares field %q twice", property.ErrConfiguration, t.name, field)
	}
	prop.Bind(field)
	t.props[field] = prop
	return nil
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Property returns the descriptor for field.
func (t *Type) Property(field string) (property.Property, bool) {
	p, ok := t.props[field]
	return p, ok
}

// Fields returns the declared field names in sorted order.
func (t *Type) Fields() []string {
	fields := make([]string, 0, len(t.props))
	for f := range t.props {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Standardize converts one field's value into its canonical form.
func (t *Type) Standardize(field string, value any) (any, error) {
	prop, ok := t.props[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.name, field)
	}
	return prop.Standardize(value)
}

// Validate checks a data mapping against every declared property:
// required fields must be present and non-nil, and each value must pass
// its property's validation.
func (t *Type) Validate(data map[string]any) error {
	for _, field := range t.Fields() {
		prop := t.props[field]
		value := data[field]
		if value == nil && prop.Required() {
			return fmt.Errorf("%w: %s.%s", ErrRequiredField, t.name, field)
		}
		if !prop.Validate(value) {
			return fmt.Errorf("%w: %s.%s", ErrInvalidValue, t.name, field)
		}
	}
	return nil
}

// ToDb converts a data mapping into its storage form. Absent or nil
// fields are substituted with their property defaults first, so records
// always carry a complete field set.
func (t *Type) ToDb(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(t.props))
	for _, field := range t.Fields() {
		prop := t.props[field]
		value := data[field]
		if value == nil {
			value = prop.DefaultValue()
		}
		converted, err := prop.ConvertToDb(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.name, field, err)
		}
		out[field] = converted
	}
	return out, nil
}

// FromDb converts a raw storage mapping back into canonical form. Fields
// missing from raw go through each property's nil handling, back-filling
// defaults for fields declared after the record was written. Raw keys
// with no declared property are dropped.
func (t *Type) FromDb(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(t.props))
	for _, field := range t.Fields() {
		prop := t.props[field]
		value, err := prop.ConvertFromDb(raw[field])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.name, field, err)
		}
		out[field] = value
	}
	return out, nil
}
