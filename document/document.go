package document

import (
	"fmt"

	"github.com/google/uuid"
)

// Doc is one document instance: a key plus the field data mapping that
// properties read and write. Doc satisfies the property package's
// Document and Referenceable capabilities.
type Doc struct {
	typ  *Type
	key  string
	data map[string]any
}

// New creates an empty document of typ with a generated uuid key.
func New(typ *Type) *Doc {
	return NewWithKey(typ, uuid.NewString())
}

// NewWithKey creates an empty document of typ with the given key.
func NewWithKey(typ *Type, key string) *Doc {
	return &Doc{
		typ:  typ,
		key:  key,
		data: make(map[string]any),
	}
}

// Construct rebuilds a document from its storage form.
func (t *Type) Construct(key string, raw map[string]any) (*Doc, error) {
	data, err := t.FromDb(raw)
	if err != nil {
		return nil, err
	}
	return &Doc{typ: t, key: key, data: data}, nil
}

// Type returns the document's type.
func (d *Doc) Type() *Type { return d.typ }

// Key returns the document's storage key.
func (d *Doc) Key() string { return d.key }

// Data returns the live field data mapping. Reference deletion mutates
// this mapping directly, so callers share it rather than a copy.
func (d *Doc) Data() map[string]any { return d.data }

// Set standardizes value through the field's property and stores it.
func (d *Doc) Set(field string, value any) error {
	standardized, err := d.typ.Standardize(field, value)
	if err != nil {
		return err
	}
	d.data[field] = standardized
	return nil
}

// Get returns the stored value for field, or the field's default when
// nothing is stored. The default is not written back.
func (d *Doc) Get(field string) (any, error) {
	prop, ok := d.typ.Property(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, d.typ.name, field)
	}
	if value, ok := d.data[field]; ok && value != nil {
		return value, nil
	}
	return prop.DefaultValue(), nil
}

// Validate checks the document's data against its type.
func (d *Doc) Validate() error {
	return d.typ.Validate(d.data)
}

// Serialize validates the document and converts it to its storage form.
func (d *Doc) Serialize() (map[string]any, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.typ.ToDb(d.data)
}
