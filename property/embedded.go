package property

import (
	"reflect"
	"sort"
)

// Embeddable is the capability of a nested document that is serialized
// inline within its parent's storage representation.
type Embeddable interface {
	Serialize() (map[string]any, error)
}

// EmbeddedType is the class-level capability behind embedded-document
// properties: keyword construction for new instances, reconstruction
// from the storage form, and an instance check.
type EmbeddedType interface {
	// New constructs an instance from application-supplied fields.
	New(fields map[string]any) (Embeddable, error)

	// Construct rebuilds an instance from its storage form.
	Construct(data map[string]any) (Embeddable, error)

	// Instance reports whether v is an instance of this embedded type.
	Instance(v any) (Embeddable, bool)
}

// standardizeEmbedded is the one rule every embedded insertion point
// routes through: instances pass, mappings construct a new instance,
// nil stays nil, anything else is a type error.
func standardizeEmbedded(typ EmbeddedType, v any) (Embeddable, error) {
	if v == nil {
		return nil, nil
	}
	if em, ok := typ.Instance(v); ok {
		return em, nil
	}
	if fields, ok := v.(map[string]any); ok {
		return typ.New(fields)
	}
	return nil, typeErr("embedded document must be an instance or a mapping, not %T", v)
}

// EmDocumentProperty holds a single embedded document.
type EmDocumentProperty struct {
	Base
	typ EmbeddedType
}

// NewEmDocument creates a single embedded-document property.
func NewEmDocument(typ EmbeddedType, opts Options) (*EmDocumentProperty, error) {
	if typ == nil {
		return nil, configErr("embedded document property needs a type")
	}
	p := &EmDocumentProperty{Base: newBase(opts), typ: typ}
	p.coerce = func(v any) (any, error) {
		em, err := standardizeEmbedded(typ, v)
		if err != nil {
			return nil, err
		}
		if em == nil {
			return nil, nil
		}
		return em, nil
	}
	p.check = func(v any) bool {
		switch v.(type) {
		case nil, map[string]any:
			return true
		}
		_, ok := typ.Instance(v)
		return ok
	}
	p.encode = func(v any) (any, error) {
		// Raw mappings are constructed first, so inner fields go
		// through their properties' storage conversion.
		em, err := standardizeEmbedded(typ, v)
		if err != nil || em == nil {
			return nil, err
		}
		return em.Serialize()
	}
	p.decode = func(v any) (any, error) {
		data, ok := v.(map[string]any)
		if !ok {
			return nil, typeErr("stored embedded document must be a mapping, got %T", v)
		}
		return typ.Construct(data)
	}
	return p, nil
}

// EmbeddedList is the container held by EmDocumentsList properties.
// Every insertion point routes through the embedded standardization rule,
// so the list can never hold an un-constructed element.
type EmbeddedList struct {
	typ   EmbeddedType
	items []Embeddable
}

// NewEmbeddedList creates an EmbeddedList of the given values, each
// standardized through the embedded rule.
func NewEmbeddedList(typ EmbeddedType, values ...any) (*EmbeddedList, error) {
	l := &EmbeddedList{typ: typ}
	if err := l.Extend(values...); err != nil {
		return nil, err
	}
	return l, nil
}

// Append adds v to the end of the list.
func (l *EmbeddedList) Append(v any) error {
	em, err := standardizeEmbedded(l.typ, v)
	if err != nil {
		return err
	}
	l.items = append(l.items, em)
	return nil
}

// Insert places v at index i, shifting later elements.
func (l *EmbeddedList) Insert(i int, v any) error {
	em, err := standardizeEmbedded(l.typ, v)
	if err != nil {
		return err
	}
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	l.items = append(l.items[:i], append([]Embeddable{em}, l.items[i:]...)...)
	return nil
}

// Extend appends every value in order. Fails on the first bad element,
// leaving prior appends in place.
func (l *EmbeddedList) Extend(values ...any) error {
	for _, v := range values {
		if err := l.Append(v); err != nil {
			return err
		}
	}
	return nil
}

// Set replaces the element at index i.
func (l *EmbeddedList) Set(i int, v any) error {
	if i < 0 || i >= len(l.items) {
		return typeErr("embedded list index %d out of range [0,%d)", i, len(l.items))
	}
	em, err := standardizeEmbedded(l.typ, v)
	if err != nil {
		return err
	}
	l.items[i] = em
	return nil
}

// Get returns the element at index i, or nil out of range.
func (l *EmbeddedList) Get(i int) Embeddable {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Len returns the number of elements.
func (l *EmbeddedList) Len() int { return len(l.items) }

// Values returns a copy of the elements.
func (l *EmbeddedList) Values() []Embeddable {
	return append([]Embeddable(nil), l.items...)
}

// EmbeddedMap is the container held by EmDocumentsDict properties, a
// string-keyed analogue of EmbeddedList.
type EmbeddedMap struct {
	typ   EmbeddedType
	items map[string]Embeddable
}

// NewEmbeddedMap creates an EmbeddedMap of the given entries, each value
// standardized through the embedded rule.
func NewEmbeddedMap(typ EmbeddedType, items map[string]any) (*EmbeddedMap, error) {
	m := &EmbeddedMap{typ: typ, items: make(map[string]Embeddable, len(items))}
	if err := m.Update(items); err != nil {
		return nil, err
	}
	return m, nil
}

// Set stores v under key.
func (m *EmbeddedMap) Set(key string, v any) error {
	em, err := standardizeEmbedded(m.typ, v)
	if err != nil {
		return err
	}
	m.items[key] = em
	return nil
}

// SetDefault stores v under key only when the key is absent, returning
// the value now present.
func (m *EmbeddedMap) SetDefault(key string, v any) (Embeddable, error) {
	if existing, ok := m.items[key]; ok {
		return existing, nil
	}
	em, err := standardizeEmbedded(m.typ, v)
	if err != nil {
		return nil, err
	}
	m.items[key] = em
	return em, nil
}

// Update stores every entry of items. Entries standardized before any
// are stored, so a bad element leaves the map untouched.
func (m *EmbeddedMap) Update(items map[string]any) error {
	staged := make(map[string]Embeddable, len(items))
	for k, v := range items {
		em, err := standardizeEmbedded(m.typ, v)
		if err != nil {
			return err
		}
		staged[k] = em
	}
	for k, em := range staged {
		m.items[k] = em
	}
	return nil
}

// Get returns the value stored under key.
func (m *EmbeddedMap) Get(key string) (Embeddable, bool) {
	em, ok := m.items[key]
	return em, ok
}

// Delete removes key.
func (m *EmbeddedMap) Delete(key string) {
	delete(m.items, key)
}

// Len returns the number of entries.
func (m *EmbeddedMap) Len() int { return len(m.items) }

// Keys returns the keys in sorted order.
func (m *EmbeddedMap) Keys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EmDocumentsListProperty holds an ordered list of embedded documents.
type EmDocumentsListProperty struct {
	Base
	typ EmbeddedType
}

// NewEmDocumentsList creates a list-of-embedded-documents property.
func NewEmDocumentsList(typ EmbeddedType, opts Options) (*EmDocumentsListProperty, error) {
	if typ == nil {
		return nil, configErr("embedded documents list property needs a type")
	}
	p := &EmDocumentsListProperty{Base: newBase(opts), typ: typ}
	p.coerce = func(v any) (any, error) {
		switch l := v.(type) {
		case nil:
			return NewEmbeddedList(typ)
		case *EmbeddedList:
			return l, nil
		}
		values, ok := toAnySlice(v)
		if !ok {
			return nil, typeErr("embedded documents list accepts a sequence, not %T", v)
		}
		return NewEmbeddedList(typ, values...)
	}
	p.check = func(v any) bool {
		switch v.(type) {
		case nil, *EmbeddedList:
			return true
		}
		values, ok := toAnySlice(v)
		if !ok {
			return false
		}
		for _, elem := range values {
			if _, err := standardizeEmbedded(typ, elem); err != nil {
				return false
			}
		}
		return true
	}
	p.encode = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		list, ok := v.(*EmbeddedList)
		if !ok {
			values, sliceOK := toAnySlice(v)
			if !sliceOK {
				return nil, typeErr("embedded documents list cannot serialize %T", v)
			}
			var err error
			list, err = NewEmbeddedList(typ, values...)
			if err != nil {
				return nil, err
			}
		}
		out := make([]any, 0, list.Len())
		for _, em := range list.Values() {
			if em == nil {
				out = append(out, nil)
				continue
			}
			data, err := em.Serialize()
			if err != nil {
				return nil, err
			}
			out = append(out, data)
		}
		return out, nil
	}
	p.decode = func(v any) (any, error) {
		values, ok := toAnySlice(v)
		if !ok {
			return nil, typeErr("stored embedded documents list must be a sequence, got %T", v)
		}
		list := &EmbeddedList{typ: typ}
		for _, elem := range values {
			data, ok := elem.(map[string]any)
			if !ok {
				return nil, typeErr("stored embedded document must be a mapping, got %T", elem)
			}
			em, err := typ.Construct(data)
			if err != nil {
				return nil, err
			}
			list.items = append(list.items, em)
		}
		return list, nil
	}
	p.emptyDefault = func() any {
		list, _ := NewEmbeddedList(typ)
		return list
	}
	return p, nil
}

// EmDocumentsDictProperty holds a string-keyed mapping of embedded
// documents, for lookups by a caller-chosen key.
type EmDocumentsDictProperty struct {
	Base
	typ EmbeddedType
}

// NewEmDocumentsDict creates a dict-of-embedded-documents property.
func NewEmDocumentsDict(typ EmbeddedType, opts Options) (*EmDocumentsDictProperty, error) {
	if typ == nil {
		return nil, configErr("embedded documents dict property needs a type")
	}
	p := &EmDocumentsDictProperty{Base: newBase(opts), typ: typ}
	p.coerce = func(v any) (any, error) {
		switch m := v.(type) {
		case nil:
			return NewEmbeddedMap(typ, nil)
		case *EmbeddedMap:
			return m, nil
		case map[string]any:
			return NewEmbeddedMap(typ, m)
		default:
			return nil, typeErr("embedded documents dict accepts a mapping, not %T", v)
		}
	}
	p.check = func(v any) bool {
		switch m := v.(type) {
		case nil, *EmbeddedMap:
			return true
		case map[string]any:
			for _, elem := range m {
				if _, err := standardizeEmbedded(typ, elem); err != nil {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	p.encode = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		m, ok := v.(*EmbeddedMap)
		if !ok {
			fields, mapOK := v.(map[string]any)
			if !mapOK {
				return nil, typeErr("embedded documents dict cannot serialize %T", v)
			}
			var err error
			m, err = NewEmbeddedMap(typ, fields)
			if err != nil {
				return nil, err
			}
		}
		out := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			em, _ := m.Get(k)
			if em == nil {
				out[k] = nil
				continue
			}
			data, err := em.Serialize()
			if err != nil {
				return nil, err
			}
			out[k] = data
		}
		return out, nil
	}
	p.decode = func(v any) (any, error) {
		raw, ok := v.(map[string]any)
		if !ok {
			return nil, typeErr("stored embedded documents dict must be a mapping, got %T", v)
		}
		m := &EmbeddedMap{typ: typ, items: make(map[string]Embeddable, len(raw))}
		for k, elem := range raw {
			data, ok := elem.(map[string]any)
			if !ok {
				return nil, typeErr("stored embedded document must be a mapping, got %T", elem)
			}
			em, err := typ.Construct(data)
			if err != nil {
				return nil, err
			}
			m.items[k] = em
		}
		return m, nil
	}
	p.emptyDefault = func() any {
		m, _ := NewEmbeddedMap(typ, nil)
		return m
	}
	return p, nil
}

// toAnySlice converts any slice or array value to []any.
func toAnySlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
