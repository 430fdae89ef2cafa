package property

import (
	"context"
)

// Referenceable is the capability a document needs to be the target of a
// reference: a stable storage key.
type Referenceable interface {
	Key() string
}

// ReferenceTarget describes the allowed target type of a reference
// property: an instance check, a loader for key resolution, and whether
// values of this kind are always held resolved in memory.
type ReferenceTarget interface {
	// TypeName identifies the target type, for diagnostics and
	// registries.
	TypeName() string

	// Instance reports whether v is a document of this target type.
	Instance(v any) (Referenceable, bool)

	// Load resolves a key into a document. Only called for targets
	// whose Resolved is false.
	Load(ctx context.Context, key string) (Referenceable, error)

	// Resolved reports that values of this target are always already
	// resolved, so AttemptLoad passes them through untouched.
	Resolved() bool
}

// AnyTarget matches any Referenceable value. It cannot load by key, so
// references built on it hold whatever they were given.
var AnyTarget ReferenceTarget = anyTarget{}

type anyTarget struct{}

func (anyTarget) TypeName() string { return "any" }

func (anyTarget) Instance(v any) (Referenceable, bool) {
	r, ok := v.(Referenceable)
	return r, ok
}

func (anyTarget) Load(ctx context.Context, key string) (Referenceable, error) {
	return nil, ErrNoLoader
}

func (anyTarget) Resolved() bool { return true }

// refShape tags the shape of a raw reference value once, at the boundary,
// so the conversion logic never re-inspects it.
type refShape int

const (
	refAbsent refShape = iota
	refKey
	refInstance
)

// ReferenceBaseProperty carries the state and helpers shared by the three
// reference variants. A stored reference value is either a raw key string
// or a resolved document of the target type; both forms are valid in
// memory, and conversion to storage always normalizes to the key form.
type ReferenceBaseProperty struct {
	Base
	target         ReferenceTarget
	collectionName string
	referenceBack  bool
}

// RefOptions configures a reference property.
type RefOptions struct {
	// Required marks the field as mandatory.
	Required bool

	// CollectionName, when set, names the inverse-link field synthesized
	// on the target type by the document registry.
	CollectionName string
}

func newReferenceBase(target ReferenceTarget, opts RefOptions) (ReferenceBaseProperty, error) {
	if target == nil {
		return ReferenceBaseProperty{}, configErr("reference property needs a target")
	}
	return ReferenceBaseProperty{
		Base:           newBase(Options{Required: opts.Required}),
		target:         target,
		collectionName: opts.CollectionName,
	}, nil
}

// Target returns the allowed target type.
func (p *ReferenceBaseProperty) Target() ReferenceTarget { return p.target }

// CollectionName returns the configured inverse-link name, or "".
func (p *ReferenceBaseProperty) CollectionName() string { return p.collectionName }

// ReferenceBack reports whether this property was synthesized as the
// inverse side of a link.
func (p *ReferenceBaseProperty) ReferenceBack() bool { return p.referenceBack }

// SetReferenceBack marks this property as the inverse side of a link.
// Called by the document registry, not by application code.
func (p *ReferenceBaseProperty) SetReferenceBack(back bool) { p.referenceBack = back }

// classify tags a raw value as absent, a key, or a resolved instance.
func (p *ReferenceBaseProperty) classify(v any) (refShape, string, error) {
	if v == nil {
		return refAbsent, "", nil
	}
	if key, ok := v.(string); ok {
		return refKey, key, nil
	}
	if obj, ok := p.target.Instance(v); ok {
		return refInstance, obj.Key(), nil
	}
	return refAbsent, "", typeErr("%s reference cannot hold %T", p.target.TypeName(), v)
}

// AttemptToDb normalizes one reference value to its key form. Keys and
// nil pass through; resolved documents yield their key; anything else is
// a type error.
func (p *ReferenceBaseProperty) AttemptToDb(v any) (any, error) {
	shape, key, err := p.classify(v)
	if err != nil {
		return nil, err
	}
	if shape == refAbsent {
		return nil, nil
	}
	return key, nil
}

// attemptLoadOne resolves a single value: always-resolved targets pass
// values through, instances and nil stay as-is, and keys trigger a load.
func (p *ReferenceBaseProperty) attemptLoadOne(ctx context.Context, v any) (any, error) {
	if p.target.Resolved() || v == nil {
		return v, nil
	}
	if _, ok := p.target.Instance(v); ok {
		return v, nil
	}
	if key, ok := v.(string); ok {
		return p.target.Load(ctx, key)
	}
	return nil, typeErr("%s reference cannot resolve %T", p.target.TypeName(), v)
}

// checkOne reports whether one element is a valid reference value.
func (p *ReferenceBaseProperty) checkOne(v any) bool {
	_, _, err := p.classify(v)
	return err == nil
}

// valueKey extracts the comparison key from a stored element, which may
// be a raw key or a resolved document.
func (p *ReferenceBaseProperty) valueKey(v any) (string, bool) {
	if key, ok := v.(string); ok {
		return key, true
	}
	if obj, ok := p.target.Instance(v); ok {
		return obj.Key(), true
	}
	return "", false
}

// ReferenceProperty holds a single reference to a document of the target
// type.
type ReferenceProperty struct {
	ReferenceBaseProperty
}

// NewReference creates a single-valued reference property.
func NewReference(target ReferenceTarget, opts RefOptions) (*ReferenceProperty, error) {
	base, err := newReferenceBase(target, opts)
	if err != nil {
		return nil, err
	}
	p := &ReferenceProperty{ReferenceBaseProperty: base}
	p.check = p.checkOne
	p.encode = p.AttemptToDb
	return p, nil
}

// AttemptLoad resolves the stored value into a document.
func (p *ReferenceProperty) AttemptLoad(ctx context.Context, v any) (any, error) {
	return p.attemptLoadOne(ctx, v)
}

// DeleteReference clears the stored reference on doc if present. Returns
// true when a reference was removed.
func (p *ReferenceProperty) DeleteReference(doc Document, ref Referenceable) bool {
	data := doc.Data()
	if data[p.name] == nil {
		return false
	}
	data[p.name] = nil
	return true
}

// MultiReferenceProperty holds an ordered list of references.
type MultiReferenceProperty struct {
	ReferenceBaseProperty
}

// NewMultiReference creates a list-valued reference property.
func NewMultiReference(target ReferenceTarget, opts RefOptions) (*MultiReferenceProperty, error) {
	base, err := newReferenceBase(target, opts)
	if err != nil {
		return nil, err
	}
	p := &MultiReferenceProperty{ReferenceBaseProperty: base}
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		list, ok := toAnySlice(v)
		if !ok {
			return false
		}
		for _, elem := range list {
			if !p.checkOne(elem) {
				return false
			}
		}
		return true
	}
	p.encode = func(v any) (any, error) {
		if v == nil {
			return []any{}, nil
		}
		list, ok := toAnySlice(v)
		if !ok {
			return nil, typeErr("%s multi-reference must hold a list, not %T", target.TypeName(), v)
		}
		out := make([]any, len(list))
		for i, elem := range list {
			key, err := p.AttemptToDb(elem)
			if err != nil {
				return nil, err
			}
			out[i] = key
		}
		return out, nil
	}
	p.emptyDefault = func() any { return []any{} }
	return p, nil
}

// AttemptLoad resolves every element of the stored list.
func (p *MultiReferenceProperty) AttemptLoad(ctx context.Context, v any) (any, error) {
	if v == nil {
		return []any{}, nil
	}
	list, ok := toAnySlice(v)
	if !ok {
		return nil, typeErr("%s multi-reference must hold a list, not %T", p.target.TypeName(), v)
	}
	out := make([]any, len(list))
	for i, elem := range list {
		loaded, err := p.attemptLoadOne(ctx, elem)
		if err != nil {
			return nil, err
		}
		out[i] = loaded
	}
	return out, nil
}

// DeleteReference removes the first element of doc's stored list whose
// key matches ref's key, writing the shortened list back into the
// document's data. Returns true when an element was removed.
func (p *MultiReferenceProperty) DeleteReference(doc Document, ref Referenceable) bool {
	data := doc.Data()
	list, ok := data[p.name].([]any)
	if !ok {
		return false
	}
	for i, elem := range list {
		key, ok := p.valueKey(elem)
		if !ok {
			continue
		}
		if key == ref.Key() {
			data[p.name] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// DictReferenceProperty holds a string-keyed mapping of references. The
// mapping key is caller-chosen and unrelated to the target's storage key.
// Inverse links are not supported for dict-keyed references.
type DictReferenceProperty struct {
	ReferenceBaseProperty
}

// NewDictReference creates a dict-valued reference property. Configuring
// a CollectionName is a construction error.
func NewDictReference(target ReferenceTarget, opts RefOptions) (*DictReferenceProperty, error) {
	if opts.CollectionName != "" {
		return nil, configErr("collection name not allowed with a dict reference")
	}
	base, err := newReferenceBase(target, opts)
	if err != nil {
		return nil, err
	}
	p := &DictReferenceProperty{ReferenceBaseProperty: base}
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		m, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for _, elem := range m {
			if !p.checkOne(elem) {
				return false
			}
		}
		return true
	}
	p.encode = func(v any) (any, error) {
		if v == nil {
			return map[string]any{}, nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeErr("%s dict reference must hold a mapping, not %T", target.TypeName(), v)
		}
		out := make(map[string]any, len(m))
		for k, elem := range m {
			key, err := p.AttemptToDb(elem)
			if err != nil {
				return nil, err
			}
			out[k] = key
		}
		return out, nil
	}
	p.emptyDefault = func() any { return map[string]any{} }
	return p, nil
}

// AttemptLoad resolves every value of the stored mapping, keys untouched.
func (p *DictReferenceProperty) AttemptLoad(ctx context.Context, v any) (any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeErr("%s dict reference must hold a mapping, not %T", p.target.TypeName(), v)
	}
	out := make(map[string]any, len(m))
	for k, elem := range m {
		loaded, err := p.attemptLoadOne(ctx, elem)
		if err != nil {
			return nil, err
		}
		out[k] = loaded
	}
	return out, nil
}

// DeleteReference removes the entry of doc's stored mapping whose value
// matches ref's key, mutating the mapping in place. Returns true when an
// entry was removed.
func (p *DictReferenceProperty) DeleteReference(doc Document, ref Referenceable) bool {
	data := doc.Data()
	m, ok := data[p.name].(map[string]any)
	if !ok {
		return false
	}
	for k, elem := range m {
		key, ok := p.valueKey(elem)
		if !ok {
			continue
		}
		if key == ref.Key() {
			delete(m, k)
			return true
		}
	}
	return false
}

// ReferenceDeleter is implemented by the property variants that can
// remove a reference to a document from another document's stored data.
type ReferenceDeleter interface {
	Property
	DeleteReference(doc Document, ref Referenceable) bool
}
