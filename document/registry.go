package document

import (
	"context"
	"fmt"

	"github.com/jacentio/arbor/property"
)

// Loader resolves a document key into a loaded document. Implemented by
// the storage layer.
type Loader interface {
	LoadDocument(ctx context.Context, typ *Type, key string) (*Doc, error)
}

// Link records one declared reference with an inverse-link name: the
// source type's field points at the target type, and the target type
// carries a synthesized back-property named CollectionName.
type Link struct {
	// SourceType is the document type declaring the reference.
	SourceType string

	// Field is the reference field on the source type.
	Field string

	// TargetType is the referenced document type.
	TargetType string

	// CollectionName is the back-property field on the target type.
	CollectionName string
}

// Registry holds all known document types and their reference links.
// Registering both sides of a link synthesizes a multi-reference
// back-property on the target type.
type Registry struct {
	types    map[string]*Type
	links    []Link
	byTarget map[string][]Link
	attached map[Link]bool
	loader   Loader
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[string]*Type),
		byTarget: make(map[string][]Link),
		attached: make(map[Link]bool),
	}
}

// SetLoader sets the storage loader used for reference resolution.
func (r *Registry) SetLoader(l Loader) {
	r.loader = l
}

// Register adds a document type. Reference properties with a collection
// name become links; when the link's target type is (or becomes)
// registered, the back-property is attached to it.
func (r *Registry) Register(typ *Type) error {
	if _, exists := r.types[typ.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrTypeRegistered, typ.Name())
	}
	r.types[typ.Name()] = typ

	for _, field := range typ.Fields() {
		prop, _ := typ.Property(field)
		ref, ok := prop.(linkedReference)
		if !ok || ref.CollectionName() == "" || ref.ReferenceBack() {
			continue
		}
		link := Link{
			SourceType:     typ.Name(),
			Field:          field,
			TargetType:     ref.Target().TypeName(),
			CollectionName: ref.CollectionName(),
		}
		r.links = append(r.links, link)
		r.byTarget[link.TargetType] = append(r.byTarget[link.TargetType], link)
	}

	// Attach back-properties for every link whose both sides are now
	// known, including links declared before their target registered.
	for _, link := range r.links {
		if r.attached[link] {
			continue
		}
		target, ok := r.types[link.TargetType]
		if !ok {
			continue
		}
		if err := r.attachBack(target, link); err != nil {
			return err
		}
		r.attached[link] = true
	}
	return nil
}

// linkedReference is the subset of the reference property surface the
// registry needs for inverse-link bookkeeping.
type linkedReference interface {
	property.Property
	Target() property.ReferenceTarget
	CollectionName() string
	ReferenceBack() bool
}

// attachBack synthesizes the inverse multi-reference on the link target.
func (r *Registry) attachBack(target *Type, link Link) error {
	if _, exists := target.Property(link.CollectionName); exists {
		return fmt.Errorf("%w: %s.%s", ErrFieldConflict, target.Name(), link.CollectionName)
	}
	back, err := property.NewMultiReference(r.TargetFor(link.SourceType), property.RefOptions{})
	if err != nil {
		return err
	}
	back.SetReferenceBack(true)
	return target.addProperty(link.CollectionName, back)
}

// Type returns a registered document type by name.
func (r *Registry) Type(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Links returns all registered links.
func (r *Registry) Links() []Link {
	return append([]Link(nil), r.links...)
}

// LinksFrom returns the links declared by the given source type.
func (r *Registry) LinksFrom(sourceType string) []Link {
	var out []Link
	for _, link := range r.links {
		if link.SourceType == sourceType {
			out = append(out, link)
		}
	}
	return out
}

// LinksTo returns the links pointing at the given target type.
func (r *Registry) LinksTo(targetType string) []Link {
	return append([]Link(nil), r.byTarget[targetType]...)
}

// TargetFor returns the reference target for a registered type name. The
// target checks instances by type name and loads through the registry's
// loader; with no loader configured, values are held as-is.
func (r *Registry) TargetFor(typeName string) property.ReferenceTarget {
	return &registryTarget{registry: r, typeName: typeName}
}

type registryTarget struct {
	registry *Registry
	typeName string
}

func (t *registryTarget) TypeName() string { return t.typeName }

func (t *registryTarget) Instance(v any) (property.Referenceable, bool) {
	doc, ok := v.(*Doc)
	if !ok || doc.Type().Name() != t.typeName {
		return nil, false
	}
	return doc, true
}

func (t *registryTarget) Load(ctx context.Context, key string) (property.Referenceable, error) {
	if t.registry.loader == nil {
		return nil, property.ErrNoLoader
	}
	typ, ok := t.registry.types[t.typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", property.ErrConfiguration, t.typeName)
	}
	return t.registry.loader.LoadDocument(ctx, typ, key)
}

func (t *registryTarget) Resolved() bool {
	return t.registry.loader == nil
}
