package property

import (
	"reflect"
	"sort"
)

// Map is the container held by Dict properties. It owns its backing map
// and exposes only item-level access, so the document layer can hand it
// out without exposing shared mutable state.
type Map struct {
	items map[string]any
}

// NewMap creates a Map holding a copy of items.
func NewMap(items map[string]any) *Map {
	m := &Map{items: make(map[string]any, len(items))}
	for k, v := range items {
		m.items[k] = v
	}
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Set stores value under key.
func (m *Map) Set(key string, value any) {
	m.items[key] = value
}

// Delete removes key.
func (m *Map) Delete(key string) {
	delete(m.items, key)
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.items) }

// Keys returns the keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the entries as a plain map.
func (m *Map) Items() map[string]any {
	out := make(map[string]any, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Set is an unordered collection of comparable values.
type Set struct {
	items map[any]struct{}
}

// NewSet creates a Set of the given values. Values must be comparable.
func NewSet(values ...any) *Set {
	s := &Set{items: make(map[any]struct{}, len(values))}
	for _, v := range values {
		s.items[v] = struct{}{}
	}
	return s
}

// Add inserts value.
func (s *Set) Add(value any) {
	s.items[value] = struct{}{}
}

// Remove deletes value.
func (s *Set) Remove(value any) {
	delete(s.items, value)
}

// Contains reports membership.
func (s *Set) Contains(value any) bool {
	_, ok := s.items[value]
	return ok
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.items) }

// Values returns the elements in unspecified order.
func (s *Set) Values() []any {
	out := make([]any, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	return out
}

// DictProperty holds a string-keyed mapping, handed to application code
// as a [Map] container. With no default configured, DefaultValue is a
// fresh empty Map.
type DictProperty struct {
	Base
}

// NewDict creates a dict property.
func NewDict(opts Options) *DictProperty {
	p := &DictProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		switch m := v.(type) {
		case nil:
			return nil, nil
		case *Map:
			return m, nil
		case map[string]any:
			return NewMap(m), nil
		default:
			return nil, typeErr("dict accepts a mapping, not %T", v)
		}
	}
	p.check = func(v any) bool {
		switch v.(type) {
		case nil, *Map, map[string]any:
			return true
		default:
			return false
		}
	}
	p.encode = func(v any) (any, error) {
		switch m := v.(type) {
		case nil:
			return nil, nil
		case *Map:
			return m.Items(), nil
		case map[string]any:
			return m, nil
		default:
			return nil, typeErr("dict cannot serialize %T", v)
		}
	}
	p.decode = func(v any) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeErr("stored dict must be a mapping, got %T", v)
		}
		return NewMap(m), nil
	}
	p.emptyDefault = func() any { return NewMap(nil) }
	return p
}

// ListProperty holds an ordered sequence. Elements pass through the base
// pipeline unchanged. With no default configured, DefaultValue is a fresh
// empty slice.
type ListProperty struct {
	Base
}

// NewList creates a list property.
func NewList(opts Options) *ListProperty {
	p := &ListProperty{Base: newBase(opts)}
	p.emptyDefault = func() any { return []any{} }
	return p
}

// SetProperty holds an unordered collection, stored as a list. With no
// default configured, DefaultValue is a fresh empty Set.
type SetProperty struct {
	Base
}

// NewSetProperty creates a set property.
func NewSetProperty(opts Options) *SetProperty {
	p := &SetProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return coerceSet(v)
	}
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		_, err := coerceSet(v)
		return err == nil
	}
	p.encode = func(v any) (any, error) {
		switch s := v.(type) {
		case nil:
			return nil, nil
		case *Set:
			return s.Values(), nil
		}
		set, err := coerceSet(v)
		if err != nil {
			return nil, err
		}
		return set.Values(), nil
	}
	p.decode = func(v any) (any, error) {
		return coerceSet(v)
	}
	p.emptyDefault = func() any { return NewSet() }
	return p
}

// coerceSet builds a Set from another Set or any slice. Go strings are
// not treated as element iterables here. Elements must be comparable.
func coerceSet(v any) (*Set, error) {
	if s, ok := v.(*Set); ok {
		return NewSet(s.Values()...), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		set := NewSet()
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Interface {
				elem = elem.Elem()
			}
			if !elem.IsValid() || !elem.Comparable() {
				return nil, typeErr("set elements must be comparable, got %s", rv.Index(i).Type())
			}
			set.Add(rv.Index(i).Interface())
		}
		return set, nil
	}
	return nil, typeErr("cannot build a set from %T", v)
}
