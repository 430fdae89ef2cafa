package property_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/property"
)

func TestMap_ItemAccess(t *testing.T) {
	m := property.NewMap(map[string]any{"a": 1})

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	m.Set("b", "two")
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestMap_CopiesOnConstructionAndItems(t *testing.T) {
	src := map[string]any{"a": 1}
	m := property.NewMap(src)
	src["a"] = 99
	v, _ := m.Get("a")
	assert.Equal(t, 1, v)

	items := m.Items()
	items["a"] = 42
	v, _ = m.Get("a")
	assert.Equal(t, 1, v)
}

func TestDict_WrapsPlainMaps(t *testing.T) {
	p := property.NewDict(property.Options{})

	std, err := p.Standardize(map[string]any{"k": "v"})
	require.NoError(t, err)
	m, ok := std.(*property.Map)
	require.True(t, ok)
	got, _ := m.Get("k")
	assert.Equal(t, "v", got)
}

func TestDict_RejectsNonMappings(t *testing.T) {
	p := property.NewDict(property.Options{})

	_, err := p.Standardize([]any{1, 2})
	assert.ErrorIs(t, err, property.ErrInvalidType)
	assert.False(t, p.Validate([]any{1, 2}))
}

func TestDict_RoundTrip(t *testing.T) {
	p := property.NewDict(property.Options{})

	std, err := p.Standardize(map[string]any{"count": 3})
	require.NoError(t, err)
	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 3}, raw)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	m, ok := back.(*property.Map)
	require.True(t, ok)
	got, _ := m.Get("count")
	assert.Equal(t, 3, got)
}

func TestDict_DefaultsAreIndependent(t *testing.T) {
	p := property.NewDict(property.Options{})

	first, ok := p.DefaultValue().(*property.Map)
	require.True(t, ok)
	second, ok := p.DefaultValue().(*property.Map)
	require.True(t, ok)

	first.Set("k", 1)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 0, second.Len())
}

func TestList_DefaultsAreIndependent(t *testing.T) {
	p := property.NewList(property.Options{})

	first, ok := p.DefaultValue().([]any)
	require.True(t, ok)
	second, ok := p.DefaultValue().([]any)
	require.True(t, ok)

	first = append(first, "x")
	assert.Len(t, first, 1)
	assert.Len(t, second, 0)
}

func TestSet_Semantics(t *testing.T) {
	s := property.NewSet("a", "b", "a")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))

	s.Add("c")
	s.Remove("b")
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("b"))
	assert.ElementsMatch(t, []any{"a", "c"}, s.Values())
}

func TestSetProperty_CoercesSlices(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	std, err := p.Standardize([]any{"a", "b", "a"})
	require.NoError(t, err)
	s, ok := std.(*property.Set)
	require.True(t, ok)
	assert.Equal(t, 2, s.Len())

	std, err = p.Standardize([]string{"x", "y"})
	require.NoError(t, err)
	s, ok = std.(*property.Set)
	require.True(t, ok)
	assert.True(t, s.Contains("x"))
}

func TestSetProperty_CopiesExistingSet(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	orig := property.NewSet("a")
	std, err := p.Standardize(orig)
	require.NoError(t, err)
	copied, ok := std.(*property.Set)
	require.True(t, ok)

	copied.Add("b")
	assert.False(t, orig.Contains("b"))
}

func TestSetProperty_StringIsNotIterable(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	_, err := p.Standardize("abc")
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestSetProperty_UncomparableElementsRejected(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	_, err := p.Standardize([]any{[]any{"nested"}})
	assert.ErrorIs(t, err, property.ErrInvalidType)
	assert.False(t, p.Validate([]any{[]any{"nested"}}))
}

func TestSetProperty_RoundTrip(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	std, err := p.Standardize([]any{"a", "b"})
	require.NoError(t, err)
	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	list, ok := raw.([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"a", "b"}, list)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	s, ok := back.(*property.Set)
	require.True(t, ok)
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
}

func TestSetProperty_DefaultsAreIndependent(t *testing.T) {
	p := property.NewSetProperty(property.Options{})

	first, ok := p.DefaultValue().(*property.Set)
	require.True(t, ok)
	second, ok := p.DefaultValue().(*property.Set)
	require.True(t, ok)

	first.Add("x")
	assert.Equal(t, 0, second.Len())
}
