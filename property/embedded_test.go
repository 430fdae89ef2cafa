package property_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/property"
)

// note is a minimal embedded document for these tests.
type note struct {
	fields map[string]any
}

func (n *note) Serialize() (map[string]any, error) {
	out := make(map[string]any, len(n.fields))
	for k, v := range n.fields {
		out[k] = v
	}
	return out, nil
}

// noteType implements EmbeddedType over note.
type noteType struct{}

func (noteType) New(fields map[string]any) (property.Embeddable, error) {
	n := &note{fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		n.fields[k] = v
	}
	return n, nil
}

func (t noteType) Construct(data map[string]any) (property.Embeddable, error) {
	return t.New(data)
}

func (noteType) Instance(v any) (property.Embeddable, bool) {
	n, ok := v.(*note)
	return n, ok
}

// trimNote normalizes string fields on construction, so tests can
// observe whether a raw mapping was constructed before storage.
type trimNote struct {
	note
}

type trimNoteType struct{}

func (trimNoteType) New(fields map[string]any) (property.Embeddable, error) {
	n := &trimNote{note: note{fields: make(map[string]any, len(fields))}}
	for k, v := range fields {
		if s, ok := v.(string); ok {
			n.fields[k] = strings.TrimSpace(s)
			continue
		}
		n.fields[k] = v
	}
	return n, nil
}

func (t trimNoteType) Construct(data map[string]any) (property.Embeddable, error) {
	return t.New(data)
}

func (trimNoteType) Instance(v any) (property.Embeddable, bool) {
	n, ok := v.(*trimNote)
	return n, ok
}

func TestEmDocument_NilTypeIsConfigError(t *testing.T) {
	_, err := property.NewEmDocument(nil, property.Options{})
	assert.ErrorIs(t, err, property.ErrConfiguration)
}

func TestEmDocument_MappingConstructsInstance(t *testing.T) {
	p, err := property.NewEmDocument(noteType{}, property.Options{})
	require.NoError(t, err)

	std, err := p.Standardize(map[string]any{"text": "hi"})
	require.NoError(t, err)
	n, ok := std.(*note)
	require.True(t, ok)
	assert.Equal(t, "hi", n.fields["text"])
}

func TestEmDocument_InstancePassesThrough(t *testing.T) {
	p, err := property.NewEmDocument(noteType{}, property.Options{})
	require.NoError(t, err)

	n := &note{fields: map[string]any{"text": "hi"}}
	std, err := p.Standardize(n)
	require.NoError(t, err)
	assert.Same(t, n, std)
}

func TestEmDocument_RejectsOtherShapes(t *testing.T) {
	p, err := property.NewEmDocument(noteType{}, property.Options{})
	require.NoError(t, err)

	_, stdErr := p.Standardize("not a note")
	assert.ErrorIs(t, stdErr, property.ErrInvalidType)
	assert.False(t, p.Validate("not a note"))
	assert.True(t, p.Validate(nil))
}

func TestEmDocument_RoundTrip(t *testing.T) {
	p, err := property.NewEmDocument(noteType{}, property.Options{})
	require.NoError(t, err)

	std, err := p.Standardize(map[string]any{"text": "hi"})
	require.NoError(t, err)
	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "hi"}, raw)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	n, ok := back.(*note)
	require.True(t, ok)
	assert.Equal(t, "hi", n.fields["text"])
}

func TestEmDocument_RawMappingConstructedBeforeStorage(t *testing.T) {
	p, err := property.NewEmDocument(trimNoteType{}, property.Options{})
	require.NoError(t, err)

	raw, err := p.ConvertToDb(map[string]any{"text": "  hi  "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "hi"}, raw)
}

func TestEmbeddedList_StandardizesEveryInsertion(t *testing.T) {
	l, err := property.NewEmbeddedList(noteType{}, map[string]any{"text": "a"})
	require.NoError(t, err)

	require.NoError(t, l.Append(map[string]any{"text": "c"}))
	require.NoError(t, l.Insert(1, &note{fields: map[string]any{"text": "b"}}))
	require.NoError(t, l.Set(0, map[string]any{"text": "A"}))
	require.Equal(t, 3, l.Len())

	for i, want := range []string{"A", "b", "c"} {
		n, ok := l.Get(i).(*note)
		require.True(t, ok, "index %d", i)
		assert.Equal(t, want, n.fields["text"])
	}
}

func TestEmbeddedList_RejectsBadElements(t *testing.T) {
	l, err := property.NewEmbeddedList(noteType{})
	require.NoError(t, err)

	assert.ErrorIs(t, l.Append(42), property.ErrInvalidType)
	assert.ErrorIs(t, l.Insert(0, "x"), property.ErrInvalidType)
	assert.Equal(t, 0, l.Len())

	err = l.Set(0, map[string]any{})
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestEmbeddedMap_StandardizesEveryInsertion(t *testing.T) {
	m, err := property.NewEmbeddedMap(noteType{}, nil)
	require.NoError(t, err)

	require.NoError(t, m.Set("a", map[string]any{"text": "a"}))

	existing, err := m.SetDefault("a", map[string]any{"text": "other"})
	require.NoError(t, err)
	n, ok := existing.(*note)
	require.True(t, ok)
	assert.Equal(t, "a", n.fields["text"])

	require.NoError(t, m.Update(map[string]any{"b": map[string]any{"text": "b"}}))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}

func TestEmbeddedMap_UpdateIsAtomic(t *testing.T) {
	m, err := property.NewEmbeddedMap(noteType{}, nil)
	require.NoError(t, err)

	err = m.Update(map[string]any{
		"good": map[string]any{"text": "ok"},
		"bad":  42,
	})
	assert.ErrorIs(t, err, property.ErrInvalidType)
	assert.Equal(t, 0, m.Len())
}

func TestEmDocumentsList_RoundTrip(t *testing.T) {
	p, err := property.NewEmDocumentsList(noteType{}, property.Options{})
	require.NoError(t, err)

	std, err := p.Standardize([]any{map[string]any{"text": "a"}, map[string]any{"text": "b"}})
	require.NoError(t, err)
	list, ok := std.(*property.EmbeddedList)
	require.True(t, ok)
	require.Equal(t, 2, list.Len())

	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"text": "a"}, map[string]any{"text": "b"}}, raw)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	list, ok = back.(*property.EmbeddedList)
	require.True(t, ok)
	n, ok := list.Get(1).(*note)
	require.True(t, ok)
	assert.Equal(t, "b", n.fields["text"])
}

func TestEmDocumentsList_NilStandardizesToEmptyList(t *testing.T) {
	p, err := property.NewEmDocumentsList(noteType{}, property.Options{})
	require.NoError(t, err)

	std, err := p.Standardize(nil)
	require.NoError(t, err)
	list, ok := std.(*property.EmbeddedList)
	require.True(t, ok)
	assert.Equal(t, 0, list.Len())
}

func TestEmDocumentsList_DefaultsAreIndependent(t *testing.T) {
	p, err := property.NewEmDocumentsList(noteType{}, property.Options{})
	require.NoError(t, err)

	first, ok := p.DefaultValue().(*property.EmbeddedList)
	require.True(t, ok)
	second, ok := p.DefaultValue().(*property.EmbeddedList)
	require.True(t, ok)

	require.NoError(t, first.Append(map[string]any{"text": "x"}))
	assert.Equal(t, 0, second.Len())
}

func TestEmDocumentsDict_RoundTrip(t *testing.T) {
	p, err := property.NewEmDocumentsDict(noteType{}, property.Options{})
	require.NoError(t, err)

	std, err := p.Standardize(map[string]any{"k": map[string]any{"text": "v"}})
	require.NoError(t, err)
	m, ok := std.(*property.EmbeddedMap)
	require.True(t, ok)
	require.Equal(t, 1, m.Len())

	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": map[string]any{"text": "v"}}, raw)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	m, ok = back.(*property.EmbeddedMap)
	require.True(t, ok)
	em, found := m.Get("k")
	require.True(t, found)
	n, ok := em.(*note)
	require.True(t, ok)
	assert.Equal(t, "v", n.fields["text"])
}

func TestEmDocumentsDict_RejectsBadValues(t *testing.T) {
	p, err := property.NewEmDocumentsDict(noteType{}, property.Options{})
	require.NoError(t, err)

	_, stdErr := p.Standardize(map[string]any{"k": 42})
	assert.ErrorIs(t, stdErr, property.ErrInvalidType)
	assert.False(t, p.Validate(map[string]any{"k": 42}))
}
