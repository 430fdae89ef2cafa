package property_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/property"
)

func newColorEnum() *property.EnumProperty {
	return property.NewEnum([]string{"red", "green", "blue"}, property.Options{})
}

func TestEnum_StoresIndexReturnsLabel(t *testing.T) {
	p := newColorEnum()

	std, err := p.Standardize("green")
	require.NoError(t, err)
	assert.Equal(t, "green", std)
	assert.True(t, p.Validate(std))

	raw, err := p.ConvertToDb(std)
	require.NoError(t, err)
	assert.Equal(t, 1, raw)

	back, err := p.ConvertFromDb(raw)
	require.NoError(t, err)
	assert.Equal(t, "green", back)
}

func TestEnum_IndexCoercesToLabel(t *testing.T) {
	p := newColorEnum()

	std, err := p.Standardize(2)
	require.NoError(t, err)
	assert.Equal(t, "blue", std)

	// attributevalue decoding hands numbers back as float64.
	std, err = p.Standardize(float64(0))
	require.NoError(t, err)
	assert.Equal(t, "red", std)
}

func TestEnum_OutOfRangeIndex(t *testing.T) {
	p := newColorEnum()

	_, err := p.Standardize(3)
	assert.ErrorIs(t, err, property.ErrInvalidType)
	_, err = p.Standardize(-1)
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestEnum_UnknownLabelFailsValidation(t *testing.T) {
	p := newColorEnum()

	// Standardize accepts any string; Validate decides membership.
	std, err := p.Standardize("mauve")
	require.NoError(t, err)
	assert.False(t, p.Validate(std))

	_, err = p.ConvertToDb("mauve")
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestEnum_RejectsNonLabelNonIndex(t *testing.T) {
	p := newColorEnum()

	_, err := p.Standardize(1.5)
	assert.ErrorIs(t, err, property.ErrInvalidType)
	_, err = p.Standardize([]any{"red"})
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestEnum_NilPassesThrough(t *testing.T) {
	p := newColorEnum()

	std, err := p.Standardize(nil)
	require.NoError(t, err)
	assert.Nil(t, std)
	assert.True(t, p.Validate(nil))
}

func TestEnum_Labels(t *testing.T) {
	p := newColorEnum()
	assert.Equal(t, []string{"red", "green", "blue"}, p.Labels())
}
