package property_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/property"
)

// countingHasher issues a distinct salt per call so salt reuse is
// observable.
type countingHasher struct {
	salts int
}

func (h *countingHasher) GenerateSalt() string {
	h.salts++
	return fmt.Sprintf("salt-%d", h.salts)
}

func (h *countingHasher) HashPassword(plain, salt string) string {
	return plain + "|" + salt
}

func TestPassword_StandardizeHashesWithFreshSalt(t *testing.T) {
	hasher := &countingHasher{}
	p := property.NewPassword(hasher, property.Options{})

	std, err := p.Standardize("secret")
	require.NoError(t, err)
	first, ok := std.(*property.Credential)
	require.True(t, ok)
	assert.Equal(t, "salt-1", first.Salt)
	assert.Equal(t, "secret|salt-1", first.Hash)

	std, err = p.Standardize("secret")
	require.NoError(t, err)
	second, ok := std.(*property.Credential)
	require.True(t, ok)
	assert.Equal(t, "salt-2", second.Salt)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestPassword_RejectsNonStrings(t *testing.T) {
	p := property.NewPassword(&countingHasher{}, property.Options{})

	_, err := p.Standardize(42)
	assert.ErrorIs(t, err, property.ErrInvalidType)
	_, err = p.Standardize(nil)
	assert.ErrorIs(t, err, property.ErrInvalidType)
}

func TestPassword_LoadingNeverRehashes(t *testing.T) {
	hasher := &countingHasher{}
	p := property.NewPassword(hasher, property.Options{})

	back, err := p.ConvertFromDb(map[string]any{"salt": "s", "hash": "h"})
	require.NoError(t, err)
	cred, ok := back.(*property.Credential)
	require.True(t, ok)
	assert.Equal(t, "s", cred.Salt)
	assert.Equal(t, "h", cred.Hash)
	assert.Zero(t, hasher.salts, "loading must not generate salts")
}

func TestPassword_CredentialCheck(t *testing.T) {
	hasher := &countingHasher{}
	p := property.NewPassword(hasher, property.Options{})

	std, err := p.Standardize("secret")
	require.NoError(t, err)
	cred := std.(*property.Credential)

	assert.True(t, cred.Check(hasher, "secret"))
	assert.False(t, cred.Check(hasher, "wrong"))
}

func TestPassword_DefaultHasherRoundTrip(t *testing.T) {
	p := property.NewPassword(nil, property.Options{})

	std, err := p.Standardize("hunter2")
	require.NoError(t, err)
	cred, ok := std.(*property.Credential)
	require.True(t, ok)
	assert.NotEmpty(t, cred.Salt)
	assert.NotEmpty(t, cred.Hash)
	assert.True(t, cred.Check(p.Hasher(), "hunter2"))
	assert.False(t, cred.Check(p.Hasher(), "hunter3"))
}
