package property

import (
	"github.com/jacentio/arbor/internal/hashutil"
)

// Hasher is the hashing capability composed by Password properties.
type Hasher interface {
	// GenerateSalt returns a fresh random salt.
	GenerateSalt() string

	// HashPassword computes the salted digest of a plaintext password.
	HashPassword(plain, salt string) string
}

// Credential is the storage form of a password: a salt and the salted
// digest. The plaintext is never stored.
type Credential struct {
	Salt string `json:"salt" dynamodbav:"salt"`
	Hash string `json:"hash" dynamodbav:"hash"`
}

// Check reports whether plain hashes to this credential under h.
func (c *Credential) Check(h Hasher, plain string) bool {
	return h.HashPassword(plain, c.Salt) == c.Hash
}

// PasswordProperty hashes assigned plaintext into a [Credential] with a
// fresh salt on every assignment. Loading from storage never re-hashes.
type PasswordProperty struct {
	Base
	hasher Hasher
}

// NewPassword creates a password property. A nil hasher selects the
// package's built-in salted SHA-256 hashing.
func NewPassword(hasher Hasher, opts Options) *PasswordProperty {
	if hasher == nil {
		hasher = defaultHasher{}
	}
	p := &PasswordProperty{Base: newBase(opts), hasher: hasher}
	p.coerce = func(v any) (any, error) {
		plain, ok := v.(string)
		if !ok {
			return nil, typeErr("password must be a string, not %T", v)
		}
		salt := hasher.GenerateSalt()
		return &Credential{
			Salt: salt,
			Hash: hasher.HashPassword(plain, salt),
		}, nil
	}
	p.decode = func(v any) (any, error) {
		switch c := v.(type) {
		case *Credential:
			return c, nil
		case map[string]any:
			cred := &Credential{}
			if salt, ok := c["salt"].(string); ok {
				cred.Salt = salt
			}
			if hash, ok := c["hash"].(string); ok {
				cred.Hash = hash
			}
			return cred, nil
		default:
			return nil, typeErr("stored password must be a salt/hash mapping, got %T", v)
		}
	}
	return p
}

// Hasher returns the hashing capability in use.
func (p *PasswordProperty) Hasher() Hasher { return p.hasher }

// defaultHasher adapts the internal hashutil helpers.
type defaultHasher struct{}

func (defaultHasher) GenerateSalt() string { return hashutil.GenerateSalt() }

func (defaultHasher) HashPassword(plain, salt string) string {
	return hashutil.HashPassword(plain, salt)
}
