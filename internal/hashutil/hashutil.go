// Package hashutil provides salt generation and salted password hashing.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateSalt returns a fresh random salt.
func GenerateSalt() string {
	return uuid.NewString()
}

// HashPassword computes the hex digest of salt-prefixed plaintext.
func HashPassword(plain, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + plain))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether plain hashes to digest under salt.
func CheckPassword(plain, salt, digest string) bool {
	return HashPassword(plain, salt) == digest
}
