// Package shard provides partition key derivation for the unique
// constraint table.
package shard

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// UniqueConstraintPK computes a hash-distributed partition key for a
// unique field value, scoped by document type and field name. Hashing
// spreads constraints across partitions, eliminating hot partition risk.
func UniqueConstraintPK(docType, field, value string) string {
	data := fmt.Sprintf("%s#%s#%s", docType, field, value)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:16]) // 128-bit hash as hex
}
