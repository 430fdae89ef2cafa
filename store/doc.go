// Package store persists arbor documents in DynamoDB.
//
// The store is the storage-side collaborator behind the property
// package's external capabilities: it implements the existence lookup
// that backs unique constraints, and the document loader that backs
// reference resolution.
//
// # Layout
//
// Each document type is mounted onto one DynamoDB table keyed by "id".
// Items carry the serialized field data plus the managed attributes
// "doc_type", "created_at", and "updated_at". Unique field values are
// recorded in a shared constraint table keyed by a hash-distributed
// partition key, and creation is transactional: the document put and its
// constraint puts succeed or fail together.
//
// # Errors
//
//   - [ErrNotFound] - document doesn't exist
//   - [ErrAlreadyExists] - document with the key already exists
//   - [ErrDuplicateValue] - unique constraint violated
//   - [ErrNotMounted] - document type has no table mounted
package store
