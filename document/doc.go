// Package document provides the document framework that owns property
// descriptors: named document types, concrete documents, embedded
// documents, and a registry with inverse-link bookkeeping.
//
// A [Type] is a named set of bound properties. It drives the four-stage
// property contract at the right lifecycle points: Standardize on
// assignment, Validate and ConvertToDb before persisting, ConvertFromDb
// after loading.
//
// A [Doc] is one document instance: a key plus a field-to-value data
// mapping. Docs satisfy the property package's Document and
// Referenceable capabilities, so they can be targets of reference
// properties.
//
// [EmType] adapts a Type into the embedded-document capability consumed
// by the property package, producing [Em] instances serialized inline
// within a parent document.
//
// The [Registry] tracks document types and their reference links. When a
// reference property declares a collection name, registering both sides
// synthesizes a multi-reference back-property on the target type, so the
// target can enumerate the documents pointing at it.
package document
