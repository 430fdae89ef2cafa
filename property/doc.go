// Package property implements typed field descriptors for document types.
//
// A Property describes one declared field of a document type: its
// constraints (required, unique), its default, and how values move between
// the application-facing form and the storage form. Every property
// implements the same four-stage contract:
//
//   - Standardize converts input or storage values into the canonical
//     in-memory form. Called by the document layer on every assignment.
//   - Validate reports whether a standardized value is acceptable.
//     Validation never panics; malformed input is simply false.
//   - ConvertToDb serializes a value into a storage-safe primitive
//     (numbers, strings, lists, maps) before persisting.
//   - ConvertFromDb deserializes a raw storage value back into the
//     canonical form after loading.
//
// Caller-supplied processors hook into each stage: standard processors run
// inside Standardize, forward processors inside ConvertToDb, and backward
// processors inside ConvertFromDb. Processors are applied left to right,
// threading each result into the next.
//
// # Variants
//
// Scalar properties (String, Integer, Float, Boolean, Enum, DateTime,
// Dynamic) carry self-contained coercion rules. Collection properties
// (Dict, List, Set) wrap values in containers. Reference properties
// (Reference, MultiReference, DictReference) hold keys or resolved
// documents of another type and support inverse-link deletion via
// DeleteReference. Embedded-document properties (EmDocument,
// EmDocumentsList, EmDocumentsDict) serialize nested documents inline.
// Password composes a salted hashing capability.
//
// # Capabilities
//
// The package consumes capabilities rather than concrete collaborators:
// [ExistenceLookup] backs unique checks, [ReferenceTarget] backs reference
// resolution, [EmbeddedType] backs embedded construction, and [Hasher]
// backs password hashing. The document framework that owns the properties
// binds field names via Bind and drives the four stages at the right
// lifecycle points.
//
// Property instances are shared configuration: they are created once at
// type-declaration time, hold no per-document state, and must be treated
// as read-only after declaration.
package property
