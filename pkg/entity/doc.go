// Package entity defines the immutable value model of a topological map:
// points, lines and relations.
//
// # Overview
//
// A [Point] is a located node carrying tags. A [Line] is an ordered sequence
// of point identifiers; it is closed when its first and last identifiers are
// equal, which is how rings and areas are represented. A [Relation] is an
// ordered list of [Member] references to other entities, each with a role.
//
// Entities never reference each other by pointer. Every cross reference is an
// [ID] that a resolver (normally a graph snapshot) turns back into a value.
// This keeps the model free of cycles and lets snapshots share entity values
// structurally.
//
// # Immutability
//
// Entity values are never mutated after construction. Every edit method
// ([Line.AddPoint], [Relation.RemoveMember], [Point.Move], ...) returns a fresh
// value with its own slices and maps, leaving the receiver untouched. Callers
// that build entities by hand must not modify the slices or maps they passed
// in once the value has been handed to a graph.
//
// # Line Sequence Edits
//
// The line edit methods share two rules:
//   - Consecutive duplicate references are collapsed.
//   - A line that was closed before the edit is still closed after it.
//
// Index arguments are validated; out-of-range indexes return an
// INVALID_INPUT error from the errors package rather than panicking.
//
// # Identifiers
//
// New entities get identifiers from a [Minter]. [SequenceMinter] produces
// compact negative ids (n-1, w-1, r-1) the way unsaved entities are usually
// named in map editors; [UUIDMinter] produces globally unique ids.
// [Avoiding] wraps any minter so that it skips ids already present in one or
// more snapshots.
package entity
