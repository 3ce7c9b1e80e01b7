// Package action implements edits on map graphs as pure functions.
//
// # Overview
//
// An [Action] takes a graph snapshot and returns a new one. The input is
// never modified, so callers keep the previous snapshot for undo and may
// hand it to concurrent readers while the next one is computed.
//
// Every action is all-or-nothing. If a required entity is missing the action
// returns a NOT_FOUND error and a nil graph; otherwise it completes and the
// result satisfies the graph invariants, with all cascades applied:
//
//   - Removing points from a line that leaves fewer than two distinct points
//     deletes the line ([DeleteLine]).
//   - Removing the last member of a relation deletes the relation
//     ([DeleteRelation]).
//
// # Catalog
//
//   - [AddVertex], [AddMidpoint]: insert points into lines
//   - [ChangeTags], [ChangePreset]: rewrite tags, optionally through a [Schema]
//   - [ChangeMember], [DeleteMember], [DeleteMembers]: edit relation members
//   - [CopyEntities]: deep-copy entities under fresh ids
//   - [DeleteNode], [DeleteLine], [DeleteRelation], [DeleteMultiple]: cascading deletes
//   - [Disconnect]: split a shared point so each line gets its own
//   - [Circularize]: reshape a closed line into a circle
//
// # Disabled Checks
//
// Actions implementing [Disabler] report whether applying them makes sense
// right now. The check is advisory: Apply never consults it, and the caller
// decides whether to offer the edit. An empty [Reason] means enabled.
//
// # Partial Application
//
// Actions implementing [Transitionable] accept a fraction t in [0, 1]. At
// t=0 the geometry is unchanged, at t=1 the edit is complete, and in between
// every affected point is linearly interpolated. Always call ApplyAt with the
// original graph; results at different t are not meant to be chained.
//
// # Scoping and Auxiliary Results
//
// Options narrowing an action are plain values fixed at construction
// ([DisconnectOptions], [CircularizeOptions]). Results beyond the graph are
// returned from dedicated methods such as [CopyEntities.Run] and
// [Disconnect.Connections]; actions keep no state between calls.
//
// # Registry
//
// [Build] constructs actions by name from [Params], which is how the command
// line and HTTP API drive the library.
package action
