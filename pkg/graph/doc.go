// Package graph provides the immutable snapshot that map edits operate on.
//
// # Overview
//
// A [Graph] maps entity identifiers to point, line and relation values from
// the entity package and maintains two reverse indices:
//
//   - point id → lines that reference it ([Graph.ParentLines])
//   - entity id → relations that list it as a member ([Graph.ParentRelations])
//
// The indices are updated incrementally on every [Graph.Replace] and
// [Graph.Remove] from the difference between the old and new child
// references. They are never rebuilt by scanning the whole graph.
//
// # Snapshots
//
// Graphs are values. Replace and Remove return a new Graph and leave the
// receiver untouched, so any number of goroutines may read any snapshot
// while another goroutine derives the next one. No locking is involved.
//
// Internally a snapshot is a shared base layer plus a small private delta.
// Deriving a snapshot copies only the delta; the base is shared by every
// snapshot derived from it. When the delta grows past roughly the square root
// of the base size it is folded into a fresh base, which keeps the cost of an
// edit sublinear in the size of the map. [Graph.Compact] performs the fold
// explicitly.
//
// # Consistency
//
// Every id inside a line's point list or a relation's member list should
// resolve within the same snapshot. Actions may violate this transiently while
// they cascade, but never in a snapshot they return. [Graph.Validate] checks
// the invariant and reports degenerate entities.
//
// # Usage
//
//	g := graph.New(
//	    entity.NewPoint("a", geo.Loc{}, nil),
//	    entity.NewPoint("b", geo.Loc{Lon: 1}, nil),
//	    entity.NewLine("w1", []entity.ID{"a", "b"}, entity.Tags{"highway": "path"}),
//	)
//	lines := g.ParentLines("a") // [w1]
//	g2 := g.Remove("w1")        // g still contains w1
package graph
