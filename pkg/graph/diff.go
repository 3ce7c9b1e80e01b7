package graph

import (
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
)

// Changes lists the ids that differ between two snapshots.
type Changes struct {
	Created  []entity.ID
	Modified []entity.ID
	Deleted  []entity.ID
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Created) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// Diff compares two snapshots. Entities are compared by identity, so an
// entity replaced by an equal but distinct value counts as modified.
// Snapshots derived from the same base are compared through their deltas
// only; unrelated snapshots fall back to a full scan.
func Diff(from, to *Graph) Changes {
	var candidates []entity.ID
	if from.base == to.base {
		seen := make(map[entity.ID]bool)
		for _, l := range []*layer{from.local, to.local} {
			for id := range l.entities {
				if !seen[id] {
					seen[id] = true
					candidates = append(candidates, id)
				}
			}
		}
	} else {
		candidates = append(from.IDs(), to.IDs()...)
		slices.Sort(candidates)
		candidates = slices.Compact(candidates)
	}

	var c Changes
	for _, id := range candidates {
		a, inFrom := from.lookup(id)
		b, inTo := to.lookup(id)
		switch {
		case !inFrom && inTo:
			c.Created = append(c.Created, id)
		case inFrom && !inTo:
			c.Deleted = append(c.Deleted, id)
		case inFrom && inTo && a != b:
			c.Modified = append(c.Modified, id)
		}
	}
	slices.Sort(c.Created)
	slices.Sort(c.Modified)
	slices.Sort(c.Deleted)
	return c
}
