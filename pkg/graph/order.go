package graph

import (
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// ParentOrder records the order of parent lists, keyed by child id.
// Lines maps point ids to parent lines, Relations maps member ids to
// parent relations.
type ParentOrder struct {
	Lines     map[entity.ID][]entity.ID
	Relations map[entity.ID][]entity.ID
}

// Empty reports whether o holds no lists.
func (o ParentOrder) Empty() bool {
	return len(o.Lines) == 0 && len(o.Relations) == 0
}

// ParentOrder returns the parent lists of g that are not in id order.
// Rebuilding a graph from entities sorted by id yields sorted lists, so
// these are exactly the lists [Graph.WithParentOrder] has to restore.
func (g *Graph) ParentOrder() ParentOrder {
	var o ParentOrder
	for idx, dst := range []*map[entity.ID][]entity.ID{&o.Lines, &o.Relations} {
		for _, id := range g.children(idx) {
			p := g.parentIDs(idx, id)
			if slices.IsSorted(p) {
				continue
			}
			if *dst == nil {
				*dst = make(map[entity.ID][]entity.ID)
			}
			(*dst)[id] = slices.Clone(p)
		}
	}
	return o
}

// WithParentOrder returns a graph whose parent lists follow o. Each list
// in o must be a permutation of the current parents of its child, else
// the result is an INVALID_FORMAT error.
func (g *Graph) WithParentOrder(o ParentOrder) (*Graph, error) {
	if o.Empty() {
		return g, nil
	}
	next := g.fork()
	for idx, lists := range []map[entity.ID][]entity.ID{o.Lines, o.Relations} {
		for id, order := range lists {
			cur := slices.Clone(g.parentIDs(idx, id))
			want := slices.Clone(order)
			slices.Sort(cur)
			slices.Sort(want)
			if !slices.Equal(cur, want) {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "parent order of %s lists %v, parents are %v", id, order, cur)
			}
			next.local.parents[idx][id] = slices.Clone(order)
		}
	}
	return next.Compact(), nil
}

// children returns the ids with a parent list in index idx, sorted.
func (g *Graph) children(idx int) []entity.ID {
	var ids []entity.ID
	for id := range g.base.parents[idx] {
		if _, overridden := g.local.parents[idx][id]; !overridden {
			ids = append(ids, id)
		}
	}
	for id, p := range g.local.parents[idx] {
		if len(p) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
