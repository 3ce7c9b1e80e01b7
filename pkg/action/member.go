package action

import (
	"cmp"
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// ChangeMember overwrites the member at Index. Zero fields of Member keep
// their current value.
type ChangeMember struct {
	Relation entity.ID
	Member   entity.Member
	Index    int
}

// Apply implements Action.
func (a ChangeMember) Apply(g *graph.Graph) (*graph.Graph, error) {
	r, err := g.Relation(a.Relation)
	if err != nil {
		return nil, err
	}
	r, err = r.UpdateMember(a.Member, a.Index)
	if err != nil {
		return nil, err
	}
	return g.Replace(r), nil
}

// DeleteMember removes the member at Index and deletes the relation if it
// has no members left.
type DeleteMember struct {
	Relation entity.ID
	Index    int
}

// Apply implements Action.
func (a DeleteMember) Apply(g *graph.Graph) (*graph.Graph, error) {
	return deleteMember(g, a.Relation, a.Index)
}

func deleteMember(g *graph.Graph, id entity.ID, index int) (*graph.Graph, error) {
	r, err := g.Relation(id)
	if err != nil {
		return nil, err
	}
	r, err = r.RemoveMember(index)
	if err != nil {
		return nil, err
	}
	g = g.Replace(r)
	if r.IsDegenerate() {
		return deleteRelation(g, r.ID, false)
	}
	return g, nil
}

// DeleteMembers removes several members by index. Indexes are applied from
// highest to lowest so earlier removals do not shift later ones; duplicates
// are ignored.
type DeleteMembers struct {
	Relation entity.ID
	Indexes  []int
}

// Apply implements Action.
func (a DeleteMembers) Apply(g *graph.Graph) (*graph.Graph, error) {
	indexes := slices.Clone(a.Indexes)
	slices.SortFunc(indexes, func(x, y int) int { return cmp.Compare(y, x) })
	indexes = slices.Compact(indexes)

	if _, err := g.Relation(a.Relation); err != nil {
		return nil, err
	}
	for _, i := range indexes {
		if !g.HasEntity(a.Relation) {
			// The last removal made the relation degenerate.
			break
		}
		next, err := deleteMember(g, a.Relation, i)
		if err != nil {
			return nil, err
		}
		g = next
	}
	return g, nil
}
