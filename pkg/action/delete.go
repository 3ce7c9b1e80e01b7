package action

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// DeleteNode removes a point. Lines left with fewer than two distinct points
// and relations left without members are deleted in turn.
type DeleteNode struct {
	Point entity.ID
}

// Apply implements Action.
func (a DeleteNode) Apply(g *graph.Graph) (*graph.Graph, error) {
	return deleteNode(g, a.Point)
}

// DeleteLine removes a line. Its points are removed too when nothing else
// references them and they carry no interesting tags.
type DeleteLine struct {
	Line entity.ID
}

// Apply implements Action.
func (a DeleteLine) Apply(g *graph.Graph) (*graph.Graph, error) {
	return deleteLine(g, a.Line)
}

// DeleteRelation removes a relation, detaching it from parent relations
// first.
//
// Each member is detached as well and deleted if nothing else references it,
// it carries no interesting tags, and AllowUntaggedMembers is false. Setting
// AllowUntaggedMembers therefore keeps every member.
type DeleteRelation struct {
	Relation             entity.ID
	AllowUntaggedMembers bool
}

// Apply implements Action.
func (a DeleteRelation) Apply(g *graph.Graph) (*graph.Graph, error) {
	return deleteRelation(g, a.Relation, a.AllowUntaggedMembers)
}

// DeleteMultiple deletes each id according to its kind. Ids that are absent,
// including ones removed by an earlier cascade in the same batch, are
// skipped.
type DeleteMultiple struct {
	IDs []entity.ID
}

// Apply implements Action.
func (a DeleteMultiple) Apply(g *graph.Graph) (*graph.Graph, error) {
	return deleteMultiple(g, a.IDs)
}

func deleteMultiple(g *graph.Graph, ids []entity.ID) (*graph.Graph, error) {
	for _, id := range ids {
		e, err := g.Entity(id)
		if err != nil {
			continue
		}
		switch e.Kind() {
		case entity.KindPoint:
			g, err = deleteNode(g, id)
		case entity.KindLine:
			g, err = deleteLine(g, id)
		case entity.KindRelation:
			g, err = deleteRelation(g, id, false)
		}
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func deleteNode(g *graph.Graph, id entity.ID) (*graph.Graph, error) {
	if _, err := g.Point(id); err != nil {
		return nil, err
	}

	var err error
	for _, parent := range g.ParentLines(id) {
		l, lerr := g.Line(parent.ID)
		if lerr != nil {
			continue
		}
		l = l.RemovePoint(id)
		g = g.Replace(l)
		if l.IsDegenerate() {
			if g, err = deleteLine(g, l.ID); err != nil {
				return nil, err
			}
		}
	}

	if g, err = detachFromRelations(g, id); err != nil {
		return nil, err
	}
	return g.Remove(id), nil
}

func deleteLine(g *graph.Graph, id entity.ID) (*graph.Graph, error) {
	if _, err := g.Line(id); err != nil {
		return nil, err
	}
	g, err := detachFromRelations(g, id)
	if err != nil {
		return nil, err
	}

	l, err := g.Line(id)
	if err != nil {
		return g, nil
	}
	for _, pid := range l.UniquePoints() {
		l = l.RemovePoint(pid)
		g = g.Replace(l)
		p, err := g.Point(pid)
		if err != nil {
			continue
		}
		if isOrphan(g, pid) && !p.Tags.HasInteresting() {
			g = g.Remove(pid)
		}
	}
	return g.Remove(id), nil
}

func deleteRelation(g *graph.Graph, id entity.ID, allowUntagged bool) (*graph.Graph, error) {
	r, err := g.Relation(id)
	if err != nil {
		return nil, err
	}
	if g, err = detachFromRelations(g, id); err != nil {
		return nil, err
	}

	for _, mid := range r.MemberIDs() {
		if mid == id {
			continue
		}
		cur, err := g.Relation(id)
		if err != nil {
			return g, nil
		}
		g = g.Replace(cur.RemoveMembersWithID(mid))

		member, err := g.Entity(mid)
		if err != nil {
			continue
		}
		if isOrphan(g, mid) && !member.EntityTags().HasInteresting() && !allowUntagged {
			if g, err = deleteMultiple(g, []entity.ID{mid}); err != nil {
				return nil, err
			}
		}
	}
	return g.Remove(id), nil
}

// detachFromRelations removes id from every relation listing it and deletes
// relations that end up empty.
func detachFromRelations(g *graph.Graph, id entity.ID) (*graph.Graph, error) {
	var err error
	for _, parent := range g.ParentRelations(id) {
		if parent.ID == id {
			continue
		}
		r, rerr := g.Relation(parent.ID)
		if rerr != nil {
			continue
		}
		r = r.RemoveMembersWithID(id)
		g = g.Replace(r)
		if r.IsDegenerate() {
			if g, err = deleteRelation(g, r.ID, false); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func isOrphan(g *graph.Graph, id entity.ID) bool {
	return len(g.ParentLines(id)) == 0 && len(g.ParentRelations(id)) == 0
}
