package graph

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

const (
	lineIndex = iota // point id -> line ids
	relIndex         // member id -> relation ids
)

// minDelta is the smallest delta that triggers a fold into a new base.
const minDelta = 64

// layer holds entities and parent lists. In a delta layer a nil entity marks
// a deletion and a present (possibly empty) parent list overrides the base.
type layer struct {
	entities map[entity.ID]entity.Entity
	parents  [2]map[entity.ID][]entity.ID
}

func newLayer(capacity int) *layer {
	return &layer{
		entities: make(map[entity.ID]entity.Entity, capacity),
		parents: [2]map[entity.ID][]entity.ID{
			make(map[entity.ID][]entity.ID, capacity),
			make(map[entity.ID][]entity.ID, capacity),
		},
	}
}

func (l *layer) clone() *layer {
	return &layer{
		entities: maps.Clone(l.entities),
		parents:  [2]map[entity.ID][]entity.ID{maps.Clone(l.parents[0]), maps.Clone(l.parents[1])},
	}
}

// Graph is an immutable snapshot of map entities.
//
// The zero value is not usable; create graphs with [New] or [Empty].
type Graph struct {
	base  *layer
	local *layer
	size  int
}

// Empty returns a graph with no entities.
func Empty() *Graph {
	return New()
}

// New builds a graph holding entities. A later entity replaces an earlier
// one with the same id. Parent lists follow the order of entities.
func New(entities ...entity.Entity) *Graph {
	g := &Graph{base: newLayer(0), local: newLayer(len(entities))}
	for _, e := range entities {
		g.put(e)
	}
	return g.Compact()
}

// Len returns the number of entities.
func (g *Graph) Len() int { return g.size }

// HasEntity reports whether id is present.
func (g *Graph) HasEntity(id entity.ID) bool {
	_, ok := g.lookup(id)
	return ok
}

// Entity returns the entity with the given id, or a NOT_FOUND error.
func (g *Graph) Entity(id entity.ID) (entity.Entity, error) {
	e, ok := g.lookup(id)
	if !ok {
		return nil, errs.NotFound("entity %s", id)
	}
	return e, nil
}

// Point returns the point with the given id. A missing id or an entity of
// another kind yields NOT_FOUND.
func (g *Graph) Point(id entity.ID) (*entity.Point, error) {
	e, ok := g.lookup(id)
	p, isPoint := e.(*entity.Point)
	if !ok || !isPoint {
		return nil, errs.NotFound("point %s", id)
	}
	return p, nil
}

// Line returns the line with the given id.
func (g *Graph) Line(id entity.ID) (*entity.Line, error) {
	e, ok := g.lookup(id)
	l, isLine := e.(*entity.Line)
	if !ok || !isLine {
		return nil, errs.NotFound("line %s", id)
	}
	return l, nil
}

// Relation returns the relation with the given id.
func (g *Graph) Relation(id entity.ID) (*entity.Relation, error) {
	e, ok := g.lookup(id)
	r, isRel := e.(*entity.Relation)
	if !ok || !isRel {
		return nil, errs.NotFound("relation %s", id)
	}
	return r, nil
}

// Replace returns a graph in which e supersedes any entity with the same id.
// The receiver is unchanged.
func (g *Graph) Replace(e entity.Entity) *Graph {
	next := g.fork()
	next.put(e)
	return next.settle()
}

// Remove returns a graph without id and without the parent index entries
// created by its references. Removing an absent id returns the receiver.
func (g *Graph) Remove(id entity.ID) *Graph {
	if !g.HasEntity(id) {
		return g
	}
	next := g.fork()
	next.drop(id)
	return next.settle()
}

// ParentLines returns the lines that reference the point id, in the order
// they started referencing it.
func (g *Graph) ParentLines(id entity.ID) []*entity.Line {
	ids := g.parentIDs(lineIndex, id)
	out := make([]*entity.Line, 0, len(ids))
	for _, pid := range ids {
		if l, err := g.Line(pid); err == nil {
			out = append(out, l)
		}
	}
	return out
}

// ParentRelations returns the relations that list id as a member.
func (g *Graph) ParentRelations(id entity.ID) []*entity.Relation {
	ids := g.parentIDs(relIndex, id)
	out := make([]*entity.Relation, 0, len(ids))
	for _, pid := range ids {
		if r, err := g.Relation(pid); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// ChildPoints resolves a line's point references in order. It fails with
// NOT_FOUND if any reference does not resolve to a point.
func (g *Graph) ChildPoints(l *entity.Line) ([]*entity.Point, error) {
	out := make([]*entity.Point, len(l.Points))
	for i, id := range l.Points {
		p, err := g.Point(id)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "line %s", l.ID)
		}
		out[i] = p
	}
	return out, nil
}

// Entities returns every entity sorted by id.
func (g *Graph) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, g.size)
	for _, id := range g.IDs() {
		e, _ := g.lookup(id)
		out = append(out, e)
	}
	return out
}

// IDs returns every entity id in sorted order.
func (g *Graph) IDs() []entity.ID {
	ids := make([]entity.ID, 0, g.size)
	for id := range g.base.entities {
		if _, overridden := g.local.entities[id]; !overridden {
			ids = append(ids, id)
		}
	}
	for id, e := range g.local.entities {
		if e != nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Compact returns an equivalent graph whose delta has been folded into a
// fresh base layer.
func (g *Graph) Compact() *Graph {
	if len(g.local.entities) == 0 && len(g.local.parents[0]) == 0 && len(g.local.parents[1]) == 0 {
		return g
	}
	base := newLayer(g.size)
	for id, e := range g.base.entities {
		if _, overridden := g.local.entities[id]; !overridden {
			base.entities[id] = e
		}
	}
	for id, e := range g.local.entities {
		if e != nil {
			base.entities[id] = e
		}
	}
	for idx := range base.parents {
		for id, p := range g.base.parents[idx] {
			if _, overridden := g.local.parents[idx][id]; !overridden {
				base.parents[idx][id] = p
			}
		}
		for id, p := range g.local.parents[idx] {
			if len(p) > 0 {
				base.parents[idx][id] = p
			}
		}
	}
	return &Graph{base: base, local: newLayer(0), size: g.size}
}

func (g *Graph) lookup(id entity.ID) (entity.Entity, bool) {
	if e, ok := g.local.entities[id]; ok {
		return e, e != nil
	}
	e, ok := g.base.entities[id]
	return e, ok
}

func (g *Graph) parentIDs(idx int, id entity.ID) []entity.ID {
	if p, ok := g.local.parents[idx][id]; ok {
		return p
	}
	return g.base.parents[idx][id]
}

func (g *Graph) fork() *Graph {
	return &Graph{base: g.base, local: g.local.clone(), size: g.size}
}

// settle folds the delta once it outgrows sqrt(len(base)).
func (g *Graph) settle() *Graph {
	limit := max(minDelta, int(math.Sqrt(float64(len(g.base.entities)))))
	if len(g.local.entities) > limit {
		return g.Compact()
	}
	return g
}

// put and drop mutate g.local and must only be called on a graph that has
// not been handed out yet.
func (g *Graph) put(e entity.Entity) {
	id := e.EntityID()
	old, existed := g.lookup(id)
	if !existed {
		g.size++
	}
	g.local.entities[id] = e
	g.reindex(id, old, e)
}

func (g *Graph) drop(id entity.ID) {
	old, ok := g.lookup(id)
	if !ok {
		return
	}
	g.size--
	g.local.entities[id] = nil
	g.reindex(id, old, nil)
}

func (g *Graph) reindex(id entity.ID, old, cur entity.Entity) {
	for idx := range g.local.parents {
		before := childRefs(idx, old)
		after := childRefs(idx, cur)
		keep := make(map[entity.ID]bool, len(after))
		for _, c := range after {
			keep[c] = true
		}
		had := make(map[entity.ID]bool, len(before))
		for _, c := range before {
			had[c] = true
			if !keep[c] {
				g.unlink(idx, c, id)
			}
		}
		for _, c := range after {
			if !had[c] {
				g.link(idx, c, id)
			}
		}
	}
}

func (g *Graph) link(idx int, child, parent entity.ID) {
	cur := g.parentIDs(idx, child)
	if slices.Contains(cur, parent) {
		return
	}
	out := make([]entity.ID, len(cur), len(cur)+1)
	copy(out, cur)
	g.local.parents[idx][child] = append(out, parent)
}

func (g *Graph) unlink(idx int, child, parent entity.ID) {
	cur := g.parentIDs(idx, child)
	out := make([]entity.ID, 0, len(cur))
	for _, p := range cur {
		if p != parent {
			out = append(out, p)
		}
	}
	g.local.parents[idx][child] = out
}

// childRefs returns the distinct ids e contributes to the given index.
func childRefs(idx int, e entity.Entity) []entity.ID {
	switch e := e.(type) {
	case *entity.Line:
		if idx == lineIndex {
			return e.UniquePoints()
		}
	case *entity.Relation:
		if idx == relIndex {
			return e.MemberIDs()
		}
	}
	return nil
}

var _ entity.Resolver = (*Graph)(nil)
