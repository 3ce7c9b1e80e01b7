package action

import (
	"fmt"
	"math"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// Action transforms a graph snapshot into a new one.
type Action interface {
	Apply(g *graph.Graph) (*graph.Graph, error)
}

// Func adapts a function to the Action interface.
type Func func(g *graph.Graph) (*graph.Graph, error)

// Apply implements Action.
func (f Func) Apply(g *graph.Graph) (*graph.Graph, error) { return f(g) }

// Transitionable is implemented by actions that can be partially applied.
type Transitionable interface {
	Action
	ApplyAt(g *graph.Graph, t float64) (*graph.Graph, error)
}

// Disabler is implemented by actions with an advisory precondition check.
type Disabler interface {
	Disabled(g *graph.Graph) Reason
}

// Reason explains why an action is disabled. The empty Reason means the
// action is enabled.
type Reason string

const (
	Enabled               Reason = ""
	ReasonNotFound        Reason = "not_found"
	ReasonNotConnected    Reason = "not_connected"
	ReasonRelation        Reason = "relation"
	ReasonNotClosed       Reason = "not_closed"
	ReasonAlreadyCircular Reason = "already_circular"
)

// Sequence composes actions left to right. The first error aborts the whole
// sequence and the input graph is the only valid snapshot.
func Sequence(actions ...Action) Action {
	return Func(func(g *graph.Graph) (*graph.Graph, error) {
		for i, a := range actions {
			next, err := a.Apply(g)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			g = next
		}
		return g, nil
	})
}

// clampT maps non-finite values to 1 and clamps the rest to [0, 1].
func clampT(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 1
	}
	return min(max(t, 0), 1)
}

// minterFor returns m, or a fresh sequence minter when m is nil, wrapped so
// that it never yields an id present in any of graphs.
func minterFor(m entity.Minter, graphs ...*graph.Graph) entity.Minter {
	if m == nil {
		m = entity.NewSequenceMinter()
	}
	taken := make([]func(entity.ID) bool, 0, len(graphs))
	for _, g := range graphs {
		if g != nil {
			taken = append(taken, g.HasEntity)
		}
	}
	return entity.Avoiding(m, taken...)
}

func projectionOr(p geo.Projection) geo.Projection {
	if p == nil {
		return geo.Identity{}
	}
	return p
}

func project(p geo.Projection, points []*entity.Point) []geo.Vec {
	out := make([]geo.Vec, len(points))
	for i, pt := range points {
		out[i] = p.Project(pt.Loc)
	}
	return out
}

// uniquePoints drops repeated points, keeping first occurrences.
func uniquePoints(points []*entity.Point) []*entity.Point {
	seen := make(map[entity.ID]bool, len(points))
	out := make([]*entity.Point, 0, len(points))
	for _, p := range points {
		if !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
