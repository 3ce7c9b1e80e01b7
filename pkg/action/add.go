package action

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// AddVertex inserts an existing point into a line before Index.
type AddVertex struct {
	Line  entity.ID
	Point entity.ID
	Index int
}

// Apply implements Action.
func (a AddVertex) Apply(g *graph.Graph) (*graph.Graph, error) {
	l, err := g.Line(a.Line)
	if err != nil {
		return nil, err
	}
	if _, err := g.Point(a.Point); err != nil {
		return nil, err
	}
	l, err = l.AddPoint(a.Point, a.Index)
	if err != nil {
		return nil, err
	}
	return g.Replace(l), nil
}

// Midpoint is a location on the edge between two points.
type Midpoint struct {
	Loc  geo.Loc
	Edge [2]entity.ID
}

// AddMidpoint moves Point to the midpoint location and splices it into every
// line that runs along the edge. Point may be new to the graph.
//
// Each line receives the point at most once, after the first occurrence of
// the edge in either direction. A line that doubles back over the same edge
// therefore gets a self-intersection instead of several copies.
type AddMidpoint struct {
	Midpoint Midpoint
	Point    *entity.Point
}

// Apply implements Action.
func (a AddMidpoint) Apply(g *graph.Graph) (*graph.Graph, error) {
	if a.Point == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "midpoint needs a point")
	}
	for _, id := range a.Midpoint.Edge {
		if _, err := g.Point(id); err != nil {
			return nil, err
		}
	}
	p := a.Point.Move(a.Midpoint.Loc)
	g = g.Replace(p)

	second := make(map[entity.ID]bool)
	for _, l := range g.ParentLines(a.Midpoint.Edge[1]) {
		second[l.ID] = true
	}
	for _, l := range g.ParentLines(a.Midpoint.Edge[0]) {
		if !second[l.ID] {
			continue
		}
		for i := 0; i+1 < len(l.Points); i++ {
			if !entity.EdgeEqual([2]entity.ID{l.Points[i], l.Points[i+1]}, a.Midpoint.Edge) {
				continue
			}
			next, err := l.AddPoint(p.ID, i+1)
			if err != nil {
				return nil, err
			}
			g = g.Replace(next)
			break
		}
	}
	return g, nil
}
