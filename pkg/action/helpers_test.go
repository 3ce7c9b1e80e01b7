package action

import (
	"testing"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

func pt(id entity.ID, x, y float64) *entity.Point {
	return entity.NewPoint(id, geo.Loc{Lon: x, Lat: y}, nil)
}

func tagged(id entity.ID, x, y float64, tags entity.Tags) *entity.Point {
	return entity.NewPoint(id, geo.Loc{Lon: x, Lat: y}, tags)
}

func ln(id entity.ID, points ...entity.ID) *entity.Line {
	return entity.NewLine(id, points, nil)
}

func rel(id entity.ID, members ...entity.ID) *entity.Relation {
	ms := make([]entity.Member, len(members))
	for i, m := range members {
		ms[i] = entity.Member{ID: m}
	}
	return entity.NewRelation(id, ms, nil)
}

func apply(t *testing.T, a Action, g *graph.Graph) *graph.Graph {
	t.Helper()
	out, err := a.Apply(g)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("result does not validate: %v", err)
	}
	return out
}

func mustLine(t *testing.T, g *graph.Graph, id entity.ID) *entity.Line {
	t.Helper()
	l, err := g.Line(id)
	if err != nil {
		t.Fatalf("Line(%s) error: %v", id, err)
	}
	return l
}

func mustPoint(t *testing.T, g *graph.Graph, id entity.ID) *entity.Point {
	t.Helper()
	p, err := g.Point(id)
	if err != nil {
		t.Fatalf("Point(%s) error: %v", id, err)
	}
	return p
}
