package graph

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
)

func pt(id entity.ID, x, y float64) *entity.Point {
	return entity.NewPoint(id, geo.Loc{Lon: x, Lat: y}, nil)
}

func line(id entity.ID, points ...entity.ID) *entity.Line {
	return entity.NewLine(id, points, nil)
}

func lineIDs(ls []*entity.Line) []entity.ID {
	out := make([]entity.ID, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func relIDs(rs []*entity.Relation) []entity.ID {
	out := make([]entity.ID, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func fixture() *Graph {
	return New(
		pt("a", 0, 0), pt("b", 1, 0), pt("c", 1, 1),
		line("w1", "a", "b"),
		line("w2", "b", "c"),
		entity.NewRelation("r1", []entity.Member{{ID: "w1", Kind: entity.KindLine}, {ID: "c", Kind: entity.KindPoint}}, nil),
	)
}

func TestEntity(t *testing.T) {
	g := fixture()
	if g.Len() != 6 {
		t.Errorf("Len() = %d, want 6", g.Len())
	}
	if _, err := g.Entity("a"); err != nil {
		t.Errorf("Entity(a) error: %v", err)
	}
	if _, err := g.Entity("zz"); !errs.IsNotFound(err) {
		t.Errorf("Entity(zz) error = %v, want NOT_FOUND", err)
	}
	if _, err := g.Line("a"); !errs.IsNotFound(err) {
		t.Errorf("Line(a) error = %v, want NOT_FOUND for kind mismatch", err)
	}
	if !g.HasEntity("r1") || g.HasEntity("zz") {
		t.Error("HasEntity() wrong")
	}
}

func TestParentIndices(t *testing.T) {
	g := fixture()
	if got := lineIDs(g.ParentLines("b")); !slices.Equal(got, []entity.ID{"w1", "w2"}) {
		t.Errorf("ParentLines(b) = %v", got)
	}
	if got := relIDs(g.ParentRelations("w1")); !slices.Equal(got, []entity.ID{"r1"}) {
		t.Errorf("ParentRelations(w1) = %v", got)
	}
	if got := g.ParentLines("zz"); len(got) != 0 {
		t.Errorf("ParentLines(zz) = %v, want none", got)
	}
}

func TestReplaceUpdatesIndices(t *testing.T) {
	g := fixture()
	w1, _ := g.Line("w1")
	g2 := g.Replace(w1.WithPoints([]entity.ID{"a", "c"}))

	if got := lineIDs(g2.ParentLines("b")); !slices.Equal(got, []entity.ID{"w2"}) {
		t.Errorf("after replace ParentLines(b) = %v, want [w2]", got)
	}
	if got := lineIDs(g2.ParentLines("c")); !slices.Equal(got, []entity.ID{"w2", "w1"}) {
		t.Errorf("after replace ParentLines(c) = %v, want [w2 w1]", got)
	}

	// The original snapshot is untouched.
	if got := lineIDs(g.ParentLines("b")); !slices.Equal(got, []entity.ID{"w1", "w2"}) {
		t.Errorf("original ParentLines(b) = %v", got)
	}
	orig, _ := g.Line("w1")
	if !slices.Equal(orig.Points, []entity.ID{"a", "b"}) {
		t.Errorf("original w1 = %v", orig.Points)
	}
}

func TestReplaceNewEntity(t *testing.T) {
	g := fixture()
	g2 := g.Replace(pt("d", 5, 5))
	if g2.Len() != g.Len()+1 {
		t.Errorf("Len() = %d, want %d", g2.Len(), g.Len()+1)
	}
	if g.HasEntity("d") {
		t.Error("original gained d")
	}
}

func TestRemove(t *testing.T) {
	g := fixture()
	g2 := g.Remove("w1")
	if g2.HasEntity("w1") {
		t.Error("w1 still present")
	}
	if got := lineIDs(g2.ParentLines("a")); len(got) != 0 {
		t.Errorf("ParentLines(a) = %v, want none", got)
	}
	if g2.Len() != g.Len()-1 {
		t.Errorf("Len() = %d, want %d", g2.Len(), g.Len()-1)
	}
	if g2.Remove("w1") != g2 {
		t.Error("removing an absent id should return the receiver")
	}

	g3 := g2.Remove("r1")
	if got := g3.ParentRelations("c"); len(got) != 0 {
		t.Errorf("ParentRelations(c) = %v, want none", got)
	}
}

func TestChildPoints(t *testing.T) {
	g := fixture()
	w1, _ := g.Line("w1")
	pts, err := g.ChildPoints(w1)
	if err != nil {
		t.Fatalf("ChildPoints() error: %v", err)
	}
	if len(pts) != 2 || pts[0].ID != "a" || pts[1].ID != "b" {
		t.Errorf("ChildPoints() = %v", pts)
	}

	_, err = g.Remove("b").ChildPoints(w1)
	if !errs.IsNotFound(err) {
		t.Errorf("ChildPoints() error = %v, want NOT_FOUND", err)
	}
}

func TestGeometry(t *testing.T) {
	g := fixture().
		Replace(pt("lone", 9, 9)).
		Replace(entity.NewLine("area", []entity.ID{"a", "b", "c", "a"}, entity.Tags{"building": "yes"})).
		Replace(entity.NewRelation("mp", []entity.Member{{ID: "area", Role: "outer"}}, entity.Tags{"type": "multipolygon"}))

	tests := []struct {
		id   entity.ID
		want Geometry
	}{
		{"a", GeometryVertex},
		{"lone", GeometryPoint},
		{"w1", GeometryLine},
		{"area", GeometryArea},
		{"mp", GeometryArea},
		{"r1", GeometryRelation},
	}
	for _, tt := range tests {
		got, err := g.Geometry(tt.id)
		if err != nil || got != tt.want {
			t.Errorf("Geometry(%s) = %v, %v, want %v", tt.id, got, err, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	g := fixture()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	tests := []struct {
		name string
		g    *Graph
		code errs.Code
	}{
		{"dangling point", g.Remove("a"), errs.ErrCodeNotFound},
		{"dangling member", g.Remove("c").Remove("w2"), errs.ErrCodeNotFound},
		{"degenerate line", g.Replace(line("w3", "a", "a")), errs.ErrCodeDegenerate},
		{"degenerate relation", g.Replace(entity.NewRelation("r2", nil, nil)), errs.ErrCodeDegenerate},
		{"kind mismatch", g.Replace(entity.NewRelation("r2", []entity.Member{{ID: "a", Kind: entity.KindLine}}, nil)), errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Validate(); !errs.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompactPreservesContent(t *testing.T) {
	g := fixture()
	for i := range 500 {
		id := entity.ID(fmt.Sprintf("p%d", i))
		g = g.Replace(pt(id, float64(i), 0))
		w2, _ := g.Line("w2")
		g = g.Replace(w2.AppendPoint(id))
	}
	g = g.Remove("p10")

	c := g.Compact()
	if c.Len() != g.Len() {
		t.Errorf("Compact() Len() = %d, want %d", c.Len(), g.Len())
	}
	if !slices.Equal(c.IDs(), g.IDs()) {
		t.Error("Compact() changed the id set")
	}
	if got := lineIDs(c.ParentLines("p42")); !slices.Equal(got, []entity.ID{"w2"}) {
		t.Errorf("ParentLines(p42) = %v", got)
	}
	if got := lineIDs(c.ParentLines("b")); !slices.Equal(got, []entity.ID{"w1", "w2"}) {
		t.Errorf("ParentLines(b) after compaction = %v", got)
	}
	if c.HasEntity("p10") {
		t.Error("removed entity came back")
	}
}

func TestConcurrentReaders(t *testing.T) {
	g := fixture()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = g.ParentLines("b")
				_, _ = g.Entity("w1")
			}
		}()
	}
	next := g
	for i := range 100 {
		next = next.Replace(pt(entity.ID(fmt.Sprintf("x%d", i)), 0, 0))
	}
	wg.Wait()
	if g.Len() != 6 {
		t.Errorf("original Len() = %d, want 6", g.Len())
	}
}

func TestDiff(t *testing.T) {
	g := fixture()
	w1, _ := g.Line("w1")
	g2 := g.Replace(w1.WithPoints([]entity.ID{"a", "c"})).Remove("r1").Replace(pt("d", 0, 0))

	c := Diff(g, g2)
	if !slices.Equal(c.Created, []entity.ID{"d"}) {
		t.Errorf("Created = %v", c.Created)
	}
	if !slices.Equal(c.Modified, []entity.ID{"w1"}) {
		t.Errorf("Modified = %v", c.Modified)
	}
	if !slices.Equal(c.Deleted, []entity.ID{"r1"}) {
		t.Errorf("Deleted = %v", c.Deleted)
	}

	if !Diff(g, g.Compact()).Empty() {
		t.Error("Diff() against a compacted copy should be empty")
	}
	if !Diff(g, New(g.Entities()...)).Empty() {
		t.Error("Diff() against a rebuilt copy should be empty")
	}
}
