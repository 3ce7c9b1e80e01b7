package graph

import (
	"slices"
	"testing"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

func TestParentOrder(t *testing.T) {
	g := New(pt("a", 0, 0), pt("b", 1, 0), line("w9", "a", "b"))
	g = g.Replace(line("w1", "b", "a"))

	o := g.ParentOrder()
	want := []entity.ID{"w9", "w1"}
	if got := o.Lines["a"]; !slices.Equal(got, want) {
		t.Errorf("ParentOrder().Lines[a] = %v, want %v", got, want)
	}
	if len(o.Relations) != 0 {
		t.Errorf("ParentOrder().Relations = %v, want none", o.Relations)
	}

	rebuilt := New(g.Entities()...)
	if got := lineIDs(rebuilt.ParentLines("a")); !slices.Equal(got, []entity.ID{"w1", "w9"}) {
		t.Fatalf("rebuilt ParentLines(a) = %v, want id order", got)
	}
	restored, err := rebuilt.WithParentOrder(o)
	if err != nil {
		t.Fatalf("WithParentOrder() error: %v", err)
	}
	for _, id := range []entity.ID{"a", "b"} {
		if got, want := lineIDs(restored.ParentLines(id)), lineIDs(g.ParentLines(id)); !slices.Equal(got, want) {
			t.Errorf("restored ParentLines(%s) = %v, want %v", id, got, want)
		}
	}
	if got := restored.ParentOrder().Lines["a"]; !slices.Equal(got, want) {
		t.Errorf("restored ParentOrder().Lines[a] = %v, want %v", got, want)
	}
}

func TestParentOrder_SortedIsEmpty(t *testing.T) {
	if o := fixture().ParentOrder(); !o.Empty() {
		t.Errorf("ParentOrder() = %+v, want empty for a graph built in id order", o)
	}
}

func TestWithParentOrder_NotPermutation(t *testing.T) {
	g := New(pt("a", 0, 0), pt("b", 1, 0), line("w1", "a", "b"), line("w2", "a", "b"))

	_, err := g.WithParentOrder(ParentOrder{Lines: map[entity.ID][]entity.ID{"a": {"w2", "w7"}}})
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("WithParentOrder() error = %v, want INVALID_FORMAT", err)
	}
}
