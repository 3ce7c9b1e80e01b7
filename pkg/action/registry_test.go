package action

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 14 {
		t.Errorf("Names() has %d entries, want 14: %v", len(names), names)
	}
	if !slices.IsSorted(names) {
		t.Error("Names() is not sorted")
	}
	for _, want := range []string{"circularize", "disconnect", "delete_relation", "copy_entities"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() lacks %s", want)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		action string
		params Params
		code   errs.Code
	}{
		{"unknown action", "explode", Params{}, errs.ErrCodeInvalidAction},
		{"missing point", "delete_node", Params{}, errs.ErrCodeInvalidInput},
		{"bad id", "delete_node", Params{Point: "has space"}, errs.ErrCodeInvalidID},
		{"short edge", "add_midpoint", Params{Edge: []entity.ID{"a"}}, errs.ErrCodeInvalidInput},
		{"missing member", "change_member", Params{Relation: "r1"}, errs.ErrCodeInvalidInput},
		{"bad kind", "change_member", Params{Relation: "r1", Member: &MemberParams{Kind: "blob"}}, errs.ErrCodeInvalidInput},
		{"no presets", "change_preset", Params{Entity: "a", NewPreset: "bench"}, errs.ErrCodeInvalidInput},
		{"max angle", "circularize", Params{Line: "w1", MaxAngle: 400}, errs.ErrCodeInvalidInput},
		{"tiny max angle", "circularize", Params{Line: "w1", MaxAngle: 0.0001}, errs.ErrCodeInvalidInput},
		{"negative max angle", "circularize", Params{Line: "w1", MaxAngle: -5}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.action, tt.params, Env{})
			if !errs.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildSequence_FromJSON(t *testing.T) {
	script := `[
		{"action": "add_midpoint", "edge": ["a", "b"], "point": "m"},
		{"action": "change_tags", "entity": "m", "tags": {"barrier": "gate"}},
		{"action": "disconnect", "point": "b", "new_id": "b2"},
		{"action": "delete_node", "point": "c"}
	]`
	var steps []Step
	if err := json.Unmarshal([]byte(script), &steps); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	a, err := BuildSequence(steps, Env{})
	if err != nil {
		t.Fatalf("BuildSequence() error: %v", err)
	}
	g := graph.New(
		pt("a", 0, 0), pt("b", 2, 0), pt("c", 2, 2), pt("d", 4, 0),
		ln("w1", "a", "b", "c"),
		ln("w2", "b", "d"),
	)
	out := apply(t, a, g)

	m := mustPoint(t, out, "m")
	if m.Loc.Lon != 1 || m.Tags["barrier"] != "gate" {
		t.Errorf("m = %+v, want gate at lon 1", m)
	}
	if got := mustLine(t, out, "w1").Points; !slices.Equal(got, []entity.ID{"a", "m", "b"}) {
		t.Errorf("w1 = %v, want [a m b]", got)
	}
	if got := mustLine(t, out, "w2").Points; !slices.Equal(got, []entity.ID{"b2", "d"}) {
		t.Errorf("w2 = %v, want [b2 d]", got)
	}
}

func TestSequence_AllOrNothing(t *testing.T) {
	g := graph.New(pt("a", 0, 0))
	out, err := Sequence(DeleteNode{Point: "a"}, DeleteNode{Point: "a"}).Apply(g)
	if !errs.IsNotFound(err) || out != nil {
		t.Errorf("Apply() = %v, %v; want nil, NOT_FOUND", out, err)
	}
	if !g.HasEntity("a") {
		t.Error("input graph changed")
	}
}

func TestPartial_KeepsDisabled(t *testing.T) {
	a, err := Build("circularize", Params{Line: "w1", T: new(float64)}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	d, ok := a.(Disabler)
	if !ok {
		t.Fatal("partial circularize lost its Disabled check")
	}
	open := graph.New(pt("a", 0, 0), pt("b", 1, 0), ln("w1", "a", "b"))
	if got := d.Disabled(open); got != ReasonNotClosed {
		t.Errorf("Disabled() = %q, want not_closed", got)
	}
}
