package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

func testGraph() *graph.Graph {
	return graph.New(
		entity.NewPoint("a", geo.Loc{Lon: 13.40, Lat: 52.50}, nil),
		entity.NewPoint("b", geo.Loc{Lon: 13.41, Lat: 52.50}, entity.Tags{"barrier": "gate"}),
		entity.NewPoint("c", geo.Loc{Lon: 13.41, Lat: 52.51}, nil),
		entity.NewLine("w1", []entity.ID{"a", "b", "c"}, entity.Tags{"highway": "path"}),
		entity.NewRelation("r1", []entity.Member{{ID: "w1", Role: "route", Kind: entity.KindLine}}, entity.Tags{"type": "route"}),
	)
}

func TestToDOT(t *testing.T) {
	out := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		"graph G {",
		`"a" [label="a"];`,
		`"b" [label="b", shape=box`,
		`"a" -- "b" [color="#4a6fa5", label="w1"`,
		`"b" -- "c" [color="#4a6fa5"];`,
		`"r1" [label="r1", shape=diamond`,
		`"r1" -- "a" [style=dashed, penwidth=1, color="#a0522d", label="route"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "pos=") || strings.Contains(out, "->") {
		t.Error("ToDOT() should be an undirected graph without pinned positions")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	out := ToDOT(testGraph(), Options{Detailed: true})
	if !strings.Contains(out, `label="b\nbarrier=gate"`) {
		t.Errorf("detailed label missing tags:\n%s", out)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	g := testGraph()
	edited := g.Replace(entity.NewPoint("a", geo.Loc{Lon: 13.40, Lat: 52.50}, nil))
	if ToDOT(g, Options{}) != ToDOT(edited, Options{}) {
		t.Error("ToDOT() differs for equal graphs")
	}
}

func TestToDOT_Geographic(t *testing.T) {
	out := ToDOT(testGraph(), Options{Geographic: true})
	if !strings.Contains(out, "layout=neato;") {
		t.Error("geographic diagrams should use neato")
	}
	if strings.Count(out, "pos=") != 3 {
		t.Errorf("want 3 pinned points in:\n%s", out)
	}

	out = ToDOT(testGraph(), Options{Geographic: true, Projection: geo.Identity{}})
	if !strings.Contains(out, `pos="13.40,-52.50!"`) {
		t.Errorf("Identity projection not used:\n%s", out)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if out := normalizeViewBox([]byte("<svg/>")); string(out) != "<svg/>" {
		t.Error("normalizeViewBox() should leave SVGs without a viewBox alone")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(testGraph(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(">w1<")) {
		t.Errorf("RenderSVG() output lacks the diagram: %.200s", svg)
	}
}
