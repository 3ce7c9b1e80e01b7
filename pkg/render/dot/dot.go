package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds tags to node and edge labels.
	Detailed bool
	// Geographic pins points to their projected locations.
	Geographic bool
	// Projection maps locations to the plane when Geographic is set.
	// Nil uses a Mercator projection scaled to the graph.
	Projection geo.Projection
}

const (
	lineColor     = "#4a6fa5"
	areaColor     = "#7a9a3a"
	relationColor = "#a0522d"
)

// ToDOT converts g to an undirected Graphviz graph. Output is sorted by id
// so equal graphs produce equal text.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=false];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	if opts.Geographic {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("\n")

	proj := projection(g, opts)
	entities := g.Entities()

	for _, e := range entities {
		p, ok := e.(*entity.Point)
		if !ok {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", label(string(p.ID), p.Tags, opts.Detailed))}
		if len(p.Tags) > 0 {
			attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=lightyellow")
		}
		if proj != nil {
			v := proj.Project(p.Loc)
			attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", v.X, -v.Y))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range entities {
		l, ok := e.(*entity.Line)
		if !ok {
			continue
		}
		color := lineColor
		if l.IsArea() {
			color = areaColor
		}
		for i := 1; i < len(l.Points); i++ {
			attrs := []string{"color=\"" + color + "\""}
			if i == 1 {
				attrs = append(attrs, fmt.Sprintf("label=%q", label(string(l.ID), l.Tags, opts.Detailed)), "fontcolor=\""+color+"\"")
			}
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", l.Points[i-1], l.Points[i], strings.Join(attrs, ", "))
		}
	}

	for _, e := range entities {
		r, ok := e.(*entity.Relation)
		if !ok {
			continue
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  %q [label=%q, shape=diamond, color=%q, fontcolor=%q];\n",
			r.ID, label(string(r.ID), r.Tags, opts.Detailed), relationColor, relationColor)
		for _, m := range r.Members {
			target := m.ID
			if l, err := g.Line(m.ID); err == nil && len(l.Points) > 0 {
				target = l.First()
			}
			attrs := []string{"style=dashed", "penwidth=1", "color=\"" + relationColor + "\""}
			if m.Role != "" {
				attrs = append(attrs, fmt.Sprintf("label=%q", m.Role))
			}
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", r.ID, target, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(id string, tags entity.Tags, detailed bool) string {
	if !detailed || len(tags) == 0 {
		return id
	}
	keys := tags.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + tags[k]
	}
	return id + "\n" + strings.Join(parts, "\n")
}

// fitInches is the side of the square pinned positions are fitted into.
// neato reads pos in inches.
const fitInches = 10

// projection returns the projection used to pin nodes, or nil when the
// layout is left to Graphviz.
func projection(g *graph.Graph, opts Options) geo.Projection {
	if !opts.Geographic {
		return nil
	}
	if opts.Projection != nil {
		return opts.Projection
	}
	var locs []geo.Loc
	for _, e := range g.Entities() {
		if p, ok := e.(*entity.Point); ok {
			locs = append(locs, p.Loc)
		}
	}
	return geo.FitMercator(locs, fitInches)
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if strings.Contains(dot, "layout=neato") {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
