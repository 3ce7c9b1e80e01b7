// Package dot renders map graphs as Graphviz diagrams for debugging.
//
// Points become nodes, consecutive references of a line become edges, and
// relations become diamond nodes joined to their members by dashed edges:
//
//	src := dot.ToDOT(g, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// With Options.Geographic set, nodes are pinned to their projected locations
// and the diagram is laid out with neato, so it resembles the map.
//
// Rendering uses [github.com/goccy/go-graphviz] in-process; no Graphviz
// installation is needed.
package dot
