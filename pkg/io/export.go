package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mapgraph/pkg/graph"
)

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes g as YAML and writes it to w.
func WriteYAML(g *graph.Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Marshal returns the compact JSON encoding of g.
func Marshal(g *graph.Graph) ([]byte, error) {
	data, err := json.Marshal(fromGraph(g))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes g as JSON to the file at path.
func ExportJSON(g *graph.Graph, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// Export writes g to path, choosing YAML or JSON by extension.
func Export(g *graph.Graph, path string) error {
	if isYAML(path) {
		return exportFile(path, func(w io.Writer) error { return WriteYAML(g, w) })
	}
	return ExportJSON(g, path)
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
