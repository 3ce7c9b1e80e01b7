package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// ReadJSON decodes a JSON snapshot from r. Unknown fields are rejected.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return doc.toGraph(true)
}

// ReadYAML decodes a YAML snapshot from r.
func ReadYAML(r io.Reader) (*graph.Graph, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return doc.toGraph(true)
}

// Unmarshal decodes a JSON snapshot produced by [Marshal]. Unlike
// [ReadJSON] it accepts any graph an action could have produced, including
// ones that would not pass Validate.
func Unmarshal(data []byte) (*graph.Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return doc.toGraph(false)
}

// ImportJSON reads a JSON snapshot from the file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	return importFile(path, ReadJSON)
}

// Import reads a snapshot from path, choosing YAML or JSON by extension.
func Import(path string) (*graph.Graph, error) {
	if isYAML(path) {
		return importFile(path, ReadYAML)
	}
	return importFile(path, ReadJSON)
}

func importFile(path string, read func(io.Reader) (*graph.Graph, error)) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
