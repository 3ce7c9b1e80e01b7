package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

//go:embed default.toml
var defaultTOML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Catalog is an immutable set of presets keyed by id.
type Catalog struct {
	byID map[string]*Preset
	ids  []string
}

var _ action.SchemaSource = (*Catalog)(nil)

type catalogFile struct {
	Preset []*Preset `toml:"preset"`
}

// Decode reads a TOML catalog from r.
func Decode(r io.Reader) (*Catalog, error) {
	var f catalogFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode presets")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown preset key %q", undecoded[0].String())
	}
	return NewCatalog(f.Preset...)
}

// LoadFile reads a TOML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Decode(bytes.NewReader(defaultTOML))
		if err != nil {
			panic(fmt.Sprintf("preset: built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// NewCatalog builds a catalog from presets. Ids must be non-empty and
// unique, and geometries must be known.
func NewCatalog(presets ...*Preset) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Preset, len(presets))}
	for i, p := range presets {
		if p == nil || p.ID == "" {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "preset %d has no id", i+1)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "duplicate preset %q", p.ID)
		}
		for _, geom := range p.Geometry {
			if !validGeometry(geom) {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "preset %q: unknown geometry %q", p.ID, geom)
			}
		}
		c.byID[p.ID] = p.clone()
		c.ids = append(c.ids, p.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Len returns the number of presets.
func (c *Catalog) Len() int { return len(c.ids) }

// IDs returns the preset ids in sorted order.
func (c *Catalog) IDs() []string { return slices.Clone(c.ids) }

// Get returns the preset with the given id.
func (c *Catalog) Get(id string) (*Preset, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Schema implements action.SchemaSource.
func (c *Catalog) Schema(id string) (action.Schema, bool) {
	p, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// Match returns the preset that best describes tags drawn as geom, or nil.
// Ties go to the lowest id.
func (c *Catalog) Match(tags entity.Tags, geom graph.Geometry) *Preset {
	var best *Preset
	bestScore := -1
	for _, id := range c.ids {
		p := c.byID[id]
		if !p.AllowsGeometry(geom) {
			continue
		}
		if s := p.score(tags); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best
}

func validGeometry(g graph.Geometry) bool {
	switch g {
	case graph.GeometryPoint, graph.GeometryVertex, graph.GeometryLine,
		graph.GeometryArea, graph.GeometryRelation:
		return true
	}
	return false
}
