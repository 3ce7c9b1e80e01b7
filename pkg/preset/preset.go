package preset

import (
	"maps"
	"slices"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// Wildcard matches any tag value.
const Wildcard = "*"

// Preset is one entry of a catalog.
type Preset struct {
	ID       string           `toml:"id"`
	Name     string           `toml:"name"`
	Geometry []graph.Geometry `toml:"geometry"`
	Tags     entity.Tags      `toml:"tags"`

	// AddTagsOverride and RemoveTagsOverride default to Tags when empty.
	AddTagsOverride    entity.Tags `toml:"add_tags"`
	RemoveTagsOverride entity.Tags `toml:"remove_tags"`

	// Defaults are field values filled in when a preset is applied.
	Defaults entity.Tags `toml:"defaults"`
}

var _ action.Schema = (*Preset)(nil)

// AddTags implements action.Schema.
func (p *Preset) AddTags() entity.Tags {
	if len(p.AddTagsOverride) > 0 {
		return p.AddTagsOverride
	}
	return p.Tags
}

// RemoveTags returns the tags UnsetTags strips.
func (p *Preset) RemoveTags() entity.Tags {
	if len(p.RemoveTagsOverride) > 0 {
		return p.RemoveTagsOverride
	}
	return p.AddTags()
}

// AllowsGeometry reports whether the preset may be used for geom.
func (p *Preset) AllowsGeometry(geom graph.Geometry) bool {
	return len(p.Geometry) == 0 || slices.Contains(p.Geometry, geom)
}

// SetTags implements action.Schema.
func (p *Preset) SetTags(tags entity.Tags, geometry graph.Geometry, skipDefaults bool) entity.Tags {
	out := tags.Clone()
	add := p.AddTags()
	for k, v := range add {
		if v == Wildcard {
			if _, ok := out[k]; !ok {
				out[k] = "yes"
			}
			continue
		}
		out[k] = v
	}

	// A preset that also fits lines cannot imply an area on its own.
	if geometry == graph.GeometryArea {
		if !slices.Contains(p.Geometry, graph.GeometryLine) && impliesArea(add) {
			delete(out, "area")
		} else {
			out["area"] = "yes"
		}
	}

	if !skipDefaults {
		for k, v := range p.Defaults {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out
}

// UnsetTags implements action.Schema. Defaults still at their default value
// are removed along with the preset's own tags.
func (p *Preset) UnsetTags(tags entity.Tags, geometry graph.Geometry, preserve []string) entity.Tags {
	out := tags.Clone()
	for k := range p.RemoveTags() {
		if !slices.Contains(preserve, k) {
			delete(out, k)
		}
	}
	for k, v := range p.Defaults {
		if out[k] == v && !slices.Contains(preserve, k) {
			delete(out, k)
		}
	}
	if geometry == graph.GeometryArea && !slices.Contains(preserve, "area") {
		delete(out, "area")
	}
	return out
}

// score returns how many of the preset's tags tags carries, or -1 when any
// is missing. Exact values count double so that specific presets beat
// wildcard ones.
func (p *Preset) score(tags entity.Tags) int {
	if len(p.Tags) == 0 {
		return -1
	}
	n := 0
	for k, v := range p.Tags {
		got, ok := tags[k]
		switch {
		case !ok:
			return -1
		case v == Wildcard:
			n++
		case got == v:
			n += 2
		default:
			return -1
		}
	}
	return n
}

func (p *Preset) clone() *Preset {
	c := *p
	c.Geometry = slices.Clone(p.Geometry)
	c.Tags = maps.Clone(p.Tags)
	c.AddTagsOverride = maps.Clone(p.AddTagsOverride)
	c.RemoveTagsOverride = maps.Clone(p.RemoveTagsOverride)
	c.Defaults = maps.Clone(p.Defaults)
	return &c
}

func impliesArea(tags entity.Tags) bool {
	if tags["type"] == "multipolygon" {
		return true
	}
	for k, v := range tags {
		if except, ok := entity.AreaKeys[k]; ok && !except[v] {
			return true
		}
	}
	return false
}
