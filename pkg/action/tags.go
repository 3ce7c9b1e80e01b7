package action

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// ChangeTags replaces an entity's tags wholesale.
type ChangeTags struct {
	Entity entity.ID
	Tags   entity.Tags
}

// Apply implements Action.
func (a ChangeTags) Apply(g *graph.Graph) (*graph.Graph, error) {
	e, err := g.Entity(a.Entity)
	if err != nil {
		return nil, err
	}
	return g.Replace(e.WithTags(a.Tags)), nil
}

// Schema is a tag template such as a preset. Implementations must not
// modify the tags passed to them.
type Schema interface {
	// SetTags returns tags with the schema's tags applied. Field defaults are
	// added unless skipDefaults is set.
	SetTags(tags entity.Tags, geometry graph.Geometry, skipDefaults bool) entity.Tags
	// UnsetTags returns tags with the schema's tags removed, except for keys
	// listed in preserve.
	UnsetTags(tags entity.Tags, geometry graph.Geometry, preserve []string) entity.Tags
	// AddTags returns the tags SetTags adds, or nil.
	AddTags() entity.Tags
}

// ChangePreset moves an entity from one schema to another. Either schema may
// be nil. Keys the new schema adds survive the removal of the old one.
type ChangePreset struct {
	Entity       entity.ID
	Old          Schema
	New          Schema
	SkipDefaults bool
}

// Apply implements Action.
func (a ChangePreset) Apply(g *graph.Graph) (*graph.Graph, error) {
	e, err := g.Entity(a.Entity)
	if err != nil {
		return nil, err
	}
	geometry, err := g.Geometry(a.Entity)
	if err != nil {
		return nil, err
	}

	tags := e.EntityTags()
	if a.Old != nil {
		var preserve []string
		if a.New != nil {
			if add := a.New.AddTags(); add != nil {
				preserve = add.Keys()
			}
		}
		tags = a.Old.UnsetTags(tags, geometry, preserve)
	}
	if a.New != nil {
		tags = a.New.SetTags(tags, geometry, a.SkipDefaults)
	}
	return g.Replace(e.WithTags(tags)), nil
}
