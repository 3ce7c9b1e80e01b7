package action

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// CopyEntities deep-copies entities from From into the target graph under
// fresh ids. A nil From copies within the target graph itself.
//
// New ids are disjoint from both graphs. Copies keep their tags, locations
// and member roles.
type CopyEntities struct {
	IDs    []entity.ID
	From   *graph.Graph
	Minter entity.Minter
}

// CopyResult is the outcome of CopyEntities.Run.
type CopyResult struct {
	Graph *graph.Graph
	// Copies maps every copied original id to the id of its copy, including
	// entities copied because something in IDs referenced them.
	Copies map[entity.ID]entity.ID
}

// Apply implements Action.
func (a CopyEntities) Apply(g *graph.Graph) (*graph.Graph, error) {
	res, err := a.Run(g)
	if err != nil {
		return nil, err
	}
	return res.Graph, nil
}

// Run copies the entities and also returns the id mapping.
func (a CopyEntities) Run(g *graph.Graph) (CopyResult, error) {
	from := a.From
	if from == nil {
		from = g
	}
	c := entity.NewCopier(from, minterFor(a.Minter, from, g))
	for _, id := range a.IDs {
		if _, err := c.Copy(id); err != nil {
			return CopyResult{}, err
		}
	}
	for _, e := range c.Copies() {
		g = g.Replace(e)
	}
	return CopyResult{Graph: g, Copies: c.Mapping()}, nil
}
