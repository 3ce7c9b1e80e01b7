package action

import (
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// DisconnectOptions narrows and names the output of a Disconnect.
type DisconnectOptions struct {
	// Lines restricts the split to these lines. Empty means every parent line.
	Lines []entity.ID
	// NewID names the first point created. Later points are minted. An id
	// already present in the graph is rejected.
	NewID entity.ID
	// Minter names new points. A sequence minter is used when nil.
	Minter entity.Minter
}

// Disconnect splits a point shared by several lines so that lines stop
// sharing it.
//
// Without a scope exactly one parent line keeps the original point and every
// other attachment gets a fresh point at the same location with the same
// tags. With a scope, the listed lines are moved to fresh points and every
// other line keeps the original.
type Disconnect struct {
	Point   entity.ID
	Options DisconnectOptions
}

// NewDisconnect returns a Disconnect of point.
func NewDisconnect(point entity.ID, opts DisconnectOptions) Disconnect {
	opts.Lines = slices.Clone(opts.Lines)
	return Disconnect{Point: point, Options: opts}
}

// Connection is an attachment of the point to a line that will be rewired.
type Connection struct {
	Line  entity.ID
	Index int
}

// Apply implements Action.
func (d Disconnect) Apply(g *graph.Graph) (*graph.Graph, error) {
	p, err := g.Point(d.Point)
	if err != nil {
		return nil, err
	}
	conns, err := d.Connections(g)
	if err != nil {
		return nil, err
	}

	if id := d.Options.NewID; id != "" && len(conns) > 0 && g.HasEntity(id) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "new id %s is already in use", id)
	}

	minter := minterFor(d.Options.Minter, g)
	for i, c := range conns {
		id := d.Options.NewID
		if i > 0 || id == "" {
			id = minter.Next(entity.KindPoint)
		}
		g = g.Replace(p.WithID(id))

		l, err := g.Line(c.Line)
		if err != nil {
			return nil, err
		}
		switch {
		case c.Index == 0 && l.IsArea():
			l = l.ReplacePoint(l.Points[0], id)
		case l.IsClosed() && c.Index == len(l.Points)-1:
			l = l.Unclose().AppendPoint(id)
		default:
			if l, err = l.UpdatePoint(id, c.Index); err != nil {
				return nil, err
			}
		}
		g = g.Replace(l)
	}
	return g, nil
}

// Connections returns the attachments that Apply will move to new points,
// in parent line order.
func (d Disconnect) Connections(g *graph.Graph) ([]Connection, error) {
	if _, err := g.Point(d.Point); err != nil {
		return nil, err
	}
	parents := g.ParentLines(d.Point)
	scoped := len(d.Options.Lines) > 0

	var candidates []Connection
	keeping := false
	for _, l := range parents {
		if scoped && !d.inScope(l.ID) {
			keeping = true
			continue
		}
		if l.IsArea() && l.First() == d.Point {
			candidates = append(candidates, Connection{Line: l.ID, Index: 0})
			continue
		}
		for j, id := range l.Points {
			if id != d.Point {
				continue
			}
			// A scoped ring shared with other lines keeps its closing
			// reference; rewiring index 0 moves both ends.
			if scoped && l.IsClosed() && len(parents) > 1 && j == len(l.Points)-1 {
				continue
			}
			candidates = append(candidates, Connection{Line: l.ID, Index: j})
		}
	}

	if keeping || len(candidates) == 0 {
		return candidates, nil
	}
	return candidates[1:], nil
}

// Disabled implements Disabler.
//
// It reports not_connected when there is nothing to split and relation when
// two parent lines belong to a common relation, since the split would leave
// it ambiguous which branch stays in the relation. With a scope only pairs
// involving a scoped line count.
func (d Disconnect) Disabled(g *graph.Graph) Reason {
	conns, err := d.Connections(g)
	if err != nil {
		return ReasonNotFound
	}
	if len(conns) == 0 {
		return ReasonNotConnected
	}

	scoped := len(d.Options.Lines) > 0
	seen := make(map[entity.ID]entity.ID)
	for _, l := range g.ParentLines(d.Point) {
		for _, r := range g.ParentRelations(l.ID) {
			first, ok := seen[r.ID]
			if !ok {
				seen[r.ID] = l.ID
				continue
			}
			if !scoped || d.inScope(l.ID) || d.inScope(first) {
				return ReasonRelation
			}
		}
	}
	return Enabled
}

func (d Disconnect) inScope(id entity.ID) bool {
	return slices.Contains(d.Options.Lines, id)
}
