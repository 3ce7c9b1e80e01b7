package entity

import "github.com/matzehuels/mapgraph/pkg/geo"

// Point is a located node.
type Point struct {
	ID   ID
	Loc  geo.Loc
	Tags Tags
}

// NewPoint returns a point with a private copy of tags.
func NewPoint(id ID, loc geo.Loc, tags Tags) *Point {
	return &Point{ID: id, Loc: loc, Tags: tags.Clone()}
}

func (p *Point) EntityID() ID     { return p.ID }
func (p *Point) Kind() Kind       { return KindPoint }
func (p *Point) EntityTags() Tags { return p.Tags }

// WithTags implements Entity.
func (p *Point) WithTags(tags Tags) Entity {
	return &Point{ID: p.ID, Loc: p.Loc, Tags: tags.Clone()}
}

// Move returns a copy of p at loc.
func (p *Point) Move(loc geo.Loc) *Point {
	return &Point{ID: p.ID, Loc: loc, Tags: p.Tags.Clone()}
}

// WithID returns a copy of p under a different identifier.
func (p *Point) WithID(id ID) *Point {
	return &Point{ID: id, Loc: p.Loc, Tags: p.Tags.Clone()}
}
