package io

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

type document struct {
	Points    []point    `json:"points,omitempty" yaml:"points,omitempty"`
	Lines     []line     `json:"lines,omitempty" yaml:"lines,omitempty"`
	Relations []relation `json:"relations,omitempty" yaml:"relations,omitempty"`
	Parents   *parents   `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// parents carries parent lists whose order differs from id order.
type parents struct {
	Lines     map[entity.ID][]entity.ID `json:"lines,omitempty" yaml:"lines,omitempty"`
	Relations map[entity.ID][]entity.ID `json:"relations,omitempty" yaml:"relations,omitempty"`
}

type point struct {
	ID   entity.ID   `json:"id" yaml:"id"`
	Loc  []float64   `json:"loc" yaml:"loc,flow"`
	Tags entity.Tags `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type line struct {
	ID     entity.ID   `json:"id" yaml:"id"`
	Points []entity.ID `json:"points" yaml:"points,flow"`
	Tags   entity.Tags `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type relation struct {
	ID      entity.ID   `json:"id" yaml:"id"`
	Members []member    `json:"members" yaml:"members"`
	Tags    entity.Tags `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type member struct {
	ID   entity.ID   `json:"id" yaml:"id"`
	Role string      `json:"role,omitempty" yaml:"role,omitempty"`
	Kind entity.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

func fromGraph(g *graph.Graph) document {
	var doc document
	for _, e := range g.Entities() {
		switch e := e.(type) {
		case *entity.Point:
			doc.Points = append(doc.Points, point{
				ID:   e.ID,
				Loc:  []float64{e.Loc.Lon, e.Loc.Lat},
				Tags: nonEmpty(e.Tags),
			})
		case *entity.Line:
			doc.Lines = append(doc.Lines, line{ID: e.ID, Points: e.Points, Tags: nonEmpty(e.Tags)})
		case *entity.Relation:
			r := relation{ID: e.ID, Members: make([]member, len(e.Members)), Tags: nonEmpty(e.Tags)}
			for i, m := range e.Members {
				r.Members[i] = member{ID: m.ID, Role: m.Role, Kind: m.Kind}
			}
			doc.Relations = append(doc.Relations, r)
		}
	}
	if o := g.ParentOrder(); !o.Empty() {
		doc.Parents = &parents{Lines: o.Lines, Relations: o.Relations}
	}
	return doc
}

// toGraph builds the snapshot. With validate set, dangling references and
// degenerate entities are errors.
func (doc document) toGraph(validate bool) (*graph.Graph, error) {
	n := len(doc.Points) + len(doc.Lines) + len(doc.Relations)
	kinds := make(map[entity.ID]entity.Kind, n)
	claim := func(id entity.ID, k entity.Kind) error {
		if err := errs.ValidateID(string(id)); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "%s", k)
		}
		if prev, dup := kinds[id]; dup {
			return errs.New(errs.ErrCodeInvalidFormat, "duplicate id %s (%s and %s)", id, prev, k)
		}
		kinds[id] = k
		return nil
	}

	entities := make([]entity.Entity, 0, n)
	for _, p := range doc.Points {
		if err := claim(p.ID, entity.KindPoint); err != nil {
			return nil, err
		}
		if len(p.Loc) != 2 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "point %s: loc needs [lon, lat], got %d values", p.ID, len(p.Loc))
		}
		entities = append(entities, entity.NewPoint(p.ID, geo.Loc{Lon: p.Loc[0], Lat: p.Loc[1]}, p.Tags))
	}
	for _, l := range doc.Lines {
		if err := claim(l.ID, entity.KindLine); err != nil {
			return nil, err
		}
		entities = append(entities, entity.NewLine(l.ID, l.Points, l.Tags))
	}
	for _, r := range doc.Relations {
		if err := claim(r.ID, entity.KindRelation); err != nil {
			return nil, err
		}
	}
	for _, r := range doc.Relations {
		members := make([]entity.Member, len(r.Members))
		for i, m := range r.Members {
			kind := m.Kind
			if kind == "" {
				kind = kinds[m.ID]
			} else if !kind.Valid() {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "relation %s: member %d has unknown kind %q", r.ID, i, kind)
			}
			members[i] = entity.Member{ID: m.ID, Role: m.Role, Kind: kind}
		}
		entities = append(entities, entity.NewRelation(r.ID, members, r.Tags))
	}

	g := graph.New(entities...)
	if doc.Parents != nil {
		var err error
		g, err = g.WithParentOrder(graph.ParentOrder{Lines: doc.Parents.Lines, Relations: doc.Parents.Relations})
		if err != nil {
			return nil, err
		}
	}
	if !validate {
		return g, nil
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func nonEmpty(t entity.Tags) entity.Tags {
	if len(t) == 0 {
		return nil
	}
	return t
}
