package graph

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
)

// Geometry classifies how an entity is drawn. Tag schemas key their
// behavior on it.
type Geometry string

const (
	GeometryPoint    Geometry = "point"
	GeometryVertex   Geometry = "vertex"
	GeometryLine     Geometry = "line"
	GeometryArea     Geometry = "area"
	GeometryRelation Geometry = "relation"
)

// Geometry returns the geometry of id: vertex for a point referenced by a
// line, point otherwise; area or line for lines; area for multipolygon
// relations and relation for any other relation.
func (g *Graph) Geometry(id entity.ID) (Geometry, error) {
	e, err := g.Entity(id)
	if err != nil {
		return "", err
	}
	switch e := e.(type) {
	case *entity.Point:
		if len(g.parentIDs(lineIndex, id)) > 0 {
			return GeometryVertex, nil
		}
		return GeometryPoint, nil
	case *entity.Line:
		if e.IsArea() {
			return GeometryArea, nil
		}
		return GeometryLine, nil
	case *entity.Relation:
		if e.IsMultipolygon() {
			return GeometryArea, nil
		}
	}
	return GeometryRelation, nil
}
