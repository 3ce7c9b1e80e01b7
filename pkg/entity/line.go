package entity

import (
	"slices"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// AreaKeys lists tag keys that make a closed line an area. The inner map
// holds values of that key which do not, such as natural=coastline.
var AreaKeys = map[string]map[string]bool{
	"amenity":       {},
	"area:highway":  {},
	"building":      {},
	"building:part": {},
	"craft":         {},
	"historic":      {},
	"landuse":       {},
	"leisure":       {"picnic_table": true, "slipway": true, "track": true},
	"man_made":      {"breakwater": true, "cutline": true, "embankment": true, "groyne": true, "pipeline": true},
	"military":      {},
	"natural":       {"arete": true, "cliff": true, "coastline": true, "ridge": true, "tree_row": true},
	"office":        {},
	"place":         {},
	"shop":          {},
	"tourism":       {"artwork": true},
}

// Line is an ordered sequence of point references.
type Line struct {
	ID     ID
	Points []ID
	Tags   Tags
}

// NewLine returns a line with private copies of points and tags.
func NewLine(id ID, points []ID, tags Tags) *Line {
	return &Line{ID: id, Points: cloneIDs(points), Tags: tags.Clone()}
}

func (l *Line) EntityID() ID     { return l.ID }
func (l *Line) Kind() Kind       { return KindLine }
func (l *Line) EntityTags() Tags { return l.Tags }

// WithTags implements Entity.
func (l *Line) WithTags(tags Tags) Entity {
	return &Line{ID: l.ID, Points: l.Points, Tags: tags.Clone()}
}

// WithPoints returns a copy of l referencing points.
func (l *Line) WithPoints(points []ID) *Line {
	return &Line{ID: l.ID, Points: cloneIDs(points), Tags: l.Tags}
}

// First returns the first point reference, or "" for an empty line.
func (l *Line) First() ID {
	if len(l.Points) == 0 {
		return ""
	}
	return l.Points[0]
}

// Last returns the last point reference, or "" for an empty line.
func (l *Line) Last() ID {
	if len(l.Points) == 0 {
		return ""
	}
	return l.Points[len(l.Points)-1]
}

// IsClosed reports whether the line is a ring.
func (l *Line) IsClosed() bool {
	return len(l.Points) > 1 && l.First() == l.Last()
}

// IsDegenerate reports whether the line references fewer than two
// distinct points.
func (l *Line) IsDegenerate() bool {
	return len(uniqIDs(l.Points)) < 2
}

// IsArea reports whether the line describes an area rather than a path.
// area=yes always wins; otherwise the line must be closed, not tagged
// area=no, and carry a key from AreaKeys with a qualifying value.
func (l *Line) IsArea() bool {
	if l.Tags["area"] == "yes" {
		return true
	}
	if !l.IsClosed() || l.Tags["area"] == "no" {
		return false
	}
	for k, v := range l.Tags {
		if except, ok := AreaKeys[k]; ok && !except[v] {
			return true
		}
	}
	return false
}

// Contains reports whether id appears in the line.
func (l *Line) Contains(id ID) bool {
	return slices.Contains(l.Points, id)
}

// UniquePoints returns the distinct point references in order, dropping the
// closing reference of a ring.
func (l *Line) UniquePoints() []ID {
	return uniqIDs(l.Points)
}

// AreAdjacent reports whether a and b appear next to each other.
func (l *Line) AreAdjacent(a, b ID) bool {
	for i := 0; i+1 < len(l.Points); i++ {
		if EdgeEqual([2]ID{l.Points[i], l.Points[i+1]}, [2]ID{a, b}) {
			return true
		}
	}
	return false
}

// EdgeEqual reports whether two edges join the same points in either direction.
func EdgeEqual(a, b [2]ID) bool {
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}

// AddPoint inserts id before index. Valid indexes are 0..len, or 0..len-1 for
// a closed line, where inserting at len-1 puts the point just before the
// closing reference.
func (l *Line) AddPoint(id ID, index int) (*Line, error) {
	closed := l.IsClosed()
	upper := len(l.Points)
	if closed {
		upper--
	}
	if index < 0 || index > upper {
		return nil, errs.New(errs.ErrCodeInvalidInput, "line %s: index %d out of range 0..%d", l.ID, index, upper)
	}
	points := cloneIDs(l.Points)
	if closed {
		points, index = stripConnectors(points, index)
	}
	points = slices.Insert(points, index, id)
	return l.WithPoints(reclose(dedupeConsecutive(points), closed)), nil
}

// AppendPoint adds id after the last reference. On a closed line the point
// is inserted before the closing reference.
func (l *Line) AppendPoint(id ID) *Line {
	index := len(l.Points)
	if l.IsClosed() {
		index--
	}
	out, _ := l.AddPoint(id, index)
	return out
}

// UpdatePoint replaces the reference at index with id.
func (l *Line) UpdatePoint(id ID, index int) (*Line, error) {
	upper := len(l.Points) - 1
	if index < 0 || index > upper {
		return nil, errs.New(errs.ErrCodeInvalidInput, "line %s: index %d out of range 0..%d", l.ID, index, upper)
	}
	closed := l.IsClosed()
	points := cloneIDs(l.Points)
	if closed {
		points, index = stripConnectors(points, index)
	}
	if index == len(points) {
		// The closing reference was stripped; the new point lands just
		// before the ring is closed again.
		points = append(points, id)
	} else {
		points[index] = id
	}
	return l.WithPoints(reclose(dedupeConsecutive(points), closed)), nil
}

// ReplacePoint substitutes every reference to old with replacement.
func (l *Line) ReplacePoint(old, replacement ID) *Line {
	closed := l.IsClosed()
	points := cloneIDs(l.Points)
	for i, id := range points {
		if id == old {
			points[i] = replacement
		}
	}
	return l.WithPoints(reclose(dedupeConsecutive(points), closed))
}

// RemovePoint drops every reference to id.
func (l *Line) RemovePoint(id ID) *Line {
	closed := l.IsClosed()
	points := make([]ID, 0, len(l.Points))
	for _, p := range l.Points {
		if p != id {
			points = append(points, p)
		}
	}
	return l.WithPoints(reclose(dedupeConsecutive(points), closed))
}

// Unclose drops the trailing closing references of a ring.
func (l *Line) Unclose() *Line {
	if !l.IsClosed() {
		return l
	}
	points := cloneIDs(l.Points)
	connector := points[0]
	for len(points) > 1 && points[len(points)-1] == connector {
		points = points[:len(points)-1]
	}
	return l.WithPoints(dedupeConsecutive(points))
}

// stripConnectors removes every repeat of a ring's connector except the
// leading one and shifts index to match.
func stripConnectors(points []ID, index int) ([]ID, int) {
	connector := points[0]
	for i := 1; i < len(points) && len(points) > 2 && points[i] == connector; {
		points = slices.Delete(points, i, i+1)
		if index > i {
			index--
		}
	}
	for i := len(points) - 1; i > 0 && len(points) > 1 && points[i] == connector; i = len(points) - 1 {
		points = slices.Delete(points, i, i+1)
		if index > i {
			index--
		}
	}
	return points, index
}

func reclose(points []ID, closed bool) []ID {
	if closed && len(points) > 0 && (len(points) == 1 || points[0] != points[len(points)-1]) {
		points = append(points, points[0])
	}
	return points
}
