// Package geo provides the geometry helpers consumed by the edit actions.
//
// # Overview
//
// The edit core stores point locations as geographic coordinates ([Loc]) and
// does its shape math in a projected plane ([Vec], a 2D vector from
// github.com/deadsy/sdfx/vec/v2). A [Projection] converts between the two.
// Two projections are provided: [Identity], which treats longitude/latitude
// as planar x/y, and [Mercator], a spherical web-mercator matching what map
// editors display.
//
// # Polygon Helpers
//
// [PolygonArea], [PolygonCentroid] and [PolygonHull] follow the d3-polygon
// conventions, including the sign of the area: a ring that winds
// counter-clockwise on screen (y pointing down) has a positive area, and
// hulls are returned in that same winding. [Median] follows d3-array.
//
// # Concurrency
//
// Every function in this package is pure. [Mercator] and [Identity] values
// are immutable and safe to share between goroutines.
package geo
