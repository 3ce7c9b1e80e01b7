package geo

import (
	"cmp"
	"slices"
)

// PolygonArea returns the signed area of the (implicitly closed) polygon.
// The sign follows d3: positive when the vertices wind counter-clockwise in a
// coordinate system whose y axis points down.
func PolygonArea(points []Vec) float64 {
	n := len(points)
	if n == 0 {
		return 0
	}
	var area float64
	b := points[n-1]
	for i := 0; i < n; i++ {
		a := b
		b = points[i]
		area += a.Y*b.X - a.X*b.Y
	}
	return area / 2
}

// PolygonCentroid returns the area centroid of the polygon.
// A polygon with zero area (collinear or fewer than three points) falls back
// to the mean of its vertices instead of returning NaN.
func PolygonCentroid(points []Vec) Vec {
	n := len(points)
	if n == 0 {
		return Vec{}
	}
	var x, y, k float64
	b := points[n-1]
	for i := 0; i < n; i++ {
		a := b
		b = points[i]
		c := a.X*b.Y - b.X*a.Y
		k += c
		x += (a.X + b.X) * c
		y += (a.Y + b.Y) * c
	}
	if k == 0 {
		return mean(points)
	}
	k *= 3
	return Vec{X: x / k, Y: y / k}
}

func mean(points []Vec) Vec {
	var sum Vec
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(points)))
}

// PolygonHull returns the indexes of points that form the convex hull, in
// the same winding as a positive [PolygonArea]. Collinear boundary points are
// excluded. Returns nil for fewer than three points.
func PolygonHull(points []Vec) []int {
	n := len(points)
	if n < 3 {
		return nil
	}

	type indexed struct {
		p   Vec
		idx int
	}
	sorted := make([]indexed, n)
	for i, p := range points {
		sorted[i] = indexed{p: p, idx: i}
	}
	slices.SortStableFunc(sorted, func(a, b indexed) int {
		if c := cmp.Compare(a.p.X, b.p.X); c != 0 {
			return c
		}
		return cmp.Compare(a.p.Y, b.p.Y)
	})

	sortedPts := make([]Vec, n)
	flipped := make([]Vec, n)
	for i, s := range sorted {
		sortedPts[i] = s.p
		flipped[i] = Vec{X: s.p.X, Y: -s.p.Y}
	}

	upper := upperHullIndexes(sortedPts)
	lower := upperHullIndexes(flipped)

	skipLeft := 0
	if lower[0] == upper[0] {
		skipLeft = 1
	}
	skipRight := 0
	if lower[len(lower)-1] == upper[len(upper)-1] {
		skipRight = 1
	}

	hull := make([]int, 0, len(upper)+len(lower))
	for i := len(upper) - 1; i >= 0; i-- {
		hull = append(hull, sorted[upper[i]].idx)
	}
	for i := skipLeft; i < len(lower)-skipRight; i++ {
		hull = append(hull, sorted[lower[i]].idx)
	}
	return hull
}

// upperHullIndexes walks lexicographically sorted points and keeps the ones
// that make strict turns, returning their positions in points.
func upperHullIndexes(points []Vec) []int {
	indexes := []int{0, 1}
	for i := 2; i < len(points); i++ {
		for len(indexes) > 1 && turn(points[indexes[len(indexes)-2]], points[indexes[len(indexes)-1]], points[i]) <= 0 {
			indexes = indexes[:len(indexes)-1]
		}
		indexes = append(indexes, i)
	}
	return indexes
}

func turn(a, b, c Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// IsConvex reports whether the closed ring through points never changes
// turning direction. Collinear runs are ignored.
func IsConvex(points []Vec) bool {
	n := len(points)
	prev := 0
	for i := 0; i < n; i++ {
		o := points[(i+1)%n]
		a := points[i]
		b := points[(i+2)%n]
		res := Cross(a, b, o)
		curr := 0
		switch {
		case res > 0:
			curr = 1
		case res < 0:
			curr = -1
		}
		if curr == 0 {
			continue
		}
		if prev != 0 && curr != prev {
			return false
		}
		prev = curr
	}
	return true
}
