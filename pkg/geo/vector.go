package geo

import (
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Loc is a geographic location in degrees.
type Loc struct {
	Lon float64
	Lat float64
}

// Vec is a point or displacement in the projected plane.
type Vec = v2.Vec

// Interp linearly interpolates from a to b by t.
func Interp(a, b Vec, t float64) Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// InterpLoc linearly interpolates between two locations by t.
// t=0 yields a, t=1 yields b.
func InterpLoc(a, b Loc, t float64) Loc {
	return Loc{
		Lon: a.Lon + (b.Lon-a.Lon)*t,
		Lat: a.Lat + (b.Lat-a.Lat)*t,
	}
}

// Length returns the euclidean distance between a and b.
func Length(a, b Vec) float64 {
	return b.Sub(a).Length()
}

// LengthSquare returns the squared euclidean distance between a and b.
func LengthSquare(a, b Vec) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// Cross returns the z component of (a-o) × (b-o).
// Positive when o→a→b turns one way, negative the other, zero when collinear.
func Cross(a, b, o Vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Angle returns the angle of p around center, in radians.
func Angle(center, p Vec) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// OnCircle returns the point at angle around center at the given radius.
func OnCircle(center Vec, radius, angle float64) Vec {
	return Vec{X: center.X + math.Cos(angle)*radius, Y: center.Y + math.Sin(angle)*radius}
}

// Median returns the median of values, interpolating between the two middle
// values for even counts. Returns NaN for an empty slice. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	i := float64(len(sorted)-1) * 0.5
	i0 := int(math.Floor(i))
	v0 := sorted[i0]
	if i0+1 >= len(sorted) {
		return v0
	}
	return v0 + (sorted[i0+1]-v0)*(i-float64(i0))
}
