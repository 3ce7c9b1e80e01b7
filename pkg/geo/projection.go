package geo

import "math"

// DefaultScale is the mercator scale of a 256px world at zoom 0,
// expressed in pixels per radian.
const DefaultScale = 256 / (2 * math.Pi)

// Projection converts between geographic locations and the projected plane.
// Implementations must be pure: Invert(Project(l)) ≈ l.
type Projection interface {
	Project(Loc) Vec
	Invert(Vec) Loc
}

// Identity treats longitude as x and latitude as y.
type Identity struct{}

// Project implements Projection.
func (Identity) Project(l Loc) Vec { return Vec{X: l.Lon, Y: l.Lat} }

// Invert implements Projection.
func (Identity) Invert(v Vec) Loc { return Loc{Lon: v.X, Lat: v.Y} }

// Mercator is a spherical mercator projection with a y axis pointing down,
// the way map screens are laid out.
type Mercator struct {
	Scale     float64 // pixels per radian; DefaultScale when zero
	Translate Vec     // pixel offset of (0°, 0°)
}

// NewMercator returns a mercator projection at the given zoom level,
// centered on the origin.
func NewMercator(zoom float64) Mercator {
	return Mercator{Scale: DefaultScale * math.Pow(2, zoom)}
}

func (m Mercator) scale() float64 {
	if m.Scale == 0 {
		return DefaultScale
	}
	return m.Scale
}

// Project implements Projection.
func (m Mercator) Project(l Loc) Vec {
	k := m.scale()
	lambda := l.Lon * math.Pi / 180
	phi := l.Lat * math.Pi / 180
	x := lambda
	y := math.Log(math.Tan((math.Pi/2 + phi) / 2))
	return Vec{X: x*k + m.Translate.X, Y: m.Translate.Y - y*k}
}

// Invert implements Projection.
func (m Mercator) Invert(v Vec) Loc {
	k := m.scale()
	x := (v.X - m.Translate.X) / k
	y := (m.Translate.Y - v.Y) / k
	return Loc{
		Lon: x * 180 / math.Pi,
		Lat: (2*math.Atan(math.Exp(y)) - math.Pi/2) * 180 / math.Pi,
	}
}

// FitMercator returns a mercator projection that maps the bounding box of
// locs into a size×size square with its top-left corner at the origin.
func FitMercator(locs []Loc, size float64) Mercator {
	if len(locs) == 0 {
		return Mercator{}
	}
	unit := Mercator{Scale: 1}
	lo, hi := unit.Project(locs[0]), unit.Project(locs[0])
	for _, l := range locs[1:] {
		v := unit.Project(l)
		lo = Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y)}
		hi = Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y)}
	}
	k := 1.0
	if extent := math.Max(hi.X-lo.X, hi.Y-lo.Y); extent > 0 {
		k = size / extent
	}
	return Mercator{Scale: k, Translate: Vec{X: -lo.X * k, Y: -lo.Y * k}}
}

var (
	_ Projection = Identity{}
	_ Projection = Mercator{}
)
