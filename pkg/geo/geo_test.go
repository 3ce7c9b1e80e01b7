package geo

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func square() []Vec {
	return []Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
}

func TestPolygonArea(t *testing.T) {
	pts := square()
	if got := PolygonArea(pts); !near(math.Abs(got), 1) {
		t.Errorf("|PolygonArea()| = %v, want 1", math.Abs(got))
	}

	reversed := []Vec{pts[3], pts[2], pts[1], pts[0]}
	if PolygonArea(pts)*PolygonArea(reversed) >= 0 {
		t.Error("reversing the ring should flip the area sign")
	}
	if got := PolygonArea(nil); got != 0 {
		t.Errorf("PolygonArea(nil) = %v, want 0", got)
	}
}

func TestPolygonCentroid(t *testing.T) {
	c := PolygonCentroid(square())
	if !near(c.X, 0.5) || !near(c.Y, 0.5) {
		t.Errorf("PolygonCentroid() = %v, want (0.5, 0.5)", c)
	}

	// Collinear input has zero area and falls back to the vertex mean.
	line := []Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}}
	c = PolygonCentroid(line)
	if !near(c.X, 2) || !near(c.Y, 0) {
		t.Errorf("PolygonCentroid(collinear) = %v, want (2, 0)", c)
	}
}

func TestPolygonHull(t *testing.T) {
	pts := []Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0.5}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	hull := PolygonHull(pts)
	if len(hull) != 4 {
		t.Fatalf("len(PolygonHull()) = %d, want 4 (%v)", len(hull), hull)
	}
	for _, idx := range hull {
		if idx == 2 {
			t.Error("interior point 2 should not be on the hull")
		}
	}

	hullPts := make([]Vec, len(hull))
	for i, idx := range hull {
		hullPts[i] = pts[idx]
	}
	if PolygonArea(hullPts) <= 0 {
		t.Errorf("hull area = %v, want positive winding", PolygonArea(hullPts))
	}

	if PolygonHull(pts[:2]) != nil {
		t.Error("PolygonHull() of two points should be nil")
	}
}

func TestIsConvex(t *testing.T) {
	if !IsConvex(square()) {
		t.Error("square should be convex")
	}
	dart := []Vec{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 0}, {X: 2, Y: 4}}
	if IsConvex(dart) {
		t.Error("dart should not be convex")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); !near(got, tt.want) {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
	if !math.IsNaN(Median(nil)) {
		t.Error("Median(nil) should be NaN")
	}
}

func TestInterp(t *testing.T) {
	a, b := Vec{X: 0, Y: 0}, Vec{X: 10, Y: -4}
	mid := Interp(a, b, 0.5)
	if !near(mid.X, 5) || !near(mid.Y, -2) {
		t.Errorf("Interp() = %v, want (5, -2)", mid)
	}
	l := InterpLoc(Loc{Lon: 1, Lat: 1}, Loc{Lon: 3, Lat: 5}, 0.25)
	if !near(l.Lon, 1.5) || !near(l.Lat, 2) {
		t.Errorf("InterpLoc() = %v, want (1.5, 2)", l)
	}
	if !near(LengthSquare(a, b), 116) {
		t.Errorf("LengthSquare() = %v, want 116", LengthSquare(a, b))
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	m := NewMercator(16)
	for _, l := range []Loc{{Lon: 0, Lat: 0}, {Lon: -77.03, Lat: 38.89}, {Lon: 151.2, Lat: -33.86}} {
		got := m.Invert(m.Project(l))
		if math.Abs(got.Lon-l.Lon) > 1e-9 || math.Abs(got.Lat-l.Lat) > 1e-9 {
			t.Errorf("Invert(Project(%v)) = %v", l, got)
		}
	}

	// North is up on screen.
	if m.Project(Loc{Lat: 10}).Y >= m.Project(Loc{Lat: 0}).Y {
		t.Error("higher latitude should project to a smaller y")
	}
}

func TestFitMercator(t *testing.T) {
	locs := []Loc{{Lon: 13.40, Lat: 52.50}, {Lon: 13.42, Lat: 52.51}, {Lon: 13.41, Lat: 52.52}}
	m := FitMercator(locs, 10)
	var maxX, maxY float64
	for _, l := range locs {
		v := m.Project(l)
		if v.X < -1e-9 || v.Y < -1e-9 {
			t.Errorf("Project(%v) = %v, want inside the square", l, v)
		}
		maxX, maxY = math.Max(maxX, v.X), math.Max(maxY, v.Y)
	}
	if math.Abs(math.Max(maxX, maxY)-10) > 1e-9 {
		t.Errorf("largest extent = %v, want 10", math.Max(maxX, maxY))
	}
	if got := FitMercator(nil, 10); got.Scale != 0 {
		t.Errorf("FitMercator(nil).Scale = %v, want 0", got.Scale)
	}
}
