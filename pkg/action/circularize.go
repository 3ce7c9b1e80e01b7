package action

import (
	"math"
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// DefaultMaxAngle is the largest angle, in degrees, between consecutive
// points of a circularized ring unless configured otherwise.
const DefaultMaxAngle = 20

// MinMaxAngle is the smallest accepted MaxAngle. Smaller steps are raised
// to it, bounding a full ring at 360 points.
const MinMaxAngle = 1

// CircularizeOptions tunes a Circularize.
type CircularizeOptions struct {
	// MaxAngle is the largest central angle in degrees between consecutive
	// points. Values <= 0 mean DefaultMaxAngle; positive values below
	// MinMaxAngle are raised to it.
	MaxAngle float64
	// Minter names points inserted to satisfy MaxAngle. A sequence minter is
	// used when nil.
	Minter entity.Minter
}

// Circularize reshapes a closed line into a circle.
//
// Points shared with other lines are anchors: they are projected radially
// onto the circle and the points between consecutive anchors are spread
// evenly along the arc. Points are inserted where an arc would otherwise
// span more than MaxAngle. When two adjacent anchors are also adjacent in
// another line, the inserted points are added to that line too so the shared
// edge stays shared.
//
// Geometry is computed in the plane of Projection (geo.Identity when nil).
type Circularize struct {
	Line       entity.ID
	Projection geo.Projection
	Options    CircularizeOptions
}

// NewCircularize returns a Circularize of line under proj.
func NewCircularize(line entity.ID, proj geo.Projection, opts CircularizeOptions) Circularize {
	return Circularize{Line: line, Projection: proj, Options: opts}
}

func (c Circularize) maxAngle() float64 {
	a := c.Options.MaxAngle
	switch {
	case a <= 0:
		a = DefaultMaxAngle
	case a < MinMaxAngle:
		a = MinMaxAngle
	}
	return a * math.Pi / 180
}

// Apply implements Action. It is ApplyAt with t=1.
func (c Circularize) Apply(g *graph.Graph) (*graph.Graph, error) {
	return c.ApplyAt(g, 1)
}

// ApplyAt implements Transitionable. Every moved or inserted point ends up
// at lerp(original, circle, t). At t=0 g is returned as is once the line
// and its points resolve.
func (c Circularize) ApplyAt(g *graph.Graph, t float64) (*graph.Graph, error) {
	t = clampT(t)
	proj := projectionOr(c.Projection)
	maxAngle := c.maxAngle()
	minter := minterFor(c.Options.Minter, g)

	way, err := g.Line(c.Line)
	if err != nil {
		return nil, err
	}
	children, err := g.ChildPoints(way)
	if err != nil {
		return nil, err
	}
	orig := make(map[entity.ID]*entity.Point, len(children))
	for _, p := range children {
		if _, ok := orig[p.ID]; !ok {
			orig[p.ID] = p
		}
	}
	if len(orig) < 2 {
		return nil, errs.New(errs.ErrCodeDegenerate, "line %s has fewer than two distinct points", way.ID)
	}
	if t == 0 {
		return g, nil
	}

	if !c.isConvex(way, children, proj) {
		if g, err = c.MakeConvex(g); err != nil {
			return nil, err
		}
	}

	children, err = g.ChildPoints(way)
	if err != nil {
		return nil, err
	}
	uniq := uniquePoints(children)
	if len(uniq) < 2 {
		return nil, errs.New(errs.ErrCodeDegenerate, "line %s has fewer than two distinct points", way.ID)
	}
	nodes := make([]entity.ID, len(uniq))
	for i, p := range uniq {
		nodes[i] = p.ID
	}
	points := project(proj, uniq)

	var keyNodes []entity.ID
	var keyPoints []geo.Vec
	for i, p := range uniq {
		if len(g.ParentLines(p.ID)) != 1 {
			keyNodes = append(keyNodes, p.ID)
			keyPoints = append(keyPoints, points[i])
		}
	}

	var centroid geo.Vec
	if len(points) == 2 {
		centroid = geo.Interp(points[0], points[1], 0.5)
	} else {
		centroid = geo.PolygonCentroid(points)
	}
	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = geo.Length(centroid, p)
	}
	radius := geo.Median(dists)
	sign := -1.0
	if geo.PolygonArea(points) > 0 {
		sign = 1
	}

	// At least two anchors are needed: fall back to the first point and the
	// one opposite it.
	if len(keyNodes) == 0 {
		keyNodes = []entity.ID{nodes[0]}
		keyPoints = []geo.Vec{points[0]}
	}
	if len(keyNodes) == 1 {
		index := slices.Index(nodes, keyNodes[0])
		n := float64(len(nodes))
		opposite := int(math.Floor(math.Mod(float64(index)+n/2, n)))
		keyNodes = append(keyNodes, nodes[opposite])
		keyPoints = append(keyPoints, points[opposite])
	}

	for i := range keyPoints {
		next := (i + 1) % len(keyNodes)
		startNode, endNode := keyNodes[i], keyNodes[next]
		startIndex := slices.Index(nodes, startNode)
		endIndex := slices.Index(nodes, endNode)
		indexRange := endIndex - startIndex
		if indexRange < 0 {
			indexRange += len(nodes)
		}

		// Anchor onto the circle.
		distance := geo.Length(centroid, keyPoints[i])
		if distance == 0 {
			distance = 1e-4
		}
		keyPoints[i] = centroid.Add(keyPoints[i].Sub(centroid).MulScalar(radius / distance))
		pre := orig[startNode]
		if g, err = movePoint(g, startNode, pre, proj.Invert(keyPoints[i]), t); err != nil {
			return nil, err
		}

		startAngle := geo.Angle(centroid, keyPoints[i])
		endAngle := geo.Angle(centroid, keyPoints[next])
		totalAngle := endAngle - startAngle
		// Crossing -pi/pi: walk the long way round in the ring's direction.
		if totalAngle*sign > 0 {
			totalAngle = -sign * (2*math.Pi - math.Abs(totalAngle))
		}

		numberNewPoints := -1
		var eachAngle float64
		for {
			numberNewPoints++
			eachAngle = totalAngle / float64(indexRange+numberNewPoints)
			if !(math.Abs(eachAngle) > maxAngle) {
				break
			}
		}

		type near struct {
			id    entity.ID
			angle float64
		}
		var nearNodes []near
		for j := 1; j < indexRange; j++ {
			angle := startAngle + float64(j)*eachAngle
			loc := proj.Invert(geo.OnCircle(centroid, radius, angle))
			id := nodes[(j+startIndex)%len(nodes)]
			nearNodes = append(nearNodes, near{id: id, angle: angle})
			if g, err = movePoint(g, id, orig[id], loc, t); err != nil {
				return nil, err
			}
		}

		var inBetween []entity.ID
		for j := 0; j < numberNewPoints; j++ {
			angle := startAngle + float64(indexRange+j)*eachAngle
			loc := proj.Invert(geo.OnCircle(centroid, radius, angle))

			best := math.Inf(1)
			for _, nn := range nearNodes {
				if d := math.Abs(nn.angle - angle); d < best {
					best = d
					pre = orig[nn.id]
				}
			}

			from := loc
			if pre != nil {
				from = pre.Loc
			}
			p := entity.NewPoint(minter.Next(entity.KindPoint), geo.InterpLoc(from, loc, t), nil)
			g = g.Replace(p)
			nodes = slices.Insert(nodes, endIndex+j, p.ID)
			inBetween = append(inBetween, p.ID)
		}

		if indexRange == 1 && len(inBetween) > 0 {
			if g, err = shareInserted(g, way, startNode, endNode, inBetween); err != nil {
				return nil, err
			}
		}
	}

	ids := append(slices.Clone(nodes), nodes[0])
	return g.Replace(way.WithPoints(ids)), nil
}

// shareInserted adds points inserted between two adjacent anchors of way to
// every other line in which the anchors are adjacent too, honoring that
// line's direction.
func shareInserted(g *graph.Graph, way *entity.Line, start, end entity.ID, inserted []entity.ID) (*graph.Graph, error) {
	dir1 := direction(way.Points, start, end)
	for _, shared := range g.ParentLines(start) {
		if shared.ID == way.ID || !shared.AreAdjacent(start, end) {
			continue
		}
		insertAt := lastIndex(shared.Points, end)
		ids := inserted
		if direction(shared.Points, start, end) != dir1 {
			ids = slices.Clone(inserted)
			slices.Reverse(ids)
			insertAt = lastIndex(shared.Points, start)
		}
		var err error
		for k, id := range ids {
			if shared, err = shared.AddPoint(id, insertAt+k); err != nil {
				return nil, err
			}
		}
		g = g.Replace(shared)
	}
	return g, nil
}

// direction is 1 when end follows start, -1 when it precedes it. The ring
// closing edge counts as following.
func direction(points []entity.ID, start, end entity.ID) int {
	d := lastIndex(points, end) - lastIndex(points, start)
	if d < -1 {
		d = 1
	}
	return d
}

func lastIndex(points []entity.ID, id entity.ID) int {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i] == id {
			return i
		}
	}
	return -1
}

func movePoint(g *graph.Graph, id entity.ID, orig *entity.Point, target geo.Loc, t float64) (*graph.Graph, error) {
	cur, err := g.Point(id)
	if err != nil {
		return nil, err
	}
	from := cur.Loc
	if orig != nil {
		from = orig.Loc
	}
	return g.Replace(cur.Move(geo.InterpLoc(from, target, t))), nil
}

func (c Circularize) isConvex(way *entity.Line, children []*entity.Point, proj geo.Projection) bool {
	if !way.IsClosed() || way.IsDegenerate() {
		return false
	}
	return geo.IsConvex(project(proj, uniquePoints(children)))
}

// MakeConvex moves every point that is not on the convex hull of the ring
// onto the hull edge between its neighbouring hull points, spaced by index.
// It is the first step of Circularize for concave rings.
func (c Circularize) MakeConvex(g *graph.Graph) (*graph.Graph, error) {
	proj := projectionOr(c.Projection)
	way, err := g.Line(c.Line)
	if err != nil {
		return nil, err
	}
	children, err := g.ChildPoints(way)
	if err != nil {
		return nil, err
	}
	nodes := uniquePoints(children)
	points := project(proj, nodes)
	hull := geo.PolygonHull(points)
	n := len(nodes)
	if len(hull) == 0 {
		return g, nil
	}

	// Hull indexes wind with positive area; bring the ring into the same order.
	if geo.PolygonArea(points) <= 0 {
		slices.Reverse(nodes)
		slices.Reverse(points)
		for i := range hull {
			hull[i] = n - 1 - hull[i]
		}
	}

	for i := range hull {
		startIndex, endIndex := hull[i], hull[(i+1)%len(hull)]
		indexRange := endIndex - startIndex
		if indexRange < 0 {
			indexRange += n
		}
		for j := 1; j < indexRange; j++ {
			p := geo.Interp(points[startIndex], points[endIndex], float64(j)/float64(indexRange))
			node := nodes[(j+startIndex)%n]
			g = g.Replace(node.Move(proj.Invert(p)))
		}
	}
	return g, nil
}

// Disabled implements Disabler. It reports not_closed for open lines and
// already_circular when every point is on the convex hull, within 5% of the
// same squared distance from the centroid, and no central angle between
// neighbours exceeds MaxAngle by more than a degree.
func (c Circularize) Disabled(g *graph.Graph) Reason {
	proj := projectionOr(c.Projection)
	way, err := g.Line(c.Line)
	if err != nil {
		return ReasonNotFound
	}
	if !way.IsClosed() {
		return ReasonNotClosed
	}
	children, err := g.ChildPoints(way)
	if err != nil {
		return ReasonNotFound
	}
	points := project(proj, uniquePoints(children))
	hull := geo.PolygonHull(points)
	if len(hull) != len(points) || len(hull) < 3 {
		return Enabled
	}

	centroid := geo.PolygonCentroid(points)
	radius := geo.LengthSquare(centroid, points[0])
	for _, idx := range hull {
		if math.Abs(geo.LengthSquare(points[idx], centroid)-radius) > 0.05*radius {
			return Enabled
		}
	}

	limit := c.maxAngle() + math.Pi/180
	for i, idx := range hull {
		a := geo.Angle(centroid, points[idx])
		b := geo.Angle(centroid, points[hull[(i+1)%len(hull)]])
		angle := math.Abs(b - a)
		if angle > math.Pi {
			angle = 2*math.Pi - angle
		}
		if angle > limit {
			return Enabled
		}
	}
	return ReasonAlreadyCircular
}

var (
	_ Transitionable = Circularize{}
	_ Disabler       = Circularize{}
	_ Disabler       = Disconnect{}
)
