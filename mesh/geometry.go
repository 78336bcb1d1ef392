package mesh

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownGeometry reports a geometric point or line identifier that was
// never defined.
var ErrUnknownGeometry = errors.New("mesh: unknown geometric entity")

// Point is a geometric reference point. Boundary conditions and loads may
// target it instead of naming a mesh node; the consolidation step resolves
// it to the nearest node.
type Point struct {
	ID   int
	X, Y float64
}

// Line is a geometric segment between two points, used to target all mesh
// nodes lying on it.
type Line struct {
	ID     int
	P1, P2 int
}

// Geometry owns the reference points and lines of a model.
type Geometry struct {
	points []Point
	lines  []Line

	pointIndex map[int]int
	lineIndex  map[int]int

	nextPointID int
	nextLineID  int
}

// NewGeometry returns an empty geometry container.
func NewGeometry() *Geometry {
	return &Geometry{
		pointIndex:  make(map[int]int),
		lineIndex:   make(map[int]int),
		nextPointID: 1,
		nextLineID:  1,
	}
}

// AddPoint defines a geometric point. A non-positive id auto-increments.
func (g *Geometry) AddPoint(id int, x, y float64) (int, error) {
	if id <= 0 {
		id = g.nextPointID
	}
	if _, ok := g.pointIndex[id]; ok {
		return 0, fmt.Errorf("%w: point %d", ErrDuplicateID, id)
	}
	g.pointIndex[id] = len(g.points)
	g.points = append(g.points, Point{ID: id, X: x, Y: y})
	if id >= g.nextPointID {
		g.nextPointID = id + 1
	}
	return id, nil
}

// AddLine defines a segment between two existing points.
func (g *Geometry) AddLine(id, p1, p2 int) (int, error) {
	if id <= 0 {
		id = g.nextLineID
	}
	if _, ok := g.lineIndex[id]; ok {
		return 0, fmt.Errorf("%w: line %d", ErrDuplicateID, id)
	}
	for _, p := range []int{p1, p2} {
		if _, ok := g.pointIndex[p]; !ok {
			return 0, fmt.Errorf("line %d: %w: point %d", id, ErrUnknownGeometry, p)
		}
	}
	g.lineIndex[id] = len(g.lines)
	g.lines = append(g.lines, Line{ID: id, P1: p1, P2: p2})
	if id >= g.nextLineID {
		g.nextLineID = id + 1
	}
	return id, nil
}

// PointByID returns a geometric point.
func (g *Geometry) PointByID(id int) (Point, error) {
	i, ok := g.pointIndex[id]
	if !ok {
		return Point{}, fmt.Errorf("%w: point %d", ErrUnknownGeometry, id)
	}
	return g.points[i], nil
}

// LineByID returns a geometric line.
func (g *Geometry) LineByID(id int) (Line, error) {
	i, ok := g.lineIndex[id]
	if !ok {
		return Line{}, fmt.Errorf("%w: line %d", ErrUnknownGeometry, id)
	}
	return g.lines[i], nil
}

// LineEndpoints resolves a line to its two point coordinates.
func (g *Geometry) LineEndpoints(id int) (p1, p2 Point, err error) {
	ln, err := g.LineByID(id)
	if err != nil {
		return Point{}, Point{}, err
	}
	if p1, err = g.PointByID(ln.P1); err != nil {
		return Point{}, Point{}, err
	}
	if p2, err = g.PointByID(ln.P2); err != nil {
		return Point{}, Point{}, err
	}
	return p1, p2, nil
}

// NearestNode finds the mesh node closest to (x, y) by squared Euclidean
// distance. Ties keep the first node encountered.
func NearestNode(m *Mesh, x, y float64) (Node, error) {
	nodes := m.Nodes()
	if len(nodes) == 0 {
		return Node{}, ErrEmptyMesh
	}
	best := 0
	bestDist := math.Inf(1)
	for i, n := range nodes {
		dx, dy := n.X-x, n.Y-y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return nodes[best], nil
}

// OnSegmentTol is the distance tolerance for deciding that a node lies on a
// geometric line segment.
const OnSegmentTol = 1e-9

// NodesOnSegment returns the identifiers of all mesh nodes whose
// perpendicular distance to the segment p1-p2 is within tolerance and whose
// projection parameter lies in [0,1] inclusive. The endpoints themselves
// count.
func NodesOnSegment(m *Mesh, p1, p2 Point) []int {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	len2 := dx*dx + dy*dy
	var ids []int
	for _, n := range m.Nodes() {
		if len2 == 0 {
			// degenerate segment: membership is coincidence with the point
			if math.Hypot(n.X-p1.X, n.Y-p1.Y) <= OnSegmentTol {
				ids = append(ids, n.ID)
			}
			continue
		}
		t := ((n.X-p1.X)*dx + (n.Y-p1.Y)*dy) / len2
		if t < -OnSegmentTol || t > 1+OnSegmentTol {
			continue
		}
		// perpendicular distance from the node to the infinite line
		px, py := p1.X+t*dx, p1.Y+t*dy
		if math.Hypot(n.X-px, n.Y-py) <= OnSegmentTol {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
