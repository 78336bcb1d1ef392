package bc

import (
	"testing"

	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMtl = elastic.Material{E: 210000, Nu: 0.3, Thickness: 1, State: elastic.PlaneStress}

func TestConditionMerge(t *testing.T) {
	cases := []struct {
		name string
		a, b Condition
		want Condition
	}{
		{"zero beats free", Fixed(), Free(), Fixed()},
		{"zero beats prescribed", Prescribed(0.5), Fixed(), Fixed()},
		{"first non-free wins", Prescribed(0.1), Prescribed(0.8), Prescribed(0.1)},
		{"free yields", Free(), Prescribed(0.8), Prescribed(0.8)},
		{"both free", Free(), Free(), Free()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Merge(tc.a, tc.b))
		})
	}
}

func TestPrescribedZeroCollapsesToFixed(t *testing.T) {
	assert.True(t, Prescribed(0).IsFixed())
	assert.False(t, Prescribed(0.01).IsFixed())
	assert.Equal(t, 0.01, Prescribed(0.01).Value())
	assert.Equal(t, 0.0, Fixed().Value())
}

// unitSquare builds a single 4-node element on the unit square with a
// geometry mirroring its corners and edges.
func unitSquare(t *testing.T) (*mesh.Mesh, *mesh.Geometry) {
	t.Helper()
	m := mesh.New()
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		_, err := m.AddNode(0, c[0], c[1])
		require.NoError(t, err)
	}
	_, err := m.AddElement(0, []int{1, 2, 3, 4}, 4, testMtl)
	require.NoError(t, err)
	m.Freeze()

	g := mesh.NewGeometry()
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		_, err := g.AddPoint(0, c[0], c[1])
		require.NoError(t, err)
	}
	_, err = g.AddLine(1, 1, 4) // left edge
	require.NoError(t, err)
	_, err = g.AddLine(2, 2, 3) // right edge
	require.NoError(t, err)
	return m, g
}

// A node given Fixed from one source and Free from another resolves to zero.
func TestDuplicateConstraintZeroWins(t *testing.T) {
	m, g := unitSquare(t)
	b := NewBoundaries()
	b.ConstrainNode(1, Fixed(), Free())
	b.ConstrainNode(1, Free(), Free())

	nodal, err := Consolidate(m, g, b, NewLoads(), nil)
	require.NoError(t, err)
	c := nodal.Constraint(1)
	assert.True(t, c.X.IsFixed())
	assert.True(t, c.Y.IsFree())
}

// Loads on the same node sum component-wise: (5,0) + (-2,3) = (3,3).
func TestDuplicateLoadsSum(t *testing.T) {
	m, g := unitSquare(t)
	l := NewLoads()
	l.LoadNode(3, 5, 0)
	l.LoadNode(3, -2, 3)

	nodal, err := Consolidate(m, g, NewBoundaries(), l, nil)
	require.NoError(t, err)
	f := nodal.Forces[3]
	assert.InDelta(t, 3.0, f.FX, 1e-12)
	assert.InDelta(t, 3.0, f.FY, 1e-12)
}

func TestPointResolvesToNearestNode(t *testing.T) {
	m, g := unitSquare(t)
	// a point near the (1,1) corner
	pid, err := g.AddPoint(0, 0.9, 1.1)
	require.NoError(t, err)

	b := NewBoundaries()
	b.ConstrainPoint(pid, Fixed(), Fixed())
	l := NewLoads()
	l.LoadPoint(pid, 7, 0)

	nodal, err := Consolidate(m, g, b, l, nil)
	require.NoError(t, err)
	assert.True(t, nodal.Constraint(3).X.IsFixed())
	assert.InDelta(t, 7.0, nodal.Forces[3].FX, 1e-12)
}

func TestLineConstraintCoversEdgeNodes(t *testing.T) {
	m, g := unitSquare(t)
	b := NewBoundaries()
	b.ConstrainLine(1, Fixed(), Prescribed(0.25))

	nodal, err := Consolidate(m, g, b, NewLoads(), nil)
	require.NoError(t, err)
	for _, id := range []int{1, 4} {
		c := nodal.Constraint(id)
		assert.True(t, c.X.IsFixed(), "node %d", id)
		assert.Equal(t, 0.25, c.Y.Value(), "node %d", id)
	}
	assert.True(t, nodal.Constraint(2).X.IsFree())
}

func TestLineLoadLinearEdge(t *testing.T) {
	m, g := unitSquare(t)
	l := NewLoads()
	l.LoadLine(2, 10, 0) // right edge, length 1

	nodal, err := Consolidate(m, g, NewBoundaries(), l, nil)
	require.NoError(t, err)
	// half of 10*1 on each endpoint
	assert.InDelta(t, 5.0, nodal.Forces[2].FX, 1e-12)
	assert.InDelta(t, 5.0, nodal.Forces[3].FX, 1e-12)
	assert.Zero(t, nodal.Forces[1].FX)
}

func TestLineLoadQuadraticEdge(t *testing.T) {
	// one 8-node element on [0,2]x[0,2]
	m := mesh.New()
	coords := [][2]float64{
		{0, 0}, {2, 0}, {2, 2}, {0, 2},
		{1, 0}, {2, 1}, {1, 2}, {0, 1},
	}
	for _, c := range coords {
		_, err := m.AddNode(0, c[0], c[1])
		require.NoError(t, err)
	}
	_, err := m.AddElement(0, []int{1, 2, 3, 4, 5, 6, 7, 8}, 9, testMtl)
	require.NoError(t, err)
	m.Freeze()

	g := mesh.NewGeometry()
	_, err = g.AddPoint(1, 2, 0)
	require.NoError(t, err)
	_, err = g.AddPoint(2, 2, 2)
	require.NoError(t, err)
	_, err = g.AddLine(1, 1, 2) // right edge nodes 2, 3, 6
	require.NoError(t, err)

	l := NewLoads()
	l.LoadLine(1, 6, 0) // total force 6*2 = 12

	nodal, err := Consolidate(m, g, NewBoundaries(), l, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, nodal.Forces[2].FX, 1e-12) // 1/6 * 2 * 6
	assert.InDelta(t, 2.0, nodal.Forces[3].FX, 1e-12)
	assert.InDelta(t, 8.0, nodal.Forces[6].FX, 1e-12) // 2/3 * 2 * 6
}

// A shared interior edge is loaded once even though two elements contain it.
func TestLineLoadSharedEdgeNotDoubled(t *testing.T) {
	m := mesh.New()
	coords := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 1}, {0, 1}}
	for _, c := range coords {
		_, err := m.AddNode(0, c[0], c[1])
		require.NoError(t, err)
	}
	_, err := m.AddElement(0, []int{1, 2, 5, 6}, 4, testMtl)
	require.NoError(t, err)
	_, err = m.AddElement(0, []int{2, 3, 4, 5}, 4, testMtl)
	require.NoError(t, err)
	m.Freeze()

	g := mesh.NewGeometry()
	_, err = g.AddPoint(1, 1, 0)
	require.NoError(t, err)
	_, err = g.AddPoint(2, 1, 1)
	require.NoError(t, err)
	_, err = g.AddLine(1, 1, 2) // interior edge between the two elements
	require.NoError(t, err)

	l := NewLoads()
	l.LoadLine(1, 0, -8)

	nodal, err := Consolidate(m, g, NewBoundaries(), l, nil)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, nodal.Forces[2].FY, 1e-12)
	assert.InDelta(t, -4.0, nodal.Forces[5].FY, 1e-12)
}

// A line with no mesh nodes on it is recorded as skipped, not an error.
func TestLineWithNoNodesSkipped(t *testing.T) {
	m, g := unitSquare(t)
	p1, err := g.AddPoint(0, 5, 5)
	require.NoError(t, err)
	p2, err := g.AddPoint(0, 6, 5)
	require.NoError(t, err)
	ln, err := g.AddLine(0, p1, p2)
	require.NoError(t, err)

	b := NewBoundaries()
	b.ConstrainLine(ln, Fixed(), Fixed())
	l := NewLoads()
	l.LoadLine(ln, 1, 1)

	nodal, err := Consolidate(m, g, b, l, nil)
	require.NoError(t, err)
	require.Len(t, nodal.Skipped, 2)
	assert.Equal(t, ln, nodal.Skipped[0].LineID)
	assert.False(t, nodal.Skipped[0].Load)
	assert.True(t, nodal.Skipped[1].Load)
	assert.Empty(t, nodal.Forces)
	assert.Empty(t, nodal.Constraints)
}

// Constraints and loads referencing undefined geometry fail validation.
func TestUnknownGeometryFails(t *testing.T) {
	m, g := unitSquare(t)

	b := NewBoundaries()
	b.ConstrainLine(99, Fixed(), Fixed())
	_, err := Consolidate(m, g, b, NewLoads(), nil)
	assert.ErrorIs(t, err, mesh.ErrUnknownGeometry)

	l := NewLoads()
	l.LoadPoint(42, 1, 0)
	_, err = Consolidate(m, g, NewBoundaries(), l, nil)
	assert.ErrorIs(t, err, mesh.ErrUnknownGeometry)
}

// A quadratic element whose on-line nodes cannot form a full edge fails.
func TestEdgeNodeCountMismatch(t *testing.T) {
	// 8-node element but with its right mid-edge node pulled off the line
	m := mesh.New()
	coords := [][2]float64{
		{0, 0}, {2, 0}, {2, 2}, {0, 2},
		{1, 0}, {2.2, 1}, {1, 2}, {0, 1},
	}
	for _, c := range coords {
		_, err := m.AddNode(0, c[0], c[1])
		require.NoError(t, err)
	}
	_, err := m.AddElement(0, []int{1, 2, 3, 4, 5, 6, 7, 8}, 9, testMtl)
	require.NoError(t, err)
	m.Freeze()

	g := mesh.NewGeometry()
	_, err = g.AddPoint(1, 2, 0)
	require.NoError(t, err)
	_, err = g.AddPoint(2, 2, 2)
	require.NoError(t, err)
	_, err = g.AddLine(1, 1, 2)
	require.NoError(t, err)

	l := NewLoads()
	l.LoadLine(1, 1, 0)
	_, err = Consolidate(m, g, NewBoundaries(), l, nil)
	assert.ErrorIs(t, err, ErrEdgeNodeCount)
}
