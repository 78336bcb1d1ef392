// Package mesh holds the geometric data model the solver operates on: nodes,
// element connectivity, and the auxiliary geometry (points and lines) that
// boundary conditions and loads may reference instead of node identifiers.
//
// A Mesh has two phases. During building, AddNode and AddElement grow the
// containers; Freeze then constructs the identifier-to-index maps and marks
// the mesh read-only for solving. All lookups after Freeze are O(1).
package mesh

import (
	"errors"
	"fmt"

	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/shape"
)

var (
	// ErrFrozen reports a mutation attempted after Freeze.
	ErrFrozen = errors.New("mesh: mesh is frozen")
	// ErrDuplicateID reports a node or element identifier used twice.
	ErrDuplicateID = errors.New("mesh: duplicate identifier")
	// ErrUnknownID reports a lookup of an identifier that was never added.
	ErrUnknownID = errors.New("mesh: unknown identifier")
	// ErrEmptyMesh reports a mesh with no nodes or no elements.
	ErrEmptyMesh = errors.New("mesh: empty mesh")
	// ErrNotFrozen reports an operation that requires a frozen mesh.
	ErrNotFrozen = errors.New("mesh: mesh must be frozen first")
)

// Node is one mesh point. Coordinates are immutable once added; the only
// derived variant is the deformed copy produced after solving.
type Node struct {
	ID   int
	X, Y float64
}

// Element is one plane element: vertex nodes first, then mid-edge nodes for
// the quadratic topologies. Order is the Gauss integration order and must be
// in the supported set of the element's topology.
type Element struct {
	ID       int
	Nodes    []int
	Order    int
	Material elastic.Material
}

// Topology derives the element shape from its connectivity length.
func (e *Element) Topology() (shape.Topology, error) {
	return shape.ForNodeCount(len(e.Nodes))
}

// Mesh owns nodes and elements and their identifier-to-index maps.
type Mesh struct {
	nodes    []Node
	elements []Element

	nodeIndex map[int]int
	elemIndex map[int]int
	frozen    bool

	nextNodeID int
	nextElemID int
}

// New returns an empty mesh in the building phase.
func New() *Mesh {
	return &Mesh{
		nodeIndex:  make(map[int]int),
		elemIndex:  make(map[int]int),
		nextNodeID: 1,
		nextElemID: 1,
	}
}

// AddNode appends a node. A non-positive id auto-increments from the largest
// assigned identifier. Returns the identifier actually used.
func (m *Mesh) AddNode(id int, x, y float64) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	if id <= 0 {
		id = m.nextNodeID
	}
	if _, ok := m.nodeIndex[id]; ok {
		return 0, fmt.Errorf("%w: node %d", ErrDuplicateID, id)
	}
	m.nodeIndex[id] = len(m.nodes)
	m.nodes = append(m.nodes, Node{ID: id, X: x, Y: y})
	if id >= m.nextNodeID {
		m.nextNodeID = id + 1
	}
	return id, nil
}

// AddElement appends an element. A non-positive id auto-increments. The
// connectivity must reference nodes already added.
func (m *Mesh) AddElement(id int, nodes []int, order int, mtl elastic.Material) (int, error) {
	if m.frozen {
		return 0, ErrFrozen
	}
	if id <= 0 {
		id = m.nextElemID
	}
	if _, ok := m.elemIndex[id]; ok {
		return 0, fmt.Errorf("%w: element %d", ErrDuplicateID, id)
	}
	if _, err := shape.ForNodeCount(len(nodes)); err != nil {
		return 0, fmt.Errorf("element %d: %w", id, err)
	}
	for _, n := range nodes {
		if _, ok := m.nodeIndex[n]; !ok {
			return 0, fmt.Errorf("element %d references %w: node %d", id, ErrUnknownID, n)
		}
	}
	m.elemIndex[id] = len(m.elements)
	m.elements = append(m.elements, Element{
		ID:       id,
		Nodes:    append([]int(nil), nodes...),
		Order:    order,
		Material: mtl,
	})
	if id >= m.nextElemID {
		m.nextElemID = id + 1
	}
	return id, nil
}

// Freeze ends the building phase. After Freeze the mesh rejects mutation and
// is safe to hand to the solver.
func (m *Mesh) Freeze() { m.frozen = true }

// Frozen reports whether the building phase has ended.
func (m *Mesh) Frozen() bool { return m.frozen }

// NumNodes returns the node count.
func (m *Mesh) NumNodes() int { return len(m.nodes) }

// NumElements returns the element count.
func (m *Mesh) NumElements() int { return len(m.elements) }

// Nodes returns the nodes in insertion order. Callers must not mutate.
func (m *Mesh) Nodes() []Node { return m.nodes }

// Elements returns the elements in insertion order. Callers must not mutate.
func (m *Mesh) Elements() []Element { return m.elements }

// NodeIndex maps a node identifier to its dense array position.
func (m *Mesh) NodeIndex(id int) (int, error) {
	i, ok := m.nodeIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: node %d", ErrUnknownID, id)
	}
	return i, nil
}

// NodeByID returns the node with the given identifier.
func (m *Mesh) NodeByID(id int) (Node, error) {
	i, err := m.NodeIndex(id)
	if err != nil {
		return Node{}, err
	}
	return m.nodes[i], nil
}

// ElementByID returns the element with the given identifier.
func (m *Mesh) ElementByID(id int) (*Element, error) {
	i, ok := m.elemIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: element %d", ErrUnknownID, id)
	}
	return &m.elements[i], nil
}

// ElementCoords gathers the x and y coordinates of an element's nodes in
// connectivity order.
func (m *Mesh) ElementCoords(e *Element) (xs, ys []float64, err error) {
	xs = make([]float64, len(e.Nodes))
	ys = make([]float64, len(e.Nodes))
	for i, id := range e.Nodes {
		n, err := m.NodeByID(id)
		if err != nil {
			return nil, nil, fmt.Errorf("element %d: %w", e.ID, err)
		}
		xs[i] = n.X
		ys[i] = n.Y
	}
	return xs, ys, nil
}

// Validate checks that the mesh is frozen, non-empty, and that every element
// has a supported topology/order pair.
func (m *Mesh) Validate() error {
	if !m.frozen {
		return ErrNotFrozen
	}
	if len(m.nodes) == 0 || len(m.elements) == 0 {
		return ErrEmptyMesh
	}
	for i := range m.elements {
		e := &m.elements[i]
		tp, err := e.Topology()
		if err != nil {
			return fmt.Errorf("element %d: %w", e.ID, err)
		}
		if _, err := shape.Quadrature(tp, e.Order); err != nil {
			return fmt.Errorf("element %d: %w", e.ID, err)
		}
	}
	return nil
}

// Deformed returns a frozen copy of the mesh with every node displaced by
// (ux[i], uy[i]), indexed by dense node position. The receiver is untouched.
func (m *Mesh) Deformed(ux, uy []float64) (*Mesh, error) {
	if len(ux) != len(m.nodes) || len(uy) != len(m.nodes) {
		return nil, fmt.Errorf("mesh: displacement length %d/%d for %d nodes",
			len(ux), len(uy), len(m.nodes))
	}
	out := New()
	for i, n := range m.nodes {
		if _, err := out.AddNode(n.ID, n.X+ux[i], n.Y+uy[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.elements {
		e := &m.elements[i]
		if _, err := out.AddElement(e.ID, e.Nodes, e.Order, e.Material); err != nil {
			return nil, err
		}
	}
	out.Freeze()
	return out, nil
}
