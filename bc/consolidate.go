package bc

import (
	"errors"
	"fmt"
	"math"

	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"go.uber.org/zap"
)

// ErrEdgeNodeCount reports an element whose nodes on a loaded line do not
// form a complete element edge (2 nodes for linear-edge elements, 3 for
// quadratic-edge elements).
var ErrEdgeNodeCount = errors.New("bc: nodes on line do not form a complete element edge")

// NodalConstraint is the resolved per-axis condition of one node.
type NodalConstraint struct {
	X, Y Condition
}

// NodalForce is the summed force on one node.
type NodalForce struct {
	FX, FY float64
}

// SkippedDefinition records a line-based constraint or load that resolved to
// zero mesh nodes and was therefore dropped.
type SkippedDefinition struct {
	LineID int
	Load   bool // true for a load definition, false for a constraint
}

// Nodal is the consolidated per-node boundary/load table. Maps are keyed by
// node identifier; nodes absent from Constraints are fully free, nodes
// absent from Forces carry no load.
type Nodal struct {
	Constraints map[int]NodalConstraint
	Forces      map[int]NodalForce
	Skipped     []SkippedDefinition
}

// Constraint returns the resolved condition of a node, free-free when none
// was defined.
func (n *Nodal) Constraint(nodeID int) NodalConstraint {
	return n.Constraints[nodeID]
}

// Consolidate reduces all constraint and load definitions to per-node terms.
// Point targets resolve to the nearest mesh node; line targets resolve to
// every node on the segment. Duplicate constraints merge per axis (zero
// wins, else first non-free); duplicate loads sum component-wise. A line
// with no mesh nodes on it is skipped with a warning, not an error.
func Consolidate(m *mesh.Mesh, g *mesh.Geometry, b *Boundaries, l *Loads, log *zap.Logger) (*Nodal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	out := &Nodal{
		Constraints: make(map[int]NodalConstraint),
		Forces:      make(map[int]NodalForce),
	}

	for _, c := range b.Constraints() {
		nodeIDs, skipped, err := resolveTarget(m, g, c.Target, c.ID)
		if err != nil {
			return nil, fmt.Errorf("constraint on %v %d: %w", c.Target, c.ID, err)
		}
		if skipped {
			log.Warn("no mesh nodes found on line, constraint skipped",
				zap.Int("line", c.ID))
			out.Skipped = append(out.Skipped, SkippedDefinition{LineID: c.ID})
			continue
		}
		for _, id := range nodeIDs {
			prev := out.Constraints[id]
			out.Constraints[id] = NodalConstraint{
				X: Merge(prev.X, c.X),
				Y: Merge(prev.Y, c.Y),
			}
		}
	}

	for _, ld := range l.All() {
		if ld.Target == TargetLine {
			if err := distributeLineLoad(m, g, ld, out, log); err != nil {
				return nil, err
			}
			continue
		}
		nodeIDs, _, err := resolveTarget(m, g, ld.Target, ld.ID)
		if err != nil {
			return nil, fmt.Errorf("load on %v %d: %w", ld.Target, ld.ID, err)
		}
		for _, id := range nodeIDs {
			addForce(out, id, ld.FX, ld.FY)
		}
	}
	return out, nil
}

func addForce(n *Nodal, nodeID int, fx, fy float64) {
	f := n.Forces[nodeID]
	f.FX += fx
	f.FY += fy
	n.Forces[nodeID] = f
}

// resolveTarget maps a definition target to mesh node identifiers. The
// skipped flag is set for a line target with no nodes on it.
func resolveTarget(m *mesh.Mesh, g *mesh.Geometry, kind TargetKind, id int) (nodeIDs []int, skipped bool, err error) {
	switch kind {
	case TargetNode:
		if _, err := m.NodeByID(id); err != nil {
			return nil, false, err
		}
		return []int{id}, false, nil
	case TargetPoint:
		p, err := g.PointByID(id)
		if err != nil {
			return nil, false, err
		}
		n, err := mesh.NearestNode(m, p.X, p.Y)
		if err != nil {
			return nil, false, err
		}
		return []int{n.ID}, false, nil
	}
	p1, p2, err := g.LineEndpoints(id)
	if err != nil {
		return nil, false, err
	}
	ids := mesh.NodesOnSegment(m, p1, p2)
	if len(ids) == 0 {
		return nil, true, nil
	}
	return ids, false, nil
}

// distributeLineLoad spreads a per-unit-length line load onto the nodes of
// every element edge lying on the line, using the shape-function-consistent
// coefficients: 1/2,1/2 for linear edges and 1/6,1/6,2/3 (mid-edge node
// last) for quadratic edges, scaled by edge length.
func distributeLineLoad(m *mesh.Mesh, g *mesh.Geometry, ld Load, out *Nodal, log *zap.Logger) error {
	p1, p2, err := g.LineEndpoints(ld.ID)
	if err != nil {
		return fmt.Errorf("load on line %d: %w", ld.ID, err)
	}
	ids := mesh.NodesOnSegment(m, p1, p2)
	if len(ids) == 0 {
		log.Warn("no mesh nodes found on line, load skipped", zap.Int("line", ld.ID))
		out.Skipped = append(out.Skipped, SkippedDefinition{LineID: ld.ID, Load: true})
		return nil
	}
	onLine := make(map[int]bool, len(ids))
	for _, id := range ids {
		onLine[id] = true
	}

	// Shared edges must be loaded once even when two elements contain them.
	loaded := make(map[[2]int]bool)

	for _, e := range m.Elements() {
		tp, err := e.Topology()
		if err != nil {
			return fmt.Errorf("element %d: %w", e.ID, err)
		}
		count := 0
		for _, id := range e.Nodes {
			if onLine[id] {
				count++
			}
		}
		if count <= 1 {
			// at most a corner touches the line
			continue
		}
		found := false
		for _, edge := range tp.Edges() {
			full := true
			for _, local := range edge {
				if !onLine[e.Nodes[local]] {
					full = false
					break
				}
			}
			if !full {
				continue
			}
			found = true
			if err := loadEdge(m, &e, edge, ld, loaded, out); err != nil {
				return err
			}
		}
		if !found {
			return fmt.Errorf("%w: element %d has %d nodes on line %d, its edges need %d",
				ErrEdgeNodeCount, e.ID, count, ld.ID, tp.EdgeNodes())
		}
	}
	return nil
}

func loadEdge(m *mesh.Mesh, e *mesh.Element, edge []int, ld Load, loaded map[[2]int]bool, out *Nodal) error {
	a, err := m.NodeByID(e.Nodes[edge[0]])
	if err != nil {
		return err
	}
	b, err := m.NodeByID(e.Nodes[edge[1]])
	if err != nil {
		return err
	}
	key := [2]int{a.ID, b.ID}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	if loaded[key] {
		return nil
	}
	loaded[key] = true

	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	var coeffs []float64
	if len(edge) == 2 {
		coeffs = []float64{0.5, 0.5}
	} else {
		coeffs = []float64{1.0 / 6.0, 1.0 / 6.0, 2.0 / 3.0}
	}
	for i, local := range edge {
		c := coeffs[i] * length
		addForce(out, e.Nodes[local], c*ld.FX, c*ld.FY)
	}
	return nil
}
