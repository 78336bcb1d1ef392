// Package shape provides closed-form shape functions and Gauss quadrature
// tables for the plane element topologies supported by the solver: 3- and
// 6-node triangles and 4- and 8-node quadrilaterals.
//
// Everything in this package is pure and deterministic. Local coordinates
// (xi, eta) live on the reference triangle (0,0)-(1,0)-(0,1) for triangles
// and on [-1,1]^2 for quadrilaterals. Node ordering follows the mesh
// convention: vertex nodes first, then mid-edge nodes.
package shape

import "fmt"

// Topology identifies an element shape by its node layout.
type Topology uint8

const (
	Tri3 Topology = iota // 3-node linear triangle
	Tri6                 // 6-node quadratic triangle
	Quad4                // 4-node bilinear quadrilateral
	Quad8                // 8-node serendipity quadrilateral
)

// ErrUnsupportedTopology reports a node count with no matching element shape.
type ErrUnsupportedTopology struct {
	NodeCount int
}

func (e *ErrUnsupportedTopology) Error() string {
	return fmt.Sprintf("shape: no element topology with %d nodes (supported: 3, 4, 6, 8)", e.NodeCount)
}

// ForNodeCount maps a connectivity length to its topology.
func ForNodeCount(nn int) (Topology, error) {
	switch nn {
	case 3:
		return Tri3, nil
	case 6:
		return Tri6, nil
	case 4:
		return Quad4, nil
	case 8:
		return Quad8, nil
	}
	return 0, &ErrUnsupportedTopology{NodeCount: nn}
}

func (tp Topology) String() string {
	switch tp {
	case Tri3:
		return "Tri3"
	case Tri6:
		return "Tri6"
	case Quad4:
		return "Quad4"
	case Quad8:
		return "Quad8"
	}
	return fmt.Sprintf("Topology(%d)", uint8(tp))
}

// NumNodes returns the number of nodes defining the element.
func (tp Topology) NumNodes() int {
	switch tp {
	case Tri3:
		return 3
	case Tri6:
		return 6
	case Quad4:
		return 4
	}
	return 8
}

// NumVertices returns the number of corner nodes.
func (tp Topology) NumVertices() int {
	if tp.IsTriangle() {
		return 3
	}
	return 4
}

// IsTriangle reports whether the topology is simplicial.
func (tp Topology) IsTriangle() bool { return tp == Tri3 || tp == Tri6 }

// EdgeNodes returns the number of nodes on one element edge: 2 for
// linear-edge elements, 3 for quadratic-edge elements.
func (tp Topology) EdgeNodes() int {
	if tp == Tri6 || tp == Quad8 {
		return 3
	}
	return 2
}

// Edges returns the element-local node indices of each edge, vertex
// endpoints first and the mid-edge node (if any) last. The ordering matches
// the vertex-first node convention and is what line-load extraction relies
// on.
func (tp Topology) Edges() [][]int {
	switch tp {
	case Tri3:
		return [][]int{{0, 1}, {1, 2}, {2, 0}}
	case Tri6:
		return [][]int{{0, 1, 3}, {1, 2, 4}, {2, 0, 5}}
	case Quad4:
		return [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	}
	return [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}}
}

// corner sign tables for the quadrilateral topologies
var quadXi = [4]float64{-1, 1, 1, -1}
var quadEta = [4]float64{-1, -1, 1, 1}

// Functions evaluates the shape functions and their partial derivatives with
// respect to (xi, eta) at one local coordinate. The returned slices have
// length NumNodes().
func (tp Topology) Functions(xi, eta float64) (N, dNdXi, dNdEta []float64) {
	switch tp {
	case Tri3:
		return tri3(xi, eta)
	case Tri6:
		return tri6(xi, eta)
	case Quad4:
		return quad4(xi, eta)
	}
	return quad8(xi, eta)
}

func tri3(xi, eta float64) (N, dXi, dEta []float64) {
	N = []float64{1 - xi - eta, xi, eta}
	dXi = []float64{-1, 1, 0}
	dEta = []float64{-1, 0, 1}
	return
}

func tri6(xi, eta float64) (N, dXi, dEta []float64) {
	lam := 1 - xi - eta
	N = []float64{
		lam * (2*lam - 1),
		xi * (2*xi - 1),
		eta * (2*eta - 1),
		4 * xi * lam,
		4 * xi * eta,
		4 * eta * lam,
	}
	dXi = []float64{
		1 - 4*lam,
		4*xi - 1,
		0,
		4 * (lam - xi),
		4 * eta,
		-4 * eta,
	}
	dEta = []float64{
		1 - 4*lam,
		0,
		4*eta - 1,
		-4 * xi,
		4 * xi,
		4 * (lam - eta),
	}
	return
}

func quad4(xi, eta float64) (N, dXi, dEta []float64) {
	N = make([]float64, 4)
	dXi = make([]float64, 4)
	dEta = make([]float64, 4)
	for i := 0; i < 4; i++ {
		xa, ea := quadXi[i], quadEta[i]
		N[i] = 0.25 * (1 + xa*xi) * (1 + ea*eta)
		dXi[i] = 0.25 * xa * (1 + ea*eta)
		dEta[i] = 0.25 * ea * (1 + xa*xi)
	}
	return
}

func quad8(xi, eta float64) (N, dXi, dEta []float64) {
	N = make([]float64, 8)
	dXi = make([]float64, 8)
	dEta = make([]float64, 8)
	// corners
	for i := 0; i < 4; i++ {
		xa, ea := quadXi[i], quadEta[i]
		N[i] = 0.25 * (1 + xa*xi) * (1 + ea*eta) * (xa*xi + ea*eta - 1)
		dXi[i] = 0.25 * xa * (1 + ea*eta) * (2*xa*xi + ea*eta)
		dEta[i] = 0.25 * ea * (1 + xa*xi) * (xa*xi + 2*ea*eta)
	}
	// midsides: bottom, right, top, left
	midXi := [4]float64{0, 1, 0, -1}
	midEta := [4]float64{-1, 0, 1, 0}
	for i := 0; i < 4; i++ {
		xa, ea := midXi[i], midEta[i]
		k := 4 + i
		if xa == 0 {
			N[k] = 0.5 * (1 - xi*xi) * (1 + ea*eta)
			dXi[k] = -xi * (1 + ea*eta)
			dEta[k] = 0.5 * ea * (1 - xi*xi)
		} else {
			N[k] = 0.5 * (1 + xa*xi) * (1 - eta*eta)
			dXi[k] = 0.5 * xa * (1 - eta*eta)
			dEta[k] = -eta * (1 + xa*xi)
		}
	}
	return
}
