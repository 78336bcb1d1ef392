package elastic

import (
	"errors"
	"fmt"

	"github.com/Blueprints-org/blueprints-sub002/shape"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateElement reports a non-positive Jacobian determinant, i.e. a
// folded or zero-area element at the sampled point.
var ErrDegenerateElement = errors.New("elastic: non-positive Jacobian determinant")

// ErrNodeCoordMismatch reports x/y coordinate slices of different lengths.
var ErrNodeCoordMismatch = errors.New("elastic: node coordinate slices differ in length")

// strain selector: picks [du/dx, dv/dy, du/dy+dv/dx] out of the local
// displacement-gradient vector [du/dx, du/dy, dv/dx, dv/dy].
var selector = mat.NewDense(3, 4, []float64{
	1, 0, 0, 0,
	0, 0, 0, 1,
	0, 1, 1, 0,
})

// BMatrix assembles the 3x2k strain-displacement matrix at one local
// coordinate from the shape-function derivatives and the element's node
// coordinates. It returns the Jacobian determinant alongside, since every
// caller needs it for the integration weight.
func BMatrix(dXi, dEta, xs, ys []float64) (*mat.Dense, float64, error) {
	k := len(xs)
	if len(ys) != k || len(dXi) != k || len(dEta) != k {
		return nil, 0, fmt.Errorf("%w: got %d/%d coords for %d derivatives",
			ErrNodeCoordMismatch, len(xs), len(ys), len(dXi))
	}

	// 2x2 Jacobian of the isoparametric map
	var j11, j12, j21, j22 float64
	for i := 0; i < k; i++ {
		j11 += dXi[i] * xs[i]  // dx/dxi
		j12 += dXi[i] * ys[i]  // dy/dxi
		j21 += dEta[i] * xs[i] // dx/deta
		j22 += dEta[i] * ys[i] // dy/deta
	}
	detJ := j11*j22 - j12*j21
	if detJ <= 0 {
		return nil, detJ, fmt.Errorf("%w: det(J)=%g", ErrDegenerateElement, detJ)
	}

	// block-diagonal inverse Jacobian, one block per displacement component
	inv := [4]float64{j22 / detJ, -j12 / detJ, -j21 / detJ, j11 / detJ}
	blk := mat.NewDense(4, 4, []float64{
		inv[0], inv[1], 0, 0,
		inv[2], inv[3], 0, 0,
		0, 0, inv[0], inv[1],
		0, 0, inv[2], inv[3],
	})

	// local shape-derivative matrix: rows (dN/dxi, dN/deta) for u then v,
	// columns interleaved (u0, v0, u1, v1, ...)
	g := mat.NewDense(4, 2*k, nil)
	for i := 0; i < k; i++ {
		g.Set(0, 2*i, dXi[i])
		g.Set(1, 2*i, dEta[i])
		g.Set(2, 2*i+1, dXi[i])
		g.Set(3, 2*i+1, dEta[i])
	}

	var tmp, b mat.Dense
	tmp.Mul(blk, g)
	b.Mul(selector, &tmp)
	return &b, detJ, nil
}

// Stiffness integrates the element stiffness matrix for a k-node element
// with node coordinates (xs, ys), Gauss integration order, and material.
// The result is 2k x 2k and symmetric.
func Stiffness(xs, ys []float64, order int, m Material) (*mat.Dense, error) {
	tp, err := shape.ForNodeCount(len(xs))
	if err != nil {
		return nil, err
	}
	d, err := m.DMatrix()
	if err != nil {
		return nil, err
	}
	pts, err := shape.Quadrature(tp, order)
	if err != nil {
		return nil, err
	}

	n := 2 * len(xs)
	ke := mat.NewDense(n, n, nil)
	var db, btdb mat.Dense
	for _, gp := range pts {
		_, dXi, dEta := tp.Functions(gp.Xi, gp.Eta)
		b, detJ, err := BMatrix(dXi, dEta, xs, ys)
		if err != nil {
			return nil, err
		}
		db.Reset()
		btdb.Reset()
		db.Mul(d, b)
		btdb.Mul(b.T(), &db)
		btdb.Scale(m.Thickness*gp.W*detJ, &btdb)
		ke.Add(ke, &btdb)
	}
	return ke, nil
}
