// Package elastic builds element stiffness matrices for two-dimensional
// linear elasticity: the material D-matrix for plane-stress or plane-strain,
// the isoparametric Jacobian and strain-displacement B-matrix, and the
// Gauss-integrated element stiffness Ke = t * sum w * B'*D*B * det(J).
package elastic

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PlanarState selects the 2D elasticity simplification.
type PlanarState string

const (
	PlaneStress PlanarState = "plane-stress"
	PlaneStrain PlanarState = "plane-strain"
)

// ErrPlanarState reports an unrecognized planar assumption value.
var ErrPlanarState = errors.New("elastic: unrecognized planar state")

// ParsePlanarState validates a planar assumption string.
func ParsePlanarState(s string) (PlanarState, error) {
	switch PlanarState(s) {
	case PlaneStress, PlaneStrain:
		return PlanarState(s), nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrPlanarState, s, PlaneStress, PlaneStrain)
}

// Material holds the isotropic elastic properties of one element.
type Material struct {
	E         float64 // Young's modulus
	Nu        float64 // Poisson's ratio
	Thickness float64
	State     PlanarState
}

// DMatrix returns the 3x3 stress-strain matrix for the material.
func (m Material) DMatrix() (*mat.Dense, error) {
	e, nu := m.E, m.Nu
	switch m.State {
	case PlaneStress:
		c := e / (1 - nu*nu)
		return mat.NewDense(3, 3, []float64{
			c, c * nu, 0,
			c * nu, c, 0,
			0, 0, c * (1 - nu) / 2,
		}), nil
	case PlaneStrain:
		c := e / ((1 + nu) * (1 - 2*nu))
		return mat.NewDense(3, 3, []float64{
			c * (1 - nu), c * nu, 0,
			c * nu, c * (1 - nu), 0,
			0, 0, c * (0.5 - nu),
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPlanarState, m.State)
}
