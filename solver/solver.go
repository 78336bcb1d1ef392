package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularSystem reports a singular or ill-conditioned reduced stiffness
// matrix, typically a rigid-body mode left unrestrained.
var ErrSingularSystem = errors.New("solver: reduced stiffness matrix is singular or ill-conditioned")

// defaultCondTol is the reciprocal-condition threshold below which the
// reduced system is rejected as singular.
const defaultCondTol = 1e-14

// Option configures one solve call.
type Option func(*session)

// WithLogger attaches a logger for consolidation and solve diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *session) { s.log = log }
}

// WithCondTolerance overrides the reciprocal-condition threshold for the
// singularity check.
func WithCondTolerance(tol float64) Option {
	return func(s *session) { s.condTol = tol }
}

// session owns the global system for one solve call. Nothing is shared
// between sessions and nothing survives the call except the Solution.
type session struct {
	m   *mesh.Mesh
	log *zap.Logger

	condTol float64

	k *mat.Dense    // 2N x 2N global stiffness
	f *mat.VecDense // 2N load vector
	u *mat.VecDense // 2N displacement solution
}

// Solve consolidates the boundary and load definitions, assembles and
// reduces the global stiffness system, solves it, and recovers nodal and
// integration-point fields. The mesh must be frozen; it is read-only
// throughout.
func Solve(m *mesh.Mesh, g *mesh.Geometry, b *bc.Boundaries, l *bc.Loads, opts ...Option) (*Solution, error) {
	s := &session{m: m, condTol: defaultCondTol}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	nodal, err := bc.Consolidate(m, g, b, l, s.log)
	if err != nil {
		return nil, err
	}

	if err := s.assemble(nodal); err != nil {
		return nil, err
	}
	s.applyPrescribed(nodal)

	fixed := s.fixedDOFs(nodal)
	s.log.Debug("solving reduced system",
		zap.Int("dof", 2*m.NumNodes()),
		zap.Int("fixed", len(fixed)),
	)
	if err := s.reduceAndSolve(fixed); err != nil {
		return nil, err
	}

	return s.recover(nodal)
}

// guide returns the interleaved global DOF indices (2i, 2i+1 per node) of an
// element's nodes in connectivity order.
func (s *session) guide(e *mesh.Element) ([]int, error) {
	g := make([]int, 0, 2*len(e.Nodes))
	for _, id := range e.Nodes {
		i, err := s.m.NodeIndex(id)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", e.ID, err)
		}
		g = append(g, 2*i, 2*i+1)
	}
	return g, nil
}

// assemble scatter-adds every element stiffness matrix into the global
// system and the consolidated nodal loads into the global load vector.
func (s *session) assemble(nodal *bc.Nodal) error {
	ndof := 2 * s.m.NumNodes()
	s.k = mat.NewDense(ndof, ndof, nil)
	s.f = mat.NewVecDense(ndof, nil)

	for i := range s.m.Elements() {
		e := &s.m.Elements()[i]
		xs, ys, err := s.m.ElementCoords(e)
		if err != nil {
			return err
		}
		ke, err := elastic.Stiffness(xs, ys, e.Order, e.Material)
		if err != nil {
			return fmt.Errorf("element %d: %w", e.ID, err)
		}
		g, err := s.guide(e)
		if err != nil {
			return err
		}
		for r, gr := range g {
			for c, gc := range g {
				s.k.Set(gr, gc, s.k.At(gr, gc)+ke.At(r, c))
			}
		}
	}

	for i, n := range s.m.Nodes() {
		if f, ok := nodal.Forces[n.ID]; ok {
			s.f.SetVec(2*i, s.f.AtVec(2*i)+f.FX)
			s.f.SetVec(2*i+1, s.f.AtVec(2*i+1)+f.FY)
		}
	}
	return nil
}

// applyPrescribed enforces non-zero prescribed displacements by row
// substitution: the DOF's stiffness row is zeroed, its diagonal set to 1,
// and the load entry set to the prescribed value. The row decouples from
// the system while the matrix keeps its size.
func (s *session) applyPrescribed(nodal *bc.Nodal) {
	ndof := 2 * s.m.NumNodes()
	for i, n := range s.m.Nodes() {
		c := nodal.Constraint(n.ID)
		for axis, cond := range []bc.Condition{c.X, c.Y} {
			if cond.Kind() != bc.KindPrescribed {
				continue
			}
			dof := 2*i + axis
			for col := 0; col < ndof; col++ {
				s.k.Set(dof, col, 0)
			}
			s.k.Set(dof, dof, 1)
			s.f.SetVec(dof, cond.Value())
		}
	}
}

// fixedDOFs collects the global DOF indices held at zero displacement.
func (s *session) fixedDOFs(nodal *bc.Nodal) []int {
	var fixed []int
	for i, n := range s.m.Nodes() {
		c := nodal.Constraint(n.ID)
		if c.X.IsFixed() {
			fixed = append(fixed, 2*i)
		}
		if c.Y.IsFixed() {
			fixed = append(fixed, 2*i+1)
		}
	}
	return fixed
}

// reduceAndSolve deletes fixed rows and columns, LU-factorizes the reduced
// matrix with an explicit conditioning check, solves, and scatters the
// solution back into the full displacement vector with zeros at fixed DOFs.
func (s *session) reduceAndSolve(fixed []int) error {
	ndof := 2 * s.m.NumNodes()
	isFixed := make([]bool, ndof)
	for _, d := range fixed {
		isFixed[d] = true
	}
	open := make([]int, 0, ndof-len(fixed))
	for d := 0; d < ndof; d++ {
		if !isFixed[d] {
			open = append(open, d)
		}
	}
	s.u = mat.NewVecDense(ndof, nil)
	if len(open) == 0 {
		return nil
	}

	kred := mat.NewDense(len(open), len(open), nil)
	fred := mat.NewVecDense(len(open), nil)
	for r, gr := range open {
		fred.SetVec(r, s.f.AtVec(gr))
		for c, gc := range open {
			kred.Set(r, c, s.k.At(gr, gc))
		}
	}

	var lu mat.LU
	lu.Factorize(kred)
	if cond := lu.Cond(); math.IsInf(cond, 1) || cond > 1/s.condTol {
		return fmt.Errorf("%w: condition number %.3e", ErrSingularSystem, lu.Cond())
	}
	var d mat.VecDense
	if err := lu.SolveVecTo(&d, false, fred); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	for r, gr := range open {
		s.u.SetVec(gr, d.AtVec(r))
	}
	return nil
}
