package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"github.com/Blueprints-org/blueprints-sub002/shape"
	"gonum.org/v1/gonum/mat"
)

// recover extracts nodal displacements, evaluates strain and stress at every
// integration point, and builds the deformed mesh.
func (s *session) recover(nodal *bc.Nodal) (*Solution, error) {
	nodes := s.m.Nodes()
	sol := &Solution{
		Nodes:     make([]NodeResult, len(nodes)),
		Skipped:   nodal.Skipped,
		nodeIndex: make(map[int]int, len(nodes)),
	}
	ux := make([]float64, len(nodes))
	uy := make([]float64, len(nodes))
	for i, n := range nodes {
		ux[i] = s.u.AtVec(2 * i)
		uy[i] = s.u.AtVec(2*i + 1)
		sol.Nodes[i] = NodeResult{
			ID:        n.ID,
			UX:        ux[i],
			UY:        uy[i],
			Magnitude: math.Hypot(ux[i], uy[i]),
		}
		sol.nodeIndex[n.ID] = i
	}

	var err error
	if sol.Deformed, err = s.m.Deformed(ux, uy); err != nil {
		return nil, err
	}
	if sol.IntegrationPoints, err = s.integrationPointResults(); err != nil {
		return nil, err
	}
	return sol, nil
}

// integrationPointResults walks every element's Gauss points, recomputing B
// there and evaluating strain B*ue, stress D*B*ue, the principal stresses of
// the full 3x3 tensor, and the von Mises stress.
func (s *session) integrationPointResults() ([]IPResult, error) {
	var out []IPResult
	ipID := 1
	for i := range s.m.Elements() {
		e := &s.m.Elements()[i]
		tp, err := e.Topology()
		if err != nil {
			return nil, err
		}
		pts, err := shape.Quadrature(tp, e.Order)
		if err != nil {
			return nil, err
		}
		xs, ys, err := s.m.ElementCoords(e)
		if err != nil {
			return nil, err
		}
		d, err := e.Material.DMatrix()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", e.ID, err)
		}
		g, err := s.guide(e)
		if err != nil {
			return nil, err
		}
		ue := mat.NewVecDense(len(g), nil)
		for j, dof := range g {
			ue.SetVec(j, s.u.AtVec(dof))
		}

		for _, gp := range pts {
			n, dXi, dEta := tp.Functions(gp.Xi, gp.Eta)
			b, _, err := elastic.BMatrix(dXi, dEta, xs, ys)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", e.ID, err)
			}
			var strain, stress mat.VecDense
			strain.MulVec(b, ue)
			stress.MulVec(d, &strain)

			r := IPResult{
				Point: mesh.IntegrationPoint{
					ID:        ipID,
					ElementID: e.ID,
					X:         dot(n, xs),
					Y:         dot(n, ys),
				},
				Strain: [3]float64{strain.AtVec(0), strain.AtVec(1), strain.AtVec(2)},
				Stress: [3]float64{stress.AtVec(0), stress.AtVec(1), stress.AtVec(2)},
			}
			if e.Material.State == elastic.PlaneStrain {
				r.SigmaZZ = e.Material.Nu * (r.Stress[0] + r.Stress[1])
			}
			r.Principal = principalStresses(r.Stress, r.SigmaZZ)
			r.VonMises = vonMises(r.Principal)
			out = append(out, r)
			ipID++
		}
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// principalStresses returns the eigenvalues of the full 3x3 stress tensor,
// sorted descending.
func principalStresses(s [3]float64, szz float64) [3]float64 {
	t := mat.NewSymDense(3, []float64{
		s[0], s[2], 0,
		s[2], s[1], 0,
		0, 0, szz,
	})
	var eig mat.EigenSym
	if ok := eig.Factorize(t, false); !ok {
		// symmetric 3x3 factorization cannot fail on finite input
		panic("solver: eigen decomposition of stress tensor failed")
	}
	vals := eig.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	return [3]float64{vals[0], vals[1], vals[2]}
}

// vonMises combines the principal stresses into the scalar yield indicator.
func vonMises(p [3]float64) float64 {
	d01 := p[0] - p[1]
	d12 := p[1] - p[2]
	d20 := p[2] - p[0]
	return math.Sqrt(0.5 * (d01*d01 + d12*d12 + d20*d20))
}
