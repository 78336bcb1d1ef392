// Package solver assembles the global stiffness system for a plane
// linear-elastic mesh, applies consolidated boundary conditions and loads,
// solves the reduced system, and recovers displacement and stress fields.
package solver

import (
	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
)

// NodeResult is the displacement of one node.
type NodeResult struct {
	ID        int
	UX, UY    float64
	Magnitude float64
}

// IPResult is the recovered state at one integration point. Strain and
// stress components are ordered (xx, yy, xy); principal stresses are sorted
// descending.
type IPResult struct {
	Point     mesh.IntegrationPoint
	Strain    [3]float64
	Stress    [3]float64
	SigmaZZ   float64 // out-of-plane stress: 0 for plane stress, nu*(sx+sy) for plane strain
	Principal [3]float64
	VonMises  float64
}

// Solution is the immutable result of one solve. A repeated Solve on the
// same model produces a fresh Solution; nothing is updated incrementally.
type Solution struct {
	Nodes             []NodeResult
	IntegrationPoints []IPResult
	Deformed          *mesh.Mesh
	Skipped           []bc.SkippedDefinition

	nodeIndex map[int]int
}

// NodeResult looks up the displacement of a node by identifier.
func (s *Solution) NodeResult(id int) (NodeResult, bool) {
	i, ok := s.nodeIndex[id]
	if !ok {
		return NodeResult{}, false
	}
	return s.Nodes[i], true
}

// MaxDisplacement returns the largest nodal displacement magnitude.
func (s *Solution) MaxDisplacement() float64 {
	max := 0.0
	for _, n := range s.Nodes {
		if n.Magnitude > max {
			max = n.Magnitude
		}
	}
	return max
}

// MaxVonMises returns the largest integration-point von Mises stress.
func (s *Solution) MaxVonMises() float64 {
	max := 0.0
	for _, ip := range s.IntegrationPoints {
		if ip.VonMises > max {
			max = ip.VonMises
		}
	}
	return max
}
