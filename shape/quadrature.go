package shape

import (
	"fmt"
	"math"
)

// GaussPoint is one quadrature sample: local coordinates and scalar weight.
type GaussPoint struct {
	Xi, Eta float64
	W       float64
}

// ErrUnsupportedOrder reports an integration order with no quadrature rule
// for the given topology.
type ErrUnsupportedOrder struct {
	Topology Topology
	Order    int
}

func (e *ErrUnsupportedOrder) Error() string {
	if e.Topology.IsTriangle() {
		return fmt.Sprintf("shape: no %d-point triangle rule for %v (supported: 1, 3, 4, 7)",
			e.Order, e.Topology)
	}
	return fmt.Sprintf("shape: no %d-point quadrilateral rule for %v (supported: 1, 4, 9)",
		e.Order, e.Topology)
}

// Quadrature returns the fixed Gauss rule for the topology and integration
// order. Triangle rules integrate over the unit reference triangle (weights
// sum to 1/2); quadrilateral rules integrate over [-1,1]^2 (weights sum to
// 4). Unsupported combinations fail.
func Quadrature(tp Topology, order int) ([]GaussPoint, error) {
	if tp.IsTriangle() {
		if pts, ok := triangleRules[order]; ok {
			return pts, nil
		}
	} else {
		if pts, ok := quadRules[order]; ok {
			return pts, nil
		}
	}
	return nil, &ErrUnsupportedOrder{Topology: tp, Order: order}
}

// SupportedOrders lists the valid integration orders for a topology.
func SupportedOrders(tp Topology) []int {
	if tp.IsTriangle() {
		return []int{1, 3, 4, 7}
	}
	return []int{1, 4, 9}
}

var triangleRules = map[int][]GaussPoint{
	1: {
		{Xi: 1.0 / 3.0, Eta: 1.0 / 3.0, W: 0.5},
	},
	3: {
		{Xi: 1.0 / 6.0, Eta: 1.0 / 6.0, W: 1.0 / 6.0},
		{Xi: 2.0 / 3.0, Eta: 1.0 / 6.0, W: 1.0 / 6.0},
		{Xi: 1.0 / 6.0, Eta: 2.0 / 3.0, W: 1.0 / 6.0},
	},
	4: {
		{Xi: 1.0 / 3.0, Eta: 1.0 / 3.0, W: -27.0 / 96.0},
		{Xi: 0.6, Eta: 0.2, W: 25.0 / 96.0},
		{Xi: 0.2, Eta: 0.6, W: 25.0 / 96.0},
		{Xi: 0.2, Eta: 0.2, W: 25.0 / 96.0},
	},
	7: triangle7(),
}

// triangle7 builds the classical 7-point degree-5 rule (Hammer-Stroud).
func triangle7() []GaussPoint {
	const (
		a1 = 0.0597158717897698
		b1 = 0.4701420641051151
		a2 = 0.7974269853530873
		b2 = 0.1012865073234563
		w0 = 0.225 / 2
		w1 = 0.1323941527885062 / 2
		w2 = 0.1259391805448271 / 2
	)
	return []GaussPoint{
		{Xi: 1.0 / 3.0, Eta: 1.0 / 3.0, W: w0},
		{Xi: a1, Eta: b1, W: w1},
		{Xi: b1, Eta: a1, W: w1},
		{Xi: b1, Eta: b1, W: w1},
		{Xi: a2, Eta: b2, W: w2},
		{Xi: b2, Eta: a2, W: w2},
		{Xi: b2, Eta: b2, W: w2},
	}
}

var quadRules = map[int][]GaussPoint{
	1: {
		{Xi: 0, Eta: 0, W: 4},
	},
	4: tensorRule([]float64{-1 / sqrt3, 1 / sqrt3}, []float64{1, 1}),
	9: tensorRule(
		[]float64{-sqrt35, 0, sqrt35},
		[]float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0},
	),
}

var (
	sqrt3  = math.Sqrt(3)
	sqrt35 = math.Sqrt(3.0 / 5.0)
)

// tensorRule forms the 2D tensor product of a 1D Gauss-Legendre rule.
func tensorRule(x, w []float64) []GaussPoint {
	pts := make([]GaussPoint, 0, len(x)*len(x))
	for j := range x {
		for i := range x {
			pts = append(pts, GaussPoint{Xi: x[i], Eta: x[j], W: w[i] * w[j]})
		}
	}
	return pts
}
