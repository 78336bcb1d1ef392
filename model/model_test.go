package model

import (
	"testing"

	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cantilever = `
material: {e: 210000, nu: 0.3, thickness: 1.0, state: plane-stress}
nodes:
  - {id: 1, x: 0, y: 0}
  - {id: 2, x: 1, y: 0}
  - {id: 3, x: 1, y: 1}
  - {id: 4, x: 0, y: 1}
elements:
  - {id: 1, nodes: [1, 2, 3, 4]}
points:
  - {id: 1, x: 0, y: 0}
  - {id: 2, x: 0, y: 1}
lines:
  - {id: 1, p1: 1, p2: 2}
supports:
  - {line: 1, x: fixed, y: fixed}
loads:
  - {node: 3, fx: 1000, fy: 0}
`

func TestParseAndBuild(t *testing.T) {
	doc, err := Parse([]byte(cantilever))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 4)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, 0, doc.Elements[0].Order) // default applied in Build

	m, g, b, l, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumNodes())
	assert.Equal(t, 1, m.NumElements())
	assert.Equal(t, 4, m.Elements()[0].Order)
	require.Len(t, b.Constraints(), 1)
	assert.Equal(t, bc.TargetLine, b.Constraints()[0].Target)
	require.Len(t, l.All(), 1)

	// the document describes a solvable model
	sol, err := solver.Solve(m, g, b, l)
	require.NoError(t, err)
	assert.Greater(t, sol.MaxDisplacement(), 0.0)
}

func TestParseConditions(t *testing.T) {
	doc, err := Parse([]byte(`
material: {e: 1, nu: 0, thickness: 1, state: plane-strain}
nodes: [{id: 1, x: 0, y: 0}]
elements: []
supports:
  - {node: 1, x: fixed, y: 0.5}
  - {node: 1, x: free}
`))
	require.NoError(t, err)
	require.Len(t, doc.Supports, 2)
	assert.True(t, doc.Supports[0].X.Condition().IsFixed())
	assert.Equal(t, 0.5, doc.Supports[0].Y.Condition().Value())
	assert.True(t, doc.Supports[1].X.Condition().IsFree())
	assert.True(t, doc.Supports[1].Y.Condition().IsFree()) // omitted axis
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte("material: {e: 1}\nbogus_section: 3\n"))
	assert.Error(t, err, "unknown fields must be rejected")

	_, err = Parse([]byte(`
material: {e: 1, nu: 0, thickness: 1, state: plane-stress}
nodes: [{id: 1, x: 0, y: 0}]
supports: [{node: 1, x: clamped}]
`))
	assert.Error(t, err, "bad condition string")
}

func TestBuildValidation(t *testing.T) {
	doc, err := Parse([]byte(`
material: {e: 1, nu: 0, thickness: 1, state: sideways}
nodes: [{id: 1, x: 0, y: 0}]
elements: []
`))
	require.NoError(t, err)
	_, _, _, _, err = doc.Build()
	assert.Error(t, err, "bad planar state")

	doc, err = Parse([]byte(`
material: {e: 1, nu: 0, thickness: 1, state: plane-stress}
nodes: [{id: 1, x: 0, y: 0}]
elements: []
supports: [{node: 1, point: 2, x: fixed}]
`))
	require.NoError(t, err)
	_, _, _, _, err = doc.Build()
	assert.ErrorIs(t, err, ErrInvalidModel, "ambiguous target")
}
