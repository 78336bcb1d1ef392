package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"github.com/Blueprints-org/blueprints-sub002/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func solvedSquare(t *testing.T) *solver.Solution {
	t.Helper()
	m := mesh.New()
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		_, err := m.AddNode(0, c[0], c[1])
		require.NoError(t, err)
	}
	mtl := elastic.Material{E: 210000, Nu: 0.3, Thickness: 1, State: elastic.PlaneStress}
	_, err := m.AddElement(0, []int{1, 2, 3, 4}, 4, mtl)
	require.NoError(t, err)
	m.Freeze()

	b := bc.NewBoundaries()
	b.ConstrainNode(1, bc.Fixed(), bc.Fixed())
	b.ConstrainNode(4, bc.Fixed(), bc.Fixed())
	l := bc.NewLoads()
	l.LoadNode(3, 1000, 0)

	sol, err := solver.Solve(m, mesh.NewGeometry(), b, l)
	require.NoError(t, err)
	return sol
}

func TestWriteCSV(t *testing.T) {
	sol := solvedSquare(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sol))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5) // header + 4 nodes
	assert.Equal(t, "node,ux,uy,magnitude", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,0,0,0"), "fixed node row: %s", lines[1])
}

func TestWriteStressCSV(t *testing.T) {
	sol := solvedSquare(t)
	var buf bytes.Buffer
	require.NoError(t, WriteStressCSV(&buf, sol))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5) // header + 4 integration points
	assert.Contains(t, lines[0], "von_mises")
}

func TestWriteXLSX(t *testing.T) {
	sol := solvedSquare(t)
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(path, sol))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetDisplacements)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "node", rows[0][0])

	rows, err = f.GetRows(sheetStresses)
	require.NoError(t, err)
	require.Len(t, rows, 5)
}
