// Package report writes a Solution to tabular formats for downstream
// consumers: CSV for plain tooling and an XLSX workbook for spreadsheet
// review.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Blueprints-org/blueprints-sub002/solver"
)

var nodeHeader = []string{"node", "ux", "uy", "magnitude"}

var stressHeader = []string{
	"ip", "element", "x", "y",
	"eps_xx", "eps_yy", "eps_xy",
	"sig_xx", "sig_yy", "sig_xy", "sig_zz",
	"sig_1", "sig_2", "sig_3", "von_mises",
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteCSV writes the per-node displacement table.
func WriteCSV(w io.Writer, sol *solver.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(nodeHeader); err != nil {
		return err
	}
	for _, n := range sol.Nodes {
		rec := []string{
			strconv.Itoa(n.ID),
			ftoa(n.UX), ftoa(n.UY), ftoa(n.Magnitude),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStressCSV writes the per-integration-point strain/stress table.
func WriteStressCSV(w io.Writer, sol *solver.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stressHeader); err != nil {
		return err
	}
	for _, ip := range sol.IntegrationPoints {
		rec := []string{
			strconv.Itoa(ip.Point.ID),
			strconv.Itoa(ip.Point.ElementID),
			ftoa(ip.Point.X), ftoa(ip.Point.Y),
			ftoa(ip.Strain[0]), ftoa(ip.Strain[1]), ftoa(ip.Strain[2]),
			ftoa(ip.Stress[0]), ftoa(ip.Stress[1]), ftoa(ip.Stress[2]), ftoa(ip.SigmaZZ),
			ftoa(ip.Principal[0]), ftoa(ip.Principal[1]), ftoa(ip.Principal[2]),
			ftoa(ip.VonMises),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
