package report

import (
	"fmt"

	"github.com/Blueprints-org/blueprints-sub002/solver"
	"github.com/xuri/excelize/v2"
)

const (
	sheetDisplacements = "Displacements"
	sheetStresses      = "Stresses"
)

// WriteXLSX writes the solution as a two-sheet workbook: nodal
// displacements and integration-point stresses.
func WriteXLSX(path string, sol *solver.Solution) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetDisplacements); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if _, err := f.NewSheet(sheetStresses); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := writeRow(f, sheetDisplacements, 1, toAny(nodeHeader)); err != nil {
		return err
	}
	for i, n := range sol.Nodes {
		row := []any{n.ID, n.UX, n.UY, n.Magnitude}
		if err := writeRow(f, sheetDisplacements, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, sheetStresses, 1, toAny(stressHeader)); err != nil {
		return err
	}
	for i, ip := range sol.IntegrationPoints {
		row := []any{
			ip.Point.ID, ip.Point.ElementID, ip.Point.X, ip.Point.Y,
			ip.Strain[0], ip.Strain[1], ip.Strain[2],
			ip.Stress[0], ip.Stress[1], ip.Stress[2], ip.SigmaZZ,
			ip.Principal[0], ip.Principal[1], ip.Principal[2],
			ip.VonMises,
		}
		if err := writeRow(f, sheetStresses, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
