package main

import (
	"io"
	"os"

	"github.com/Blueprints-org/blueprints-sub002/model"
	"github.com/Blueprints-org/blueprints-sub002/report"
	"github.com/Blueprints-org/blueprints-sub002/solver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	csvPath    string
	stressPath string
	xlsxPath   string
)

var solveCmd = &cobra.Command{
	Use:   "solve <model.yaml>",
	Short: "Solve a model file and report results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := model.Load(args[0])
		if err != nil {
			return err
		}
		msh, geo, bounds, loads, err := doc.Build()
		if err != nil {
			return err
		}
		logger.Info("model loaded",
			zap.String("file", args[0]),
			zap.Int("nodes", msh.NumNodes()),
			zap.Int("elements", msh.NumElements()),
			zap.Int("dof", 2*msh.NumNodes()),
		)

		sol, err := solver.Solve(msh, geo, bounds, loads, solver.WithLogger(logger))
		if err != nil {
			return err
		}
		for _, sk := range sol.Skipped {
			logger.Warn("definition skipped: no nodes on line",
				zap.Int("line", sk.LineID), zap.Bool("load", sk.Load))
		}
		logger.Info("solve finished",
			zap.Float64("max_displacement", sol.MaxDisplacement()),
			zap.Float64("max_von_mises", sol.MaxVonMises()),
			zap.Int("integration_points", len(sol.IntegrationPoints)),
		)

		if csvPath != "" {
			if err := writeFileCSV(csvPath, sol, report.WriteCSV); err != nil {
				return err
			}
			logger.Info("displacements written", zap.String("file", csvPath))
		}
		if stressPath != "" {
			if err := writeFileCSV(stressPath, sol, report.WriteStressCSV); err != nil {
				return err
			}
			logger.Info("stresses written", zap.String("file", stressPath))
		}
		if xlsxPath != "" {
			if err := report.WriteXLSX(xlsxPath, sol); err != nil {
				return err
			}
			logger.Info("workbook written", zap.String("file", xlsxPath))
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().StringVar(&csvPath, "csv", "", "write nodal displacements to a CSV file")
	solveCmd.Flags().StringVar(&stressPath, "stress-csv", "", "write integration-point stresses to a CSV file")
	solveCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write a results workbook")
}

func writeFileCSV(path string, sol *solver.Solution, write func(w io.Writer, sol *solver.Solution) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, sol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
