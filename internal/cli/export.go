package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/export"
	"github.com/claude/hevyplan/internal/upload"
)

var (
	exportInput  string
	exportOutput string
	exportTitle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the planned routines and issues to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readProgram(exportInput)
		if err != nil {
			return err
		}
		m, err := loadMatcher()
		if err != nil {
			return err
		}

		plan := upload.BuildPlan(doc, m, builderOptions(doc, exportTitle, ""))
		if err := export.Workbook(exportOutput, plan, m.Catalog()); err != nil {
			return err
		}
		log.Info("workbook written", "path", exportOutput, "stage", plan.Stage, "routines", len(plan.Routines))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d routines, %d issues)\n",
			exportOutput, len(plan.Routines), len(plan.Report.Issues))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "program JSON file (- for stdin)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "plan.xlsx", "workbook path")
	exportCmd.Flags().StringVarP(&exportTitle, "title", "t", "", "routine title prefix (default program name)")
}
