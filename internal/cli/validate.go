package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/report"
	"github.com/claude/hevyplan/internal/upload"
)

// errInvalidProgram makes the process exit non-zero after the report has
// already been printed.
var errInvalidProgram = errors.New("program has errors")

var (
	validateInput   string
	validateJSON    bool
	validateFix     bool
	validateAutoFix bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a program against the catalog without contacting Hevy",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readProgram(validateInput)
		if err != nil {
			return err
		}
		m, err := loadMatcher()
		if err != nil {
			return err
		}

		plan := upload.BuildPlan(doc, m, builderOptions(doc, "", ""))
		if validateFix || validateAutoFix {
			fixed, err := fixProgram(cmd, validateInput, plan, validateAutoFix)
			if err != nil {
				return err
			}
			if fixed != nil {
				doc = fixed
				plan = upload.BuildPlan(doc, m, builderOptions(doc, "", ""))
			}
		}

		out := cmd.OutOrStdout()
		if validateJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(plan); err != nil {
				return err
			}
		} else {
			report.Issues(out, plan.Report)
			report.Plan(out, plan)
		}

		if plan.Report.Fatal {
			return errInvalidProgram
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "program JSON file (- for stdin)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the report and planned routines as JSON")
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "offer a replacement for each unmatched exercise and save accepted ones")
	validateCmd.Flags().BoolVar(&validateAutoFix, "auto-fix", false, "apply every offered replacement without asking")
}
