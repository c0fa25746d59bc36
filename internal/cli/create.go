package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/report"
	"github.com/claude/hevyplan/internal/upload"
)

var (
	createInput    string
	createTitle    string
	createNotes    string
	createFolder   string
	createDryRun   bool
	createNoUpdate bool
	createFix      bool
	createAutoFix  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one routine per program day in a folder",
	Long: `Validate the program, then create or update one routine per day.
Routines go into the folder given by --folder, else a folder named after the
program. Unchanged routines from an earlier run are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readProgram(createInput)
		if err != nil {
			return err
		}
		m, err := loadMatcher()
		if err != nil {
			return err
		}
		bopts := builderOptions(doc, createTitle, createNotes)
		if createFix || createAutoFix {
			fixed, err := fixProgram(cmd, createInput, upload.BuildPlan(doc, m, bopts), createAutoFix)
			if err != nil {
				return err
			}
			if fixed != nil {
				doc = fixed
			}
		}

		var api upload.API
		var state *upload.StateDB
		if !createDryRun {
			client, err := newClient()
			if err != nil {
				return err
			}
			api = client

			state, err = upload.OpenStateDB(cfg.Submit.StateDir)
			if err != nil {
				return fmt.Errorf("failed to open state database: %w", err)
			}
			defer state.Close()
		} else {
			log.Info("DRY RUN mode: routines are built but not sent")
		}

		folder := cfg.Submit.Folder
		if createFolder != "" {
			folder = createFolder
		}
		u := upload.New(api, state, m, upload.Options{
			DryRun:         createDryRun,
			Folder:         folder,
			TitlePrefix:    bopts.TitlePrefix,
			Notes:          bopts.Notes,
			UpdateExisting: cfg.Submit.UpdateExisting && !createNoUpdate,
			Delay:          cfg.Submit.Delay,
		}, log)

		plan, stats, err := u.Run(cmd.Context(), doc)
		out := cmd.OutOrStdout()
		report.Issues(out, plan.Report)
		if errors.Is(err, upload.ErrRejected) {
			return errInvalidProgram
		}
		if createDryRun {
			report.Plan(out, plan)
		}
		report.Stats(out, stats)
		return err
	},
}

func init() {
	createCmd.Flags().StringVarP(&createInput, "input", "i", "", "program JSON file (- for stdin)")
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "routine title prefix (default program name)")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "notes for days without a description")
	createCmd.Flags().StringVar(&createFolder, "folder", "", "folder title (default program name)")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "validate and build without contacting Hevy")
	createCmd.Flags().BoolVar(&createNoUpdate, "no-update", false, "always create new routines")
	createCmd.Flags().BoolVar(&createFix, "fix", false, "offer a replacement for each unmatched exercise and save accepted ones")
	createCmd.Flags().BoolVar(&createAutoFix, "auto-fix", false, "apply every offered replacement without asking")
}
