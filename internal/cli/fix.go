package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/upload"
	"github.com/claude/hevyplan/internal/validate"
)

// fixProgram offers the replacement for each unmatched exercise in plan,
// writes the accepted ones back to the program file and returns the reparsed
// document. It returns nil when nothing changed. With auto every replacement
// is taken without asking. Prompts and notices go to stderr.
func fixProgram(cmd *cobra.Command, path string, plan *upload.Plan, auto bool) (*models.ProgramDocument, error) {
	fixable := plan.Report.Fixable()
	if len(fixable) == 0 {
		return nil, nil
	}
	if path == "-" {
		return nil, errors.New("cannot fix a program read from stdin; pass a file with --input")
	}

	out := cmd.ErrOrStderr()
	in := bufio.NewReader(cmd.InOrStdin())
	var accepted []validate.Issue
	for _, i := range fixable {
		if !auto {
			fmt.Fprintln(out, i.String())
			if !confirm(in, out, fmt.Sprintf("Use %s (%s) for %q?", i.Fix.Title, i.Fix.TemplateID, i.Exercise)) {
				continue
			}
		}
		accepted = append(accepted, i)
	}
	if len(accepted) == 0 {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	fixed, err := validate.ApplyFixes(data, accepted)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, fixed, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing program: %w", err)
	}

	for _, i := range accepted {
		fmt.Fprintf(out, "Fixed %s with %s\n", i.Exercise, i.Fix.Title)
	}
	log.Info("program updated", "path", path, "fixes", len(accepted))
	return models.ParseProgram(fixed)
}
