// Package report prints validation and run results for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/claude/hevyplan/internal/upload"
	"github.com/claude/hevyplan/internal/validate"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgHiMagenta)
	okColor      = color.New(color.FgGreen)
	detailColor  = color.New(color.FgCyan)
	headingColor = color.New(color.Bold)
)

// Issues prints every issue grouped by severity, errors first, followed by a
// one-line summary.
func Issues(w io.Writer, r *validate.Report) {
	errs, warns := r.Errors(), r.Warnings()
	for _, i := range errs {
		errorColor.Fprintln(w, i.String())
		printAlternatives(w, i)
	}
	for _, i := range warns {
		warnColor.Fprintln(w, i.String())
		printAlternatives(w, i)
	}

	switch {
	case r.Fatal:
		errorColor.Fprintf(w, "%s: %d errors, %d warnings; nothing will be submitted\n", r.ProgramName, len(errs), len(warns))
	case len(warns) > 0:
		warnColor.Fprintf(w, "%s: valid with %d warnings\n", r.ProgramName, len(warns))
	default:
		okColor.Fprintf(w, "%s: valid\n", r.ProgramName)
	}
}

func printAlternatives(w io.Writer, i validate.Issue) {
	if len(i.Alternatives) == 0 {
		return
	}
	detailColor.Fprintf(w, "    alternatives: %s\n", strings.Join(i.Alternatives, ", "))
}

// Plan prints the routines a run would submit.
func Plan(w io.Writer, p *upload.Plan) {
	for _, r := range p.Routines {
		headingColor.Fprintf(w, "%s (%d exercises)\n", r.Request.Title, len(r.Request.Exercises))
		for i, ex := range r.Request.Exercises {
			group := ""
			if ex.SupersetID != nil {
				group = fmt.Sprintf(" [group %d]", *ex.SupersetID)
			}
			reps := ""
			if len(ex.Sets) > 0 {
				reps = ex.Sets[0].Reps.String()
			}
			fmt.Fprintf(w, "  %2d. %s (%s) %d x %s, rest %ds%s\n",
				i+1, r.Names[i], ex.ExerciseTemplateID, len(ex.Sets), orDash(reps), ex.RestSeconds, group)
		}
		if len(r.Dropped) > 0 {
			warnColor.Fprintf(w, "  skipped: %s\n", strings.Join(r.Dropped, ", "))
		}
	}
}

// Stats prints the outcome of a run.
func Stats(w io.Writer, s *upload.Stats) {
	for _, r := range s.Results {
		line := fmt.Sprintf("%-9s %s", r.Action, r.Title)
		if r.RoutineID != "" {
			line += " (" + r.RoutineID + ")"
		}
		okColor.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nDays:       %d\n", s.DaysTotal)
	fmt.Fprintf(w, "Built:      %d\n", s.RoutinesBuilt)
	fmt.Fprintf(w, "Created:    %d\n", s.RoutinesCreated)
	fmt.Fprintf(w, "Updated:    %d\n", s.RoutinesUpdated)
	fmt.Fprintf(w, "Unchanged:  %d\n", s.RoutinesUnchanged)
	if s.FolderTitle != "" {
		fmt.Fprintf(w, "Folder:     %s\n", s.FolderTitle)
	}
	if len(s.Dropped) > 0 {
		warnColor.Fprintf(w, "Skipped:    %s\n", strings.Join(s.Dropped, ", "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
