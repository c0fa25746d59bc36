// Package export writes a planned program to an Excel workbook for review
// before submission.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/claude/hevyplan/internal/catalog"
	"github.com/claude/hevyplan/internal/upload"
)

const (
	SheetRoutines = "Routines"
	SheetIssues   = "Issues"
)

var routineHeader = []any{"Routine", "#", "Exercise", "Catalog title", "Template ID", "Group", "Sets", "Reps", "Rest (s)", "Notes"}

var issueHeader = []any{"Severity", "Kind", "Day", "Path", "Exercise", "Message", "Suggestion"}

// Workbook writes plan to path. cat is used to show the catalog title of each
// template and may be nil.
func Workbook(path string, plan *upload.Plan, cat *catalog.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRoutines); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetIssues); err != nil {
		return fmt.Errorf("creating issues sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRow(f, SheetRoutines, 1, routineHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetRoutines, "A1", "J1", headerStyle)

	row := 2
	for _, r := range plan.Routines {
		for i, ex := range r.Request.Exercises {
			title := ""
			if t, ok := cat.Lookup(ex.ExerciseTemplateID); ok {
				title = t.Title
			}
			var group any
			if ex.SupersetID != nil {
				group = *ex.SupersetID
			}
			reps := make([]string, 0, len(ex.Sets))
			for _, s := range ex.Sets {
				reps = append(reps, s.Reps.String())
			}
			values := []any{
				r.Request.Title, i + 1, r.Names[i], title, ex.ExerciseTemplateID,
				group, len(ex.Sets), summarizeReps(reps), ex.RestSeconds, ex.Notes,
			}
			if err := writeRow(f, SheetRoutines, row, values); err != nil {
				return err
			}
			row++
		}
	}

	if err := writeRow(f, SheetIssues, 1, issueHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetIssues, "A1", "G1", headerStyle)
	for i, issue := range plan.Report.Issues {
		var day any
		if issue.Day > 0 {
			day = issue.Day
		}
		values := []any{
			string(issue.Severity), string(issue.Kind), day, issue.Path, issue.Exercise, issue.Message, issue.Suggestion,
		}
		if err := writeRow(f, SheetIssues, i+2, values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetRoutines, "A", "A", 24)
	_ = f.SetColWidth(SheetRoutines, "C", "D", 30)
	_ = f.SetColWidth(SheetIssues, "F", "F", 60)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// summarizeReps collapses identical set prescriptions to a single value.
func summarizeReps(reps []string) string {
	if len(reps) == 0 {
		return ""
	}
	for _, r := range reps[1:] {
		if r != reps[0] {
			return strings.Join(reps, " / ")
		}
	}
	return reps[0]
}
