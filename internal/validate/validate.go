// Package validate checks a program document and resolves its exercises,
// collecting every problem in one pass.
package validate

import (
	"fmt"
	"strings"

	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
)

// Severity separates recoverable warnings from errors that reject a document.
type Severity string

const (
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Kind classifies an issue.
type Kind string

const (
	MalformedID        Kind = "malformed_id"
	UnverifiedID       Kind = "unverified_id"
	UnmatchedExercise  Kind = "unmatched_exercise"
	StructuralError    Kind = "structural_error"
	CatalogUnavailable Kind = "catalog_unavailable"
)

// maxReps bounds a numeric rep count.
const maxReps = 10000

// maxAlternatives caps the alternatives listed for an unmatched exercise.
const maxAlternatives = 5

const untitledProgram = "Untitled Program"

// Issue is one problem found in a document. Day is 0 for document-level
// issues.
type Issue struct {
	Severity     Severity `json:"severity"`
	Kind         Kind     `json:"kind"`
	Day          int      `json:"day,omitempty"`
	DayName      string   `json:"day_name,omitempty"`
	Path         string   `json:"path,omitempty"`
	Exercise     string   `json:"exercise,omitempty"`
	Message      string   `json:"message"`
	Suggestion   string   `json:"suggestion,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
	// Fix is the replacement offered for an unmatched exercise.
	Fix *Fix `json:"fix,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Severity))
	b.WriteString(": ")
	if i.Day > 0 {
		fmt.Fprintf(&b, "day %d", i.Day)
		if i.DayName != "" {
			fmt.Fprintf(&b, " (%s)", i.DayName)
		}
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	if i.Suggestion != "" {
		fmt.Fprintf(&b, "; did you mean %q?", i.Suggestion)
	}
	return b.String()
}

// DayResult carries what the builder needs for one day.
type DayResult struct {
	Index    int                                `json:"index"`
	Day      models.Day                         `json:"-"`
	Number   int                                `json:"day"`
	Title    string                             `json:"title"`
	Matches  map[models.EntryKey]matcher.Result `json:"-"`
	Rejected bool                               `json:"rejected"`
}

// Report is the outcome of validating a document.
type Report struct {
	ProgramName string      `json:"program_name"`
	Issues      []Issue     `json:"issues"`
	Fatal       bool        `json:"fatal"`
	Days        []DayResult `json:"days"`
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue { return r.filter(Error) }

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue { return r.filter(Warning) }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

type validator struct {
	m      *matcher.Matcher
	report *Report
	// matchNames is false when no catalog is available and ids are not
	// trusted, so resolution is skipped entirely.
	matchNames bool
}

// Validate checks doc and resolves every exercise entry with m. It never
// stops at the first problem. The report is fatal when any error-severity
// issue was found.
func Validate(doc *models.ProgramDocument, m *matcher.Matcher) *Report {
	v := &validator{m: m, report: &Report{Issues: []Issue{}}, matchNames: true}
	if doc == nil {
		v.add(Issue{Severity: Error, Kind: StructuralError, Message: "document is empty"})
		v.report.Fatal = true
		return v.report
	}

	v.report.ProgramName = strings.TrimSpace(doc.ProgramName)
	if v.report.ProgramName == "" {
		v.report.ProgramName = untitledProgram
		v.add(Issue{Severity: Warning, Kind: StructuralError, Path: "program_name",
			Message: "program_name is missing; using " + untitledProgram})
	}

	if !m.CatalogAvailable() {
		if m.TrustsIDs() {
			v.add(Issue{Severity: Warning, Kind: CatalogUnavailable,
				Message: "exercise catalog unavailable; only exercise ids will be used"})
		} else {
			v.matchNames = false
			v.add(Issue{Severity: Error, Kind: CatalogUnavailable,
				Message: "exercise catalog unavailable; exercise names cannot be matched"})
		}
	}

	if len(doc.Days) == 0 {
		v.add(Issue{Severity: Error, Kind: StructuralError, Path: "days", Message: "program has no days"})
	}

	seen := make(map[int]int, len(doc.Days))
	for _, d := range doc.Days {
		if d.Day != nil {
			seen[*d.Day]++
		}
	}
	for i, d := range doc.Days {
		v.day(i, d, seen)
	}

	for _, issue := range v.report.Issues {
		if issue.Severity == Error {
			v.report.Fatal = true
			break
		}
	}
	return v.report
}

func (v *validator) add(i Issue) {
	v.report.Issues = append(v.report.Issues, i)
}

// dayScope stamps issues with their day and tracks whether any error hit it.
type dayScope struct {
	v      *validator
	number int
	title  string
	errors int
}

func (s *dayScope) add(i Issue) {
	i.Day = s.number
	i.DayName = s.title
	if i.Severity == Error {
		s.errors++
	}
	s.v.add(i)
}

func (v *validator) day(index int, d models.Day, seen map[int]int) {
	number := d.Number()
	title := d.Title()
	scope := &dayScope{v: v, number: number, title: title}
	path := fmt.Sprintf("days[%d]", index)

	switch {
	case d.Day == nil:
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".day", Message: "day number is missing"})
	case *d.Day < 1:
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".day",
			Message: fmt.Sprintf("day number must be at least 1, got %d", *d.Day)})
	case seen[*d.Day] > 1:
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".day",
			Message: fmt.Sprintf("day number %d is used by %d days", *d.Day, seen[*d.Day])})
	}
	if strings.TrimSpace(d.Name) == "" {
		scope.add(Issue{Severity: Warning, Kind: StructuralError, Path: path + ".name",
			Message: "day name is missing; using " + title})
	}
	if d.DurationMinutes != nil && *d.DurationMinutes < 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".duration_minutes",
			Message: "duration_minutes must not be negative"})
	}
	if len(d.Exercises) == 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".exercises", Message: "day has no exercises"})
	}

	matches := make(map[models.EntryKey]matcher.Result)
	entries := 0
	for b, block := range d.Exercises {
		blockPath := fmt.Sprintf("%s.exercises[%d]", path, b)
		switch block.Kind {
		case models.BlockSuperset:
			v.superset(scope, blockPath, block.Superset)
		case models.BlockCircuit:
			v.circuit(scope, blockPath, block.Circuit)
		}
		for j, entry := range block.Entries() {
			entryPath := blockPath
			if block.Kind != models.BlockExercise {
				entryPath = fmt.Sprintf("%s.%s[%d]", blockPath, block.Kind, j)
			}
			entries++
			v.entry(scope, entryPath, entry)
			if res, ok := v.resolve(scope, entryPath, entry); ok {
				matches[models.EntryKey{Block: b, Member: j}] = res
			}
		}
	}

	matched := 0
	for _, res := range matches {
		if res.Matched() {
			matched++
		}
	}
	if entries > 0 && matched == 0 && v.matchNames {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".exercises",
			Message: "no exercise in this day could be matched"})
	}

	v.report.Days = append(v.report.Days, DayResult{
		Index:    index,
		Day:      d,
		Number:   number,
		Title:    title,
		Matches:  matches,
		Rejected: scope.errors > 0,
	})
}

func (v *validator) superset(scope *dayScope, path string, s *models.SupersetBlock) {
	if s == nil {
		s = &models.SupersetBlock{}
	}
	switch len(s.Exercises) {
	case 0:
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path, Message: "superset has no exercises"})
	case 1:
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path, Message: "superset needs at least two exercises"})
	}
	if s.RestBetweenExercises < 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".rest_between_exercises",
			Message: "rest_between_exercises must not be negative"})
	}
}

func (v *validator) circuit(scope *dayScope, path string, c *models.CircuitBlock) {
	if c == nil {
		c = &models.CircuitBlock{}
	}
	if len(c.Exercises) == 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path, Message: "circuit has no exercises"})
	}
	if rounds := c.RoundCount(); rounds < 1 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".rounds",
			Message: fmt.Sprintf("circuit rounds must be at least 1, got %d", rounds)})
	}
	if c.RestBetweenExercises < 0 || c.RestBetweenRounds < 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path,
			Message: "circuit rest values must not be negative"})
	}
}

func (v *validator) entry(scope *dayScope, path string, e models.ExerciseEntry) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".name", Message: "exercise name is missing"})
	}
	if e.Sets != nil && *e.Sets < 1 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".sets", Exercise: name,
			Message: fmt.Sprintf("sets must be at least 1, got %d", *e.Sets)})
	}
	if e.RestSeconds != nil && *e.RestSeconds < 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".rest_seconds", Exercise: name,
			Message: "rest_seconds must not be negative"})
	}
	if e.DetailedSets != nil && len(e.DetailedSets) == 0 {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path + ".detailed_sets", Exercise: name,
			Message: "detailed_sets is empty"})
	}
	checkReps(scope, path+".reps", name, e.Reps)
	for k, s := range e.DetailedSets {
		if s.Type != "" && !s.Type.Valid() {
			scope.add(Issue{Severity: Error, Kind: StructuralError, Path: fmt.Sprintf("%s.detailed_sets[%d].type", path, k),
				Exercise: name, Message: fmt.Sprintf("unknown set type %q", s.Type)})
		}
		checkReps(scope, fmt.Sprintf("%s.detailed_sets[%d].reps", path, k), name, s.Reps)
	}
}

func checkReps(scope *dayScope, path, name string, r models.Reps) {
	if r.IsZero() || r.IsText() {
		return
	}
	if r.Count < 0 || r.Count > maxReps {
		scope.add(Issue{Severity: Error, Kind: StructuralError, Path: path, Exercise: name,
			Message: fmt.Sprintf("reps must be between 0 and %d, got %d", maxReps, r.Count)})
	}
}

func (v *validator) resolve(scope *dayScope, path string, e models.ExerciseEntry) (matcher.Result, bool) {
	if !v.matchNames {
		return matcher.Result{}, false
	}
	name := strings.TrimSpace(e.Name)
	res := v.m.Resolve(e)

	if res.MalformedID != "" {
		scope.add(Issue{Severity: Warning, Kind: MalformedID, Path: path + ".exercise_template_id", Exercise: name,
			Message: fmt.Sprintf("exercise_template_id %q is not a valid id; matching by name", res.MalformedID)})
	}
	// Without a catalog every id is unverified and CatalogUnavailable says so.
	if res.Unverified && v.m.CatalogAvailable() {
		scope.add(Issue{Severity: Warning, Kind: UnverifiedID, Path: path + ".exercise_template_id", Exercise: name,
			Message: fmt.Sprintf("exercise_template_id %q is not in the local catalog; submitted as written", res.TemplateID)})
	}
	if !res.Matched() {
		issue := Issue{Severity: Warning, Kind: UnmatchedExercise, Path: path, Exercise: name,
			Message: fmt.Sprintf("exercise %q not found in catalog; it will be skipped", name)}
		if res.Suggestion != nil {
			issue.Suggestion = res.Suggestion.Title
			issue.Fix = &Fix{TemplateID: res.Suggestion.ID, Title: res.Suggestion.Title}
		}
		for _, alt := range v.m.Catalog().Alternatives(name, e.Category, maxAlternatives) {
			issue.Alternatives = append(issue.Alternatives, alt.Title)
			if issue.Fix == nil {
				issue.Fix = &Fix{TemplateID: alt.ID, Title: alt.Title}
			}
		}
		scope.add(issue)
	}
	return res, true
}
