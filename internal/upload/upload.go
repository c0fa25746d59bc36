package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/validate"
)

// API is the part of the Hevy client the uploader needs.
type API interface {
	Folders(ctx context.Context) ([]models.Folder, error)
	CreateFolder(ctx context.Context, title string) (*models.Folder, error)
	Routines(ctx context.Context) ([]models.Routine, error)
	CreateRoutine(ctx context.Context, req models.RoutineRequest) (*models.Routine, error)
	UpdateRoutine(ctx context.Context, id string, req models.RoutineRequest) (*models.Routine, error)
}

// ErrRejected is returned when validation found errors; nothing is submitted.
var ErrRejected = errors.New("program rejected")

// Stage is where a run ended.
type Stage string

const (
	StageLoaded    Stage = "loaded"
	StageValidated Stage = "validated"
	StageRejected  Stage = "rejected"
	StageBuilt     Stage = "built"
	StageSubmitted Stage = "submitted"
)

// Plan is the network-free part of a run: the validation report and, unless
// rejected, one built routine per day.
type Plan struct {
	Stage    Stage              `json:"stage"`
	Report   *validate.Report   `json:"report"`
	Routines []*builder.Routine `json:"routines"`
}

// BuildPlan validates doc and builds its routines. It performs no I/O and
// returns the same diagnostics as a full run.
func BuildPlan(doc *models.ProgramDocument, m *matcher.Matcher, opts builder.Options) *Plan {
	report := validate.Validate(doc, m)
	plan := &Plan{Stage: StageValidated, Report: report, Routines: []*builder.Routine{}}
	if report.Fatal {
		plan.Stage = StageRejected
		return plan
	}
	for _, day := range report.Days {
		plan.Routines = append(plan.Routines, builder.Build(day.Day, day.Matches, opts))
	}
	plan.Stage = StageBuilt
	return plan
}

// Action is what happened to one routine.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionDryRun    Action = "dry-run"
)

// Result describes one submitted routine.
type Result struct {
	Day       int    `json:"day"`
	Title     string `json:"title"`
	RoutineID string `json:"routine_id,omitempty"`
	Action    Action `json:"action"`
	Exercises int    `json:"exercises"`
}

// Stats tracks run progress.
type Stats struct {
	DaysTotal         int
	RoutinesBuilt     int
	RoutinesCreated   int
	RoutinesUpdated   int
	RoutinesUnchanged int

	Warnings int
	Errors   int
	Dropped  []string

	FolderID      *int
	FolderTitle   string
	FolderCreated bool

	Results []Result
}

// Options controls a run.
type Options struct {
	DryRun         bool
	Folder         string
	TitlePrefix    string
	Notes          string
	UpdateExisting bool
	// Delay paces consecutive submissions.
	Delay time.Duration
}

// Uploader takes a program through validation, building and submission.
type Uploader struct {
	api     API
	state   *StateDB
	matcher *matcher.Matcher
	opts    Options
	log     *slog.Logger
	stats   Stats
	now     func() time.Time
}

// New creates an Uploader. state may be nil to run without the submission
// ledger; api may be nil for dry runs.
func New(api API, state *StateDB, m *matcher.Matcher, opts Options, log *slog.Logger) *Uploader {
	return &Uploader{
		api:     api,
		state:   state,
		matcher: m,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Run executes the pipeline. The plan is always returned so callers can
// report issues; a rejected program returns ErrRejected.
func (u *Uploader) Run(ctx context.Context, doc *models.ProgramDocument) (*Plan, *Stats, error) {
	plan := BuildPlan(doc, u.matcher, builder.Options{TitlePrefix: u.opts.TitlePrefix, Notes: u.opts.Notes})
	u.stats.DaysTotal = len(plan.Report.Days)
	u.stats.Warnings = len(plan.Report.Warnings())
	u.stats.Errors = len(plan.Report.Errors())

	if plan.Stage == StageRejected {
		return plan, &u.stats, fmt.Errorf("%w: %d errors", ErrRejected, u.stats.Errors)
	}
	for _, r := range plan.Routines {
		u.stats.RoutinesBuilt++
		u.stats.Dropped = append(u.stats.Dropped, r.Dropped...)
	}
	u.log.Info("program validated",
		"program", plan.Report.ProgramName,
		"routines", len(plan.Routines),
		"warnings", u.stats.Warnings,
		"dropped", len(u.stats.Dropped),
	)

	u.stats.FolderTitle = u.folderTitle(doc)
	if u.opts.DryRun {
		for _, r := range plan.Routines {
			u.log.Info("dry-run: would submit routine",
				"title", r.Request.Title,
				"folder", u.stats.FolderTitle,
				"exercises", len(r.Request.Exercises),
			)
			u.stats.Results = append(u.stats.Results, Result{
				Day: r.Day, Title: r.Request.Title, Action: ActionDryRun, Exercises: len(r.Request.Exercises),
			})
		}
		return plan, &u.stats, nil
	}
	if u.api == nil {
		return plan, &u.stats, errors.New("no API client configured")
	}

	folder, err := u.ensureFolder(ctx, u.stats.FolderTitle)
	if err != nil {
		return plan, &u.stats, fmt.Errorf("preparing folder: %w", err)
	}
	u.stats.FolderID = &folder.ID

	existing, err := u.existingRoutines(ctx)
	if err != nil {
		return plan, &u.stats, fmt.Errorf("listing routines: %w", err)
	}

	for i, r := range plan.Routines {
		if i > 0 && u.opts.Delay > 0 {
			if err := sleep(ctx, u.opts.Delay); err != nil {
				return plan, &u.stats, err
			}
		}
		r.Request.FolderID = &folder.ID
		res, err := u.submit(ctx, plan.Report.ProgramName, r, existing)
		if err != nil {
			return plan, &u.stats, fmt.Errorf("submitting %q: %w", r.Request.Title, err)
		}
		u.stats.Results = append(u.stats.Results, res)
	}

	plan.Stage = StageSubmitted
	return plan, &u.stats, nil
}

// folderTitle picks the folder: the configured one, then the program name,
// then a timestamped default.
func (u *Uploader) folderTitle(doc *models.ProgramDocument) string {
	if f := strings.TrimSpace(u.opts.Folder); f != "" {
		return f
	}
	if doc != nil {
		if name := strings.TrimSpace(doc.ProgramName); name != "" {
			return name
		}
	}
	return "Routines " + u.now().Format("2006-01-02 15:04")
}

// ensureFolder reuses a folder with the same title or creates one.
func (u *Uploader) ensureFolder(ctx context.Context, title string) (*models.Folder, error) {
	folders, err := u.api.Folders(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if f.Title == title {
			u.log.Info("using existing folder", "folder", title, "id", f.ID)
			return &f, nil
		}
	}
	f, err := u.api.CreateFolder(ctx, title)
	if err != nil {
		return nil, err
	}
	u.stats.FolderCreated = true
	u.log.Info("created folder", "folder", title, "id", f.ID)
	return f, nil
}

// routineIndex holds the account's routines by id and by title.
type routineIndex struct {
	byID    map[string]bool
	byTitle map[string]string
}

func (u *Uploader) existingRoutines(ctx context.Context) (*routineIndex, error) {
	idx := &routineIndex{byID: map[string]bool{}, byTitle: map[string]string{}}
	if !u.opts.UpdateExisting {
		return idx, nil
	}
	routines, err := u.api.Routines(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range routines {
		idx.byID[r.ID] = true
		if _, dup := idx.byTitle[r.Title]; !dup {
			idx.byTitle[r.Title] = r.ID
		}
	}
	return idx, nil
}

func (u *Uploader) submit(ctx context.Context, program string, r *builder.Routine, existing *routineIndex) (Result, error) {
	req := r.Request
	res := Result{Day: r.Day, Title: req.Title, Exercises: len(req.Exercises)}

	hash, err := HashRequest(req)
	if err != nil {
		return res, fmt.Errorf("hashing request: %w", err)
	}

	var prior *Submission
	if u.state != nil {
		sub, ok, err := u.state.Lookup(program, r.Day)
		if err != nil {
			u.log.Warn("state lookup failed", "title", req.Title, "error", err)
		} else if ok && (!u.opts.UpdateExisting || existing.byID[sub.RoutineID]) {
			prior = sub
		}
	}

	if prior != nil && prior.Hash == hash {
		u.stats.RoutinesUnchanged++
		res.RoutineID = prior.RoutineID
		res.Action = ActionUnchanged
		u.log.Info("routine unchanged, skipping", "title", req.Title, "id", prior.RoutineID)
		return res, nil
	}

	var target string
	if u.opts.UpdateExisting {
		if prior != nil {
			target = prior.RoutineID
		} else {
			target = existing.byTitle[req.Title]
		}
	}

	var routine *models.Routine
	if target != "" {
		routine, err = u.api.UpdateRoutine(ctx, target, req)
		if err != nil {
			return res, err
		}
		u.stats.RoutinesUpdated++
		res.Action = ActionUpdated
	} else {
		routine, err = u.api.CreateRoutine(ctx, req)
		if err != nil {
			return res, err
		}
		u.stats.RoutinesCreated++
		res.Action = ActionCreated
	}
	res.RoutineID = routine.ID
	u.log.Info("routine "+string(res.Action), "title", req.Title, "id", routine.ID, "exercises", len(req.Exercises))

	if u.state != nil && routine.ID != "" {
		if err := u.state.Record(program, r.Day, req.Title, routine.ID, hash); err != nil {
			u.log.Warn("failed to record submission", "title", req.Title, "error", err)
		}
	}
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
