package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/catalog"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
)

// fakeAPI records calls and keeps routines in memory.
type fakeAPI struct {
	folders  []models.Folder
	routines []models.Routine
	created  []models.RoutineRequest
	updated  map[string]models.RoutineRequest
	nextID   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updated: map[string]models.RoutineRequest{}}
}

func (f *fakeAPI) Folders(ctx context.Context) ([]models.Folder, error) { return f.folders, nil }

func (f *fakeAPI) CreateFolder(ctx context.Context, title string) (*models.Folder, error) {
	folder := models.Folder{ID: 100 + len(f.folders), Title: title}
	f.folders = append(f.folders, folder)
	return &folder, nil
}

func (f *fakeAPI) Routines(ctx context.Context) ([]models.Routine, error) { return f.routines, nil }

func (f *fakeAPI) CreateRoutine(ctx context.Context, req models.RoutineRequest) (*models.Routine, error) {
	f.nextID++
	r := models.Routine{ID: fmt.Sprintf("r-%d", f.nextID), Title: req.Title, FolderID: req.FolderID}
	f.created = append(f.created, req)
	f.routines = append(f.routines, r)
	return &r, nil
}

func (f *fakeAPI) UpdateRoutine(ctx context.Context, id string, req models.RoutineRequest) (*models.Routine, error) {
	f.updated[id] = req
	return &models.Routine{ID: id, Title: req.Title}, nil
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testMatcher() *matcher.Matcher {
	return matcher.New(catalog.New([]models.ExerciseTemplate{
		{ID: "79D0BB3A", Title: "Bench Press (Barbell)"},
		{ID: "D04AC939", Title: "Squat (Barbell)"},
	}))
}

func parseDoc(t *testing.T, reps int) *models.ProgramDocument {
	t.Helper()
	doc, err := models.ParseProgram([]byte(fmt.Sprintf(`{"program_name": "Strength", "days": [
		{"day": 1, "name": "Push", "exercises": [{"name": "Bench Press (Barbell)", "sets": 3, "reps": %d}]},
		{"day": 2, "name": "Legs", "exercises": [{"name": "Squat (Barbell)", "sets": 3, "reps": 5}, {"name": "Sled Push"}]}
	]}`, reps)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// TestBuildPlanRejected verifies that a fatal report stops before building.
func TestBuildPlanRejected(t *testing.T) {
	doc := &models.ProgramDocument{ProgramName: "Empty"}
	plan := BuildPlan(doc, testMatcher(), builder.Options{})
	if plan.Stage != StageRejected || len(plan.Routines) != 0 {
		t.Fatalf("plan = %+v", plan)
	}
}

// TestRunRejectedDoesNotSubmit verifies that a rejected program never reaches
// the API.
func TestRunRejectedDoesNotSubmit(t *testing.T) {
	api := newFakeAPI()
	u := New(api, nil, testMatcher(), Options{}, testLogger())
	doc := &models.ProgramDocument{ProgramName: "Empty"}

	_, _, err := u.Run(context.Background(), doc)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
	if len(api.folders) != 0 || len(api.created) != 0 {
		t.Error("rejected program touched the API")
	}
}

// TestRunDryRun verifies that a dry run reports every routine without an API.
func TestRunDryRun(t *testing.T) {
	u := New(nil, nil, testMatcher(), Options{DryRun: true}, testLogger())
	plan, stats, err := u.Run(context.Background(), parseDoc(t, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Stage != StageBuilt || stats.RoutinesBuilt != 2 || len(stats.Results) != 2 {
		t.Fatalf("stage %s, stats %+v", plan.Stage, stats)
	}
	if stats.Results[0].Action != ActionDryRun || stats.FolderTitle != "Strength" {
		t.Errorf("results = %+v, folder %q", stats.Results, stats.FolderTitle)
	}
	if len(stats.Dropped) != 1 || stats.Dropped[0] != "Sled Push" || stats.Warnings != 1 {
		t.Errorf("dropped = %v, warnings = %d", stats.Dropped, stats.Warnings)
	}
}

// TestRunCreatesThenSkipsThenUpdates verifies folder creation, the
// submission ledger skipping an unchanged program, and a changed program
// updating the routine recorded for that day.
func TestRunCreatesThenSkipsThenUpdates(t *testing.T) {
	api := newFakeAPI()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	opts := Options{UpdateExisting: true, Notes: "n"}
	ctx := context.Background()

	plan, stats, err := New(api, state, testMatcher(), opts, testLogger()).Run(ctx, parseDoc(t, 5))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if plan.Stage != StageSubmitted || stats.RoutinesCreated != 2 || !stats.FolderCreated {
		t.Fatalf("first run stats = %+v", stats)
	}
	if api.created[0].FolderID == nil || *api.created[0].FolderID != 100 {
		t.Errorf("routine not placed in folder: %v", api.created[0].FolderID)
	}

	_, stats, err = New(api, state, testMatcher(), opts, testLogger()).Run(ctx, parseDoc(t, 5))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.RoutinesUnchanged != 2 || stats.RoutinesCreated != 0 || stats.FolderCreated {
		t.Fatalf("second run stats = %+v", stats)
	}

	_, stats, err = New(api, state, testMatcher(), opts, testLogger()).Run(ctx, parseDoc(t, 8))
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if stats.RoutinesUpdated != 1 || stats.RoutinesUnchanged != 1 {
		t.Fatalf("third run stats = %+v", stats)
	}
	if _, ok := api.updated["r-1"]; !ok {
		t.Errorf("expected r-1 to be updated, got %v", api.updated)
	}
}

// TestRunUpdatesByTitle verifies that an existing routine with the same title
// is updated when no ledger is available.
func TestRunUpdatesByTitle(t *testing.T) {
	api := newFakeAPI()
	api.folders = []models.Folder{{ID: 7, Title: "Strength"}}
	api.routines = []models.Routine{{ID: "old-push", Title: "Push"}}

	_, stats, err := New(api, nil, testMatcher(), Options{UpdateExisting: true}, testLogger()).Run(context.Background(), parseDoc(t, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FolderCreated || *stats.FolderID != 7 {
		t.Errorf("folder = %v created %v, want existing 7", *stats.FolderID, stats.FolderCreated)
	}
	if stats.RoutinesUpdated != 1 || stats.RoutinesCreated != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, ok := api.updated["old-push"]; !ok {
		t.Error("expected old-push to be updated")
	}
}

// TestRunWithoutUpdate verifies that update_existing=false always creates.
func TestRunWithoutUpdate(t *testing.T) {
	api := newFakeAPI()
	api.routines = []models.Routine{{ID: "old-push", Title: "Push"}}

	_, stats, err := New(api, nil, testMatcher(), Options{Folder: "Block A"}, testLogger()).Run(context.Background(), parseDoc(t, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.RoutinesCreated != 2 || len(api.updated) != 0 {
		t.Fatalf("stats = %+v, updated = %v", stats, api.updated)
	}
	if stats.FolderTitle != "Block A" {
		t.Errorf("folder = %q", stats.FolderTitle)
	}
}

// TestHashRequestIgnoresFolder verifies that moving a routine between folders
// does not count as a change.
func TestHashRequestIgnoresFolder(t *testing.T) {
	a, b := 1, 2
	h1, err := HashRequest(models.RoutineRequest{Title: "Push", FolderID: &a})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashRequest(models.RoutineRequest{Title: "Push", FolderID: &b})
	h3, _ := HashRequest(models.RoutineRequest{Title: "Pull", FolderID: &a})
	if h1 != h2 {
		t.Error("folder changed the hash")
	}
	if h1 == h3 {
		t.Error("title did not change the hash")
	}
}

// TestStateLedger verifies record, lookup and forget on the sqlite ledger.
func TestStateLedger(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := state.Lookup("P", 1); err != nil || ok {
		t.Fatalf("empty lookup = %v, %v", ok, err)
	}
	if err := state.Record("P", 1, "Push", "r-1", "abc"); err != nil {
		t.Fatal(err)
	}
	sub, ok, err := state.Lookup("P", 1)
	if err != nil || !ok || sub.RoutineID != "r-1" || sub.Hash != "abc" {
		t.Fatalf("lookup = %+v, %v, %v", sub, ok, err)
	}
	if err := state.Forget("r-1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := state.Lookup("P", 1); ok {
		t.Error("forgotten row still present")
	}
	state.Close()

	// Reopening applies no new migrations and keeps working.
	again, err := OpenStateDB(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.Close()
}
