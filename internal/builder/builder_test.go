package builder

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/claude/hevyplan/internal/catalog"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/validate"
)

func buildDay(t *testing.T, doc string, opts Options) *Routine {
	t.Helper()
	d, err := models.ParseProgram([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	m := matcher.New(catalog.New([]models.ExerciseTemplate{
		{ID: "79D0BB3A", Title: "Bench Press (Barbell)"},
		{ID: "D04AC939", Title: "Squat (Barbell)"},
		{ID: "A1B2C3D4", Title: "Plank"},
		{ID: "B2C3D4E5", Title: "Crunch"},
		{ID: "C3D4E5F6", Title: "Bicep Curl (Dumbbell)"},
		{ID: "D4E5F6A7", Title: "Triceps Pushdown"},
	}))
	r := validate.Validate(d, m)
	if len(r.Days) != 1 {
		t.Fatalf("days = %d", len(r.Days))
	}
	return Build(r.Days[0].Day, r.Days[0].Matches, opts)
}

func groupOf(e models.RoutineExercise) int {
	if e.SupersetID == nil {
		return 0
	}
	return *e.SupersetID
}

// TestBuildSingle verifies the flat entry mapping, the default rest and the
// pass-through of reps.
func TestBuildSingle(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "Push", "exercises": [
		{"name": "Bench Press (Barbell)", "sets": 3, "reps": 8, "notes": "pause"},
		{"name": "Plank", "sets": 2, "reps": "30 seconds", "rest_seconds": 45}
	]}]}`, Options{Notes: "default notes"})

	req := r.Request
	if req.Title != "Push" || req.Notes != "default notes" {
		t.Errorf("title/notes = %q / %q", req.Title, req.Notes)
	}
	if len(req.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(req.Exercises))
	}
	bench := req.Exercises[0]
	if bench.ExerciseTemplateID != "79D0BB3A" || bench.SupersetID != nil || bench.RestSeconds != 60 || bench.Notes != "pause" {
		t.Errorf("bench = %+v", bench)
	}
	if len(bench.Sets) != 3 || bench.Sets[0].Reps.Count != 8 || bench.Sets[0].Type != models.SetNormal {
		t.Errorf("bench sets = %+v", bench.Sets)
	}
	plank := req.Exercises[1]
	if plank.RestSeconds != 45 || plank.Sets[0].Reps.Text != "30 seconds" {
		t.Errorf("plank = %+v", plank)
	}
}

// TestBuildSuperset verifies that all superset members share one fresh group.
func TestBuildSuperset(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "Arms", "exercises": [
		{"name": "Bench Press (Barbell)"},
		{"superset": [{"name": "Bicep Curl (Dumbbell)", "sets": 3, "reps": 12}, {"name": "Triceps Pushdown", "sets": 3, "reps": 12}]},
		{"superset": [{"name": "Plank"}, {"name": "Crunch"}]}
	]}]}`, Options{})

	ex := r.Request.Exercises
	if len(ex) != 5 {
		t.Fatalf("exercises = %d, want 5", len(ex))
	}
	if groupOf(ex[0]) != 0 {
		t.Errorf("standalone exercise has group %d", groupOf(ex[0]))
	}
	if groupOf(ex[1]) != 1 || groupOf(ex[2]) != 1 {
		t.Errorf("first superset groups = %d, %d", groupOf(ex[1]), groupOf(ex[2]))
	}
	if groupOf(ex[3]) != 2 || groupOf(ex[4]) != 2 {
		t.Errorf("second superset groups = %d, %d", groupOf(ex[3]), groupOf(ex[4]))
	}
	if ex[1].RestSeconds != 0 {
		t.Errorf("superset member rest = %d, want 0", ex[1].RestSeconds)
	}
}

// TestBuildCircuitRounds verifies that a circuit expands into one group per
// round in authored order.
func TestBuildCircuitRounds(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "Core", "exercises": [
		{"circuit": {"rounds": 3, "rest_between_rounds": 90, "exercises": [
			{"name": "Plank", "reps": "30 seconds"},
			{"name": "Crunch", "reps": 20}
		]}}
	]}]}`, Options{})

	ex := r.Request.Exercises
	if len(ex) != 6 {
		t.Fatalf("exercises = %d, want 6", len(ex))
	}
	for i, e := range ex {
		wantGroup := i/2 + 1
		wantID := "A1B2C3D4"
		wantRest := 0
		if i%2 == 1 {
			wantID = "B2C3D4E5"
			wantRest = 90
		}
		if groupOf(e) != wantGroup || e.ExerciseTemplateID != wantID || e.RestSeconds != wantRest {
			t.Errorf("exercise %d = id %s group %d rest %d, want %s %d %d",
				i, e.ExerciseTemplateID, groupOf(e), e.RestSeconds, wantID, wantGroup, wantRest)
		}
	}
}

// TestBuildDropsUnmatched verifies that unmatched entries are left out and
// named once, even inside a multi-round circuit.
func TestBuildDropsUnmatched(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "Mixed", "exercises": [
		{"name": "Zercher Carry"},
		{"circuit": {"rounds": 2, "exercises": [{"name": "Plank"}, {"name": "Sled Push"}]}}
	]}]}`, Options{})

	if got := strings.Join(r.Dropped, ","); got != "Zercher Carry,Sled Push" {
		t.Errorf("dropped = %q", got)
	}
	if len(r.Request.Exercises) != 2 || len(r.Names) != 2 {
		t.Fatalf("exercises = %d, names = %d, want 2", len(r.Request.Exercises), len(r.Names))
	}
	if groupOf(r.Request.Exercises[0]) == groupOf(r.Request.Exercises[1]) {
		t.Error("circuit rounds should not share a group")
	}
}

// TestBuildTitleAndFolder verifies the title prefix, description notes and
// folder placement.
func TestBuildTitleAndFolder(t *testing.T) {
	folder := 42
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 2, "name": "Legs", "description": "heavy day", "exercises": [
		{"name": "Squat (Barbell)", "weight_kg": 100}
	]}]}`, Options{TitlePrefix: "Block 1", Notes: "ignored", FolderID: &folder})

	if r.Request.Title != "Block 1 - Legs" || r.Request.Notes != "heavy day" {
		t.Errorf("title/notes = %q / %q", r.Request.Title, r.Request.Notes)
	}
	if r.Request.FolderID == nil || *r.Request.FolderID != 42 || r.Day != 2 {
		t.Errorf("folder = %v, day = %d", r.Request.FolderID, r.Day)
	}
	if w := r.Request.Exercises[0].Sets[0].WeightKg; w == nil || *w != 100 {
		t.Errorf("weight = %v", w)
	}
}

// TestBuildDetailedSets verifies that explicit sets replace the sets x reps
// expansion.
func TestBuildDetailedSets(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "A", "exercises": [
		{"name": "Squat (Barbell)", "sets": 5, "detailed_sets": [
			{"type": "warmup", "reps": 10, "weight_kg": 60},
			{"reps": 5, "weight_kg": 120}
		]}
	]}]}`, Options{})

	sets := r.Request.Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	if sets[0].Type != models.SetWarmup || sets[1].Type != models.SetNormal || *sets[1].WeightKg != 120 {
		t.Errorf("sets = %+v", sets)
	}
}

// TestBuildRequestShape verifies the outbound JSON field names and nulls.
func TestBuildRequestShape(t *testing.T) {
	r := buildDay(t, `{"program_name": "P", "days": [{"day": 1, "name": "A", "exercises": [
		{"name": "Plank", "reps": "30 seconds"}
	]}]}`, Options{})

	data, err := json.Marshal(r.Request)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"A","notes":"","exercises":[{"exercise_template_id":"A1B2C3D4","superset_id":null,"rest_seconds":60,"notes":"",` +
		`"sets":[{"type":"normal","reps":"30 seconds","weight_kg":null,"distance_meters":null,"duration_seconds":null,"custom_metric":null}]}]}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}
