package models

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleProgram = `{
  "program_name": "Upper Lower",
  "days": [
    {
      "day": 1,
      "name": "Upper",
      "exercises": [
        {"name": "Bench Press (Barbell)", "exercise_template_id": "79D0BB3A", "sets": 3, "reps": 8},
        {"superset": [
          {"name": "Bicep Curl (Dumbbell)", "sets": 3, "reps": 12},
          {"name": "Triceps Pushdown", "sets": 3, "reps": "12-15"}
        ]},
        {"circuit": {"rounds": 3, "exercises": [
          {"name": "Plank", "reps": "30 seconds"},
          {"name": "Crunch", "reps": 20}
        ]}}
      ]
    }
  ]
}`

// TestParseProgramBlockKinds verifies that each block variant is decided at
// parse time from the presence of the superset or circuit key.
func TestParseProgramBlockKinds(t *testing.T) {
	doc, err := ParseProgram([]byte(sampleProgram))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ProgramName != "Upper Lower" {
		t.Errorf("program_name = %q", doc.ProgramName)
	}
	if len(doc.Days) != 1 || doc.Days[0].Number() != 1 {
		t.Fatalf("unexpected days: %+v", doc.Days)
	}

	blocks := doc.Days[0].Exercises
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if blocks[0].Kind != BlockExercise || blocks[0].Exercise.ExerciseTemplateID != "79D0BB3A" {
		t.Errorf("block 0 = %+v, want flat exercise", blocks[0])
	}
	if blocks[1].Kind != BlockSuperset || len(blocks[1].Superset.Exercises) != 2 {
		t.Errorf("block 1 = %+v, want superset of 2", blocks[1])
	}
	if blocks[2].Kind != BlockCircuit || blocks[2].Circuit.RoundCount() != 3 {
		t.Errorf("block 2 = %+v, want circuit of 3 rounds", blocks[2])
	}
	if got := blocks[2].Entries()[0].Reps; !got.IsText() || got.Text != "30 seconds" {
		t.Errorf("plank reps = %+v, want text \"30 seconds\"", got)
	}
}

// TestBlockBothKeys verifies that a block claiming to be both a superset and a
// circuit is rejected rather than guessed.
func TestBlockBothKeys(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"superset": [], "circuit": {"exercises": []}}`), &b)
	if err == nil {
		t.Fatal("expected error for ambiguous block")
	}
}

// TestCircuitRoundsFallback verifies the circuit "sets" alias and the
// single-round default.
func TestCircuitRoundsFallback(t *testing.T) {
	var withSets, bare Block
	if err := json.Unmarshal([]byte(`{"circuit": {"sets": 4, "exercises": [{"name": "Burpee"}]}}`), &withSets); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"circuit": [{"name": "Burpee"}]}`), &bare); err != nil {
		t.Fatal(err)
	}
	if got := withSets.Circuit.RoundCount(); got != 4 {
		t.Errorf("rounds via sets = %d, want 4", got)
	}
	if got := bare.Circuit.RoundCount(); got != 1 {
		t.Errorf("rounds default = %d, want 1", got)
	}
}

// TestRepsPassThrough verifies that integer and descriptive reps are encoded
// back exactly as they were authored.
func TestRepsPassThrough(t *testing.T) {
	var set struct {
		A Reps `json:"a"`
		B Reps `json:"b"`
		C Reps `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 10, "b": "30 seconds"}`), &set); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out), `{"a":10,"b":"30 seconds","c":null}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestRepsFractional verifies that a fractional rep count is a decode error.
func TestRepsFractional(t *testing.T) {
	var r Reps
	err := json.Unmarshal([]byte(`8.5`), &r)
	if err == nil || !strings.Contains(err.Error(), "whole number") {
		t.Fatalf("expected whole number error, got %v", err)
	}
}

// TestRepsRange verifies that integer reps decode exactly and that values
// too large for a count are rejected rather than wrapped.
func TestRepsRange(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{`12`, 12, false},
		{`-3`, -3, false},
		{`1e1`, 10, false},
		{`10.0`, 10, false},
		{`2147483647`, 2147483647, false},
		{`2147483648`, 0, true},
		{`1e30`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r Reps
			err := json.Unmarshal([]byte(tt.in), &r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", r)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.IsText() || r.Count != tt.want {
				t.Errorf("reps = %+v, want count %d", r, tt.want)
			}
		})
	}
}

// TestParseProgramHugeReps verifies that an out-of-range count fails the
// whole document.
func TestParseProgramHugeReps(t *testing.T) {
	_, err := ParseProgram([]byte(`{"days": [{"day": 1, "exercises": [{"name": "Plank", "reps": 1e30}]}]}`))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

// TestParseProgramMalformed verifies that broken JSON is reported as an error.
func TestParseProgramMalformed(t *testing.T) {
	if _, err := ParseProgram([]byte(`{"days": [`)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

// TestSetTypeValid verifies the accepted set types.
func TestSetTypeValid(t *testing.T) {
	for _, st := range []SetType{SetNormal, SetWarmup, SetDropset, SetFailure} {
		if !st.Valid() {
			t.Errorf("%q should be valid", st)
		}
	}
	if SetType("drop").Valid() {
		t.Error(`"drop" should not be valid`)
	}
}
