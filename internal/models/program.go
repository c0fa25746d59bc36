package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProgramDocument is a user-authored training program: one or more days,
// each becoming one routine.
type ProgramDocument struct {
	ProgramName        string `json:"program_name"`
	ProgramDescription string `json:"program_description,omitempty"`
	Days               []Day  `json:"days"`
}

// Day is one workout session in a program.
type Day struct {
	Day             *int    `json:"day"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Exercises       []Block `json:"exercises"`
}

// Number returns the day number, or 0 when it was not given.
func (d Day) Number() int {
	if d.Day == nil {
		return 0
	}
	return *d.Day
}

// Title returns the day name, falling back to "Day N".
func (d Day) Title() string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}
	if n := d.Number(); n > 0 {
		return fmt.Sprintf("Day %d", n)
	}
	return "Day"
}

// ExerciseEntry is a single prescribed exercise.
type ExerciseEntry struct {
	Name               string        `json:"name"`
	Category           string        `json:"category,omitempty"`
	ExerciseTemplateID string        `json:"exercise_template_id,omitempty"`
	Sets               *int          `json:"sets,omitempty"`
	Reps               Reps          `json:"reps"`
	RestSeconds        *int          `json:"rest_seconds,omitempty"`
	WeightKg           *float64      `json:"weight_kg,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	DetailedSets       []DetailedSet `json:"detailed_sets,omitempty"`
}

// SetCount returns the number of sets, defaulting to 1.
func (e ExerciseEntry) SetCount() int {
	if e.Sets == nil {
		return 1
	}
	return *e.Sets
}

// DetailedSet is an explicit per-set prescription.
type DetailedSet struct {
	Type            SetType  `json:"type,omitempty"`
	Reps            Reps     `json:"reps"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

// SupersetBlock is a group of exercises performed back to back.
type SupersetBlock struct {
	Exercises            []ExerciseEntry `json:"exercises"`
	RestBetweenExercises int             `json:"rest_between_exercises,omitempty"`
}

// CircuitBlock is a group of exercises repeated for a number of rounds.
type CircuitBlock struct {
	Rounds               *int            `json:"rounds,omitempty"`
	Sets                 *int            `json:"sets,omitempty"`
	Exercises            []ExerciseEntry `json:"exercises"`
	RestBetweenExercises int             `json:"rest_between_exercises,omitempty"`
	RestBetweenRounds    int             `json:"rest_between_rounds,omitempty"`
}

// RoundCount returns the number of rounds. The circuit's "sets" key is
// accepted as an alias; without either the circuit runs once.
func (c CircuitBlock) RoundCount() int {
	switch {
	case c.Rounds != nil:
		return *c.Rounds
	case c.Sets != nil:
		return *c.Sets
	default:
		return 1
	}
}

// BlockKind discriminates the variants of Block.
type BlockKind int

const (
	BlockExercise BlockKind = iota
	BlockSuperset
	BlockCircuit
)

func (k BlockKind) String() string {
	switch k {
	case BlockSuperset:
		return "superset"
	case BlockCircuit:
		return "circuit"
	default:
		return "exercise"
	}
}

// Block is one element of a day's exercise list. Exactly one of Exercise,
// Superset and Circuit is set, matching Kind.
type Block struct {
	Kind     BlockKind
	Exercise *ExerciseEntry
	Superset *SupersetBlock
	Circuit  *CircuitBlock
}

// Entries returns the exercise entries of the block in order.
func (b Block) Entries() []ExerciseEntry {
	switch {
	case b.Kind == BlockSuperset && b.Superset != nil:
		return b.Superset.Exercises
	case b.Kind == BlockCircuit && b.Circuit != nil:
		return b.Circuit.Exercises
	case b.Kind == BlockExercise && b.Exercise != nil:
		return []ExerciseEntry{*b.Exercise}
	}
	return nil
}

// UnmarshalJSON decides the block variant once: an object with a "superset"
// key is a superset, one with a "circuit" key is a circuit, anything else is a
// flat exercise entry.
func (b *Block) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("exercise block must be an object: %w", err)
	}
	superset, isSuperset := keys["superset"]
	circuit, isCircuit := keys["circuit"]
	switch {
	case isSuperset && isCircuit:
		return fmt.Errorf("exercise block has both superset and circuit keys")
	case isSuperset:
		var s SupersetBlock
		if err := decodeGroup(superset, &s, &s.Exercises); err != nil {
			return fmt.Errorf("decoding superset: %w", err)
		}
		*b = Block{Kind: BlockSuperset, Superset: &s}
	case isCircuit:
		var c CircuitBlock
		if err := decodeGroup(circuit, &c, &c.Exercises); err != nil {
			return fmt.Errorf("decoding circuit: %w", err)
		}
		*b = Block{Kind: BlockCircuit, Circuit: &c}
	default:
		var e ExerciseEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decoding exercise: %w", err)
		}
		*b = Block{Kind: BlockExercise, Exercise: &e}
	}
	return nil
}

// decodeGroup accepts either the full group object or a bare list of entries.
func decodeGroup(data json.RawMessage, group any, entries *[]ExerciseEntry) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, entries)
	}
	return json.Unmarshal(data, group)
}

func (b Block) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BlockSuperset:
		return json.Marshal(map[string]any{"superset": b.Superset})
	case BlockCircuit:
		return json.Marshal(map[string]any{"circuit": b.Circuit})
	default:
		return json.Marshal(b.Exercise)
	}
}

// EntryKey addresses an exercise entry inside one day: the block index and,
// for supersets and circuits, the member index.
type EntryKey struct {
	Block  int
	Member int
}

func (k EntryKey) String() string {
	return fmt.Sprintf("exercises[%d].%d", k.Block, k.Member)
}

// ParseProgram decodes a program document. Only malformed JSON and
// undecidable blocks fail here; everything else is left to validation.
func ParseProgram(data []byte) (*ProgramDocument, error) {
	var doc ProgramDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	return &doc, nil
}
