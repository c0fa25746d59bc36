package models

// SetType is the kind of a routine set.
type SetType string

const (
	SetNormal  SetType = "normal"
	SetWarmup  SetType = "warmup"
	SetDropset SetType = "dropset"
	SetFailure SetType = "failure"
)

// Valid reports whether t is a set type the service accepts.
func (t SetType) Valid() bool {
	switch t {
	case SetNormal, SetWarmup, SetDropset, SetFailure:
		return true
	}
	return false
}

// RoutineRequest is the body submitted to create or update one routine.
type RoutineRequest struct {
	Title     string            `json:"title"`
	FolderID  *int              `json:"folder_id,omitempty"`
	Notes     string            `json:"notes"`
	Exercises []RoutineExercise `json:"exercises"`
}

// RoutineExercise is one exercise of a routine request. Exercises sharing a
// SupersetID are performed as a group.
type RoutineExercise struct {
	ExerciseTemplateID string       `json:"exercise_template_id"`
	SupersetID         *int         `json:"superset_id"`
	RestSeconds        int          `json:"rest_seconds"`
	Notes              string       `json:"notes"`
	Sets               []RoutineSet `json:"sets"`
}

// RoutineSet is a single set. Reps is passed through as authored.
type RoutineSet struct {
	Type            SetType  `json:"type"`
	Reps            Reps     `json:"reps"`
	WeightKg        *float64 `json:"weight_kg"`
	DistanceMeters  *float64 `json:"distance_meters"`
	DurationSeconds *int     `json:"duration_seconds"`
	CustomMetric    *float64 `json:"custom_metric"`
}
