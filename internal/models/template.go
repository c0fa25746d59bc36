package models

// ExerciseTemplate is one entry of the service's exercise catalog.
type ExerciseTemplate struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Type                  string   `json:"type,omitempty"`
	PrimaryMuscleGroup    string   `json:"primary_muscle_group"`
	SecondaryMuscleGroups []string `json:"secondary_muscle_groups"`
	Equipment             string   `json:"equipment"`
	IsCustom              bool     `json:"is_custom"`
}

// Folder is a routine folder as returned by the API.
type Folder struct {
	ID        int    `json:"id"`
	Index     int    `json:"index"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Routine is a stored routine as returned by the API. Only the fields the
// tool reads are decoded.
type Routine struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	FolderID  *int              `json:"folder_id"`
	UpdatedAt string            `json:"updated_at,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
	Exercises []RoutineExercise `json:"exercises,omitempty"`
}
