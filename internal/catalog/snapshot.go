package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/hevyplan/internal/models"
)

// DefaultMaxAge is how long a snapshot is used before it should be refetched.
const DefaultMaxAge = 30 * 24 * time.Hour

// ErrNotFound is returned when no snapshot exists at the given path.
var ErrNotFound = errors.New("catalog snapshot not found")

// Metadata describes when a snapshot was taken.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
	Count       int    `json:"count"`
}

// snapshot timestamps are written as RFC 3339; older files may carry a naive
// ISO timestamp without a zone, which is read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Updated parses LastUpdated.
func (m Metadata) Updated() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, m.LastUpdated, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Snapshot is the on-disk catalog file.
type Snapshot struct {
	Metadata  Metadata                  `json:"metadata"`
	Templates []models.ExerciseTemplate `json:"templates"`
}

// ReadSnapshot reads the snapshot file at path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading catalog snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing catalog snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Load reads the snapshot at path and indexes it.
func Load(path string) (*Catalog, Metadata, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return nil, Metadata{}, err
	}
	return New(snap.Templates), snap.Metadata, nil
}

// Save writes templates to path as a snapshot stamped with now. The file is
// written to a temporary name and renamed into place.
func Save(path string, templates []models.ExerciseTemplate, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}
	snap := Snapshot{
		Metadata:  Metadata{LastUpdated: now.Format(time.RFC3339), Count: len(templates)},
		Templates: templates,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing catalog snapshot: %w", err)
	}
	return nil
}

// Age returns how old the snapshot at path is. ok is false when the file is
// missing, unreadable or carries no usable timestamp.
func Age(path string, now time.Time) (age time.Duration, ok bool) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return 0, false
	}
	updated, ok := snap.Metadata.Updated()
	if !ok {
		return 0, false
	}
	return now.Sub(updated), true
}

// NeedsRefresh reports whether the snapshot at path is missing, unreadable or
// at least maxAge old.
func NeedsRefresh(path string, maxAge time.Duration, now time.Time) bool {
	age, ok := Age(path, now)
	return !ok || age >= maxAge
}
