// Package builder turns a validated day into the routine request submitted to
// the service.
package builder

import (
	"strings"

	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
)

// DefaultRestSeconds applies to standalone exercises without rest_seconds.
// Superset and circuit members default to no rest.
const DefaultRestSeconds = 60

// Options holds the run-level settings that shape every routine.
type Options struct {
	// TitlePrefix, when set, is joined with the day name as "prefix - day".
	TitlePrefix string
	// Notes is used when a day has no description.
	Notes string
	// FolderID places the routine in a folder.
	FolderID *int
}

// Routine is a built routine request with the authored name behind each of
// its exercises and the names that were dropped as unmatched.
type Routine struct {
	Day     int                   `json:"day"`
	Request models.RoutineRequest `json:"request"`
	Names   []string              `json:"names"`
	Dropped []string              `json:"dropped,omitempty"`
}

// Build maps one day to a routine request using the match table produced by
// validation. Unmatched entries are left out and reported in Dropped. Each
// superset gets one group id; each circuit round gets its own. Group ids are
// numbered from 1 within the routine.
func Build(day models.Day, matches map[models.EntryKey]matcher.Result, opts Options) *Routine {
	b := &routineBuilder{matches: matches, exercises: []models.RoutineExercise{}}
	for i, block := range day.Exercises {
		switch block.Kind {
		case models.BlockSuperset:
			if block.Superset != nil {
				b.superset(i, block.Superset)
			}
		case models.BlockCircuit:
			if block.Circuit != nil {
				b.circuit(i, block.Circuit)
			}
		default:
			if block.Exercise != nil {
				b.single(i, *block.Exercise)
			}
		}
	}

	title := day.Title()
	if prefix := strings.TrimSpace(opts.TitlePrefix); prefix != "" {
		title = prefix + " - " + title
	}
	notes := strings.TrimSpace(day.Description)
	if notes == "" {
		notes = opts.Notes
	}

	return &Routine{
		Day: day.Number(),
		Request: models.RoutineRequest{
			Title:     title,
			FolderID:  opts.FolderID,
			Notes:     notes,
			Exercises: b.exercises,
		},
		Names:   b.names,
		Dropped: b.dropped,
	}
}

type routineBuilder struct {
	matches   map[models.EntryKey]matcher.Result
	exercises []models.RoutineExercise
	names     []string
	dropped   []string
	lastGroup int
}

func (b *routineBuilder) nextGroup() int {
	b.lastGroup++
	return b.lastGroup
}

// lookup returns the template id for an entry, recording it as dropped when
// it has none. record is false on repeated circuit rounds so a name is only
// dropped once.
func (b *routineBuilder) lookup(key models.EntryKey, e models.ExerciseEntry, record bool) (string, bool) {
	res, ok := b.matches[key]
	if ok && res.Matched() && res.TemplateID != "" {
		return res.TemplateID, true
	}
	if record {
		b.dropped = append(b.dropped, e.Name)
	}
	return "", false
}

func (b *routineBuilder) single(block int, e models.ExerciseEntry) {
	id, ok := b.lookup(models.EntryKey{Block: block}, e, true)
	if !ok {
		return
	}
	b.add(id, e, nil, restFor(e, DefaultRestSeconds, 0))
}

func (b *routineBuilder) superset(block int, s *models.SupersetBlock) {
	group := 0
	for j, e := range s.Exercises {
		id, ok := b.lookup(models.EntryKey{Block: block, Member: j}, e, true)
		if !ok {
			continue
		}
		if group == 0 {
			group = b.nextGroup()
		}
		b.add(id, e, &group, restFor(e, 0, s.RestBetweenExercises))
	}
}

func (b *routineBuilder) circuit(block int, c *models.CircuitBlock) {
	for round := range c.RoundCount() {
		group := 0
		for j, e := range c.Exercises {
			id, ok := b.lookup(models.EntryKey{Block: block, Member: j}, e, round == 0)
			if !ok {
				continue
			}
			if group == 0 {
				group = b.nextGroup()
			}
			b.add(id, e, &group, restFor(e, 0, c.RestBetweenExercises))
		}
		if group != 0 && c.RestBetweenRounds > 0 {
			b.exercises[len(b.exercises)-1].RestSeconds = c.RestBetweenRounds
		}
	}
}

// restFor picks the rest after an exercise: a positive block override, then
// the entry's own value, then the default.
func restFor(e models.ExerciseEntry, def, override int) int {
	switch {
	case override > 0:
		return override
	case e.RestSeconds != nil:
		return *e.RestSeconds
	default:
		return def
	}
}

func (b *routineBuilder) add(id string, e models.ExerciseEntry, group *int, rest int) {
	var supersetID *int
	if group != nil {
		g := *group
		supersetID = &g
	}
	b.exercises = append(b.exercises, models.RoutineExercise{
		ExerciseTemplateID: id,
		SupersetID:         supersetID,
		RestSeconds:        rest,
		Notes:              e.Notes,
		Sets:               buildSets(e),
	})
	b.names = append(b.names, e.Name)
}

func buildSets(e models.ExerciseEntry) []models.RoutineSet {
	if len(e.DetailedSets) > 0 {
		sets := make([]models.RoutineSet, len(e.DetailedSets))
		for i, d := range e.DetailedSets {
			typ := d.Type
			if typ == "" {
				typ = models.SetNormal
			}
			sets[i] = models.RoutineSet{
				Type:            typ,
				Reps:            d.Reps,
				WeightKg:        copyFloat(d.WeightKg),
				DistanceMeters:  copyFloat(d.DistanceMeters),
				DurationSeconds: d.DurationSeconds,
			}
		}
		return sets
	}

	n := e.SetCount()
	if n < 1 {
		n = 1
	}
	sets := make([]models.RoutineSet, n)
	for i := range sets {
		sets[i] = models.RoutineSet{
			Type:     models.SetNormal,
			Reps:     e.Reps,
			WeightKg: copyFloat(e.WeightKg),
		}
	}
	return sets
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
