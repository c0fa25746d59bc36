// Package catalog holds the exercise template catalog used for matching,
// along with its on-disk snapshot.
package catalog

import (
	"sort"
	"strings"

	"github.com/claude/hevyplan/internal/models"
)

// Entry is a catalog template with its precomputed match keys.
type Entry struct {
	Template   models.ExerciseTemplate
	Normalized string
	Tokens     []string
}

// Catalog is an immutable, indexed set of exercise templates. A nil *Catalog
// is valid and empty.
type Catalog struct {
	entries []Entry
	byID    map[string]int
	byTitle map[string][]int
}

// New indexes templates. Templates without an id are ignored; for duplicate
// ids the first one wins.
func New(templates []models.ExerciseTemplate) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(templates)),
		byID:    make(map[string]int, len(templates)),
		byTitle: make(map[string][]int, len(templates)),
	}
	for _, t := range templates {
		if t.ID == "" {
			continue
		}
		key := strings.ToUpper(t.ID)
		if _, dup := c.byID[key]; dup {
			continue
		}
		norm := Normalize(t.Title)
		c.entries = append(c.entries, Entry{Template: t, Normalized: norm, Tokens: Tokens(t.Title)})
		idx := len(c.entries) - 1
		c.byID[key] = idx
		c.byTitle[norm] = append(c.byTitle[norm], idx)
	}
	for _, idxs := range c.byTitle {
		sort.SliceStable(idxs, func(i, j int) bool {
			return Preferred(&c.entries[idxs[i]], &c.entries[idxs[j]])
		})
	}
	return c
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the indexed entries. Callers must not modify them.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Templates returns a copy of all templates in catalog order.
func (c *Catalog) Templates() []models.ExerciseTemplate {
	out := make([]models.ExerciseTemplate, 0, c.Len())
	for _, e := range c.Entries() {
		out = append(out, e.Template)
	}
	return out
}

// Lookup finds a template by id, ignoring case.
func (c *Catalog) Lookup(id string) (models.ExerciseTemplate, bool) {
	if c == nil {
		return models.ExerciseTemplate{}, false
	}
	idx, ok := c.byID[strings.ToUpper(id)]
	if !ok {
		return models.ExerciseTemplate{}, false
	}
	return c.entries[idx].Template, true
}

// ByTitle finds the preferred template whose normalized title equals name
// after normalization.
func (c *Catalog) ByTitle(name string) (models.ExerciseTemplate, bool) {
	if c == nil {
		return models.ExerciseTemplate{}, false
	}
	idxs := c.byTitle[Normalize(name)]
	if len(idxs) == 0 {
		return models.ExerciseTemplate{}, false
	}
	return c.entries[idxs[0]].Template, true
}

// searchFloor is the lowest fuzzy score Search will return.
const searchFloor = 50

// Search ranks templates against query: exact title first, then titles
// containing the query, then fuzzy candidates. limit <= 0 means no limit.
func (c *Catalog) Search(query string, limit int) []models.ExerciseTemplate {
	norm := Normalize(query)
	if norm == "" {
		return nil
	}
	qTokens := Tokens(query)

	type hit struct {
		entry *Entry
		score int
	}
	var hits []hit
	for i := range c.Entries() {
		e := &c.entries[i]
		var score int
		switch {
		case e.Normalized == norm:
			score = 1000
		case strings.Contains(e.Normalized, norm):
			score = 500 + Similarity(qTokens, e.Tokens)
		default:
			score = Similarity(qTokens, e.Tokens)
			if score < searchFloor {
				continue
			}
		}
		hits = append(hits, hit{entry: e, score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return Preferred(hits[i].entry, hits[j].entry)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]models.ExerciseTemplate, len(hits))
	for i, h := range hits {
		out[i] = h.entry.Template
	}
	return out
}

// Alternatives lists templates that could stand in for an unmatched entry:
// those whose primary muscle group equals category, or whose title contains
// name. Results keep catalog order.
func (c *Catalog) Alternatives(name, category string, limit int) []models.ExerciseTemplate {
	name = Normalize(name)
	category = Normalize(category)
	var out []models.ExerciseTemplate
	for _, e := range c.Entries() {
		byGroup := category != "" && Normalize(e.Template.PrimaryMuscleGroup) == category
		byTitle := name != "" && strings.Contains(e.Normalized, name)
		if !byGroup && !byTitle {
			continue
		}
		out = append(out, e.Template)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
