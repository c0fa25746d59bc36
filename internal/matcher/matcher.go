// Package matcher resolves authored exercise names and ids to catalog
// templates.
package matcher

import (
	"strings"

	"github.com/google/uuid"

	"github.com/claude/hevyplan/internal/catalog"
	"github.com/claude/hevyplan/internal/models"
)

// DefaultThreshold is the lowest fuzzy score accepted as a match.
const DefaultThreshold = 70

// Reason says how a match was made.
type Reason string

const (
	ExactID   Reason = "exact_id"
	ExactName Reason = "exact_name"
	FuzzyName Reason = "fuzzy_name"
	Unmatched Reason = "unmatched"
)

// Result is the outcome of resolving one exercise entry.
type Result struct {
	// TemplateID is the id to submit. Empty when unmatched.
	TemplateID string `json:"template_id,omitempty"`
	// Template is the matched catalog template; nil for unmatched results and
	// for ids trusted without a catalog entry.
	Template   *models.ExerciseTemplate `json:"template,omitempty"`
	Confidence int                      `json:"confidence"`
	Reason     Reason                   `json:"reason"`
	// Unverified is set when a well-formed id was accepted without being
	// found in the catalog.
	Unverified bool `json:"unverified,omitempty"`
	// MalformedID holds a supplied id that failed the format check.
	MalformedID string `json:"malformed_id,omitempty"`
	// Suggestion is the best candidate below the threshold. It is never used
	// for submission.
	Suggestion *models.ExerciseTemplate `json:"suggestion,omitempty"`
	// SuggestionScore is the fuzzy score of Suggestion.
	SuggestionScore int `json:"suggestion_score,omitempty"`
}

// Matched reports whether the result can be submitted.
func (r Result) Matched() bool { return r.Reason != Unmatched }

// Matcher resolves entries against one catalog. It holds no mutable state and
// is safe for concurrent use.
type Matcher struct {
	catalog   *catalog.Catalog
	threshold int
	trustIDs  bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the minimum fuzzy score. Values outside 0..100 are
// ignored.
func WithThreshold(n int) Option {
	return func(m *Matcher) {
		if n >= 0 && n <= 100 {
			m.threshold = n
		}
	}
}

// WithIDOnlyTrust lets well-formed ids through when no catalog is available.
func WithIDOnlyTrust(trust bool) Option {
	return func(m *Matcher) { m.trustIDs = trust }
}

// New returns a Matcher over cat. cat may be nil when the catalog could not be
// loaded.
func New(cat *catalog.Catalog, opts ...Option) *Matcher {
	m := &Matcher{catalog: cat, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog the matcher resolves against.
func (m *Matcher) Catalog() *catalog.Catalog { return m.catalog }

// CatalogAvailable reports whether a catalog was supplied.
func (m *Matcher) CatalogAvailable() bool { return m.catalog != nil }

// TrustsIDs reports whether the matcher runs in id-only mode without a
// catalog.
func (m *Matcher) TrustsIDs() bool { return m.trustIDs }

// Threshold returns the minimum fuzzy score.
func (m *Matcher) Threshold() int { return m.threshold }

// ValidID reports whether id has the shape of a template id: eight hex
// digits, or a 36-character 8-4-4-4-12 UUID.
func ValidID(id string) bool {
	switch len(id) {
	case 8:
		for _, r := range id {
			if !isHex(r) {
				return false
			}
		}
		return true
	case 36:
		if strings.Count(id, "-") != 4 {
			return false
		}
		_, err := uuid.Parse(id)
		return err == nil
	}
	return false
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Resolve matches one entry. The checks run in order: a well-formed id, an
// exact normalized name, then the best fuzzy candidate at or above the
// threshold. A malformed id is recorded and matching continues by name.
func (m *Matcher) Resolve(entry models.ExerciseEntry) Result {
	var malformed string
	if id := strings.TrimSpace(entry.ExerciseTemplateID); id != "" {
		if ValidID(id) {
			return m.resolveID(id)
		}
		malformed = id
	}

	res := m.resolveName(entry.Name)
	res.MalformedID = malformed
	return res
}

func (m *Matcher) resolveID(id string) Result {
	if t, ok := m.catalog.Lookup(id); ok {
		return Result{TemplateID: t.ID, Template: &t, Confidence: 100, Reason: ExactID}
	}
	if m.catalog == nil && !m.trustIDs {
		return Result{Reason: Unmatched}
	}
	// A well-formed id missing from the catalog is accepted as authored.
	return Result{TemplateID: id, Confidence: 100, Reason: ExactID, Unverified: true}
}

func (m *Matcher) resolveName(name string) Result {
	if m.catalog == nil || strings.TrimSpace(name) == "" {
		return Result{Reason: Unmatched}
	}
	if t, ok := m.catalog.ByTitle(name); ok {
		return Result{TemplateID: t.ID, Template: &t, Confidence: 100, Reason: ExactName}
	}

	best, score := m.bestCandidate(name)
	if best == nil {
		return Result{Reason: Unmatched}
	}
	t := best.Template
	if score >= m.threshold {
		return Result{TemplateID: t.ID, Template: &t, Confidence: score, Reason: FuzzyName}
	}
	return Result{Reason: Unmatched, Suggestion: &t, SuggestionScore: score}
}

// bestCandidate returns the highest scoring entry, breaking ties toward the
// shorter and then lexically smaller title. Zero scores never qualify.
func (m *Matcher) bestCandidate(name string) (*catalog.Entry, int) {
	tokens := catalog.Tokens(name)
	var best *catalog.Entry
	bestScore := 0
	entries := m.catalog.Entries()
	for i := range entries {
		e := &entries[i]
		score := catalog.Similarity(tokens, e.Tokens)
		if score == 0 {
			continue
		}
		if best == nil || score > bestScore || (score == bestScore && catalog.Preferred(e, best)) {
			best, bestScore = e, score
		}
	}
	return best, bestScore
}
