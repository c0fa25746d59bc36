package catalog

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize case-folds s, strips accents and punctuation, and collapses
// whitespace, so "Squat (Barbell)" and "squat  barbell" compare equal.
func Normalize(s string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '’':
			// "Farmer's" and "Farmers" should tokenize the same.
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the distinct normalized tokens of s in first-seen order.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Similarity scores two token sets from 0 to 100 as shared tokens over the
// union of tokens.
func Similarity(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	shared := 0
	union := len(set)
	for _, t := range b {
		if set[t] {
			shared++
		} else {
			union++
		}
	}
	return int(math.Round(float64(shared) * 100 / float64(union)))
}

// Preferred orders two templates for tie-breaking: the shorter title wins as
// the more specific one, then the lexically smaller title, then the id.
func Preferred(a, b *Entry) bool {
	la, lb := utf8.RuneCountInString(a.Template.Title), utf8.RuneCountInString(b.Template.Title)
	if la != lb {
		return la < lb
	}
	if a.Template.Title != b.Template.Title {
		return a.Template.Title < b.Template.Title
	}
	return a.Template.ID < b.Template.ID
}
