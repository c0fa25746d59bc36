package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Reps is a rep prescription: either a whole count or free text such as
// "30 seconds" or "AMRAP". It encodes back to the JSON kind it was read from.
type Reps struct {
	Count int
	Text  string
	set   bool
	text  bool
}

// RepsCount returns a numeric rep prescription.
func RepsCount(n int) Reps { return Reps{Count: n, set: true} }

// RepsText returns a descriptive rep prescription.
func RepsText(s string) Reps { return Reps{Text: s, set: true, text: true} }

// IsZero reports whether no prescription was given.
func (r Reps) IsZero() bool { return !r.set }

// IsText reports whether the prescription is descriptive rather than a count.
func (r Reps) IsText() bool { return r.text }

func (r Reps) String() string {
	switch {
	case !r.set:
		return ""
	case r.text:
		return r.Text
	default:
		return strconv.Itoa(r.Count)
	}
}

func (r Reps) MarshalJSON() ([]byte, error) {
	switch {
	case !r.set:
		return []byte("null"), nil
	case r.text:
		return json.Marshal(r.Text)
	default:
		return json.Marshal(r.Count)
	}
}

func (r *Reps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Reps{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RepsText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reps must be a number or a string: %s", data)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 32); err == nil {
		*r = RepsCount(int(i))
		return nil
	}
	// Exponent or decimal forms such as 1e1 or 10.0 are accepted when whole.
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("reps must be a whole number, got %s", n)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("reps %s is out of range", n)
	}
	*r = RepsCount(int(f))
	return nil
}
