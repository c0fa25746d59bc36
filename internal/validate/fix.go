package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fix names the catalog template that would replace an unmatched exercise.
type Fix struct {
	TemplateID string `json:"template_id"`
	Title      string `json:"title"`
}

// Fixable returns the issues that carry a replacement, in report order.
func (r *Report) Fixable() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Fix != nil && i.Path != "" {
			out = append(out, i)
		}
	}
	return out
}

// ApplyFixes writes each issue's replacement id into the exercise_template_id
// of the entry at the issue's path and returns the re-encoded document.
// Numbers keep their written form; object keys come out sorted.
func ApplyFixes(data []byte, issues []Issue) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}

	for _, i := range issues {
		if i.Fix == nil {
			continue
		}
		entry, err := lookupEntry(doc, i.Path)
		if err != nil {
			return nil, fmt.Errorf("fixing %s: %w", i.Path, err)
		}
		entry["exercise_template_id"] = i.Fix.TemplateID
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// lookupEntry walks a path such as days[0].exercises[1].superset[0]. Group
// segments accept both the list form and the {"exercises": [...]} form.
func lookupEntry(doc any, path string) (map[string]any, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		key, idx, err := splitSegment(seg)
		if err != nil {
			return nil, err
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not inside an object", key)
		}
		val, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("missing %q", key)
		}
		if group, isObject := val.(map[string]any); isObject {
			val = group["exercises"]
		}
		list, ok := val.([]any)
		if !ok || idx >= len(list) {
			return nil, fmt.Errorf("no element %d in %q", idx, key)
		}
		cur = list[idx]
	}
	entry, ok := cur.(map[string]any)
	if !ok {
		return nil, errors.New("not an exercise object")
	}
	return entry, nil
}

func splitSegment(seg string) (string, int, error) {
	open := strings.IndexByte(seg, '[')
	if open <= 0 || !strings.HasSuffix(seg, "]") {
		return "", 0, fmt.Errorf("bad path segment %q", seg)
	}
	idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("bad index in %q", seg)
	}
	return seg[:open], idx, nil
}
