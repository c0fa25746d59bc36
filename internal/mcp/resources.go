package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const programFormat = `# Program document

A JSON object:

- program_name (string): used as the folder title and routine prefix.
- program_description (string, optional)
- days (array): one routine per day.

Each day has day (integer >= 1, unique), name, optional description and
duration_minutes, and exercises: an array of blocks.

A block is one of:

- an exercise: {"name", "exercise_template_id", "category", "sets", "reps",
  "rest_seconds", "weight_kg", "notes", "detailed_sets"}
- {"superset": [exercise, exercise, ...], "rest_between_exercises"}
- {"circuit": {"rounds", "exercises": [...], "rest_between_exercises",
  "rest_between_rounds"}}

reps may be a number or a string such as "8-12" or "AMRAP".
detailed_sets is a list of {"type", "reps", "weight_kg", "duration_seconds",
"distance_meters"}; type is normal, warmup, dropset or failure.
`

func (h *handlers) programFormat(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     programFormat,
		},
	}, nil
}

func (h *handlers) catalogInfo(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	info := map[string]any{
		"catalog_available": h.m.CatalogAvailable(),
		"exercises":         h.m.Catalog().Len(),
		"threshold":         h.m.Threshold(),
		"id_only_trust":     h.m.TrustsIDs(),
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
