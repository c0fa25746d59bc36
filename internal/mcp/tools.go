package mcp

import (
	"context"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/upload"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// --- Tool definitions ---

var toolValidateProgram = mcp.NewTool("validate_program",
	mcp.WithDescription("Validate a workout program document against the exercise catalog. Returns every warning and error plus the routines that would be created. Nothing is uploaded."),
	mcp.WithString("program", mcp.Required(), mcp.Description("Program document as a JSON string (see hevyplan://program_format)")),
	mcp.WithString("title_prefix", mcp.Description("Routine title prefix. Defaults to the program name.")),
)

var toolResolveExercise = mcp.NewTool("resolve_exercise",
	mcp.WithDescription("Resolve an exercise name or template ID to a catalog exercise. Reports the match reason and confidence, or the closest suggestion when nothing matches."),
	mcp.WithString("name", mcp.Description("Exercise name (e.g. 'Bench Press (Barbell)')")),
	mcp.WithString("id", mcp.Description("Exercise template ID")),
	mcp.WithString("category", mcp.Description("Optional category used to rank alternatives")),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog by name. Exact matches rank first, then names containing the query, then similar names."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	mcp.WithNumber("limit", mcp.Description("Maximum results (default 10, max 50)")),
)

func (h *handlers) validateProgram(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program parameter is required"), nil
	}

	doc, err := models.ParseProgram([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := h.opts
	if prefix := req.GetString("title_prefix", ""); prefix != "" {
		opts.TitlePrefix = prefix
	} else if opts.TitlePrefix == "" {
		opts.TitlePrefix = doc.ProgramName
	}

	plan := upload.BuildPlan(doc, h.m, opts)
	h.log.Info("mcp validate_program",
		"program", doc.ProgramName,
		"stage", plan.Stage,
		"issues", len(plan.Report.Issues),
	)

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) resolveExercise(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry := models.ExerciseEntry{
		Name:               req.GetString("name", ""),
		ExerciseTemplateID: req.GetString("id", ""),
		Category:           req.GetString("category", ""),
	}
	if entry.Name == "" && entry.ExerciseTemplateID == "" {
		return mcp.NewToolResultError("name or id parameter is required"), nil
	}

	res := h.m.Resolve(entry)
	out := map[string]any{"result": res}
	if !res.Matched() && entry.Name != "" {
		alts := []string{}
		for _, t := range h.m.Catalog().Alternatives(entry.Name, entry.Category, 5) {
			alts = append(alts, t.Title)
		}
		out["alternatives"] = alts
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	if !h.m.CatalogAvailable() {
		return mcp.NewToolResultError("exercise catalog is not loaded; run hevyplan fetch"), nil
	}

	limit := req.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	templates := h.m.Catalog().Search(query, limit)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"query":     query,
		"count":     len(templates),
		"exercises": templates,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
