package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/upload"
	"github.com/go-chi/chi/v5"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"catalog_available": s.m.CatalogAvailable(),
		"exercises":         s.m.Catalog().Len(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProgramBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		return
	}

	doc, err := models.ParseProgram(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	opts := s.opts
	if prefix := r.URL.Query().Get("title_prefix"); prefix != "" {
		opts.TitlePrefix = prefix
	} else if opts.TitlePrefix == "" {
		opts.TitlePrefix = doc.ProgramName
	}

	plan := upload.BuildPlan(doc, s.m, opts)
	status := http.StatusOK
	if plan.Report.Fatal {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, plan)
}

func (s *Server) handleSearchExercises(w http.ResponseWriter, r *http.Request) {
	if !s.m.CatalogAvailable() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "exercise catalog not loaded"})
		return
	}

	q := r.URL.Query().Get("q")
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = min(n, maxSearchLimit)
	}

	var templates []models.ExerciseTemplate
	if q == "" {
		templates = s.m.Catalog().Templates()
		if len(templates) > limit {
			templates = templates[:limit]
		}
	} else {
		templates = s.m.Catalog().Search(q, limit)
	}
	if templates == nil {
		templates = []models.ExerciseTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.m.Catalog().Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	entry := models.ExerciseEntry{
		Name:               r.URL.Query().Get("name"),
		ExerciseTemplateID: r.URL.Query().Get("id"),
		Category:           r.URL.Query().Get("category"),
	}
	if entry.Name == "" && entry.ExerciseTemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name or id parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, s.m.Resolve(entry))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
