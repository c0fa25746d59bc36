package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/catalog"
	"github.com/claude/hevyplan/internal/hevy"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/claude/hevyplan/internal/models"
)

// newClient builds the API client from the loaded config.
func newClient() (*hevy.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return hevy.NewClient(cfg.API.BaseURL, cfg.API.Key,
		hevy.WithTimeout(cfg.API.Timeout),
		hevy.WithRetries(cfg.API.MaxRetries),
		hevy.WithLogger(log),
	), nil
}

// loadMatcher loads the catalog snapshot and builds a matcher. A missing
// snapshot is not an error here: the matcher runs without a catalog and the
// validator reports it, or accepts bare ids when allow_id_only is set.
func loadMatcher() (*matcher.Matcher, error) {
	opts := []matcher.Option{
		matcher.WithThreshold(cfg.Matching.Threshold),
		matcher.WithIDOnlyTrust(cfg.Catalog.AllowIDOnly),
	}

	cat, meta, err := catalog.Load(cfg.Catalog.Path)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		log.Warn("exercise catalog not found; run hevyplan fetch", "path", cfg.Catalog.Path)
		return matcher.New(nil, opts...), nil
	case err != nil:
		return nil, err
	}

	if updated, ok := meta.Updated(); ok && cfg.Catalog.MaxAgeDays > 0 && time.Since(updated) > cfg.Catalog.MaxAge() {
		log.Warn("exercise catalog is stale; run hevyplan fetch",
			"path", cfg.Catalog.Path,
			"updated", updated.Format(time.DateOnly),
		)
	}
	log.Debug("catalog loaded", "path", cfg.Catalog.Path, "exercises", cat.Len())
	return matcher.New(cat, opts...), nil
}

// readProgram parses the program document at path; "-" reads stdin.
func readProgram(path string) (*models.ProgramDocument, error) {
	if path == "" {
		return nil, errors.New("--input is required")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return models.ParseProgram(data)
}

// builderOptions merges the config defaults with a command's overrides.
func builderOptions(doc *models.ProgramDocument, title, notes string) builder.Options {
	opts := builder.Options{
		TitlePrefix: cfg.Submit.TitlePrefix,
		Notes:       cfg.Submit.Notes,
	}
	if title != "" {
		opts.TitlePrefix = title
	}
	if opts.TitlePrefix == "" {
		opts.TitlePrefix = doc.ProgramName
	}
	if notes != "" {
		opts.Notes = notes
	}
	return opts
}
