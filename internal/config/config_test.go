package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
api:
  base_url: "https://hevy.test/v1"
  key: "yaml-key"
  timeout: 10s
  max_retries: 5
catalog:
  path: "/var/lib/hevyplan/templates.json"
  max_age_days: 7
  allow_id_only: true
matching:
  threshold: 80
submit:
  folder: "Block 1"
  delay: 1s
  update_existing: false
  state_dir: "/var/lib/hevyplan"
server:
  port: 9000
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv unsets the API key variables a developer machine may carry.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HEVY_API_KEY", "")
	t.Setenv("HEVYPLAN_API_KEY", "")
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://hevy.test/v1" || cfg.API.Key != "yaml-key" {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.API.Timeout != 10*time.Second || cfg.API.MaxRetries != 5 {
		t.Errorf("timeout/retries = %v/%d", cfg.API.Timeout, cfg.API.MaxRetries)
	}
	if cfg.Catalog.MaxAge() != 7*24*time.Hour || !cfg.Catalog.AllowIDOnly {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Matching.Threshold != 80 {
		t.Errorf("threshold = %d, want 80", cfg.Matching.Threshold)
	}
	if cfg.Submit.Folder != "Block 1" || cfg.Submit.Delay != time.Second || cfg.Submit.UpdateExisting {
		t.Errorf("submit = %+v", cfg.Submit)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Submit.Notes != "Created via hevyplan" || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("defaults lost: notes %q host %q", cfg.Submit.Notes, cfg.Server.Host)
	}
}

// TestLoadDefaults verifies that an empty path yields the defaults.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Matching.Threshold != 70 || cfg.Catalog.MaxAgeDays != 30 {
		t.Errorf("defaults = %+v / %+v", cfg.Matching, cfg.Catalog)
	}
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("RequireAPIKey = %v, want ErrNoAPIKey", err)
	}
}

// TestEnvOverride verifies that HEVYPLAN_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEVYPLAN_API_KEY", "env-key")
	t.Setenv("HEVYPLAN_MATCH_THRESHOLD", "60")
	t.Setenv("HEVYPLAN_CATALOG_ALLOW_ID_ONLY", "false")
	t.Setenv("HEVYPLAN_SERVER_PORT", "9999")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("api.key = %q, want %q", cfg.API.Key, "env-key")
	}
	if cfg.Matching.Threshold != 60 {
		t.Errorf("threshold = %d, want 60", cfg.Matching.Threshold)
	}
	if cfg.Catalog.AllowIDOnly {
		t.Error("allow_id_only should be overridden to false")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	// Unchanged fields should keep YAML values
	if cfg.Submit.Folder != "Block 1" {
		t.Errorf("submit.folder = %q", cfg.Submit.Folder)
	}
}

// TestLegacyAPIKeyVar verifies that HEVY_API_KEY is honoured and loses to
// HEVYPLAN_API_KEY.
func TestLegacyAPIKeyVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEVY_API_KEY", "legacy")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Key != "legacy" {
		t.Errorf("api.key = %q, want legacy", cfg.API.Key)
	}

	t.Setenv("HEVYPLAN_API_KEY", "preferred")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Key != "preferred" {
		t.Errorf("api.key = %q, want preferred", cfg.API.Key)
	}
}

// TestValidationThreshold verifies that an out-of-range threshold is rejected.
func TestValidationThreshold(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeTemp(t, "matching:\n  threshold: 150\n"))
	if err == nil {
		t.Fatal("expected validation error for threshold")
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
