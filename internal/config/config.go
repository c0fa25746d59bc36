package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Matching  MatchingConfig  `yaml:"matching"`
	Submit    SubmitConfig    `yaml:"submit"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Key        string        `yaml:"key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

type CatalogConfig struct {
	Path       string `yaml:"path"`
	MaxAgeDays int    `yaml:"max_age_days"`
	// AllowIDOnly accepts well-formed exercise ids when the catalog cannot be
	// loaded. Names are never matched in that mode.
	AllowIDOnly bool `yaml:"allow_id_only"`
}

type MatchingConfig struct {
	Threshold int `yaml:"threshold"`
}

type SubmitConfig struct {
	Folder         string        `yaml:"folder"`
	TitlePrefix    string        `yaml:"title_prefix"`
	Notes          string        `yaml:"notes"`
	Delay          time.Duration `yaml:"delay"`
	UpdateExisting bool          `yaml:"update_existing"`
	StateDir       string        `yaml:"state_dir"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// MaxAge returns the catalog staleness limit.
func (c CatalogConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	stateDir := ".hevyplan"
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".hevyplan")
	}
	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.hevyapp.com/v1",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Catalog: CatalogConfig{
			Path:       filepath.Join("data", "exercise_templates.json"),
			MaxAgeDays: 30,
		},
		Matching: MatchingConfig{Threshold: 70},
		Submit: SubmitConfig{
			Notes:          "Created via hevyplan",
			Delay:          300 * time.Millisecond,
			UpdateExisting: true,
			StateDir:       stateDir,
		},
		Server: ServerConfig{Host: "127.0.0.1", Port: 8731},
		Tailscale: TailscaleConfig{
			Hostname: "hevyplan",
			StateDir: filepath.Join(stateDir, "tsnet"),
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), then environment overrides. Env vars use the prefix
// HEVYPLAN_:
//
//	HEVYPLAN_API_KEY (or HEVY_API_KEY), HEVYPLAN_API_BASE_URL,
//	HEVYPLAN_API_TIMEOUT, HEVYPLAN_CATALOG_PATH, HEVYPLAN_CATALOG_MAX_AGE_DAYS,
//	HEVYPLAN_CATALOG_ALLOW_ID_ONLY, HEVYPLAN_MATCH_THRESHOLD,
//	HEVYPLAN_STATE_DIR, HEVYPLAN_SERVER_HOST, HEVYPLAN_SERVER_PORT,
//	HEVYPLAN_SERVER_API_KEY
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEVY_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("HEVYPLAN_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("HEVYPLAN_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HEVYPLAN_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("HEVYPLAN_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("HEVYPLAN_CATALOG_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.MaxAgeDays = n
		}
	}
	if v := os.Getenv("HEVYPLAN_CATALOG_ALLOW_ID_ONLY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Catalog.AllowIDOnly = b
		}
	}
	if v := os.Getenv("HEVYPLAN_MATCH_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Matching.Threshold = n
		}
	}
	if v := os.Getenv("HEVYPLAN_STATE_DIR"); v != "" {
		cfg.Submit.StateDir = v
	}
	if v := os.Getenv("HEVYPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HEVYPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HEVYPLAN_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Catalog.MaxAgeDays < 0 {
		return fmt.Errorf("catalog.max_age_days must not be negative")
	}
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 100 {
		return fmt.Errorf("matching.threshold must be between 0 and 100, got %d", c.Matching.Threshold)
	}
	if c.Submit.Delay < 0 {
		return fmt.Errorf("submit.delay must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}

// ErrNoAPIKey is returned by RequireAPIKey when no key is configured.
var ErrNoAPIKey = errors.New("api key is required: set api.key or HEVYPLAN_API_KEY")

// RequireAPIKey checks the key needed by commands that contact the service.
func (c *Config) RequireAPIKey() error {
	if c.API.Key == "" {
		return ErrNoAPIKey
	}
	return nil
}
