package webapi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Listen      string         `yaml:"listen"`
	RulesDir    string         `yaml:"rules_dir"`
	HistoryDB   string         `yaml:"history_db"`
	MaxUploadMB int            `yaml:"max_upload_mb"`
	AuthHash    string         `yaml:"auth_hash"` // bcrypt hash; empty disables Basic Auth
	AuthUser    string         `yaml:"auth_user"`
	Crossref    CrossrefConfig `yaml:"crossref"`
}

// CrossrefConfig configures the bibliographic lookup client.
type CrossrefConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout converts the configured lookup timeout to a duration.
func (c *CrossrefConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":8080",
		RulesDir:    "models/rules",
		HistoryDB:   "db/history.db",
		MaxUploadMB: 16,
		Crossref: CrossrefConfig{
			Enabled:        true,
			TimeoutSeconds: 10,
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.RulesDir == "" {
		return fmt.Errorf("rules_dir is required")
	}
	if c.HistoryDB == "" {
		return fmt.Errorf("history_db is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if c.AuthHash != "" && c.AuthUser == "" {
		return fmt.Errorf("auth_user is required when auth_hash is set")
	}
	return nil
}

// MaxUploadBytes converts the configured megabyte cap to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
