package webapi

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9090"
rules_dir: /opt/rules
max_upload_mb: 32
crossref:
  enabled: false
  timeout_seconds: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.RulesDir != "/opt/rules" || cfg.MaxUploadMB != 32 {
		t.Errorf("cfg = %+v", cfg)
	}
	// Unset fields keep defaults.
	if cfg.HistoryDB != "db/history.db" {
		t.Errorf("history_db = %q, default must survive merge", cfg.HistoryDB)
	}
	if cfg.Crossref.Enabled {
		t.Error("crossref.enabled must be overridable to false")
	}
	if got := cfg.Crossref.Timeout(); got != 3*time.Second {
		t.Errorf("timeout = %v", got)
	}
	if got := cfg.MaxUploadBytes(); got != 32<<20 {
		t.Errorf("max upload bytes = %d", got)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`rules_dir: ""`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("want validation error for empty rules_dir")
	}
}

func TestLoadConfigAuthRequiresUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`auth_hash: "$2a$10$abcdefghijklmnopqrstuv"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("want validation error for auth_hash without auth_user")
	}
}
