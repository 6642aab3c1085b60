package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STUDYDESK_CONFIG", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.SRS.MinEase != 1.3 || cfg.SRS.SecondInterval != 6 {
		t.Fatalf("unexpected srs defaults %+v", cfg.SRS)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.SessionTTL)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studydesk.toml")
	content := `
port = "9090"
db_path = "/tmp/from-file.db"
cors_origins = ["http://a.test"]
focus_write_timeout_seconds = 3

[srs]
correct_bonus = 0.1
min_ease = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYDESK_CONFIG", path)
	t.Setenv("DB_PATH", "/tmp/from-env.db")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port from file, got %s", cfg.Port)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Fatalf("expected env to override file, got %s", cfg.DBPath)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://a.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.OTelEnabled {
		t.Fatal("expected otel enabled from env")
	}
	if cfg.SRS.CorrectBonus != 0.1 || cfg.SRS.MinEase != 1.5 || cfg.SRS.IncorrectPenalty != 0.2 {
		t.Fatalf("unexpected srs config %+v", cfg.SRS)
	}
	if cfg.FocusWriteTimeout != 3*time.Second {
		t.Fatalf("unexpected write timeout %s", cfg.FocusWriteTimeout)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("port = "), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYDESK_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected decode error")
	}
}
