package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
postgres:
  url: postgres://yaml
scoring:
  default_points: 3
events:
  publisher: gochannel
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POSTGRES_URL", "postgres://env")
	t.Setenv("REDIS_DB", "4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Log.Level != "debug" || cfg.Events.Publisher != "gochannel" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Postgres.URL != "postgres://env" || cfg.Redis.DB != 4 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Scoring.DefaultPoints != 3 || cfg.Scoring.SpeedBonus != 5 || cfg.Scoring.SpeedThresholdMs != 5000 {
		t.Fatalf("unexpected scoring config %+v", cfg.Scoring)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scoring.DefaultPoints != 10 || cfg.Events.Publisher != "goroutine" || cfg.Events.Topic == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("empty: got %v", got)
	}
	if got := TTLDuration("90s", time.Second); got != 90*time.Second {
		t.Fatalf("parsed: got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Fatalf("invalid: got %v", got)
	}
}
