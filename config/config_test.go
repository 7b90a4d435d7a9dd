package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RollPercentage != 92 || cfg.Listen != ":42069" || cfg.MaxReconnects != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := write(t, `
listen: ":8080"
roll_percentage: 100
reconnect_delay: 5s
ai_sides: [p1, p2]
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.RollPercentage != 100 || cfg.ReconnectDelay != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.HasAI("p1") || !cfg.HasAI("p2") {
		t.Errorf("ai sides = %v", cfg.AISides)
	}
	// Unset keys keep their defaults.
	if cfg.PingInterval != 20*time.Second || cfg.MovesPath != "data/moves.json" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if _, err := cfg.Logger(); err != nil {
		t.Errorf("Logger: %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		"roll_percentage: 0",
		"roll_percentage: 101",
		"max_reconnects: 0",
		"ai_sides: [p3]",
		"log_level: loud",
		"listen: [not, a, string]",
	}
	for _, body := range tests {
		if _, err := Load(write(t, body)); err == nil {
			t.Errorf("%q: expected error", body)
		}
	}
}
