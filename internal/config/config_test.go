package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labelforge/labelforge/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.SessionTTL.Duration != DefaultSessionTTL {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL.Duration, DefaultSessionTTL)
	}
	if cfg.Limits.MaxCount != DefaultMaxCount {
		t.Errorf("MaxCount = %d, want %d", cfg.Limits.MaxCount, DefaultMaxCount)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
addr = ":9090"
output_dir = "/tmp/labels"
session_ttl = "2h"

[limits]
max_count = 100

[redis]
addr = "localhost:6379"
db = 2

[mongo]
uri = "mongodb://localhost:27017"
database = "labels"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.OutputDir != "/tmp/labels" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.SessionTTL.Duration != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL.Duration)
	}
	if cfg.Limits.MaxCount != 100 {
		t.Errorf("MaxCount = %d", cfg.Limits.MaxCount)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Mongo.Database != "labels" {
		t.Errorf("Mongo = %+v", cfg.Mongo)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`addr = ":9090"`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LABELFORGE_ADDR", ":7070")
	t.Setenv("LABELFORGE_MAX_COUNT", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.Limits.MaxCount != 42 {
		t.Errorf("MaxCount = %d, want env override", cfg.Limits.MaxCount)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `addr = [`},
		{"empty addr", `addr = ""`},
		{"bad ttl", `session_ttl = "0s"`},
		{"bad max count", "[limits]\nmax_count = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}
