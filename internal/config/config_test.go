package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %s, got %s", DefaultBaseURL, cfg.API.BaseURL)
	}
	if cfg.Poll.Interval != 2*time.Second {
		t.Errorf("expected poll interval 2s, got %s", cfg.Poll.Interval)
	}
	if cfg.DB.Type != "sqlite" {
		t.Errorf("expected db type sqlite, got %s", cfg.DB.Type)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "kbc-config-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://kb.example.com/api/"
	cfg.Poll.Interval = 5 * time.Second
	cfg.Log.Level = "debug"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// trailing slash is trimmed on load
	if loaded.API.BaseURL != "https://kb.example.com/api" {
		t.Errorf("base url mismatch: got %s", loaded.API.BaseURL)
	}
	if loaded.Poll.Interval != 5*time.Second {
		t.Errorf("poll interval mismatch: got %s", loaded.Poll.Interval)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("log level mismatch: got %s", loaded.Log.Level)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got error: %v", err)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", cfg.API.Timeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KBC_API_URL", "http://api.internal:9000/api")
	t.Setenv("KBC_POLL_INTERVAL", "750ms")
	t.Setenv("KBC_DB_TYPE", "DuckDB")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://api.internal:9000/api" {
		t.Errorf("env base url not applied: %s", cfg.API.BaseURL)
	}
	if cfg.Poll.Interval != 750*time.Millisecond {
		t.Errorf("env poll interval not applied: %s", cfg.Poll.Interval)
	}
	if cfg.DB.Type != "duckdb" {
		t.Errorf("env db type not applied: %s", cfg.DB.Type)
	}
}

func TestLoadInvalidEnvDuration(t *testing.T) {
	t.Setenv("KBC_POLL_INTERVAL", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestGlobalDirHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KBC_HOME", dir)

	if GlobalDir() != dir {
		t.Errorf("GlobalDir = %s, want %s", GlobalDir(), dir)
	}
	if GlobalDBPath() != filepath.Join(dir, "kbc.db") {
		t.Errorf("unexpected db path %s", GlobalDBPath())
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	t.Setenv("KBC_API_URL", "http://env.example.com/api")

	fromFile, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load file: %v", err)
	}
	if fromFile.API.BaseURL != DefaultBaseURL {
		t.Errorf("LoadFile applied env: %s", fromFile.API.BaseURL)
	}

	merged, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if merged.API.BaseURL != "http://env.example.com/api" {
		t.Errorf("Load ignored env: %s", merged.API.BaseURL)
	}
}

func TestSetAndGet(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key, value, want string
	}{
		{"api.base_url", "https://kb.example.com/api/", "https://kb.example.com/api"},
		{"api.timeout", "10s", "10s"},
		{"poll.interval", "500ms", "500ms"},
		{"log.mode", "prod", "prod"},
		{"log.level", "warn", "warn"},
		{"db.type", "DuckDB", "duckdb"},
		{"db.path", "/tmp/kbc.db", "/tmp/kbc.db"},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%s) 실패: %v", tt.key, err)
		}
		got, err := cfg.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%s) 실패: %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	cfg := Default()

	invalid := []struct{ key, value string }{
		{"api.base_url", "kb.example.com"},
		{"api.timeout", "soon"},
		{"poll.interval", "0s"},
		{"log.mode", "loud"},
		{"log.level", "trace"},
		{"db.type", "postgres"},
		{"unknown.key", "x"},
	}
	for _, tt := range invalid {
		if err := cfg.Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%s, %s) should fail", tt.key, tt.value)
		}
	}
	if len(Keys()) != 7 {
		t.Errorf("keys = %v", Keys())
	}
}
