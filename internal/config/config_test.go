package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Path != "" {
		t.Errorf("expected empty database path, got %q", cfg.Database.Path)
	}
	if cfg.Extract.OutputDir != "." {
		t.Errorf("expected output dir \".\", got %q", cfg.Extract.OutputDir)
	}
	if cfg.Extract.WriteDDS {
		t.Error("expected WriteDDS to default to false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for explicit missing config file")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprtool.yaml")

	content := `database:
  path: /data/names.db
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Path != "/data/names.db" {
		t.Errorf("expected database path from file, got %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from file, got %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Extract.OutputDir != "." {
		t.Errorf("expected default output dir, got %q", cfg.Extract.OutputDir)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprtool.yaml")

	if err := os.WriteFile(path, []byte("database: [not: a mapping"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestOverridesPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprtool.yaml")

	content := `database:
  path: /from/file.db
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	Overrides{Database: "/from/flag.db", Verbose: true}.Apply(cfg)

	if cfg.Database.Path != "/from/flag.db" {
		t.Errorf("expected flag database path to win, got %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected verbose override to set debug, got %q", cfg.Logging.Level)
	}
}

func TestOverridesZeroValuesLeaveConfigAlone(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = "/existing.db"
	cfg.Logging.Level = "warn"

	Overrides{}.Apply(cfg)

	if cfg.Database.Path != "/existing.db" {
		t.Errorf("empty override changed database path to %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("empty override changed log level to %q", cfg.Logging.Level)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "sprtool.yaml")

	cfg := Default()
	cfg.Database.Path = "/data/names.db"
	cfg.Extract.OutputDir = "/tmp/out"
	cfg.Extract.WriteDDS = true
	cfg.Logging.Level = "debug"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("database path: got %q, want %q", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.Extract.OutputDir != cfg.Extract.OutputDir {
		t.Errorf("output dir: got %q, want %q", loaded.Extract.OutputDir, cfg.Extract.OutputDir)
	}
	if !loaded.Extract.WriteDDS {
		t.Error("WriteDDS not preserved")
	}
	if loaded.Logging.Level != cfg.Logging.Level {
		t.Errorf("log level: got %q, want %q", loaded.Logging.Level, cfg.Logging.Level)
	}
}

func TestConfigDirNotEmpty(t *testing.T) {
	if ConfigDir() == "" {
		t.Error("ConfigDir returned an empty path")
	}
}
