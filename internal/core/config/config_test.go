package config

import (
	"os"
	"path/filepath"
	"testing"

	"archmap/internal/core/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Limits.MaxNodes != 100 {
		t.Errorf("MaxNodes = %d, want 100", cfg.Limits.MaxNodes)
	}
	if cfg.Limits.MaxFileSizeKB != 200 {
		t.Errorf("MaxFileSizeKB = %d, want 200", cfg.Limits.MaxFileSizeKB)
	}
	if !cfg.EmbedSource() {
		t.Error("EmbedSource should default to true")
	}
	if !cfg.DetectSmells() {
		t.Error("DetectSmells should default to true")
	}
	if cfg.Smells.GodClassMembers != 8 {
		t.Errorf("GodClassMembers = %d, want 8", cfg.Smells.GodClassMembers)
	}
	if cfg.Smells.LowCohesionLcom != 0.7 {
		t.Errorf("LowCohesionLcom = %v, want 0.7", cfg.Smells.LowCohesionLcom)
	}
	found := false
	for _, d := range cfg.Exclude.Dirs {
		if d == "__pycache__" {
			found = true
		}
	}
	if !found {
		t.Error("default excludes should contain __pycache__")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archmap.toml")
	content := `
[paths]
root = "src"

[limits]
max_nodes = 25

[smells]
enabled = false
high_complexity = 20
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Root != "src" {
		t.Errorf("Root = %q, want src", cfg.Paths.Root)
	}
	if cfg.Limits.MaxNodes != 25 {
		t.Errorf("MaxNodes = %d, want 25", cfg.Limits.MaxNodes)
	}
	if cfg.DetectSmells() {
		t.Error("smells should be disabled")
	}
	if cfg.Smells.HighComplexity != 20 {
		t.Errorf("HighComplexity = %d, want 20", cfg.Smells.HighComplexity)
	}
	if cfg.Smells.GodClassMembers != 8 {
		t.Error("unset thresholds should fall back to defaults")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.toml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateRejectsBadLimits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[limits]\nmax_nodes = -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}
