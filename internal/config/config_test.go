package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DiagnosticGuardErrors || cfg.TestMode || len(cfg.SearchPaths) != 0 {
		t.Fatalf("expected a zero-value default config, got %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refine.yaml")
	yaml := "diagnosticGuardErrors: true\ntestMode: true\nsearchPaths:\n  - ./lib\n  - ./vendor\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DiagnosticGuardErrors || !cfg.TestMode {
		t.Fatalf("expected both toggles true, got %+v", cfg)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != "./lib" || cfg.SearchPaths[1] != "./vendor" {
		t.Fatalf("unexpected search paths: %+v", cfg.SearchPaths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}
