package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceInline(t *testing.T) {
	got, err := readSource(nil, "inline source")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline source" {
		t.Fatalf("expected the inline source back verbatim, got %q", got)
	}
}

func TestReadSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.refine")
	if err := os.WriteFile(path, []byte("value Age(n: Int) {}"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := readSource([]string{path}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value Age(n: Int) {}" {
		t.Fatalf("unexpected file contents: %q", got)
	}
}

func TestReadSourceNoArgsNoInline(t *testing.T) {
	if _, err := readSource(nil, ""); err == nil {
		t.Fatal("expected an error when neither a file nor --eval is given")
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := readSource([]string{filepath.Join(t.TempDir(), "missing.refine")}, ""); err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
}
