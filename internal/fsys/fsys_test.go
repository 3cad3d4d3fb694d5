package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := OS{}.ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	if e := byName["a.txt"]; e.IsDir || e.Size != 3 {
		t.Errorf("a.txt = %+v, want file of size 3", e)
	}
	if e := byName["sub"]; !e.IsDir {
		t.Errorf("sub = %+v, want directory", e)
	}
}

func TestListDirMissing(t *testing.T) {
	if _, err := (OS{}).ListDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !(OS{}).DirExists(dir) {
		t.Error("expected DirExists(true) for a directory")
	}
	if (OS{}).DirExists(file) {
		t.Error("expected DirExists(false) for a regular file")
	}
	if (OS{}).DirExists(filepath.Join(dir, "nope")) {
		t.Error("expected DirExists(false) for a missing path")
	}
}
