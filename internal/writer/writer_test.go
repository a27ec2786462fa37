package writer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite_CreatesParentDirs(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}

	path, err := w.Write(".github/workflows/ci.yml", "name: ci\n")
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "name: ci\n" {
		t.Errorf("unexpected content %q", data)
	}
	if path != filepath.Join(root, ".github/workflows/ci.yml") {
		t.Errorf("unexpected path %q", path)
	}
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}

	if _, err := w.Write("Jenkinsfile", "pipeline {}\n"); err != nil {
		t.Fatalf("first write: %v", err)
	}

	_, err := w.Write("Jenkinsfile", "pipeline { changed }\n")
	if err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if !IsFileExists(err) {
		t.Errorf("expected FileExistsError, got %v", err)
	}

	// Original content untouched.
	data, _ := os.ReadFile(filepath.Join(root, "Jenkinsfile"))
	if string(data) != "pipeline {}\n" {
		t.Errorf("original file modified: %q", data)
	}
}

func TestWrite_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	if _, err := (&Writer{Root: root}).Write("Jenkinsfile", "old\n"); err != nil {
		t.Fatalf("first write: %v", err)
	}

	w := &Writer{Root: root, Force: true}
	if _, err := w.Write("Jenkinsfile", "new\n"); err != nil {
		t.Fatalf("forced write: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "Jenkinsfile"))
	if string(data) != "new\n" {
		t.Errorf("expected new content, got %q", data)
	}
}

func TestWrite_NoTempFilesLeftBehind(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}
	if _, err := w.Write("out.yml", "x\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "out.yml" {
			t.Errorf("unexpected file %q", e.Name())
		}
	}
}
