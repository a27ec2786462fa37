package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cigen-dev/cigen/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDetect_RustBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"app\"\nrust-version = \"1.75\"\n")
	writeFile(t, dir, "src/main.rs", "fn main() {}\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "rust-binary" {
		t.Errorf("expected rust-binary, got %s", res.PresetID)
	}
	if res.Language != model.Rust {
		t.Errorf("expected rust, got %s", res.Language)
	}
	if res.Version != "1.75" {
		t.Errorf("expected version 1.75, got %q", res.Version)
	}
}

func TestDetect_RustLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"lib\"\n\n[lib]\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "rust-library" {
		t.Errorf("expected rust-library, got %s", res.PresetID)
	}
}

func TestDetect_RustLibraryBySrcLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"lib\"\n")
	writeFile(t, dir, "src/lib.rs", "")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "rust-library" {
		t.Errorf("expected rust-library, got %s", res.PresetID)
	}
}

func TestDetect_Go(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n\ngo 1.22\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "go-app" {
		t.Errorf("expected go-app, got %s", res.PresetID)
	}
	if res.Version != "1.22" {
		t.Errorf("expected version 1.22, got %q", res.Version)
	}
}

func TestDetect_PythonPyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[project]\nname = \"app\"\nrequires-python = \">=3.11\"\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "python-app" {
		t.Errorf("expected python-app, got %s", res.PresetID)
	}
	if res.Version != "3.11" {
		t.Errorf("expected version 3.11, got %q", res.Version)
	}
}

func TestDetect_PythonRequirements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "python-app" {
		t.Errorf("expected python-app, got %s", res.PresetID)
	}
}

func TestDetect_DockerfileIsFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM scratch\n")
	writeFile(t, dir, "go.mod", "module example.com/app\n\ngo 1.22\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	// Language markers outrank the Dockerfile.
	if res.PresetID != "go-app" {
		t.Errorf("expected go-app, got %s", res.PresetID)
	}
}

func TestDetect_DockerfileOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM scratch\n")

	res, err := NewRegistry().Detect(dir)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.PresetID != "docker" {
		t.Errorf("expected docker, got %s", res.PresetID)
	}
}

func TestDetect_NoMatch(t *testing.T) {
	_, err := NewRegistry().Detect(t.TempDir())
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}
