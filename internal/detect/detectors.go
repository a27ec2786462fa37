package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cigen-dev/cigen/internal/model"
)

type rustDetector struct{}

func (rustDetector) Priority() int { return 10 }

// Detect recognizes Cargo projects. A [lib] section or src/lib.rs means
// a library crate; anything else is treated as a binary.
func (rustDetector) Detect(dir string) (*Result, error) {
	manifest := filepath.Join(dir, "Cargo.toml")
	data, err := os.ReadFile(manifest)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifest, err)
	}

	presetID := "rust-binary"
	if strings.Contains(string(data), "[lib]") || fileExists(filepath.Join(dir, "src", "lib.rs")) {
		presetID = "rust-library"
	}

	return &Result{
		PresetID: presetID,
		Language: model.Rust,
		Version:  tomlValue(string(data), "rust-version"),
		Reason:   "Cargo.toml",
	}, nil
}

type goDetector struct{}

func (goDetector) Priority() int { return 10 }

func (goDetector) Detect(dir string) (*Result, error) {
	modfile := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(modfile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", modfile, err)
	}

	version := ""
	for _, line := range strings.Split(string(data), "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "go "); ok {
			version = strings.TrimSpace(rest)
			break
		}
	}

	return &Result{
		PresetID: "go-app",
		Language: model.Go,
		Version:  version,
		Reason:   "go.mod",
	}, nil
}

type pythonDetector struct{}

func (pythonDetector) Priority() int { return 10 }

func (pythonDetector) Detect(dir string) (*Result, error) {
	if data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml")); err == nil {
		return &Result{
			PresetID: "python-app",
			Language: model.Python,
			Version:  strings.TrimPrefix(tomlValue(string(data), "requires-python"), ">="),
			Reason:   "pyproject.toml",
		}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read pyproject.toml: %w", err)
	}

	if fileExists(filepath.Join(dir, "requirements.txt")) {
		return &Result{
			PresetID: "python-app",
			Language: model.Python,
			Reason:   "requirements.txt",
		}, nil
	}
	return nil, nil
}

type dockerDetector struct{}

// Dockerfile is a weak signal: language projects often ship one too, so
// it only wins when nothing else matches.
func (dockerDetector) Priority() int { return 1 }

func (dockerDetector) Detect(dir string) (*Result, error) {
	if fileExists(filepath.Join(dir, "Dockerfile")) {
		return &Result{PresetID: "docker", Reason: "Dockerfile"}, nil
	}
	return nil, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// tomlValue scans for `key = "value"` at line level. A full TOML parse
// buys nothing here: the markers we read are flat, top-of-file keys.
func tomlValue(doc, key string) string {
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, key)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		rest, ok = strings.CutPrefix(rest, "=")
		if !ok {
			continue
		}
		return strings.Trim(strings.TrimSpace(rest), `"'`)
	}
	return ""
}
