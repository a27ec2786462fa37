package platform

import (
	"fmt"
	"strings"

	"github.com/cigen-dev/cigen/internal/model"
)

// Shell command tables shared by the script-oriented adapters. GitHub
// substitutes marketplace actions for some of these; the others emit the
// commands directly.

// InstallCommand returns the dependency install command for a language.
// The manager hint selects an alternative package manager where the
// ecosystem has one; an unrecognized hint is an error so no platform
// silently ignores it.
func InstallCommand(lang model.Language, manager string) (string, error) {
	switch lang {
	case model.Rust:
		if manager != "" && manager != "cargo" {
			return "", fmt.Errorf("unknown rust package manager %q", manager)
		}
		return "cargo fetch", nil
	case model.Go:
		if manager != "" && manager != "go" {
			return "", fmt.Errorf("unknown go package manager %q", manager)
		}
		return "go mod download", nil
	case model.Python:
		switch manager {
		case "", "pip":
			return "pip install -r requirements.txt", nil
		case "poetry":
			return "poetry install", nil
		case "pipenv":
			return "pipenv install", nil
		default:
			return "", fmt.Errorf("unknown python package manager %q", manager)
		}
	}
	return "", fmt.Errorf("unsupported language %q", lang)
}

// TestCommands returns the commands to run the test suite, optionally
// with coverage. Rust coverage needs tarpaulin installed first, hence a
// command list.
func TestCommands(lang model.Language, coverage bool) ([]string, error) {
	switch lang {
	case model.Rust:
		if coverage {
			return []string{
				"cargo install cargo-tarpaulin",
				"cargo tarpaulin --all-features --workspace --out Xml",
			}, nil
		}
		return []string{"cargo test --all-features"}, nil
	case model.Python:
		if coverage {
			return []string{"pytest --cov"}, nil
		}
		return []string{"pytest"}, nil
	case model.Go:
		if coverage {
			return []string{"go test -v -coverprofile=coverage.out ./..."}, nil
		}
		return []string{"go test -v ./..."}, nil
	}
	return nil, fmt.Errorf("unsupported language %q", lang)
}

// LintCommand returns the lint invocation for the given tool.
func LintCommand(lang model.Language, tool string) (string, error) {
	switch lang {
	case model.Rust:
		return "cargo " + tool, nil
	case model.Python:
		return tool + " .", nil
	case model.Go:
		return tool, nil
	}
	return "", fmt.Errorf("unsupported language %q", lang)
}

// ScanCommand returns the security scan invocation for the given tool.
func ScanCommand(lang model.Language, tool string) (string, error) {
	switch lang {
	case model.Rust:
		return "cargo " + tool, nil
	case model.Python, model.Go:
		return tool, nil
	}
	return "", fmt.Errorf("unsupported language %q", lang)
}

// BuildCommand returns the build invocation, optimized when release is
// set.
func BuildCommand(lang model.Language, release bool) (string, error) {
	switch lang {
	case model.Rust:
		if release {
			return "cargo build --release", nil
		}
		return "cargo build", nil
	case model.Python:
		return "python -m build", nil
	case model.Go:
		return "go build -v ./...", nil
	}
	return "", fmt.Errorf("unsupported language %q", lang)
}

// PublishCommand returns the package publish invocation for a registry.
func PublishCommand(reg model.Registry) (string, string, error) {
	switch reg {
	case model.CratesIO:
		return "cargo publish", "CARGO_REGISTRY_TOKEN", nil
	case model.PyPI:
		return "python -m twine upload dist/*", "TWINE_PASSWORD", nil
	case model.NPM:
		return "npm publish", "NODE_AUTH_TOKEN", nil
	}
	return "", "", fmt.Errorf("unknown registry %q", reg)
}

// JoinLines joins paths with newlines, the multi-path convention of
// YAML-based step inputs.
func JoinLines(paths []string) string {
	return strings.Join(paths, "\n")
}

// Slug converts a pipeline name into a filename-safe identifier.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return "ci"
	}
	return s
}

// ExpandedName returns the deterministic name of one expanded matrix
// job: the base name suffixed by axis values in declaration order.
func ExpandedName(base string, axes []model.Axis, combo map[string]string) string {
	parts := []string{base}
	for _, axis := range axes {
		parts = append(parts, combo[axis.Name])
	}
	return strings.Join(parts, "-")
}

// MaxMatrixJobs bounds manual matrix expansion; a larger product is
// reported as a malformed matrix rather than generating an unreviewable
// config.
const MaxMatrixJobs = 50
