// Package preset holds the built-in pipeline presets: reusable generic
// pipelines for common language/ecosystem combinations. A preset always
// yields one complete, valid Pipeline; there is no merge or override
// algebra between presets.
package preset

import (
	"fmt"

	"github.com/cigen-dev/cigen/internal/model"
)

// Default toolchain versions and branches used when options leave them
// unset.
const (
	DefaultRustVersion   = "stable"
	DefaultGoVersion     = "1.21"
	DefaultPythonVersion = "3.11"
)

// DefaultBranches are the branches presets trigger on.
var DefaultBranches = []string{"main", "master"}

// Options tunes what a preset includes. The zero value produces a
// conservative pipeline: tests only, no coverage, no lint, no scan.
type Options struct {
	// Version overrides the preset's default toolchain version.
	Version      string
	Coverage     bool
	Linter       bool
	SecurityScan bool
}

// Definition is one registered preset.
type Definition struct {
	ID          string
	Description string
	Build       func(Options) *model.Pipeline
}

// NotFoundError reports a preset id with no registered definition.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found", e.ID)
}

// Registry maps preset ids to definitions. Like the adapter registry it
// is populated at startup and read-only afterwards.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry returns an empty preset registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition; duplicate ids are an error.
func (r *Registry) Register(d Definition) error {
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("preset %q already registered", d.ID)
	}
	r.defs[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, &NotFoundError{ID: id}
	}
	return d, nil
}

// List returns all definitions in registration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Builtin returns a registry with every built-in preset.
func Builtin() *Registry {
	r := NewRegistry()
	for _, d := range []Definition{
		rustLibrary(),
		rustBinary(),
		goApp(),
		pythonApp(),
		dockerImage(),
	} {
		if err := r.Register(d); err != nil {
			// Duplicate built-in ids are a programming error.
			panic(err)
		}
	}
	return r
}

func versionOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
