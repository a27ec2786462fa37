// Package detect sniffs a project directory to pick the preset that
// fits it. Detectors check for ecosystem marker files and report the
// preset id plus any toolchain version they can read from the markers.
package detect

import (
	"errors"
	"sort"

	"github.com/cigen-dev/cigen/internal/model"
)

// ErrNoMatch is returned when no detector recognizes the directory.
var ErrNoMatch = errors.New("project detection failed: no matching project type found")

// Result describes a detected project.
type Result struct {
	PresetID string
	Language model.Language // empty when the preset is not language-bound
	Version  string         // toolchain version read from project files, if any
	Reason   string         // which marker file matched
}

// Detector recognizes one project type. Detect returns nil when the
// directory does not match.
type Detector interface {
	Detect(dir string) (*Result, error)
	// Priority orders detectors; higher runs first. Language markers
	// outrank the Dockerfile fallback, since many projects carry both.
	Priority() int
}

// Registry runs detectors in priority order and returns the first
// match.
type Registry struct {
	detectors []Detector
}

// NewRegistry returns a registry with all built-in detectors.
func NewRegistry() *Registry {
	r := &Registry{
		detectors: []Detector{
			rustDetector{},
			goDetector{},
			pythonDetector{},
			dockerDetector{},
		},
	}
	sort.SliceStable(r.detectors, func(i, j int) bool {
		return r.detectors[i].Priority() > r.detectors[j].Priority()
	})
	return r
}

// Detect inspects dir and returns the first matching result, or
// ErrNoMatch.
func (r *Registry) Detect(dir string) (*Result, error) {
	for _, d := range r.detectors {
		res, err := d.Detect(dir)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, ErrNoMatch
}
