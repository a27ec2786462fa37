// Package platform defines the contract between the generic pipeline
// model and the per-platform transformation layers: the Adapter
// interface, the typed errors adapters report, and the read-only
// registry used to dispatch generation requests.
package platform

import (
	"github.com/cigen-dev/cigen/internal/model"
)

// Platform identifies a target CI system.
type Platform string

const (
	GitHubActions Platform = "github-actions"
	GitLabCI      Platform = "gitlab-ci"
	CircleCI      Platform = "circleci"
	Jenkins       Platform = "jenkins"
)

// All lists every supported platform in a stable order.
func All() []Platform {
	return []Platform{GitHubActions, GitLabCI, CircleCI, Jenkins}
}

// Document is a platform intermediate representation ready for output.
// Render must be deterministic: the same IR always yields byte-identical
// text.
type Document interface {
	Render() (string, error)
}

// Adapter translates a validated generic Pipeline into one platform's
// intermediate representation. Implementations must not mutate the
// pipeline, and must map every Step variant either to a semantically
// equivalent native construct or to an UnsupportedStep error — never a
// degraded or silently dropped one.
type Adapter interface {
	// Platform returns the identifier this adapter serves.
	Platform() Platform

	// Transform builds the platform IR for the pipeline. The input is
	// assumed to have passed model.Validate.
	Transform(p *model.Pipeline) (Document, error)

	// OutputPath returns the canonical relative path for the generated
	// file, e.g. ".github/workflows/ci.yml".
	OutputPath(p *model.Pipeline) string
}

// Generate runs an adapter end to end: transform then render.
func Generate(a Adapter, p *model.Pipeline) (string, error) {
	doc, err := a.Transform(p)
	if err != nil {
		return "", err
	}
	return doc.Render()
}
