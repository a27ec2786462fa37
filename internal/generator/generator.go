// Package generator wires the built-in platform adapters into a
// registry and drives multi-platform generation runs.
package generator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
	"github.com/cigen-dev/cigen/internal/platform/circleci"
	"github.com/cigen-dev/cigen/internal/platform/github"
	"github.com/cigen-dev/cigen/internal/platform/gitlab"
	"github.com/cigen-dev/cigen/internal/platform/jenkins"
)

// NewRegistry returns a registry with every built-in adapter
// registered. Adapters are registered once at startup; the registry is
// read-only afterwards.
func NewRegistry() *platform.Registry {
	r := platform.NewRegistry()
	for _, a := range []platform.Adapter{
		github.New(),
		gitlab.New(),
		circleci.New(),
		jenkins.New(),
	} {
		if err := r.Register(a); err != nil {
			// Duplicate built-in registration is a programming error.
			panic(err)
		}
	}
	return r
}

// Result is the outcome of one platform's generation: either rendered
// content with its canonical output path, or the adapter error.
type Result struct {
	Platform platform.Platform
	Path     string
	Content  string
	Err      error
}

// Run validates the pipeline, then generates output for each requested
// platform concurrently. A validation failure aborts the whole run
// before any adapter executes; adapter failures are isolated per
// platform, so one platform's error never suppresses another's output.
func Run(log zerolog.Logger, reg *platform.Registry, p *model.Pipeline, platforms []platform.Platform) ([]Result, error) {
	if verrs := model.Validate(p); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("invalid pipeline %q: %w", p.Name, errors.Join(errs...))
	}

	runLog := log.With().
		Str("run_id", uuid.NewString()).
		Str("pipeline", p.Name).
		Logger()

	results := make([]Result, len(platforms))
	var wg sync.WaitGroup
	for i, id := range platforms {
		wg.Add(1)
		go func(i int, id platform.Platform) {
			defer wg.Done()
			results[i] = generateOne(reg, p, id)
		}(i, id)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			runLog.Error().
				Str("platform", string(res.Platform)).
				Err(res.Err).
				Msg("generation failed")
			continue
		}
		runLog.Debug().
			Str("platform", string(res.Platform)).
			Str("path", res.Path).
			Int("bytes", len(res.Content)).
			Msg("generated")
	}

	return results, nil
}

func generateOne(reg *platform.Registry, p *model.Pipeline, id platform.Platform) Result {
	res := Result{Platform: id}
	a, err := reg.Get(id)
	if err != nil {
		res.Err = err
		return res
	}
	content, err := platform.Generate(a, p)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = a.OutputPath(p)
	res.Content = content
	return res
}
