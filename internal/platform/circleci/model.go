// Package circleci transforms generic pipelines into CircleCI
// .circleci/config.yml configurations.
package circleci

import (
	"gopkg.in/yaml.v3"

	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Config mirrors the CircleCI 2.1 config schema.
type Config struct {
	Version   string       `yaml:"version"`
	Jobs      yamlutil.Map `yaml:"jobs"`
	Workflows yamlutil.Map `yaml:"workflows"`
}

// Render serializes the config as YAML.
func (c *Config) Render() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Job is one entry under `jobs:`.
type Job struct {
	Docker      []DockerImage `yaml:"docker"`
	Environment yamlutil.Map  `yaml:"environment,omitempty"`
	Steps       []Step        `yaml:"steps"`
}

// DockerImage is one executor image entry.
type DockerImage struct {
	Image string `yaml:"image"`
}

// Step is one job step. CircleCI steps are either bare strings
// ("checkout") or single-key mappings; exactly one field is set.
type Step struct {
	Simple         string
	Run            *Run
	RestoreCache   *RestoreCacheStep
	SaveCache      *SaveCacheStep
	StoreArtifacts *StoreArtifactsStep
}

func (s Step) MarshalYAML() (any, error) {
	switch {
	case s.Simple != "":
		return s.Simple, nil
	case s.Run != nil:
		if s.Run.Name == "" {
			return map[string]string{"run": s.Run.Command}, nil
		}
		return map[string]*Run{"run": s.Run}, nil
	case s.RestoreCache != nil:
		return map[string]*RestoreCacheStep{"restore_cache": s.RestoreCache}, nil
	case s.SaveCache != nil:
		return map[string]*SaveCacheStep{"save_cache": s.SaveCache}, nil
	case s.StoreArtifacts != nil:
		return map[string]*StoreArtifactsStep{"store_artifacts": s.StoreArtifacts}, nil
	}
	return nil, nil
}

// Run is a `run:` step body.
type Run struct {
	Name    string `yaml:"name,omitempty"`
	Command string `yaml:"command"`
}

// RestoreCacheStep is a `restore_cache:` step body.
type RestoreCacheStep struct {
	Keys []string `yaml:"keys"`
}

// SaveCacheStep is a `save_cache:` step body.
type SaveCacheStep struct {
	Key   string   `yaml:"key"`
	Paths []string `yaml:"paths"`
}

// StoreArtifactsStep is a `store_artifacts:` step body.
type StoreArtifactsStep struct {
	Path        string `yaml:"path"`
	Destination string `yaml:"destination,omitempty"`
}

// Workflow is one entry under `workflows:`.
type Workflow struct {
	Jobs []WorkflowJob `yaml:"jobs"`
}

// WorkflowJob references a job from a workflow, optionally with
// dependency edges and run filters. A bare reference marshals as a
// plain string.
type WorkflowJob struct {
	Name     string
	Requires []string
	Filters  *Filters
}

func (w WorkflowJob) MarshalYAML() (any, error) {
	if len(w.Requires) == 0 && w.Filters == nil {
		return w.Name, nil
	}
	body := yamlutil.Map{}
	if len(w.Requires) > 0 {
		body = body.Add("requires", w.Requires)
	}
	if w.Filters != nil {
		body = body.Add("filters", w.Filters)
	}
	return yamlutil.Map{}.Add(w.Name, body), nil
}

// Filters restricts when a workflow job runs.
type Filters struct {
	Branches *FilterSpec `yaml:"branches,omitempty"`
	Tags     *FilterSpec `yaml:"tags,omitempty"`
}

// FilterSpec lists branch or tag patterns to match or skip.
type FilterSpec struct {
	Only   []string `yaml:"only,omitempty"`
	Ignore []string `yaml:"ignore,omitempty"`
}
