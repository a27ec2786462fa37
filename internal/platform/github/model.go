// Package github transforms generic pipelines into GitHub Actions
// workflow files.
package github

import (
	"gopkg.in/yaml.v3"

	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Workflow mirrors the GitHub Actions workflow schema.
type Workflow struct {
	Name string       `yaml:"name"`
	On   yamlutil.Map `yaml:"on"`
	Env  yamlutil.Map `yaml:"env,omitempty"`
	Jobs yamlutil.Map `yaml:"jobs"`
}

// Render serializes the workflow as YAML.
func (w *Workflow) Render() (string, error) {
	out, err := yaml.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// TriggerConfig is the value of one `on:` entry.
type TriggerConfig struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// ScheduleEntry is one `on: schedule:` list element.
type ScheduleEntry struct {
	Cron string `yaml:"cron"`
}

// Job is one entry under `jobs:`.
type Job struct {
	RunsOn          string    `yaml:"runs-on"`
	If              string    `yaml:"if,omitempty"`
	Needs           []string  `yaml:"needs,omitempty"`
	Strategy        *Strategy `yaml:"strategy,omitempty"`
	TimeoutMinutes  int       `yaml:"timeout-minutes,omitempty"`
	ContinueOnError bool      `yaml:"continue-on-error,omitempty"`
	Steps           []Step    `yaml:"steps"`
}

// Strategy holds the native matrix declaration.
type Strategy struct {
	Matrix yamlutil.Map `yaml:"matrix"`
}

// Step is one workflow step: either an action reference (`uses`) or a
// shell command (`run`), never both.
type Step struct {
	Name string       `yaml:"name,omitempty"`
	Uses string       `yaml:"uses,omitempty"`
	Run  string       `yaml:"run,omitempty"`
	With yamlutil.Map `yaml:"with,omitempty"`
	Env  yamlutil.Map `yaml:"env,omitempty"`
}
