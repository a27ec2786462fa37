// Package gitlab transforms generic pipelines into .gitlab-ci.yml
// configurations.
package gitlab

import (
	"gopkg.in/yaml.v3"

	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Config mirrors the .gitlab-ci.yml schema. Jobs live at the document
// top level next to the reserved keywords, so marshaling flattens them
// after stages/workflow/variables in declaration order.
type Config struct {
	Stages    []string
	Workflow  *Workflow
	Variables yamlutil.Map
	Jobs      yamlutil.Map // job name -> *Job
}

func (c *Config) MarshalYAML() (any, error) {
	var top yamlutil.Map
	if len(c.Stages) > 0 {
		top = top.Add("stages", c.Stages)
	}
	if c.Workflow != nil {
		top = top.Add("workflow", c.Workflow)
	}
	if len(c.Variables) > 0 {
		top = top.Add("variables", c.Variables)
	}
	top = append(top, c.Jobs...)
	return top.MarshalYAML()
}

// Render serializes the config as YAML.
func (c *Config) Render() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Workflow holds pipeline-level rules controlling when the pipeline is
// created at all.
type Workflow struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is one `rules:` entry.
type Rule struct {
	If string `yaml:"if"`
}

// Job is one top-level job entry.
type Job struct {
	Stage        string     `yaml:"stage"`
	Image        string     `yaml:"image,omitempty"`
	Needs        []string   `yaml:"needs,omitempty"`
	Rules        []Rule     `yaml:"rules,omitempty"`
	Parallel     *Parallel  `yaml:"parallel,omitempty"`
	Timeout      string     `yaml:"timeout,omitempty"`
	AllowFailure bool       `yaml:"allow_failure,omitempty"`
	Cache        *CacheSpec `yaml:"cache,omitempty"`
	Artifacts    *Artifacts `yaml:"artifacts,omitempty"`
	Script       []string   `yaml:"script"`
}

// Parallel holds the native matrix declaration. A single entry with all
// axes yields the full cartesian product.
type Parallel struct {
	Matrix []yamlutil.Map `yaml:"matrix"`
}

// CacheSpec is a job-level cache declaration.
type CacheSpec struct {
	Key    string   `yaml:"key"`
	Paths  []string `yaml:"paths,omitempty"`
	Policy string   `yaml:"policy,omitempty"`
}

// Artifacts is a job-level artifact declaration.
type Artifacts struct {
	Name  string   `yaml:"name,omitempty"`
	Paths []string `yaml:"paths"`
}
