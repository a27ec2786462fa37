// Package config loads user-authored pipeline files: the manual
// composition path next to the preset library. A pipeline file is a
// YAML document describing the generic model directly; loading decodes
// it, resolves the step union by the `type` tag, and validates the
// result before any adapter sees it.
package config

import "gopkg.in/yaml.v3"

// File is the top-level structure of a pipeline YAML file.
type File struct {
	Pipeline Doc `yaml:"pipeline"`
}

// Doc is the pipeline body.
type Doc struct {
	Name     string            `yaml:"name"`
	Env      map[string]string `yaml:"env"`
	Triggers []TriggerDoc      `yaml:"triggers"`
	Jobs     []JobDoc          `yaml:"jobs"`
}

// TriggerDoc is one trigger entry, discriminated by `on`.
type TriggerDoc struct {
	On       string   `yaml:"on"` // push, pull_request, tag, schedule, manual
	Branches []string `yaml:"branches"`
	Pattern  string   `yaml:"pattern"`
	Cron     string   `yaml:"cron"`
}

// JobDoc is one job entry.
type JobDoc struct {
	Name   string   `yaml:"name"`
	Runner string   `yaml:"runner"`
	Needs  []string `yaml:"needs"`
	// Matrix is kept as a raw node because axis declaration order is
	// significant and plain Go maps would lose it.
	Matrix          yaml.Node `yaml:"matrix"`
	Only            string    `yaml:"only"` // "tags" or "branch:<name>"
	TimeoutMinutes  int       `yaml:"timeout_minutes"`
	ContinueOnError bool      `yaml:"continue_on_error"`
	Steps           []StepDoc `yaml:"steps"`
}

// StepDoc is one step entry, discriminated by `type`. Only the fields
// relevant to the step type are read; the rest stay zero.
type StepDoc struct {
	Type       string   `yaml:"type"`
	Language   string   `yaml:"language"`
	Version    string   `yaml:"version"`
	Manager    string   `yaml:"manager"`
	Tool       string   `yaml:"tool"`
	Coverage   bool     `yaml:"coverage"`
	Release    bool     `yaml:"release"`
	Name       string   `yaml:"name"`
	Command    string   `yaml:"command"`
	WorkingDir string   `yaml:"working_dir"`
	Key        string   `yaml:"key"`
	Paths      []string `yaml:"paths"`
	Provider   string   `yaml:"provider"`
	Registry   string   `yaml:"registry"`
	TokenEnv   string   `yaml:"token_env"`
	TagPattern string   `yaml:"tag_pattern"`
	Artifacts  []string `yaml:"artifacts"`
}
