package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cigen-dev/cigen/internal/model"
)

// Load reads a pipeline file and converts it into a validated generic
// Pipeline.
func Load(path string) (*model.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}
	return Parse(data)
}

// Parse decodes pipeline YAML and validates the result.
func Parse(data []byte) (*model.Pipeline, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pipeline YAML: %w", err)
	}

	p, err := convert(&f.Pipeline)
	if err != nil {
		return nil, err
	}

	if verrs := model.Validate(p); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("invalid pipeline: %w", errors.Join(errs...))
	}
	return p, nil
}

func convert(doc *Doc) (*model.Pipeline, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("pipeline.name is required")
	}

	p := &model.Pipeline{Name: doc.Name, Env: doc.Env}

	for i, t := range doc.Triggers {
		trigger, err := convertTrigger(t)
		if err != nil {
			return nil, fmt.Errorf("pipeline.triggers[%d]: %w", i, err)
		}
		p.Triggers = append(p.Triggers, trigger)
	}

	for i, j := range doc.Jobs {
		job, err := convertJob(j)
		if err != nil {
			return nil, fmt.Errorf("pipeline.jobs[%d] (%s): %w", i, j.Name, err)
		}
		p.Jobs = append(p.Jobs, job)
	}

	return p, nil
}

func convertTrigger(t TriggerDoc) (model.Trigger, error) {
	switch t.On {
	case "push":
		return model.OnPush(t.Branches...), nil
	case "pull_request":
		return model.OnPullRequest(t.Branches...), nil
	case "tag":
		return model.OnTag(t.Pattern), nil
	case "schedule":
		if t.Cron == "" {
			return model.Trigger{}, fmt.Errorf("schedule trigger requires cron")
		}
		return model.OnSchedule(t.Cron), nil
	case "manual":
		return model.OnManual(), nil
	default:
		return model.Trigger{}, fmt.Errorf("unknown trigger %q", t.On)
	}
}

func convertJob(j JobDoc) (model.Job, error) {
	job := model.Job{
		Name:            j.Name,
		Runner:          model.Runner(j.Runner),
		Needs:           j.Needs,
		TimeoutMinutes:  j.TimeoutMinutes,
		ContinueOnError: j.ContinueOnError,
	}
	if job.Name == "" {
		return job, fmt.Errorf("name is required")
	}

	matrix, err := convertMatrix(&j.Matrix)
	if err != nil {
		return job, err
	}
	job.Matrix = matrix

	if j.Only != "" {
		cond, err := convertCondition(j.Only)
		if err != nil {
			return job, err
		}
		job.When = cond
	}

	for i, s := range j.Steps {
		step, err := convertStep(s)
		if err != nil {
			return job, fmt.Errorf("steps[%d]: %w", i, err)
		}
		job.Steps = append(job.Steps, step)
	}
	return job, nil
}

// convertMatrix walks the raw mapping node so axes keep their declared
// order.
func convertMatrix(node *yaml.Node) (*model.Matrix, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("matrix must be a mapping of axis name to value list")
	}

	m := &model.Matrix{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var values []string
		if err := valNode.Decode(&values); err != nil {
			return nil, fmt.Errorf("matrix axis %q: %w", keyNode.Value, err)
		}
		m.Axes = append(m.Axes, model.Axis{Name: keyNode.Value, Values: values})
	}
	return m, nil
}

func convertCondition(only string) (*model.Condition, error) {
	if only == "tags" {
		return &model.Condition{Kind: model.OnlyTags}, nil
	}
	if branch, ok := strings.CutPrefix(only, "branch:"); ok && branch != "" {
		return &model.Condition{Kind: model.OnlyBranch, Branch: branch}, nil
	}
	return nil, fmt.Errorf("unknown condition %q (want \"tags\" or \"branch:<name>\")", only)
}

func convertStep(s StepDoc) (model.Step, error) {
	lang := model.Language(s.Language)

	switch s.Type {
	case "checkout":
		return model.Checkout{}, nil
	case "setup_toolchain":
		return model.SetupToolchain{Language: lang, Version: s.Version}, nil
	case "install_dependencies":
		return model.InstallDependencies{Language: lang, Manager: s.Manager}, nil
	case "run_tests":
		return model.RunTests{Language: lang, Coverage: s.Coverage}, nil
	case "run_linter":
		return model.RunLinter{Language: lang, Tool: s.Tool}, nil
	case "security_scan":
		return model.SecurityScan{Language: lang, Tool: s.Tool}, nil
	case "build":
		return model.Build{Language: lang, Release: s.Release}, nil
	case "run_command":
		if s.Command == "" {
			return nil, fmt.Errorf("run_command requires command")
		}
		return model.RunCommand{Name: s.Name, Command: s.Command, WorkingDir: s.WorkingDir}, nil
	case "cache":
		return model.Cache{Paths: s.Paths, Key: s.Key}, nil
	case "restore_cache":
		return model.RestoreCache{Key: s.Key}, nil
	case "upload_artifact":
		return model.UploadArtifact{Name: s.Name, Paths: s.Paths}, nil
	case "upload_coverage":
		return model.UploadCoverage{Provider: model.CoverageProvider(s.Provider)}, nil
	case "publish_package":
		return model.PublishPackage{Registry: model.Registry(s.Registry), TokenEnv: s.TokenEnv}, nil
	case "publish_release":
		return model.PublishRelease{TagPattern: s.TagPattern, Artifacts: s.Artifacts}, nil
	case "":
		return nil, fmt.Errorf("step type is required")
	default:
		return nil, fmt.Errorf("unknown step type %q", s.Type)
	}
}
