package circleci

import (
	"fmt"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Adapter transforms generic pipelines into CircleCI configurations.
//
// Matrix policy: manual expansion. CircleCI's matrix primitive requires
// parameterized job definitions, so a job matrix is expanded into one
// concrete job per combination, named `job-<v1>-<v2>` with axis values
// in declaration order. Dependency edges onto an expanded job fan out to
// every combination.
type Adapter struct{}

// New returns the CircleCI adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Platform() platform.Platform { return platform.CircleCI }

// OutputPath is the single config file CircleCI reads.
func (a *Adapter) OutputPath(p *model.Pipeline) string {
	return ".circleci/config.yml"
}

func (a *Adapter) Transform(p *model.Pipeline) (platform.Document, error) {
	cfg := &Config{Version: "2.1"}

	// Expanded names per source job, computed up front so requires edges
	// resolve regardless of declaration order.
	expanded := make(map[string][]string, len(p.Jobs))
	allCombos := make([][]map[string]string, len(p.Jobs))
	for i, job := range p.Jobs {
		combos, err := combinations(job)
		if err != nil {
			return nil, err
		}
		allCombos[i] = combos
		for _, combo := range combos {
			name := job.Name
			if combo != nil {
				name = platform.ExpandedName(job.Name, job.Matrix.Axes, combo)
			}
			expanded[job.Name] = append(expanded[job.Name], name)
		}
	}

	var workflowJobs []WorkflowJob
	for i, job := range p.Jobs {
		for j, combo := range allCombos[i] {
			name := expanded[job.Name][j]

			cj, err := buildJob(p, job, combo)
			if err != nil {
				return nil, err
			}
			cfg.Jobs = cfg.Jobs.Add(name, cj)

			wj := WorkflowJob{Name: name}
			for _, dep := range job.Needs {
				wj.Requires = append(wj.Requires, expanded[dep]...)
			}
			if job.When != nil {
				wj.Filters = conditionFilters(job.When)
			}
			workflowJobs = append(workflowJobs, wj)
		}
	}

	cfg.Workflows = yamlutil.Map{}.Add("main", &Workflow{Jobs: workflowJobs})
	return cfg, nil
}

// combinations returns the matrix combinations for a job, or a single
// nil combination for matrix-free jobs.
func combinations(job model.Job) ([]map[string]string, error) {
	if job.Matrix == nil {
		return []map[string]string{nil}, nil
	}
	if size := job.Matrix.Size(); size > platform.MaxMatrixJobs {
		return nil, platform.BadMatrix(platform.CircleCI, job.Name,
			fmt.Sprintf("matrix expands to %d jobs, limit is %d", size, platform.MaxMatrixJobs))
	}
	return job.Matrix.Combinations(), nil
}

func buildJob(p *model.Pipeline, job model.Job, combo map[string]string) (*Job, error) {
	env := make(map[string]string, len(p.Env)+len(combo))
	for k, v := range p.Env {
		env[k] = v
	}
	// Matrix values are exposed as environment variables so the job's
	// steps stay identical across combinations.
	for k, v := range combo {
		env["MATRIX_"+sanitizeEnvName(k)] = v
	}

	cj := &Job{
		Docker:      []DockerImage{{Image: executorImage(job)}},
		Environment: yamlutil.Sorted(env),
		Steps:       []Step{{Simple: "checkout"}},
	}

	for i, s := range job.Steps {
		steps, err := transformStep(job.Name, i, s)
		if err != nil {
			return nil, err
		}
		cj.Steps = append(cj.Steps, steps...)
	}
	return cj, nil
}

// executorImage picks the docker executor. A SetupToolchain step selects
// the matching convenience image so the toolchain is preinstalled.
func executorImage(job model.Job) string {
	for _, s := range job.Steps {
		if st, ok := s.(model.SetupToolchain); ok {
			switch st.Language {
			case model.Rust:
				return "cimg/rust:" + versionOr(st.Version, "1.75")
			case model.Go:
				return "cimg/go:" + versionOr(st.Version, "1.21")
			case model.Python:
				return "cimg/python:" + versionOr(st.Version, "3.11")
			}
		}
	}
	return "cimg/base:2024.01"
}

func versionOr(v, fallback string) string {
	if v == "" || v == "stable" {
		return fallback
	}
	return v
}

func sanitizeEnvName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-'a'+'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func conditionFilters(c *model.Condition) *Filters {
	switch c.Kind {
	case model.OnlyTags:
		return &Filters{
			Tags:     &FilterSpec{Only: []string{`/.*/`}},
			Branches: &FilterSpec{Ignore: []string{`/.*/`}},
		}
	case model.OnlyBranch:
		return &Filters{Branches: &FilterSpec{Only: []string{c.Branch}}}
	default:
		return nil
	}
}

// transformStep maps one abstract step to CircleCI steps. The mapping is
// total; unmappable configurations fail with an unsupported-step error.
func transformStep(job string, idx int, s model.Step) ([]Step, error) {
	unsupported := func(reason string) error {
		return platform.Unsupported(platform.CircleCI, job, idx, s.Kind(), reason)
	}

	switch st := s.(type) {
	case model.Checkout:
		// Already emitted as the leading checkout step.
		return nil, nil

	case model.SetupToolchain:
		// The executor image carries the toolchain; surface its version
		// so the build log records what ran.
		var cmd string
		switch st.Language {
		case model.Rust:
			cmd = "rustc --version && cargo --version"
		case model.Go:
			cmd = "go version"
		case model.Python:
			cmd = "python --version"
		default:
			return nil, unsupported(fmt.Sprintf("unsupported language %q", st.Language))
		}
		return []Step{{Run: &Run{Name: "Show toolchain version", Command: cmd}}}, nil

	case model.InstallDependencies:
		cmd, err := platform.InstallCommand(st.Language, st.Manager)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []Step{{Run: &Run{Name: "Install dependencies", Command: cmd}}}, nil

	case model.RunTests:
		cmds, err := platform.TestCommands(st.Language, st.Coverage)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		steps := make([]Step, 0, len(cmds))
		for _, cmd := range cmds {
			steps = append(steps, Step{Run: &Run{Command: cmd}})
		}
		return steps, nil

	case model.RunLinter:
		cmd, err := platform.LintCommand(st.Language, st.Tool)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []Step{{Run: &Run{Name: "Run " + st.Tool, Command: cmd}}}, nil

	case model.SecurityScan:
		cmd, err := platform.ScanCommand(st.Language, st.Tool)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		var steps []Step
		if st.Language == model.Rust {
			steps = append(steps, Step{Run: &Run{Command: "cargo install cargo-" + st.Tool}})
		}
		return append(steps, Step{Run: &Run{Name: "Security scan", Command: cmd}}), nil

	case model.Build:
		cmd, err := platform.BuildCommand(st.Language, st.Release)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []Step{{Run: &Run{Name: "Build", Command: cmd}}}, nil

	case model.RunCommand:
		cmd := st.Command
		if st.WorkingDir != "" {
			cmd = fmt.Sprintf("cd %s && %s", st.WorkingDir, st.Command)
		}
		return []Step{{Run: &Run{Name: st.Name, Command: cmd}}}, nil

	case model.Cache:
		return []Step{
			{RestoreCache: &RestoreCacheStep{Keys: []string{st.Key}}},
			{SaveCache: &SaveCacheStep{Key: st.Key, Paths: st.Paths}},
		}, nil

	case model.RestoreCache:
		return []Step{{RestoreCache: &RestoreCacheStep{Keys: []string{st.Key}}}}, nil

	case model.UploadArtifact:
		steps := make([]Step, 0, len(st.Paths))
		for _, path := range st.Paths {
			steps = append(steps, Step{StoreArtifacts: &StoreArtifactsStep{
				Path:        path,
				Destination: st.Name,
			}})
		}
		return steps, nil

	case model.UploadCoverage:
		if st.Provider != model.Codecov {
			return nil, unsupported(fmt.Sprintf("no %s uploader for circleci", st.Provider))
		}
		return []Step{{Run: &Run{
			Name:    "Upload coverage to Codecov",
			Command: "bash <(curl -s https://codecov.io/bash)",
		}}}, nil

	case model.PublishPackage:
		cmd, tokenVar, err := platform.PublishCommand(st.Registry)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []Step{{Run: &Run{
			Name:    "Publish package",
			Command: fmt.Sprintf("export %s=$%s && %s", tokenVar, st.TokenEnv, cmd),
		}}}, nil

	case model.PublishRelease:
		return nil, unsupported("circleci has no native release construct; publish releases from the forge platform")
	}

	return nil, unsupported("unhandled step variant")
}
