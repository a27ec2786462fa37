package github

import (
	"fmt"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Adapter transforms generic pipelines into GitHub Actions workflows.
//
// Matrix policy: native. GitHub supports declarative matrices, so a job
// matrix becomes a single `strategy.matrix` block.
type Adapter struct{}

// New returns the GitHub Actions adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Platform() platform.Platform { return platform.GitHubActions }

// OutputPath places each pipeline in its own workflow file.
func (a *Adapter) OutputPath(p *model.Pipeline) string {
	return fmt.Sprintf(".github/workflows/%s.yml", platform.Slug(p.Name))
}

func (a *Adapter) Transform(p *model.Pipeline) (platform.Document, error) {
	w := &Workflow{
		Name: p.Name,
		On:   transformTriggers(p.Triggers),
		Env:  yamlutil.Sorted(p.Env),
	}

	for _, job := range p.Jobs {
		steps := make([]Step, 0, len(job.Steps))
		for i, s := range job.Steps {
			gs, err := transformStep(job.Name, i, s)
			if err != nil {
				return nil, err
			}
			steps = append(steps, gs)
		}

		gj := &Job{
			RunsOn:          runnerLabel(job.Runner),
			Needs:           job.Needs,
			TimeoutMinutes:  job.TimeoutMinutes,
			ContinueOnError: job.ContinueOnError,
			Steps:           steps,
		}
		if job.Matrix != nil {
			var axes yamlutil.Map
			for _, axis := range job.Matrix.Axes {
				axes = axes.Add(axis.Name, axis.Values)
			}
			gj.Strategy = &Strategy{Matrix: axes}
		}
		if job.When != nil {
			gj.If = condition(job.When)
		}
		w.Jobs = w.Jobs.Add(job.Name, gj)
	}

	return w, nil
}

// runnerLabel passes runner names through: the generic vocabulary uses
// GitHub's own labels, and anything else is a custom self-hosted label.
func runnerLabel(r model.Runner) string {
	if r == "" {
		return string(model.UbuntuLatest)
	}
	return string(r)
}

func condition(c *model.Condition) string {
	switch c.Kind {
	case model.OnlyTags:
		return "startsWith(github.ref, 'refs/tags/')"
	case model.OnlyBranch:
		return fmt.Sprintf("github.ref == 'refs/heads/%s'", c.Branch)
	default:
		return ""
	}
}

func transformTriggers(triggers []model.Trigger) yamlutil.Map {
	var on yamlutil.Map
	pushIdx := -1

	for _, t := range triggers {
		switch t.Kind {
		case model.TriggerPush:
			if pushIdx == -1 {
				on = on.Add("push", &TriggerConfig{Branches: t.Branches})
				pushIdx = len(on) - 1
			} else {
				cfg := on[pushIdx].Value.(*TriggerConfig)
				cfg.Branches = append(cfg.Branches, t.Branches...)
			}
		case model.TriggerTag:
			// Tag triggers ride on the push event.
			if pushIdx == -1 {
				on = on.Add("push", &TriggerConfig{Tags: []string{t.Pattern}})
				pushIdx = len(on) - 1
			} else {
				cfg := on[pushIdx].Value.(*TriggerConfig)
				cfg.Tags = append(cfg.Tags, t.Pattern)
			}
		case model.TriggerPullRequest:
			on = on.Add("pull_request", &TriggerConfig{Branches: t.Branches})
		case model.TriggerSchedule:
			on = on.Add("schedule", []ScheduleEntry{{Cron: t.Cron}})
		case model.TriggerManual:
			on = on.Add("workflow_dispatch", struct{}{})
		}
	}
	return on
}

// transformStep maps one abstract step to a workflow step. The mapping
// is total over the step union; new variants fail loudly through the
// default case.
func transformStep(job string, idx int, s model.Step) (Step, error) {
	switch st := s.(type) {
	case model.Checkout:
		return Step{Name: "Checkout code", Uses: "actions/checkout@v4"}, nil

	case model.SetupToolchain:
		switch st.Language {
		case model.Rust:
			return Step{
				Name: "Setup Rust toolchain",
				Uses: "dtolnay/rust-toolchain@stable",
				With: yamlutil.Map{}.Add("toolchain", st.Version),
			}, nil
		case model.Python:
			return Step{
				Name: "Setup Python",
				Uses: "actions/setup-python@v5",
				With: yamlutil.Map{}.Add("python-version", st.Version),
			}, nil
		case model.Go:
			return Step{
				Name: "Setup Go",
				Uses: "actions/setup-go@v5",
				With: yamlutil.Map{}.Add("go-version", st.Version),
			}, nil
		}
		return Step{}, unsupportedLanguage(job, idx, s, st.Language)

	case model.InstallDependencies:
		cmd, err := platform.InstallCommand(st.Language, st.Manager)
		if err != nil {
			return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(), err.Error())
		}
		return Step{Name: "Install dependencies", Run: cmd}, nil

	case model.RunTests:
		switch st.Language {
		case model.Rust:
			if st.Coverage {
				return Step{
					Name: "Run tests with coverage",
					Uses: "actions-rs/tarpaulin@v0.1",
					With: yamlutil.Map{}.Add("args", "--all-features --workspace"),
				}, nil
			}
			return Step{Name: "Run tests", Run: "cargo test --all-features"}, nil
		case model.Python:
			if st.Coverage {
				return Step{Name: "Run tests with coverage", Run: "pytest --cov"}, nil
			}
			return Step{Name: "Run tests", Run: "pytest"}, nil
		case model.Go:
			if st.Coverage {
				return Step{Name: "Run tests with coverage", Run: "go test -v -coverprofile=coverage.out ./..."}, nil
			}
			return Step{Name: "Run tests", Run: "go test -v ./..."}, nil
		}
		return Step{}, unsupportedLanguage(job, idx, s, st.Language)

	case model.RunLinter:
		cmd, err := platform.LintCommand(st.Language, st.Tool)
		if err != nil {
			return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(), err.Error())
		}
		return Step{Name: fmt.Sprintf("Run %s", st.Tool), Run: cmd}, nil

	case model.SecurityScan:
		cmd, err := platform.ScanCommand(st.Language, st.Tool)
		if err != nil {
			return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(), err.Error())
		}
		return Step{Name: fmt.Sprintf("Security scan (%s)", st.Tool), Run: cmd}, nil

	case model.Build:
		cmd, err := platform.BuildCommand(st.Language, st.Release)
		if err != nil {
			return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(), err.Error())
		}
		return Step{Name: "Build", Run: cmd}, nil

	case model.RunCommand:
		step := Step{Name: st.Name, Run: st.Command}
		if st.WorkingDir != "" {
			step.With = yamlutil.Map{}.Add("working-directory", st.WorkingDir)
		}
		return step, nil

	case model.Cache:
		return Step{
			Name: "Cache dependencies",
			Uses: "actions/cache@v4",
			With: yamlutil.Map{}.
				Add("path", platform.JoinLines(st.Paths)).
				Add("key", st.Key),
		}, nil

	case model.RestoreCache:
		return Step{
			Name: "Restore cache",
			Uses: "actions/cache/restore@v4",
			With: yamlutil.Map{}.Add("key", st.Key),
		}, nil

	case model.UploadArtifact:
		return Step{
			Name: fmt.Sprintf("Upload %s", st.Name),
			Uses: "actions/upload-artifact@v4",
			With: yamlutil.Map{}.
				Add("name", st.Name).
				Add("path", platform.JoinLines(st.Paths)),
		}, nil

	case model.UploadCoverage:
		switch st.Provider {
		case model.Codecov:
			return Step{Name: "Upload coverage to Codecov", Uses: "codecov/codecov-action@v4"}, nil
		case model.Coveralls:
			return Step{Name: "Upload coverage to Coveralls", Uses: "coverallsapp/github-action@v2"}, nil
		case model.CodeClimate:
			return Step{Name: "Upload coverage to Code Climate", Uses: "paambaati/codeclimate-action@v5"}, nil
		}
		return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(),
			fmt.Sprintf("unknown coverage provider %q", st.Provider))

	case model.PublishPackage:
		switch st.Registry {
		case model.CratesIO:
			return Step{
				Name: "Publish to crates.io",
				Run:  "cargo publish",
				Env:  yamlutil.Map{}.Add("CARGO_REGISTRY_TOKEN", secretRef(st.TokenEnv)),
			}, nil
		case model.PyPI:
			return Step{
				Name: "Publish to PyPI",
				Run:  "python -m twine upload dist/*",
				Env:  yamlutil.Map{}.Add("TWINE_PASSWORD", secretRef(st.TokenEnv)),
			}, nil
		case model.NPM:
			return Step{
				Name: "Publish to npm",
				Run:  "npm publish",
				Env:  yamlutil.Map{}.Add("NODE_AUTH_TOKEN", secretRef(st.TokenEnv)),
			}, nil
		}
		return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(),
			fmt.Sprintf("unknown registry %q", st.Registry))

	case model.PublishRelease:
		return Step{
			Name: "Create release",
			Uses: "softprops/action-gh-release@v1",
			With: yamlutil.Map{}.Add("files", platform.JoinLines(st.Artifacts)),
		}, nil
	}

	return Step{}, platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(), "unhandled step variant")
}

func unsupportedLanguage(job string, idx int, s model.Step, lang model.Language) error {
	return platform.Unsupported(platform.GitHubActions, job, idx, s.Kind(),
		fmt.Sprintf("unsupported language %q", lang))
}

func secretRef(name string) string {
	return fmt.Sprintf("${{ secrets.%s }}", name)
}
