package jenkins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
)

// Adapter transforms generic pipelines into declarative Jenkinsfiles.
//
// Matrix policy: manual expansion. A job matrix becomes one stage per
// combination, named `job-<v1>-<v2>` with axis values in declaration
// order.
//
// Ordering: declarative stages run sequentially, so the platform forces
// a total order. Stages are emitted in a topological order of the
// dependency graph that preserves declaration order among independent
// jobs, which satisfies every declared edge.
type Adapter struct{}

// New returns the Jenkins adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Platform() platform.Platform { return platform.Jenkins }

// OutputPath is the Jenkinsfile at the repository root.
func (a *Adapter) OutputPath(p *model.Pipeline) string {
	return "Jenkinsfile"
}

func (a *Adapter) Transform(p *model.Pipeline) (platform.Document, error) {
	jp := &Pipeline{Agent: "any"}

	env := make([]EnvVar, 0, len(p.Env))
	keys := make([]string, 0, len(p.Env))
	for k := range p.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, EnvVar{Name: k, Value: p.Env[k]})
	}
	jp.Environment = env

	for _, t := range p.Triggers {
		// Push/PR/tag triggers are job configuration in Jenkins, not
		// Jenkinsfile content; only schedules have a declarative home.
		if t.Kind == model.TriggerSchedule {
			jp.Cron = t.Cron
			break
		}
	}

	for _, job := range topoOrder(p.Jobs) {
		stages, err := buildStages(job)
		if err != nil {
			return nil, err
		}
		jp.Stages = append(jp.Stages, stages...)
	}

	return jp, nil
}

// topoOrder returns jobs sorted so every dependency precedes its
// dependents, keeping declaration order among unordered jobs. The input
// passed validation, so the graph is acyclic.
func topoOrder(jobs []model.Job) []model.Job {
	exists := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		exists[j.Name] = true
	}

	placed := make(map[string]bool, len(jobs))
	ordered := make([]model.Job, 0, len(jobs))
	remaining := append([]model.Job(nil), jobs...)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, j := range remaining {
			ready := true
			for _, dep := range j.Needs {
				if exists[dep] && !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, j)
				placed[j.Name] = true
				progress = true
			} else {
				next = append(next, j)
			}
		}
		remaining = next
		if !progress {
			// Unreachable for validated input; emit the rest as-is
			// rather than loop forever.
			ordered = append(ordered, remaining...)
			break
		}
	}
	return ordered
}

// buildStages expands one job into one or more stages.
func buildStages(job model.Job) ([]Stage, error) {
	var when *When
	if job.When != nil {
		switch job.When.Kind {
		case model.OnlyTags:
			when = &When{BuildingTag: true}
		case model.OnlyBranch:
			when = &When{Branch: job.When.Branch}
		}
	}

	steps, err := transformSteps(job)
	if err != nil {
		return nil, err
	}

	if job.Matrix == nil {
		return []Stage{{
			Name:           job.Name,
			When:           when,
			TimeoutMinutes: job.TimeoutMinutes,
			Steps:          steps,
		}}, nil
	}

	if size := job.Matrix.Size(); size > platform.MaxMatrixJobs {
		return nil, platform.BadMatrix(platform.Jenkins, job.Name,
			fmt.Sprintf("matrix expands to %d stages, limit is %d", size, platform.MaxMatrixJobs))
	}

	combos := job.Matrix.Combinations()
	stages := make([]Stage, 0, len(combos))
	for _, combo := range combos {
		stages = append(stages, Stage{
			Name:           platform.ExpandedName(job.Name, job.Matrix.Axes, combo),
			When:           when,
			TimeoutMinutes: job.TimeoutMinutes,
			Steps:          steps,
		})
	}
	return stages, nil
}

func transformSteps(job model.Job) ([]string, error) {
	var out []string
	for i, s := range job.Steps {
		lines, err := transformStep(job.Name, i, s)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

// sh wraps a shell command as a Jenkins sh step.
func sh(cmd string) string {
	return fmt.Sprintf("sh '%s'", groovyEscape(cmd))
}

// transformStep maps one abstract step to Jenkinsfile step lines. The
// mapping is total; unmappable configurations fail with an
// unsupported-step error.
func transformStep(job string, idx int, s model.Step) ([]string, error) {
	unsupported := func(reason string) error {
		return platform.Unsupported(platform.Jenkins, job, idx, s.Kind(), reason)
	}

	switch st := s.(type) {
	case model.Checkout:
		return []string{"checkout scm"}, nil

	case model.SetupToolchain:
		switch st.Language {
		case model.Rust:
			return []string{sh(fmt.Sprintf(
				"curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- -y --default-toolchain %s",
				st.Version))}, nil
		case model.Python:
			return []string{sh(fmt.Sprintf("python%s --version", st.Version))}, nil
		case model.Go:
			return []string{sh("go version")}, nil
		}
		return nil, unsupported(fmt.Sprintf("unsupported language %q", st.Language))

	case model.InstallDependencies:
		cmd, err := platform.InstallCommand(st.Language, st.Manager)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []string{sh(cmd)}, nil

	case model.RunTests:
		cmds, err := platform.TestCommands(st.Language, st.Coverage)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		lines := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			lines = append(lines, sh(cmd))
		}
		return lines, nil

	case model.RunLinter:
		cmd, err := platform.LintCommand(st.Language, st.Tool)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []string{sh(cmd)}, nil

	case model.SecurityScan:
		cmd, err := platform.ScanCommand(st.Language, st.Tool)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		var lines []string
		if st.Language == model.Rust {
			lines = append(lines, sh("cargo install cargo-"+st.Tool))
		}
		return append(lines, sh(cmd)), nil

	case model.Build:
		cmd, err := platform.BuildCommand(st.Language, st.Release)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []string{sh(cmd)}, nil

	case model.RunCommand:
		if st.WorkingDir != "" {
			return []string{fmt.Sprintf("dir('%s') {", groovyEscape(st.WorkingDir)),
				"    " + sh(st.Command), "}"}, nil
		}
		return []string{sh(st.Command)}, nil

	case model.Cache:
		// Jenkins workspaces persist on the agent; there is no cache
		// primitive to target and nothing is lost by omitting one.
		return nil, nil

	case model.RestoreCache:
		return nil, nil

	case model.UploadArtifact:
		return []string{fmt.Sprintf(
			"archiveArtifacts artifacts: '%s', fingerprint: true",
			groovyEscape(strings.Join(st.Paths, ",")))}, nil

	case model.UploadCoverage:
		if st.Provider != model.Codecov {
			return nil, unsupported(fmt.Sprintf("no %s uploader for jenkins", st.Provider))
		}
		return []string{sh("bash <(curl -s https://codecov.io/bash)")}, nil

	case model.PublishPackage:
		cmd, tokenVar, err := platform.PublishCommand(st.Registry)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return []string{sh(fmt.Sprintf("export %s=$%s && %s", tokenVar, st.TokenEnv, cmd))}, nil

	case model.PublishRelease:
		return nil, unsupported("jenkins has no release construct; publish releases from the forge platform")
	}

	return nil, unsupported("unhandled step variant")
}
