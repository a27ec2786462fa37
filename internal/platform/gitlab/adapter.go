package gitlab

import (
	"fmt"
	"strings"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
	"github.com/cigen-dev/cigen/internal/platform/yamlutil"
)

// Adapter transforms generic pipelines into GitLab CI configurations.
//
// Matrix policy: native. GitLab supports `parallel: matrix`, so a job
// matrix becomes a single declarative block.
//
// Stages are derived from dependency depth: jobs with no predecessors
// share the first stage, jobs depending only on those share the second,
// and so on. Each stage is named after the first job at that depth.
// Combined with `needs`, this preserves every declared edge without
// ordering jobs the model left unordered.
type Adapter struct{}

// New returns the GitLab CI adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Platform() platform.Platform { return platform.GitLabCI }

// OutputPath is the single root config GitLab reads.
func (a *Adapter) OutputPath(p *model.Pipeline) string {
	return ".gitlab-ci.yml"
}

func (a *Adapter) Transform(p *model.Pipeline) (platform.Document, error) {
	depths := jobDepths(p.Jobs)
	stages := stageNames(p.Jobs, depths)

	cfg := &Config{
		Stages:    stages,
		Workflow:  workflowRules(p.Triggers),
		Variables: yamlutil.Sorted(p.Env),
	}

	for _, job := range p.Jobs {
		gj := &Job{
			Stage:        stages[depths[job.Name]],
			Image:        runnerImage(job.Runner),
			Needs:        job.Needs,
			AllowFailure: job.ContinueOnError,
		}
		if job.TimeoutMinutes > 0 {
			gj.Timeout = fmt.Sprintf("%dm", job.TimeoutMinutes)
		}
		if job.Matrix != nil {
			var axes yamlutil.Map
			for _, axis := range job.Matrix.Axes {
				axes = axes.Add(strings.ToUpper(axis.Name), axis.Values)
			}
			gj.Parallel = &Parallel{Matrix: []yamlutil.Map{axes}}
		}
		if job.When != nil {
			gj.Rules = []Rule{{If: conditionRule(job.When)}}
		}

		for i, s := range job.Steps {
			if err := applyStep(gj, job.Name, i, s); err != nil {
				return nil, err
			}
		}
		if len(gj.Script) == 0 {
			// script is mandatory; a job whose steps all map to
			// job-level keywords still needs one line.
			gj.Script = []string{"true"}
		}

		cfg.Jobs = cfg.Jobs.Add(job.Name, gj)
	}

	return cfg, nil
}

// jobDepths returns each job's distance from the dependency roots.
func jobDepths(jobs []model.Job) map[string]int {
	byName := make(map[string]model.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	depths := make(map[string]int, len(jobs))

	var depth func(name string) int
	depth = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		d := 0
		for _, dep := range byName[name].Needs {
			if _, ok := byName[dep]; !ok {
				continue
			}
			if dd := depth(dep) + 1; dd > d {
				d = dd
			}
		}
		depths[name] = d
		return d
	}

	for _, j := range jobs {
		depth(j.Name)
	}
	return depths
}

// stageNames returns one stage per depth level, in order, each named
// after the first declared job at that depth.
func stageNames(jobs []model.Job, depths map[string]int) []string {
	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}
	stages := make([]string, maxDepth+1)
	for _, j := range jobs {
		d := depths[j.Name]
		if stages[d] == "" {
			stages[d] = j.Name
		}
	}
	return stages
}

func runnerImage(r model.Runner) string {
	switch r {
	case model.UbuntuLatest, model.Ubuntu2204, "":
		return "ubuntu:22.04"
	case model.Ubuntu2004:
		return "ubuntu:20.04"
	default:
		// GitLab shared runners are linux containers; other runner
		// requests fall back to the default image.
		return "ubuntu:latest"
	}
}

func conditionRule(c *model.Condition) string {
	switch c.Kind {
	case model.OnlyTags:
		return "$CI_COMMIT_TAG"
	case model.OnlyBranch:
		return fmt.Sprintf("$CI_COMMIT_BRANCH == %q", c.Branch)
	default:
		return ""
	}
}

func workflowRules(triggers []model.Trigger) *Workflow {
	var rules []Rule
	for _, t := range triggers {
		switch t.Kind {
		case model.TriggerPush:
			for _, b := range t.Branches {
				rules = append(rules, Rule{If: fmt.Sprintf("$CI_COMMIT_BRANCH == %q", b)})
			}
		case model.TriggerPullRequest:
			rules = append(rules, Rule{If: `$CI_PIPELINE_SOURCE == "merge_request_event"`})
		case model.TriggerTag:
			rules = append(rules, Rule{If: tagRule(t.Pattern)})
		case model.TriggerSchedule:
			rules = append(rules, Rule{If: `$CI_PIPELINE_SOURCE == "schedule"`})
		case model.TriggerManual:
			rules = append(rules, Rule{If: `$CI_PIPELINE_SOURCE == "web"`})
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return &Workflow{Rules: rules}
}

// tagRule converts a tag glob into a rule expression. A bare "*" matches
// any tag; anything else becomes an anchored regex match.
func tagRule(pattern string) string {
	if pattern == "" || pattern == "*" {
		return "$CI_COMMIT_TAG"
	}
	re := strings.ReplaceAll(pattern, ".", `\.`)
	re = strings.ReplaceAll(re, "*", ".*")
	return fmt.Sprintf("$CI_COMMIT_TAG =~ /^%s$/", re)
}

// applyStep maps one abstract step onto the job, either as script lines
// or as job-level keywords (cache, artifacts). The mapping is total;
// unmappable configurations fail with an unsupported-step error.
func applyStep(gj *Job, job string, idx int, s model.Step) error {
	unsupported := func(reason string) error {
		return platform.Unsupported(platform.GitLabCI, job, idx, s.Kind(), reason)
	}

	switch st := s.(type) {
	case model.Checkout:
		// GitLab clones the repository before every job; nothing to emit.
		return nil

	case model.SetupToolchain:
		switch st.Language {
		case model.Rust:
			gj.Script = append(gj.Script,
				fmt.Sprintf("curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- -y --default-toolchain %s", st.Version),
				"source $HOME/.cargo/env")
		case model.Python:
			gj.Script = append(gj.Script,
				fmt.Sprintf("apt-get update && apt-get install -y python%s", st.Version))
		case model.Go:
			gj.Script = append(gj.Script,
				fmt.Sprintf("wget -qO- https://go.dev/dl/go%s.linux-amd64.tar.gz | tar -C /usr/local -xz", st.Version),
				"export PATH=$PATH:/usr/local/go/bin")
		default:
			return unsupported(fmt.Sprintf("unsupported language %q", st.Language))
		}
		return nil

	case model.InstallDependencies:
		cmd, err := platform.InstallCommand(st.Language, st.Manager)
		if err != nil {
			return unsupported(err.Error())
		}
		gj.Script = append(gj.Script, cmd)
		return nil

	case model.RunTests:
		cmds, err := platform.TestCommands(st.Language, st.Coverage)
		if err != nil {
			return unsupported(err.Error())
		}
		gj.Script = append(gj.Script, cmds...)
		return nil

	case model.RunLinter:
		cmd, err := platform.LintCommand(st.Language, st.Tool)
		if err != nil {
			return unsupported(err.Error())
		}
		gj.Script = append(gj.Script, cmd)
		return nil

	case model.SecurityScan:
		cmd, err := platform.ScanCommand(st.Language, st.Tool)
		if err != nil {
			return unsupported(err.Error())
		}
		if st.Language == model.Rust {
			gj.Script = append(gj.Script, "cargo install cargo-"+st.Tool)
		}
		gj.Script = append(gj.Script, cmd)
		return nil

	case model.Build:
		cmd, err := platform.BuildCommand(st.Language, st.Release)
		if err != nil {
			return unsupported(err.Error())
		}
		gj.Script = append(gj.Script, cmd)
		return nil

	case model.RunCommand:
		cmd := st.Command
		if st.WorkingDir != "" {
			cmd = fmt.Sprintf("cd %s && %s", st.WorkingDir, st.Command)
		}
		gj.Script = append(gj.Script, cmd)
		return nil

	case model.Cache:
		gj.Cache = &CacheSpec{Key: st.Key, Paths: st.Paths}
		return nil

	case model.RestoreCache:
		gj.Cache = &CacheSpec{Key: st.Key, Policy: "pull"}
		return nil

	case model.UploadArtifact:
		gj.Artifacts = &Artifacts{Name: st.Name, Paths: st.Paths}
		return nil

	case model.UploadCoverage:
		if st.Provider != model.Codecov {
			return unsupported(fmt.Sprintf("no %s uploader for gitlab-ci runners", st.Provider))
		}
		gj.Script = append(gj.Script, "bash <(curl -s https://codecov.io/bash)")
		return nil

	case model.PublishPackage:
		cmd, tokenVar, err := platform.PublishCommand(st.Registry)
		if err != nil {
			return unsupported(err.Error())
		}
		// The registry token is expected as a masked CI/CD variable.
		gj.Script = append(gj.Script,
			fmt.Sprintf("export %s=$%s", tokenVar, st.TokenEnv),
			cmd)
		return nil

	case model.PublishRelease:
		gj.Script = append(gj.Script,
			`release-cli create --name "Release $CI_COMMIT_TAG" --tag-name $CI_COMMIT_TAG`)
		if len(st.Artifacts) > 0 && gj.Artifacts == nil {
			gj.Artifacts = &Artifacts{Paths: st.Artifacts}
		}
		return nil
	}

	return unsupported("unhandled step variant")
}
