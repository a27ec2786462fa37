package preset

import "github.com/cigen-dev/cigen/internal/model"

// pythonApp is the CI pipeline for a Python application: test with
// optional coverage and lint, a package build with artifact upload, and
// an optional bandit scan.
func pythonApp() Definition {
	return Definition{
		ID:          "python-app",
		Description: "Test and package a Python application",
		Build: func(opts Options) *model.Pipeline {
			version := versionOr(opts.Version, DefaultPythonVersion)

			testSteps := []model.Step{
				model.Checkout{},
				model.SetupToolchain{Language: model.Python, Version: version},
				model.InstallDependencies{Language: model.Python},
				model.RunTests{Language: model.Python, Coverage: opts.Coverage},
			}
			if opts.Coverage {
				testSteps = append(testSteps, model.UploadCoverage{Provider: model.Codecov})
			}

			p := &model.Pipeline{
				Name: "python-app",
				Triggers: []model.Trigger{
					model.OnPush(DefaultBranches...),
					model.OnPullRequest(DefaultBranches...),
				},
				Jobs: []model.Job{
					{Name: "test", Runner: model.UbuntuLatest, Steps: testSteps},
					{
						Name:   "package",
						Runner: model.UbuntuLatest,
						Needs:  []string{"test"},
						Steps: []model.Step{
							model.Checkout{},
							model.SetupToolchain{Language: model.Python, Version: version},
							model.Build{Language: model.Python, Release: true},
							model.UploadArtifact{Name: "dist", Paths: []string{"dist/*"}},
						},
					},
				},
			}

			if opts.Linter {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "lint",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.SetupToolchain{Language: model.Python, Version: version},
						model.RunLinter{Language: model.Python, Tool: "ruff check"},
					},
				})
			}
			if opts.SecurityScan {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "security",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.SetupToolchain{Language: model.Python, Version: version},
						model.SecurityScan{Language: model.Python, Tool: "bandit -r ."},
					},
				})
			}
			return p
		},
	}
}
