package preset

import "github.com/cigen-dev/cigen/internal/model"

// goApp is the CI pipeline for a Go application: test, then a
// release-mode build with artifact upload, plus optional lint and
// vulnerability-check jobs.
func goApp() Definition {
	return Definition{
		ID:          "go-app",
		Description: "Test and build a Go application",
		Build: func(opts Options) *model.Pipeline {
			version := versionOr(opts.Version, DefaultGoVersion)

			testSteps := []model.Step{
				model.Checkout{},
				model.SetupToolchain{Language: model.Go, Version: version},
				model.InstallDependencies{Language: model.Go},
				model.RunTests{Language: model.Go, Coverage: opts.Coverage},
			}
			if opts.Coverage {
				testSteps = append(testSteps, model.UploadCoverage{Provider: model.Codecov})
			}

			p := &model.Pipeline{
				Name: "go-app",
				Triggers: []model.Trigger{
					model.OnPush(DefaultBranches...),
					model.OnPullRequest(DefaultBranches...),
				},
				Env: map[string]string{"CGO_ENABLED": "0"},
				Jobs: []model.Job{
					{Name: "test", Runner: model.UbuntuLatest, Steps: testSteps},
					{
						Name:   "build",
						Runner: model.UbuntuLatest,
						Needs:  []string{"test"},
						Steps: []model.Step{
							model.Checkout{},
							model.SetupToolchain{Language: model.Go, Version: version},
							model.Build{Language: model.Go, Release: true},
							model.UploadArtifact{Name: "binaries", Paths: []string{"bin/*"}},
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
						model.SetupToolchain{Language: model.Go, Version: version},
						model.RunLinter{Language: model.Go, Tool: "golangci-lint run"},
					},
				})
			}
			if opts.SecurityScan {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "vulncheck",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.SetupToolchain{Language: model.Go, Version: version},
						model.SecurityScan{Language: model.Go, Tool: "govulncheck ./..."},
					},
				})
			}
			return p
		},
	}
}
