package preset

import "github.com/cigen-dev/cigen/internal/model"

// rustLibrary is the CI pipeline for a Rust library crate: test with
// optional coverage, plus optional clippy and cargo-audit jobs running
// in parallel with the tests.
func rustLibrary() Definition {
	return Definition{
		ID:          "rust-library",
		Description: "Test, lint and audit a Rust library crate",
		Build: func(opts Options) *model.Pipeline {
			version := versionOr(opts.Version, DefaultRustVersion)

			testSteps := []model.Step{
				model.Checkout{},
				model.SetupToolchain{Language: model.Rust, Version: version},
				model.Cache{
					Paths: []string{"~/.cargo/registry", "target"},
					Key:   "cargo-{{ checksum \"Cargo.lock\" }}",
				},
				model.InstallDependencies{Language: model.Rust},
				model.RunTests{Language: model.Rust, Coverage: opts.Coverage},
			}
			if opts.Coverage {
				testSteps = append(testSteps, model.UploadCoverage{Provider: model.Codecov})
			}

			p := &model.Pipeline{
				Name: "rust-library",
				Triggers: []model.Trigger{
					model.OnPush(DefaultBranches...),
					model.OnPullRequest(DefaultBranches...),
				},
				Env: map[string]string{"CARGO_TERM_COLOR": "always"},
				Jobs: []model.Job{
					{Name: "test", Runner: model.UbuntuLatest, Steps: testSteps},
				},
			}

			if opts.Linter {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "lint",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.SetupToolchain{Language: model.Rust, Version: version},
						model.RunLinter{Language: model.Rust, Tool: "clippy"},
						model.RunCommand{Name: "Check formatting", Command: "cargo fmt --check"},
					},
				})
			}
			if opts.SecurityScan {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "audit",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.SetupToolchain{Language: model.Rust, Version: version},
						model.SecurityScan{Language: model.Rust, Tool: "audit"},
					},
				})
			}
			return p
		},
	}
}

// rustBinary extends the library pipeline with a release build, artifact
// upload, and a tag-gated publish job.
func rustBinary() Definition {
	return Definition{
		ID:          "rust-binary",
		Description: "Test, build and release a Rust binary crate",
		Build: func(opts Options) *model.Pipeline {
			version := versionOr(opts.Version, DefaultRustVersion)

			p := &model.Pipeline{
				Name: "rust-binary",
				Triggers: []model.Trigger{
					model.OnPush(DefaultBranches...),
					model.OnPullRequest(DefaultBranches...),
					model.OnTag("v*"),
				},
				Env: map[string]string{"CARGO_TERM_COLOR": "always"},
				Jobs: []model.Job{
					{
						Name:   "test",
						Runner: model.UbuntuLatest,
						Steps: []model.Step{
							model.Checkout{},
							model.SetupToolchain{Language: model.Rust, Version: version},
							model.Cache{
								Paths: []string{"~/.cargo/registry", "target"},
								Key:   "cargo-{{ checksum \"Cargo.lock\" }}",
							},
							model.RunTests{Language: model.Rust, Coverage: opts.Coverage},
						},
					},
					{
						Name:   "build",
						Runner: model.UbuntuLatest,
						Needs:  []string{"test"},
						Steps: []model.Step{
							model.Checkout{},
							model.SetupToolchain{Language: model.Rust, Version: version},
							model.Build{Language: model.Rust, Release: true},
							model.UploadArtifact{Name: "binary", Paths: []string{"target/release/*"}},
						},
					},
					{
						Name:   "release",
						Runner: model.UbuntuLatest,
						Needs:  []string{"build"},
						When:   &model.Condition{Kind: model.OnlyTags},
						Steps: []model.Step{
							model.Checkout{},
							model.PublishRelease{TagPattern: "v*", Artifacts: []string{"target/release/*"}},
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
						model.SetupToolchain{Language: model.Rust, Version: version},
						model.RunLinter{Language: model.Rust, Tool: "clippy"},
					},
				})
			}
			return p
		},
	}
}
