package preset

import "github.com/cigen-dev/cigen/internal/model"

// dockerImage is the CI pipeline for a container image: build the image
// on every push and pull request, push it to the registry only for
// version tags. Docker has no toolchain in the step vocabulary, so the
// pipeline is expressed with plain commands.
func dockerImage() Definition {
	return Definition{
		ID:          "docker",
		Description: "Build and publish a container image",
		Build: func(opts Options) *model.Pipeline {
			p := &model.Pipeline{
				Name: "docker",
				Triggers: []model.Trigger{
					model.OnPush(DefaultBranches...),
					model.OnPullRequest(DefaultBranches...),
					model.OnTag("v*"),
				},
				Env: map[string]string{"DOCKER_BUILDKIT": "1"},
				Jobs: []model.Job{
					{
						Name:   "build",
						Runner: model.UbuntuLatest,
						Steps: []model.Step{
							model.Checkout{},
							model.RunCommand{
								Name:    "Build image",
								Command: "docker build -t $CI_IMAGE_NAME .",
							},
						},
					},
					{
						Name:   "push",
						Runner: model.UbuntuLatest,
						Needs:  []string{"build"},
						When:   &model.Condition{Kind: model.OnlyTags},
						Steps: []model.Step{
							model.Checkout{},
							model.RunCommand{
								Name:    "Push image",
								Command: "docker push $CI_IMAGE_NAME",
							},
						},
					},
				},
			}

			if opts.SecurityScan {
				p.Jobs = append(p.Jobs, model.Job{
					Name:   "scan",
					Runner: model.UbuntuLatest,
					Steps: []model.Step{
						model.Checkout{},
						model.RunCommand{
							Name:    "Scan image",
							Command: "trivy image $CI_IMAGE_NAME",
						},
					},
				})
			}
			return p
		},
	}
}
