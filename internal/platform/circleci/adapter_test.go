package circleci

import (
	"errors"
	"strings"
	"testing"

	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
)

func render(t *testing.T, p *model.Pipeline) string {
	t.Helper()
	out, err := platform.Generate(New(), p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return out
}

func TestTransform_MatrixExpansion(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "test",
				Runner: model.UbuntuLatest,
				Matrix: &model.Matrix{Axes: []model.Axis{
					{Name: "os", Values: []string{"linux", "macos"}},
					{Name: "rust", Values: []string{"stable", "beta"}},
				}},
				Steps: []model.Step{model.Checkout{}},
			},
		},
	}

	out := render(t, p)
	for _, want := range []string{
		"test-linux-stable:",
		"test-linux-beta:",
		"test-macos-stable:",
		"test-macos-beta:",
		"MATRIX_OS: linux",
		"MATRIX_RUST: beta",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestTransform_RequiresFanOutToExpandedJobs(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "test",
				Runner: model.UbuntuLatest,
				Matrix: &model.Matrix{Axes: []model.Axis{
					{Name: "rust", Values: []string{"stable", "beta"}},
				}},
				Steps: []model.Step{model.Checkout{}},
			},
			{
				Name:   "build",
				Runner: model.UbuntuLatest,
				Needs:  []string{"test"},
				Steps:  []model.Step{model.Checkout{}},
			},
		},
	}

	out := render(t, p)
	if !strings.Contains(out, "test-stable") || !strings.Contains(out, "test-beta") {
		t.Fatalf("expected expanded job names:\n%s", out)
	}
	// build must require every expanded combination.
	buildIdx := strings.Index(out, "- build:")
	if buildIdx == -1 {
		t.Fatalf("missing build workflow entry:\n%s", out)
	}
	tail := out[buildIdx:]
	if !strings.Contains(tail, "test-stable") || !strings.Contains(tail, "test-beta") {
		t.Errorf("build requires should fan out:\n%s", tail)
	}
}

func TestTransform_RequiresFanOutWhenDependencyDeclaredLater(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "build",
				Runner: model.UbuntuLatest,
				Needs:  []string{"test"},
				Steps:  []model.Step{model.Checkout{}},
			},
			{
				Name:   "test",
				Runner: model.UbuntuLatest,
				Matrix: &model.Matrix{Axes: []model.Axis{
					{Name: "rust", Values: []string{"stable", "beta"}},
				}},
				Steps: []model.Step{model.Checkout{}},
			},
		},
	}

	out := render(t, p)
	buildIdx := strings.Index(out, "- build:")
	if buildIdx == -1 {
		t.Fatalf("missing build workflow entry:\n%s", out)
	}
	tail := out[buildIdx:]
	if !strings.Contains(tail, "test-stable") || !strings.Contains(tail, "test-beta") {
		t.Errorf("build requires should fan out to expanded jobs:\n%s", tail)
	}
	// The bare base name has no jobs: entry, so requiring it would make
	// the config invalid.
	if strings.Contains(tail, "- test\n") {
		t.Errorf("build must not require the bare matrix job name:\n%s", tail)
	}
}

func TestTransform_MatrixOverLimit(t *testing.T) {
	values := make([]string, 8)
	for i := range values {
		values[i] = strings.Repeat("v", i+1)
	}
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "test",
				Runner: model.UbuntuLatest,
				Matrix: &model.Matrix{Axes: []model.Axis{
					{Name: "a", Values: values},
					{Name: "b", Values: values},
				}},
				Steps: []model.Step{model.Checkout{}},
			},
		},
	}

	_, err := platform.Generate(New(), p)
	if err == nil {
		t.Fatal("expected matrix limit error")
	}
	var ae *platform.AdapterError
	if !errors.As(err, &ae) || ae.Kind != platform.MalformedMatrix {
		t.Errorf("expected MalformedMatrix, got %v", err)
	}
}

func TestTransform_ExecutorImageFromToolchain(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "test",
				Runner: model.UbuntuLatest,
				Steps: []model.Step{
					model.Checkout{},
					model.SetupToolchain{Language: model.Go, Version: "1.22"},
				},
			},
		},
	}

	out := render(t, p)
	if !strings.Contains(out, "cimg/go:1.22") {
		t.Errorf("expected go convenience image:\n%s", out)
	}
}

func TestTransform_TagFilters(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnTag("v*")},
		Jobs: []model.Job{
			{
				Name:   "publish",
				Runner: model.UbuntuLatest,
				When:   &model.Condition{Kind: model.OnlyTags},
				Steps: []model.Step{
					model.Checkout{},
					model.PublishPackage{Registry: model.PyPI, TokenEnv: "PYPI_TOKEN"},
				},
			},
		},
	}

	out := render(t, p)
	if !strings.Contains(out, "filters:") || !strings.Contains(out, "tags:") {
		t.Errorf("expected tag filters:\n%s", out)
	}
	if !strings.Contains(out, "ignore:") {
		t.Errorf("tag-only jobs must ignore branches:\n%s", out)
	}
}

func TestTransform_PublishReleaseUnsupported(t *testing.T) {
	p := &model.Pipeline{
		Name:     "release",
		Triggers: []model.Trigger{model.OnTag("v*")},
		Jobs: []model.Job{
			{
				Name:   "release",
				Runner: model.UbuntuLatest,
				Steps: []model.Step{
					model.Checkout{},
					model.PublishRelease{TagPattern: "v*"},
				},
			},
		},
	}

	_, err := platform.Generate(New(), p)
	if !platform.IsUnsupported(err) {
		t.Fatalf("expected unsupported-step error, got %v", err)
	}
	var ae *platform.AdapterError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AdapterError, got %T", err)
	}
	if ae.Job != "release" || ae.StepIndex != 1 {
		t.Errorf("error should pinpoint job and step: %+v", ae)
	}
}

func TestTransform_UploadArtifactStored(t *testing.T) {
	p := &model.Pipeline{
		Name:     "ci",
		Triggers: []model.Trigger{model.OnPush("main")},
		Jobs: []model.Job{
			{
				Name:   "build",
				Runner: model.UbuntuLatest,
				Steps: []model.Step{
					model.Checkout{},
					model.UploadArtifact{Name: "dist", Paths: []string{"target/release/app"}},
				},
			},
		},
	}

	out := render(t, p)
	if !strings.Contains(out, "store_artifacts:") {
		t.Errorf("expected store_artifacts step:\n%s", out)
	}
}

func TestOutputPath(t *testing.T) {
	if got := New().OutputPath(&model.Pipeline{Name: "ci"}); got != ".circleci/config.yml" {
		t.Errorf("unexpected path %q", got)
	}
}
