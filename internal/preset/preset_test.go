package preset

import (
	"errors"
	"testing"

	"github.com/cigen-dev/cigen/internal/model"
)

// Every builtin preset must produce a valid pipeline for every option
// combination.
func TestBuiltin_AllPresetsValidate(t *testing.T) {
	opts := []Options{
		{},
		{Coverage: true},
		{Linter: true},
		{SecurityScan: true},
		{Coverage: true, Linter: true, SecurityScan: true},
		{Version: "1.75", Coverage: true},
	}

	for _, d := range Builtin().List() {
		for _, o := range opts {
			p := d.Build(o)
			if p == nil {
				t.Fatalf("%s: nil pipeline", d.ID)
			}
			if errs := model.Validate(p); len(errs) != 0 {
				t.Errorf("%s with %+v: invalid pipeline: %v", d.ID, o, errs)
			}
			if len(p.Triggers) == 0 {
				t.Errorf("%s: no triggers", d.ID)
			}
			if len(p.Jobs) == 0 {
				t.Errorf("%s: no jobs", d.ID)
			}
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Builtin().Get("haskell-app")
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if nf.ID != "haskell-app" {
		t.Errorf("unexpected id %q", nf.ID)
	}
}

func TestRustLibrary_OptionsAddJobs(t *testing.T) {
	d, err := Builtin().Get("rust-library")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	base := d.Build(Options{})
	if len(base.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(base.Jobs))
	}

	full := d.Build(Options{Coverage: true, Linter: true, SecurityScan: true})
	if len(full.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(full.Jobs))
	}

	var sawCoverageUpload bool
	for _, s := range full.Jobs[0].Steps {
		if _, ok := s.(model.UploadCoverage); ok {
			sawCoverageUpload = true
		}
	}
	if !sawCoverageUpload {
		t.Error("coverage option should add an upload step")
	}
}

func TestRustBinary_ReleaseIsTagGated(t *testing.T) {
	d, err := Builtin().Get("rust-binary")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p := d.Build(Options{})

	var release *model.Job
	for i := range p.Jobs {
		if p.Jobs[i].Name == "release" {
			release = &p.Jobs[i]
		}
	}
	if release == nil {
		t.Fatal("missing release job")
	}
	if release.When == nil || release.When.Kind != model.OnlyTags {
		t.Error("release job should be tag-gated")
	}
	if len(release.Needs) == 0 {
		t.Error("release job should depend on the build")
	}
}

func TestVersionOverride(t *testing.T) {
	d, err := Builtin().Get("go-app")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p := d.Build(Options{Version: "1.23"})

	found := false
	for _, s := range p.Jobs[0].Steps {
		if st, ok := s.(model.SetupToolchain); ok {
			found = true
			if st.Version != "1.23" {
				t.Errorf("expected version 1.23, got %q", st.Version)
			}
		}
	}
	if !found {
		t.Fatal("go-app test job has no toolchain step")
	}
}
