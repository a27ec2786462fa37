package model

import "testing"

func job(name string, needs ...string) Job {
	return Job{Name: name, Runner: UbuntuLatest, Needs: needs, Steps: []Step{Checkout{}}}
}

func TestValidate_Valid(t *testing.T) {
	p := &Pipeline{
		Name: "ci",
		Jobs: []Job{job("test"), job("build", "test")},
	}
	if errs := Validate(p); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_DuplicateJobName(t *testing.T) {
	p := &Pipeline{Name: "ci", Jobs: []Job{job("test"), job("test")}}

	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != DuplicateJobName {
		t.Errorf("expected DuplicateJobName, got %s", errs[0].Kind)
	}
	if errs[0].Job != "test" {
		t.Errorf("expected job=test, got %q", errs[0].Job)
	}
}

func TestValidate_UnknownDependencyTarget(t *testing.T) {
	p := &Pipeline{Name: "ci", Jobs: []Job{job("build", "missing")}}

	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != UnknownDependencyTarget {
		t.Errorf("expected UnknownDependencyTarget, got %s", errs[0].Kind)
	}
	if errs[0].Target != "missing" {
		t.Errorf("expected target=missing, got %q", errs[0].Target)
	}
}

func TestValidate_EmptyMatrixAxis(t *testing.T) {
	j := job("test")
	j.Matrix = &Matrix{Axes: []Axis{{Name: "os", Values: nil}}}
	p := &Pipeline{Name: "ci", Jobs: []Job{j}}

	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != EmptyMatrixAxis {
		t.Errorf("expected EmptyMatrixAxis, got %s", errs[0].Kind)
	}
	if errs[0].Axis != "os" {
		t.Errorf("expected axis=os, got %q", errs[0].Axis)
	}
}

func TestValidate_CycleNamesAllJobs(t *testing.T) {
	p := &Pipeline{
		Name: "ci",
		Jobs: []Job{job("a", "c"), job("b", "a"), job("c", "b")},
	}

	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != CyclicDependency {
		t.Fatalf("expected CyclicDependency, got %s", errs[0].Kind)
	}
	if len(errs[0].Cycle) != 3 {
		t.Fatalf("expected all 3 jobs in cycle, got %v", errs[0].Cycle)
	}
	seen := make(map[string]bool)
	for _, name := range errs[0].Cycle {
		seen[name] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !seen[want] {
			t.Errorf("cycle %v missing job %q", errs[0].Cycle, want)
		}
	}
}

func TestValidate_SelfDependency(t *testing.T) {
	p := &Pipeline{Name: "ci", Jobs: []Job{job("a", "a")}}

	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != CyclicDependency {
		t.Fatalf("expected CyclicDependency, got %s", errs[0].Kind)
	}
	if len(errs[0].Cycle) != 1 || errs[0].Cycle[0] != "a" {
		t.Errorf("expected cycle [a], got %v", errs[0].Cycle)
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	j := job("test")
	j.Matrix = &Matrix{Axes: []Axis{{Name: "os"}}}
	p := &Pipeline{
		Name: "ci",
		Jobs: []Job{j, job("test"), job("build", "missing")},
	}

	errs := Validate(p)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestMatrixCombinations(t *testing.T) {
	m := &Matrix{Axes: []Axis{
		{Name: "os", Values: []string{"linux", "macos"}},
		{Name: "rust", Values: []string{"stable", "beta"}},
	}}

	combos := m.Combinations()
	if len(combos) != 4 {
		t.Fatalf("expected 4 combinations, got %d", len(combos))
	}
	// Last axis varies fastest.
	if combos[0]["os"] != "linux" || combos[0]["rust"] != "stable" {
		t.Errorf("unexpected first combination: %v", combos[0])
	}
	if combos[1]["os"] != "linux" || combos[1]["rust"] != "beta" {
		t.Errorf("unexpected second combination: %v", combos[1])
	}
	if combos[3]["os"] != "macos" || combos[3]["rust"] != "beta" {
		t.Errorf("unexpected last combination: %v", combos[3])
	}
	if m.Size() != 4 {
		t.Errorf("expected size 4, got %d", m.Size())
	}
}
