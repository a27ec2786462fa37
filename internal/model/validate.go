package model

import (
	"fmt"
	"strings"
)

// ValidationKind classifies a pipeline validation failure.
type ValidationKind string

const (
	DuplicateJobName        ValidationKind = "duplicate_job_name"
	CyclicDependency        ValidationKind = "cyclic_dependency"
	EmptyMatrixAxis         ValidationKind = "empty_matrix_axis"
	UnknownDependencyTarget ValidationKind = "unknown_dependency_target"
)

// ValidationError represents a single structural problem with a Pipeline.
type ValidationError struct {
	Kind   ValidationKind
	Job    string
	Axis   string // offending matrix axis, when relevant
	Target string // unresolved dependency name, when relevant
	// Cycle lists the job names forming a dependency cycle, in walk
	// order, when Kind is CyclicDependency.
	Cycle []string
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case DuplicateJobName:
		return fmt.Sprintf("duplicate job name %q", e.Job)
	case CyclicDependency:
		return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
	case EmptyMatrixAxis:
		return fmt.Sprintf("job %q: matrix axis %q has no values", e.Job, e.Axis)
	case UnknownDependencyTarget:
		return fmt.Sprintf("job %q: depends on unknown job %q", e.Job, e.Target)
	default:
		return fmt.Sprintf("invalid pipeline: job %q", e.Job)
	}
}

// Validate checks a Pipeline for structural errors: duplicate job names,
// dependency edges to unknown jobs, dependency cycles, and matrix axes
// with no values. It returns all problems found (empty if the pipeline
// is valid). Adapters assume their input already passed Validate.
func Validate(p *Pipeline) []ValidationError {
	var errs []ValidationError

	names := make(map[string]bool, len(p.Jobs))
	for _, j := range p.Jobs {
		if names[j.Name] {
			errs = append(errs, ValidationError{Kind: DuplicateJobName, Job: j.Name})
			continue
		}
		names[j.Name] = true
	}

	for _, j := range p.Jobs {
		for _, dep := range j.Needs {
			if !names[dep] {
				errs = append(errs, ValidationError{
					Kind:   UnknownDependencyTarget,
					Job:    j.Name,
					Target: dep,
				})
			}
		}
		if j.Matrix != nil {
			for _, axis := range j.Matrix.Axes {
				if len(axis.Values) == 0 {
					errs = append(errs, ValidationError{
						Kind: EmptyMatrixAxis,
						Job:  j.Name,
						Axis: axis.Name,
					})
				}
			}
		}
	}

	if cycle := findCycle(p.Jobs); cycle != nil {
		errs = append(errs, ValidationError{
			Kind:  CyclicDependency,
			Job:   cycle[0],
			Cycle: cycle,
		})
	}

	return errs
}

// findCycle returns the job names of the first dependency cycle found,
// in walk order, or nil if the graph is acyclic. Jobs are visited in
// declaration order so the result is deterministic.
func findCycle(jobs []Job) []string {
	needs := make(map[string][]string, len(jobs))
	exists := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		exists[j.Name] = true
	}
	for _, j := range jobs {
		for _, dep := range j.Needs {
			if exists[dep] {
				needs[j.Name] = append(needs[j.Name], dep)
			}
		}
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(jobs))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = inStack
		stack = append(stack, name)
		for _, dep := range needs[name] {
			switch state[dep] {
			case inStack:
				// Back edge: the cycle is the stack suffix from dep.
				for i, n := range stack {
					if n == dep {
						cycle := make([]string, len(stack)-i)
						copy(cycle, stack[i:])
						return cycle
					}
				}
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, j := range jobs {
		if state[j.Name] == unvisited {
			if cycle := visit(j.Name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
