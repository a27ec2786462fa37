// Package model defines the platform-neutral pipeline vocabulary shared by
// every platform adapter: a Pipeline of named Jobs, each an ordered list of
// abstract Steps. Values are plain data; adapters must treat them as
// read-only so the same Pipeline can drive multi-platform generation.
package model

// Pipeline is the root generic value handed to platform adapters.
type Pipeline struct {
	Name     string
	Triggers []Trigger
	// Env holds pipeline-level default environment variables. Adapters
	// emit it in sorted key order so output stays deterministic.
	Env  map[string]string
	Jobs []Job
}

// Job is a named unit of work within a Pipeline.
type Job struct {
	Name   string
	Runner Runner
	Steps  []Step
	// Needs lists names of jobs that must complete before this one.
	Needs []string
	// Matrix, when non-nil, instantiates the job once per combination of
	// axis values. The model stores it declaratively; whether a platform
	// expands it natively or into N concrete jobs is an adapter decision.
	Matrix *Matrix
	// When, if non-nil, guards execution of the job.
	When            *Condition
	TimeoutMinutes  int
	ContinueOnError bool
}

// Matrix is a cartesian-product parameterization over named axes.
// Axis order is significant: expanded job names suffix values in
// declaration order.
type Matrix struct {
	Axes []Axis
}

// Axis is one matrix dimension: a name and its ordered values.
type Axis struct {
	Name   string
	Values []string
}

// Combinations returns the cartesian product of all axis values, one
// map per combination, in declaration order (last axis varies fastest).
func (m *Matrix) Combinations() []map[string]string {
	combos := []map[string]string{{}}
	for _, axis := range m.Axes {
		next := make([]map[string]string, 0, len(combos)*len(axis.Values))
		for _, combo := range combos {
			for _, v := range axis.Values {
				c := make(map[string]string, len(combo)+1)
				for k, cv := range combo {
					c[k] = cv
				}
				c[axis.Name] = v
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos
}

// Size returns the number of combinations the matrix expands to.
func (m *Matrix) Size() int {
	n := 1
	for _, axis := range m.Axes {
		n *= len(axis.Values)
	}
	return n
}

// ConditionKind selects the guard vocabulary for conditional jobs.
type ConditionKind string

const (
	// OnlyTags runs the job only for tag pushes.
	OnlyTags ConditionKind = "only-tags"
	// OnlyBranch runs the job only on the named branch.
	OnlyBranch ConditionKind = "only-branch"
)

// Condition guards execution of a Job. The vocabulary mirrors pipeline
// triggers so every platform can express it natively.
type Condition struct {
	Kind   ConditionKind
	Branch string // set when Kind == OnlyBranch
}
