package platform

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an adapter failure.
type ErrorKind string

const (
	// UnsupportedStep means the platform has no native equivalent for a
	// step's requested configuration.
	UnsupportedStep ErrorKind = "unsupported_step"
	// UnknownPlatform means no adapter is registered for the identifier.
	UnknownPlatform ErrorKind = "unknown_platform"
	// MalformedMatrix means a job matrix cannot be expanded for the
	// platform, e.g. the expansion exceeds the job limit.
	MalformedMatrix ErrorKind = "malformed_matrix"
)

// AdapterError reports a failed transform with enough context to locate
// the cause: platform, job name, and step index where applicable.
type AdapterError struct {
	Kind     ErrorKind
	Platform Platform
	Job      string
	// StepIndex is the zero-based position of the offending step within
	// the job, or -1 when the error is not tied to a single step.
	StepIndex int
	Step      string // step kind, e.g. "publish_release"
	Reason    string
}

func (e *AdapterError) Error() string {
	switch e.Kind {
	case UnsupportedStep:
		return fmt.Sprintf("%s: job %q step %d (%s): %s",
			e.Platform, e.Job, e.StepIndex, e.Step, e.Reason)
	case UnknownPlatform:
		return fmt.Sprintf("unknown platform %q", e.Platform)
	case MalformedMatrix:
		return fmt.Sprintf("%s: job %q: %s", e.Platform, e.Job, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Platform, e.Reason)
	}
}

// Unsupported builds an UnsupportedStep error for the given location.
func Unsupported(p Platform, job string, stepIndex int, step, reason string) *AdapterError {
	return &AdapterError{
		Kind:      UnsupportedStep,
		Platform:  p,
		Job:       job,
		StepIndex: stepIndex,
		Step:      step,
		Reason:    reason,
	}
}

// BadMatrix builds a MalformedMatrix error for the given job.
func BadMatrix(p Platform, job, reason string) *AdapterError {
	return &AdapterError{
		Kind:      MalformedMatrix,
		Platform:  p,
		Job:       job,
		StepIndex: -1,
		Reason:    reason,
	}
}

// IsUnsupported reports whether err is an UnsupportedStep adapter error.
func IsUnsupported(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae) && ae.Kind == UnsupportedStep
}
