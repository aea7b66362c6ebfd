package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedProblem marks structural problems in the input: out-of-range
	// indices, a non-square matrix, negative values or duplicate ids.
	ErrMalformedProblem = errors.New("malformed problem")

	// ErrInfeasible marks a well-formed problem for which no assignment
	// satisfying every constraint was found.
	ErrInfeasible = errors.New("infeasible problem")
)

// ProblemError identifies the offending field of a malformed problem.
type ProblemError struct {
	Field  string
	Reason string
}

func (e *ProblemError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMalformedProblem, e.Field, e.Reason)
}

func (e *ProblemError) Is(target error) bool { return target == ErrMalformedProblem }

// Malformed builds a ProblemError for field.
func Malformed(field, format string, args ...any) error {
	return &ProblemError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleError lists the jobs that could not be routed.
type InfeasibleError struct {
	Reason     string
	Unassigned []ID
}

func (e *InfeasibleError) Error() string {
	if len(e.Unassigned) == 0 {
		return fmt.Sprintf("%s: %s", ErrInfeasible, e.Reason)
	}

	ids := make([]string, 0, len(e.Unassigned))
	for _, id := range e.Unassigned {
		ids = append(ids, string(id))
	}
	return fmt.Sprintf("%s: %s (unassigned jobs: %s)", ErrInfeasible, e.Reason, strings.Join(ids, ", "))
}

func (e *InfeasibleError) Is(target error) bool { return target == ErrInfeasible }
