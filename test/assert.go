// Package test provides assertion helpers for circuit tests: run the mock
// verifier over a finished assignment and require success or a named failure.
package test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/PlonkishScaffold/checker"
	"github.com/PolyhedraZK/PlonkishScaffold/cs"
)

type Assert struct {
	t *testing.T
	*require.Assertions
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// CheckSucceeded requires that every constraint of the assignment holds.
func (a *Assert) CheckSucceeded(asg *cs.Assignment) {
	a.t.Helper()
	a.NoError(checker.Check(asg))
}

// CheckFailed requires that mock verification rejects the assignment.
func (a *Assert) CheckFailed(asg *cs.Assignment) {
	a.t.Helper()
	a.Error(checker.Check(asg))
}

// CheckFailedWith requires that mock verification rejects the assignment with
// an unsatisfied constraint of the given name.
func (a *Assert) CheckFailedWith(asg *cs.Assignment, constraint string) {
	a.t.Helper()
	err := checker.Check(asg)
	a.Error(err)
	var uce cs.UnsatisfiedConstraintError
	a.True(errors.As(err, &uce), "expected UnsatisfiedConstraintError, got %v", err)
	a.Equal(constraint, uce.Constraint)
}
