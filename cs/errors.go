package cs

import (
	"fmt"
	"math/big"
)

// All errors below are raised synchronously during synthesis or mock
// verification. They indicate a circuit-authoring or witness defect and are
// never retryable.

// DuplicateGateError is returned when a gate name is declared twice.
type DuplicateGateError struct {
	Gate string
}

func (e DuplicateGateError) Error() string {
	return fmt.Sprintf("gate %q already declared", e.Gate)
}

// RegionClosedError is returned when a region is written to after End.
type RegionClosedError struct {
	Region string
}

func (e RegionClosedError) Error() string {
	return fmt.Sprintf("region %q already closed", e.Region)
}

// ReassignmentError is returned when a cell that already holds a value is
// assigned again; cells are immutable for the lifetime of one assignment.
type ReassignmentError struct {
	Column string
	Row    int
}

func (e ReassignmentError) Error() string {
	return fmt.Sprintf("cell %s[%d] already assigned", e.Column, e.Row)
}

// MissingAssignmentError is returned at region close when a cell referenced
// by an enabled gate was left unassigned.
type MissingAssignmentError struct {
	Region string
	Gate   string
	Column string
	Row    int
}

func (e MissingAssignmentError) Error() string {
	return fmt.Sprintf("region %q: gate %q references unassigned cell %s[%d]", e.Region, e.Gate, e.Column, e.Row)
}

// UnsatisfiedConstraintError reports the first violated constraint found by
// mock verification: a nonzero gate evaluation, a failed lookup, or a broken
// copy constraint.
type UnsatisfiedConstraintError struct {
	Constraint string
	Row        int
	Value      string
}

func (e UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("constraint %q not satisfied at row %d (got %s)", e.Constraint, e.Row, e.Value)
}

// RangeExceededError is returned when a value's true bit length exceeds the
// declared bound of a range check.
type RangeExceededError struct {
	Value   *big.Int
	NumBits int
}

func (e RangeExceededError) Error() string {
	return fmt.Sprintf("value %s exceeds %d bits", e.Value.String(), e.NumBits)
}

// LengthOutOfBoundsError is returned when a variable-length witness exceeds
// the gadget's fixed capacity.
type LengthOutOfBoundsError struct {
	Length uint64
	MaxLen int
}

func (e LengthOutOfBoundsError) Error() string {
	return fmt.Sprintf("length %d out of bounds [0, %d]", e.Length, e.MaxLen)
}
