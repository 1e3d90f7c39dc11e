// Package PlonkishScaffold ties the construction layer together: build a
// constraint system over a chosen field, synthesize a witness assignment
// region by region, and mock-verify the result without any cryptographic
// machinery. See the examples directory for end-to-end usage.
package PlonkishScaffold

import (
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/PolyhedraZK/PlonkishScaffold/checker"
	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/field"
	"github.com/PolyhedraZK/PlonkishScaffold/logger"
)

const (
	DefaultDegree     = 12
	DefaultLookupBits = 8
)

func envInt(name string, def int) int {
	s := os.Getenv(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log := logger.Logger()
		log.Warn().Str("var", name).Str("value", s).Msg("ignoring non-integer environment value")
		return def
	}
	return v
}

// Degree returns the grid degree k, overridable with the DEGREE environment
// variable.
func Degree() int { return envInt("DEGREE", DefaultDegree) }

// LookupBits returns the range-table width, overridable with the LOOKUP_BITS
// environment variable.
func LookupBits() int { return envInt("LOOKUP_BITS", DefaultLookupBits) }

// NewSystem builds an empty constraint system over the field of the given
// order. It panics on an unsupported order.
func NewSystem(order *big.Int) *cs.ConstraintSystem {
	return cs.NewSystem(field.GetFieldFromOrder(order))
}

// Mock synthesizes the circuit on a 2^k grid and mock-verifies every
// constraint against the resulting assignment. It returns the assignment so
// the caller can serialize it or inspect cells.
func Mock(sys *cs.ConstraintSystem, k int, synthesize func(*cs.Assignment) error) (*cs.Assignment, error) {
	log := logger.Logger()
	a, err := cs.NewAssignment(sys, k)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := synthesize(a); err != nil {
		return nil, err
	}
	log.Info().Int("k", k).Dur("took", time.Since(start)).Msg("synthesis done")

	start = time.Now()
	if err := checker.Check(a); err != nil {
		return nil, err
	}
	log.Info().Dur("took", time.Since(start)).Msg("mock verification passed")
	return a, nil
}
