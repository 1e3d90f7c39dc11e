// Package hashchain implements a masked sponge-like accumulator circuit.
// Each step absorbs one message element into the running state:
//
//	u      = h + x + rc_i
//	h_next = h + m * (u^3 - h)
//
// where m is a boolean mask. A masked-off step (m = 0) leaves the state
// untouched, so a chain fed through a variable-length mask digests exactly
// the first `length` elements regardless of buffer garbage past them.
//
// The cube round is a toy permutation for exercising the constraint layer,
// not a cryptographic hash.
package hashchain

import (
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
	"github.com/PolyhedraZK/PlonkishScaffold/field"
)

type Chain struct {
	sys *cs.ConstraintSystem

	H, X, M cs.Column
	RC      cs.Column
	Sel     cs.Selector
}

// Configure declares the chain's columns and its step gate.
func Configure(sys *cs.ConstraintSystem) (*Chain, error) {
	c := &Chain{
		sys: sys,
		H:   sys.AdviceColumn("hc_h"),
		X:   sys.AdviceColumn("hc_x"),
		M:   sys.AdviceColumn("hc_m"),
		RC:  sys.FixedColumn("hc_rc"),
		Sel: sys.Selector("hc"),
	}
	f := sys.Field()
	h, x, m := c.H.Query(0), c.X.Query(0), c.M.Query(0)
	u := expr.Sum(h, x, c.RC.Query(0))
	step := expr.Sub(f, c.H.Query(1),
		expr.Sum(h, expr.Product(m, expr.Sub(f, expr.Product(u, u.Clone(), u.Clone()), h.Clone()))))
	if err := sys.DeclareGate("hash_step", c.Sel, step); err != nil {
		return nil, err
	}
	return c, nil
}

// RoundConstant returns the fixed per-step constant.
func RoundConstant(f field.Field, i int) constraint.Element {
	return f.FromInterface(uint64(i)*0x9e3779b9 + 0x85ebca6b)
}

// Absorb chains every (x, m) pair into the state, copy-constraining each step
// input to its source cell, and returns the cell holding the final state.
// The chain starts from a pinned zero state.
func (c *Chain) Absorb(a *cs.Assignment, xs, ms []cs.Cell) (cs.Cell, error) {
	if len(xs) != len(ms) {
		return cs.Cell{}, fmt.Errorf("hashchain: %d inputs with %d masks", len(xs), len(ms))
	}
	f := c.sys.Field()

	r, err := a.BeginRegion("hash_chain")
	if err != nil {
		return cs.Cell{}, err
	}
	h := constraint.Element{}
	hCell, err := r.AssignAdviceFromConstant(c.H, 0, h)
	if err != nil {
		return cs.Cell{}, err
	}
	for i := range xs {
		x, ok := a.Value(xs[i])
		if !ok {
			return cs.Cell{}, fmt.Errorf("hashchain: input cell %d not assigned", i)
		}
		m, ok := a.Value(ms[i])
		if !ok {
			return cs.Cell{}, fmt.Errorf("hashchain: mask cell %d not assigned", i)
		}
		xCell, err := r.AssignAdvice(c.X, i, x)
		if err != nil {
			return cs.Cell{}, err
		}
		if err := r.ConstrainEqual(xCell, xs[i]); err != nil {
			return cs.Cell{}, err
		}
		mCell, err := r.AssignAdvice(c.M, i, m)
		if err != nil {
			return cs.Cell{}, err
		}
		if err := r.ConstrainEqual(mCell, ms[i]); err != nil {
			return cs.Cell{}, err
		}
		rc := RoundConstant(f, i)
		if _, err := r.AssignFixed(c.RC, i, rc); err != nil {
			return cs.Cell{}, err
		}
		if err := r.EnableSelector(c.Sel, i); err != nil {
			return cs.Cell{}, err
		}

		u := f.Add(f.Add(h, x), rc)
		cube := f.Mul(f.Mul(u, u), u)
		h = f.Add(h, f.Mul(m, f.Sub(cube, h)))
		if hCell, err = r.AssignAdvice(c.H, i+1, h); err != nil {
			return cs.Cell{}, err
		}
	}
	if err := r.End(); err != nil {
		return cs.Cell{}, err
	}
	return hCell, nil
}

// Digest computes the chain's value outside the circuit, absorbing every
// element of msg.
func Digest(f field.Field, msg []constraint.Element) constraint.Element {
	h := constraint.Element{}
	for i, x := range msg {
		u := f.Add(f.Add(h, x), RoundConstant(f, i))
		h = f.Mul(f.Mul(u, u), u)
	}
	return h
}
