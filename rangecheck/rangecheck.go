// Package rangecheck constrains values to a bit width with a running-sum
// limb decomposition checked against a lookup table.
//
// A value v is split into base-2^b limbs, least significant first, and a
// running sum z walks from z_m = 0 back to z_0 = v one limb per row:
//
//	z_i = z_{i+1} * 2^b + limb_i
//
// One two-row gate enforces each step and a lookup bounds each limb. The
// most significant limb uses a narrower table when numBits is not a multiple
// of b, so the decomposition proves exactly numBits bits.
package rangecheck

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
)

type Chip struct {
	sys        *cs.ConstraintSystem
	lookupBits int
	table      *cs.Table

	Z, Limb cs.Column
	Sel     cs.Selector
}

// Configure declares the chip's columns, its decomposition gate and the
// [0, 2^lookupBits) table.
func Configure(sys *cs.ConstraintSystem, lookupBits int) (*Chip, error) {
	if lookupBits <= 0 || lookupBits >= sys.Field().FieldBitLen() {
		return nil, fmt.Errorf("rangecheck: lookup width %d out of range", lookupBits)
	}
	chip := &Chip{
		sys:        sys,
		lookupBits: lookupBits,
		table:      sys.LookupTable(lookupBits),
		Z:          sys.AdviceColumn("rc_z"),
		Limb:       sys.AdviceColumn("rc_limb"),
		Sel:        sys.Selector("rc"),
	}
	f := sys.Field()
	shift := f.FromInterface(new(big.Int).Lsh(big.NewInt(1), uint(lookupBits)))
	// z_cur - 2^b * z_next - limb_cur
	e := expr.Sub(f, chip.Z.Query(0), expr.Sum(expr.Scaled(chip.Z.Query(1), shift), chip.Limb.Query(0)))
	if err := sys.DeclareGate("rc_decompose", chip.Sel, e); err != nil {
		return nil, err
	}
	return chip, nil
}

func (chip *Chip) LookupBits() int { return chip.lookupBits }

// RangeCheck constrains value to numBits bits and returns the cell holding
// it (the head of the running sum), for copy constraining by the caller.
// A value that does not fit is rejected before any cell is written.
func (chip *Chip) RangeCheck(a *cs.Assignment, value constraint.Element, numBits int) (cs.Cell, error) {
	f := chip.sys.Field()
	if numBits <= 0 || numBits >= f.FieldBitLen() {
		return cs.Cell{}, fmt.Errorf("rangecheck: bound of %d bits out of range", numBits)
	}
	v := f.ToBigInt(value)
	if v.BitLen() > numBits {
		return cs.Cell{}, cs.RangeExceededError{Value: v, NumBits: numBits}
	}

	b := chip.lookupBits
	m := (numBits + b - 1) / b
	limbMask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(b)), big.NewInt(1))

	r, err := a.BeginRegion("range_check")
	if err != nil {
		return cs.Cell{}, err
	}

	head := cs.Cell{}
	rest := new(big.Int).Set(v)
	for i := 0; i < m; i++ {
		zCell, err := r.AssignAdvice(chip.Z, i, f.FromInterface(rest))
		if err != nil {
			return cs.Cell{}, err
		}
		if i == 0 {
			head = zCell
		}
		limb := new(big.Int).And(rest, limbMask)
		limbCell, err := r.AssignAdvice(chip.Limb, i, f.FromInterface(limb))
		if err != nil {
			return cs.Cell{}, err
		}
		if err := r.EnableSelector(chip.Sel, i); err != nil {
			return cs.Cell{}, err
		}

		table := chip.table
		if rem := numBits - (m-1)*b; i == m-1 && rem < b {
			table = chip.sys.LookupTable(rem)
		}
		if err := a.LookupCell("rc_limb", limbCell, table); err != nil {
			return cs.Cell{}, err
		}
		rest.Rsh(rest, uint(b))
	}
	// terminate the running sum at zero; the pin keeps the prover honest
	if _, err := r.AssignAdviceFromConstant(chip.Z, m, constraint.Element{}); err != nil {
		return cs.Cell{}, err
	}
	if err := r.End(); err != nil {
		return cs.Cell{}, err
	}
	return head, nil
}
