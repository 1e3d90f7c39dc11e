// Package varlen binds a variable-length input into a fixed-capacity buffer.
//
// The gadget materializes a boolean mask over the buffer rows: mask_i = 1
// for the first `length` positions and 0 after. An is-zero subgadget detects
// the position where the running index reaches the claimed length and drops
// the mask there; the mask total is copy-constrained back to the length, and
// the length itself is range checked against the capacity. Circuits consume
// only masked cells, so garbage past the length can never leak into the
// computation.
package varlen

import (
	"fmt"
	"math/bits"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
	"github.com/PolyhedraZK/PlonkishScaffold/rangecheck"
)

type Gadget struct {
	sys    *cs.ConstraintSystem
	rc     *rangecheck.Chip
	maxLen int

	Len, Buf            cs.Column
	Inv, Out, Mask, Sum cs.Column
	Idx                 cs.Column
	Sel                 cs.Selector
}

// Binding is the constrained view of one bound input.
type Binding struct {
	Length cs.Cell
	// Mask[i] and Buffer[i] cover input position i; Mask[i] is 1 iff
	// i < length.
	Mask   []cs.Cell
	Buffer []cs.Cell
}

// Configure declares the gadget's columns and gates for a fixed capacity.
// Each bound input occupies maxLen+1 rows.
func Configure(sys *cs.ConstraintSystem, rc *rangecheck.Chip, maxLen int) (*Gadget, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("varlen: capacity %d out of range", maxLen)
	}
	g := &Gadget{
		sys:    sys,
		rc:     rc,
		maxLen: maxLen,
		Len:    sys.AdviceColumn("vl_len"),
		Buf:    sys.AdviceColumn("vl_buf"),
		Inv:    sys.AdviceColumn("vl_inv"),
		Out:    sys.AdviceColumn("vl_out"),
		Mask:   sys.AdviceColumn("vl_mask"),
		Sum:    sys.AdviceColumn("vl_sum"),
		Idx:    sys.FixedColumn("vl_idx"),
		Sel:    sys.Selector("vl"),
	}
	f := sys.Field()
	one := expr.NewConstant(f.One())
	t := expr.Sub(f, g.Len.Query(0), g.Idx.Query(0))
	out := g.Out.Query(0)

	// out = isZero(len - idx), via the inverse trick
	if err := sys.DeclareGate("vl_iszero_out", g.Sel,
		expr.Sub(f, expr.Sum(expr.Product(t.Clone(), g.Inv.Query(0)), out), one)); err != nil {
		return nil, err
	}
	if err := sys.DeclareGate("vl_iszero_zero", g.Sel, expr.Product(t, out)); err != nil {
		return nil, err
	}
	// mask drops to 0 at the row where idx reaches len and stays there
	if err := sys.DeclareGate("vl_mask", g.Sel,
		expr.Sub(f, g.Mask.Query(0), expr.Product(g.Mask.Query(-1), expr.Sub(f, one, g.Out.Query(0))))); err != nil {
		return nil, err
	}
	// sum accumulates the mask so the total can be pinned to len
	if err := sys.DeclareGate("vl_sum", g.Sel,
		expr.Sub(f, g.Sum.Query(0), expr.Sum(g.Sum.Query(-1), g.Mask.Query(0)))); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gadget) MaxLen() int { return g.maxLen }

func (g *Gadget) System() *cs.ConstraintSystem { return g.sys }

// Bind lays out one variable-length input. buffer may be shorter than the
// capacity; missing tail cells are filled with zero. length beyond the
// capacity is rejected before any cell is written.
func (g *Gadget) Bind(a *cs.Assignment, buffer []constraint.Element, length uint64) (*Binding, error) {
	if length > uint64(g.maxLen) || len(buffer) > g.maxLen {
		return nil, cs.LengthOutOfBoundsError{Length: length, MaxLen: g.maxLen}
	}
	f := g.sys.Field()
	lenVal := f.FromInterface(length)

	r, err := a.BeginRegion("var_len")
	if err != nil {
		return nil, err
	}

	// row 0 seeds the recurrences: mask = 1, sum = 0, and the canonical
	// length cell every per-row len copy points back to
	if _, err := r.AssignAdviceFromConstant(g.Mask, 0, f.One()); err != nil {
		return nil, err
	}
	if _, err := r.AssignAdviceFromConstant(g.Sum, 0, constraint.Element{}); err != nil {
		return nil, err
	}
	lenCell, err := r.AssignAdvice(g.Len, 0, lenVal)
	if err != nil {
		return nil, err
	}

	b := &Binding{Length: lenCell}
	mask, sum := f.One(), constraint.Element{}
	var sumCell cs.Cell
	for i := 1; i <= g.maxLen; i++ {
		rowLen, err := r.AssignAdvice(g.Len, i, lenVal)
		if err != nil {
			return nil, err
		}
		if err := r.ConstrainEqual(rowLen, lenCell); err != nil {
			return nil, err
		}
		if _, err := r.AssignFixed(g.Idx, i, f.FromInterface(uint64(i-1))); err != nil {
			return nil, err
		}

		t := f.Sub(lenVal, f.FromInterface(uint64(i-1)))
		var inv, out constraint.Element
		if tInv, ok := f.Inverse(t); ok {
			inv = tInv
		} else {
			out = f.One()
		}
		if _, err := r.AssignAdvice(g.Inv, i, inv); err != nil {
			return nil, err
		}
		if _, err := r.AssignAdvice(g.Out, i, out); err != nil {
			return nil, err
		}

		mask = f.Mul(mask, f.Sub(f.One(), out))
		maskCell, err := r.AssignAdvice(g.Mask, i, mask)
		if err != nil {
			return nil, err
		}
		sum = f.Add(sum, mask)
		if sumCell, err = r.AssignAdvice(g.Sum, i, sum); err != nil {
			return nil, err
		}

		var bufVal constraint.Element
		if i-1 < len(buffer) {
			bufVal = buffer[i-1]
		}
		bufCell, err := r.AssignAdvice(g.Buf, i, bufVal)
		if err != nil {
			return nil, err
		}
		if err := r.EnableSelector(g.Sel, i); err != nil {
			return nil, err
		}
		b.Mask = append(b.Mask, maskCell)
		b.Buffer = append(b.Buffer, bufCell)
	}

	// the mask total must equal the claimed length
	if err := r.ConstrainEqual(sumCell, lenCell); err != nil {
		return nil, err
	}
	if err := r.End(); err != nil {
		return nil, err
	}

	// bound the length so sum == len cannot wrap around the field
	rcCell, err := g.rc.RangeCheck(a, lenVal, bits.Len(uint(g.maxLen)))
	if err != nil {
		return nil, err
	}
	if err := a.ConstrainEqual(rcCell, lenCell); err != nil {
		return nil, err
	}
	return b, nil
}
