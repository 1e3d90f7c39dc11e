// Package expr implements the polynomial expressions gates are built from.
//
// An Expression is a tagged tree over constants and cell references; keeping
// the variant set closed lets the mock verifier evaluate any gate with one
// recursive walk instead of dispatching through gate-specific code.
package expr

import (
	"fmt"
	"strconv"

	"github.com/consensys/gnark/constraint"
)

type Kind uint8

const (
	KindConstant Kind = iota
	KindCellRef
	KindSum
	KindProduct
	KindScaled
)

// CellRef identifies a grid cell relative to the row a gate is evaluated at.
type CellRef struct {
	Col int
	Rot int
}

type Expression struct {
	kind     Kind
	coeff    constraint.Element // constant value, or scale factor for KindScaled
	col, rot int                // cell reference for KindCellRef
	children []Expression
}

// NewConstant returns the expression c.
func NewConstant(c constraint.Element) Expression {
	return Expression{kind: KindConstant, coeff: c}
}

// NewCellRef returns the expression referencing column col at row offset rot.
func NewCellRef(col, rot int) Expression {
	return Expression{kind: KindCellRef, col: col, rot: rot}
}

// Sum returns x0 + x1 + ...
func Sum(xs ...Expression) Expression {
	if len(xs) == 1 {
		return xs[0]
	}
	return Expression{kind: KindSum, children: xs}
}

// Product returns x0 * x1 * ...
func Product(xs ...Expression) Expression {
	if len(xs) == 1 {
		return xs[0]
	}
	return Expression{kind: KindProduct, children: xs}
}

// Scaled returns c * e.
func Scaled(e Expression, c constraint.Element) Expression {
	return Expression{kind: KindScaled, coeff: c, children: []Expression{e}}
}

// negator is the slice of field arithmetic needed by Sub and Negated.
type negator interface {
	Neg(constraint.Element) constraint.Element
	One() constraint.Element
}

// Sub returns a - b.
func Sub(f negator, a, b Expression) Expression {
	return Sum(a, Negated(f, b))
}

// Negated returns -e.
func Negated(f negator, e Expression) Expression {
	return Scaled(e, f.Neg(f.One()))
}

func (e Expression) Kind() Kind                { return e.kind }
func (e Expression) Coeff() constraint.Element { return e.coeff }
func (e Expression) Children() []Expression    { return e.children }

// Ref returns the cell reference; only meaningful for KindCellRef nodes.
func (e Expression) Ref() CellRef { return CellRef{Col: e.col, Rot: e.rot} }

func (e Expression) Clone() Expression {
	res := e
	res.children = make([]Expression, len(e.children))
	for i, c := range e.children {
		res.children[i] = c.Clone()
	}
	return res
}

// Evaluator supplies the field arithmetic needed to fold an expression.
type Evaluator interface {
	Add(a, b constraint.Element) constraint.Element
	Mul(a, b constraint.Element) constraint.Element
	One() constraint.Element
	String(constraint.Element) string
}

// Eval folds the expression over the given field, reading cell values through
// the `at` callback. The callback receives the column index and the relative
// row offset the reference was declared with; resolving the offset against a
// concrete row (and wrapping it) is the caller's business.
func (e Expression) Eval(f Evaluator, at func(col, rot int) constraint.Element) constraint.Element {
	switch e.kind {
	case KindConstant:
		return e.coeff
	case KindCellRef:
		return at(e.col, e.rot)
	case KindSum:
		acc := constraint.Element{}
		for _, c := range e.children {
			acc = f.Add(acc, c.Eval(f, at))
		}
		return acc
	case KindProduct:
		acc := f.One()
		for _, c := range e.children {
			acc = f.Mul(acc, c.Eval(f, at))
		}
		return acc
	case KindScaled:
		return f.Mul(e.coeff, e.children[0].Eval(f, at))
	}
	panic("unknown expression kind")
}

// Degree returns the polynomial degree of the expression.
func (e Expression) Degree() int {
	switch e.kind {
	case KindConstant:
		return 0
	case KindCellRef:
		return 1
	case KindSum:
		res := 0
		for _, c := range e.children {
			if d := c.Degree(); d > res {
				res = d
			}
		}
		return res
	case KindProduct:
		res := 0
		for _, c := range e.children {
			res += c.Degree()
		}
		return res
	case KindScaled:
		return e.children[0].Degree()
	}
	panic("unknown expression kind")
}

// CellRefs collects every cell reference in the tree, duplicates included.
func (e Expression) CellRefs() []CellRef {
	var res []CellRef
	e.appendCellRefs(&res)
	return res
}

func (e Expression) appendCellRefs(res *[]CellRef) {
	if e.kind == KindCellRef {
		*res = append(*res, CellRef{Col: e.col, Rot: e.rot})
		return
	}
	for _, c := range e.children {
		c.appendCellRefs(res)
	}
}

// String renders the expression for debugging output.
func (e Expression) String(f Evaluator) string {
	switch e.kind {
	case KindConstant:
		return f.String(e.coeff)
	case KindCellRef:
		if e.rot == 0 {
			return "c" + strconv.Itoa(e.col)
		}
		return fmt.Sprintf("c%d[%+d]", e.col, e.rot)
	case KindSum:
		s := "("
		for i, c := range e.children {
			if i > 0 {
				s += "+"
			}
			s += c.String(f)
		}
		return s + ")"
	case KindProduct:
		s := ""
		for i, c := range e.children {
			if i > 0 {
				s += "*"
			}
			s += c.String(f)
		}
		return s
	case KindScaled:
		return f.String(e.coeff) + "*" + e.children[0].String(f)
	}
	panic("unknown expression kind")
}
