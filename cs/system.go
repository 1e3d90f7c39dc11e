// Package cs implements the constraint-system construction layer: column and
// gate declaration, region-scoped witness assignment over a 2^k-row grid,
// copy constraints, and lookup-table membership constraints. The finalized
// grid is handed to an external prover/verifier as an opaque description;
// nothing in this package performs cryptographic work.
package cs

import (
	"fmt"

	"github.com/PolyhedraZK/PlonkishScaffold/expr"
	"github.com/PolyhedraZK/PlonkishScaffold/field"
)

// Gate is a named polynomial expression gated by a selector: on every row
// where the selector is enabled, the expression must evaluate to zero.
type Gate struct {
	Name     string
	Selector Selector
	Expr     expr.Expression
}

// ConstraintSystem holds the circuit shape: columns, selectors, gates and
// lookup tables. Everything is declared before the first assignment begins;
// the shape is frozen from then on.
type ConstraintSystem struct {
	fld field.Field

	columns   []Column
	selectors []Selector
	constants Column // fixed column backing AssignAdviceFromConstant

	gates     []Gate
	gateNames map[string]struct{}

	tables map[int]*Table

	frozen bool
}

func NewSystem(fld field.Field) *ConstraintSystem {
	sys := &ConstraintSystem{
		fld:       fld,
		gateNames: make(map[string]struct{}),
		tables:    make(map[int]*Table),
	}
	sys.constants = sys.FixedColumn("constants")
	return sys
}

func (sys *ConstraintSystem) Field() field.Field { return sys.fld }

// ConstantsColumn returns the fixed column where pinned constants live.
func (sys *ConstraintSystem) ConstantsColumn() Column { return sys.constants }

func (sys *ConstraintSystem) newColumn(kind ColumnKind, name string) Column {
	if sys.frozen {
		panic("cs: column declared after synthesis started")
	}
	c := Column{id: len(sys.columns), kind: kind, name: name}
	sys.columns = append(sys.columns, c)
	return c
}

func (sys *ConstraintSystem) AdviceColumn(name string) Column {
	return sys.newColumn(Advice, name)
}

func (sys *ConstraintSystem) FixedColumn(name string) Column {
	return sys.newColumn(Fixed, name)
}

func (sys *ConstraintSystem) InstanceColumn(name string) Column {
	return sys.newColumn(Instance, name)
}

func (sys *ConstraintSystem) Selector(name string) Selector {
	if sys.frozen {
		panic("cs: selector declared after synthesis started")
	}
	s := Selector{id: len(sys.selectors), name: name}
	sys.selectors = append(sys.selectors, s)
	return s
}

// DeclareGate registers a gate polynomial under a unique name. Cell
// references in e must point at declared columns.
func (sys *ConstraintSystem) DeclareGate(name string, sel Selector, e expr.Expression) error {
	if sys.frozen {
		panic("cs: gate declared after synthesis started")
	}
	if _, ok := sys.gateNames[name]; ok {
		return DuplicateGateError{Gate: name}
	}
	for _, ref := range e.CellRefs() {
		if ref.Col < 0 || ref.Col >= len(sys.columns) {
			return fmt.Errorf("gate %q references undeclared column %d", name, ref.Col)
		}
	}
	sys.gateNames[name] = struct{}{}
	sys.gates = append(sys.gates, Gate{Name: name, Selector: sel, Expr: e})
	return nil
}

func (sys *ConstraintSystem) Gates() []Gate { return sys.gates }

func (sys *ConstraintSystem) Columns() []Column { return sys.columns }

func (sys *ConstraintSystem) Selectors() []Selector { return sys.selectors }

// gatesFor returns the gates toggled by the given selector.
func (sys *ConstraintSystem) gatesFor(sel Selector) []Gate {
	var res []Gate
	for _, g := range sys.gates {
		if g.Selector.id == sel.id {
			res = append(res, g)
		}
	}
	return res
}

// LookupTable builds (or returns the memoized) table of every integer in
// [0, 2^bits), ascending. Tables are immutable and deterministically
// rebuildable from bits alone, so sharing one across chips is safe.
func (sys *ConstraintSystem) LookupTable(bits int) *Table {
	if t, ok := sys.tables[bits]; ok {
		return t
	}
	t := buildTable(sys.fld, bits)
	sys.tables[bits] = t
	return t
}

func (sys *ConstraintSystem) freeze() { sys.frozen = true }
