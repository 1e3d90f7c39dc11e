package cs

import "github.com/PolyhedraZK/PlonkishScaffold/expr"

// ColumnKind classifies a column at declaration time; it never changes
// afterwards.
type ColumnKind uint8

const (
	Advice ColumnKind = iota
	Fixed
	Instance
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	case Instance:
		return "instance"
	}
	return "unknown"
}

// Column is a cheap handle on a declared grid column.
type Column struct {
	id   int
	kind ColumnKind
	name string
}

func (c Column) ID() int          { return c.id }
func (c Column) Kind() ColumnKind { return c.kind }
func (c Column) Name() string     { return c.name }

// Query returns an expression referencing this column at a relative row
// offset, for use in gate polynomials.
func (c Column) Query(rot int) expr.Expression {
	return expr.NewCellRef(c.id, rot)
}

// Selector is a boolean fixed column toggling a gate on a per-row basis.
// Selectors carry no field values; only the set of enabled rows.
type Selector struct {
	id   int
	name string
}

func (s Selector) ID() int      { return s.id }
func (s Selector) Name() string { return s.name }

// Cell addresses one grid position.
type Cell struct {
	Column Column
	Row    int
}
