package cs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"
)

// LookupCheck is one emitted membership constraint: the cell's value must be
// a member of the table.
type LookupCheck struct {
	Name  string
	Cell  Cell
	Table *Table
}

// Assignment is one synthesis pass over a 2^k-row grid. It exclusively owns
// the cell values for its lifetime; regions borrow it one at a time and must
// not outlive it.
type Assignment struct {
	sys *ConstraintSystem
	k   int
	n   int

	// per-column value arena, allocated on first write
	values   [][]constraint.Element
	assigned []*bitset.BitSet

	// enabled rows per selector
	selRows []*bitset.BitSet

	// next-free-row watermark per column, plus a global floor so that
	// selector-only regions still reserve their rows
	watermark []int
	floor     int

	uf      *unionFind
	copies  [][2]Cell
	lookups []LookupCheck

	open *Region

	// pinned constants, keyed by the field's canonical string rendering
	constCells map[string]Cell
}

// NewAssignment starts a synthesis pass with 2^k rows. It freezes the
// system's shape: no columns, selectors or gates may be declared afterwards.
func NewAssignment(sys *ConstraintSystem, k int) (*Assignment, error) {
	if k <= 0 || k > 28 {
		return nil, fmt.Errorf("cs: grid degree %d out of range", k)
	}
	sys.freeze()
	n := 1 << k
	ncol := len(sys.columns)
	a := &Assignment{
		sys:        sys,
		k:          k,
		n:          n,
		values:     make([][]constraint.Element, ncol),
		assigned:   make([]*bitset.BitSet, ncol),
		selRows:    make([]*bitset.BitSet, len(sys.selectors)),
		watermark:  make([]int, ncol),
		uf:         newUnionFind(ncol * n),
		constCells: make(map[string]Cell),
	}
	for i := range a.selRows {
		a.selRows[i] = bitset.New(uint(n))
	}
	return a, nil
}

func (a *Assignment) System() *ConstraintSystem { return a.sys }

func (a *Assignment) K() int { return a.k }

// Size returns the grid height.
func (a *Assignment) Size() int { return a.n }

func (a *Assignment) cellIndex(c Cell) int32 {
	return int32(c.Column.id*a.n + c.Row)
}

func (a *Assignment) cellFromIndex(idx int32) Cell {
	return Cell{Column: a.sys.columns[int(idx)/a.n], Row: int(idx) % a.n}
}

// assign writes one cell; cells are immutable once written.
func (a *Assignment) assign(col Column, row int, v constraint.Element) error {
	if row < 0 || row >= a.n {
		return fmt.Errorf("cs: row %d outside grid of height %d", row, a.n)
	}
	id := col.id
	if a.assigned[id] == nil {
		a.values[id] = make([]constraint.Element, a.n)
		a.assigned[id] = bitset.New(uint(a.n))
	}
	if a.assigned[id].Test(uint(row)) {
		return ReassignmentError{Column: col.name, Row: row}
	}
	a.values[id][row] = v
	a.assigned[id].Set(uint(row))
	return nil
}

// ValueAt reads the value of a column at a (wrapped) row; unassigned cells
// read as zero, mirroring the engine's default fill.
func (a *Assignment) ValueAt(colID, row int) constraint.Element {
	row = ((row % a.n) + a.n) % a.n
	if a.values[colID] == nil {
		return constraint.Element{}
	}
	return a.values[colID][row]
}

// Value returns a cell's value and whether it was ever assigned.
func (a *Assignment) Value(c Cell) (constraint.Element, bool) {
	if c.Row < 0 || c.Row >= a.n {
		return constraint.Element{}, false
	}
	if a.assigned[c.Column.id] == nil || !a.assigned[c.Column.id].Test(uint(c.Row)) {
		return constraint.Element{}, false
	}
	return a.values[c.Column.id][c.Row], true
}

func (a *Assignment) isAssigned(colID, row int) bool {
	return a.assigned[colID] != nil && a.assigned[colID].Test(uint(row))
}

// SetInstance writes a public-input cell. Instance rows are addressed
// absolutely by the caller; they take no part in region row allocation.
func (a *Assignment) SetInstance(col Column, row int, v constraint.Element) error {
	if col.kind != Instance {
		panic("cs: SetInstance on a non-instance column")
	}
	return a.assign(col, row, v)
}

// ConstrainEqual records a copy constraint between two cells. It is valid
// whether the owning regions are open or closed; equality is transitive and
// resolved once, after synthesis.
func (a *Assignment) ConstrainEqual(c1, c2 Cell) error {
	for _, c := range []Cell{c1, c2} {
		if c.Row < 0 || c.Row >= a.n {
			return fmt.Errorf("cs: copy constraint on out-of-grid cell %s[%d]", c.Column.name, c.Row)
		}
	}
	a.uf.union(a.cellIndex(c1), a.cellIndex(c2))
	a.copies = append(a.copies, [2]Cell{c1, c2})
	return nil
}

// LookupCell emits a membership constraint: the cell's value must appear in
// the table. The engine's lookup argument enforces it at proving time; mock
// verification re-checks it directly.
func (a *Assignment) LookupCell(name string, c Cell, t *Table) error {
	if c.Row < 0 || c.Row >= a.n {
		return fmt.Errorf("cs: lookup on out-of-grid cell %s[%d]", c.Column.name, c.Row)
	}
	a.lookups = append(a.lookups, LookupCheck{Name: name, Cell: c, Table: t})
	return nil
}

// constantCell pins a constant into the constants fixed column, reusing the
// row if the same value was pinned before.
func (a *Assignment) constantCell(v constraint.Element) (Cell, error) {
	key := a.sys.fld.String(v)
	if c, ok := a.constCells[key]; ok {
		return c, nil
	}
	col := a.sys.constants
	row := a.watermark[col.id]
	if err := a.assign(col, row, v); err != nil {
		return Cell{}, err
	}
	a.watermark[col.id] = row + 1
	c := Cell{Column: col, Row: row}
	a.constCells[key] = c
	return c, nil
}

// SelectorActivations returns the set of rows the selector is enabled on.
// The caller must treat it as read-only.
func (a *Assignment) SelectorActivations(sel Selector) *bitset.BitSet {
	return a.selRows[sel.id]
}

func (a *Assignment) Lookups() []LookupCheck { return a.lookups }

func (a *Assignment) Copies() [][2]Cell { return a.copies }

// CopyClasses resolves the recorded copy constraints into equivalence
// classes of cells (classes of size one are omitted).
func (a *Assignment) CopyClasses() [][]Cell {
	seen := make(map[int32]struct{})
	byRoot := make(map[int32][]int32)
	for _, pair := range a.copies {
		for _, c := range pair {
			idx := a.cellIndex(c)
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			root := a.uf.find(idx)
			byRoot[root] = append(byRoot[root], idx)
		}
	}
	res := make([][]Cell, 0, len(byRoot))
	for _, idxs := range byRoot {
		if len(idxs) < 2 {
			continue
		}
		class := make([]Cell, len(idxs))
		for i, idx := range idxs {
			class[i] = a.cellFromIndex(idx)
		}
		res = append(res, class)
	}
	return res
}
