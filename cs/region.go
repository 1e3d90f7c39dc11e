package cs

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
)

// Region is a scoped group of cell assignments forming one gadget instance.
// Rows inside a region are addressed by offset; the region picks its absolute
// start row from the column watermarks so that it never collides with a
// previous region.
type Region struct {
	a      *Assignment
	name   string
	start  int
	span   int
	closed bool

	touched map[int]struct{}
	enabled []enabledSelector
}

type enabledSelector struct {
	sel    Selector
	offset int
}

// BeginRegion opens a region. Regions are synthesized strictly sequentially:
// opening a second region while one is open is an error.
func (a *Assignment) BeginRegion(name string) (*Region, error) {
	if a.open != nil {
		return nil, fmt.Errorf("cs: region %q opened while %q is still open", name, a.open.name)
	}
	start := a.floor
	for _, col := range a.sys.columns {
		// the constants column is managed by the assignment itself, and
		// instance rows are addressed absolutely by the caller
		if col.id == a.sys.constants.id || col.kind == Instance {
			continue
		}
		if a.watermark[col.id] > start {
			start = a.watermark[col.id]
		}
	}
	r := &Region{
		a:       a,
		name:    name,
		start:   start,
		touched: make(map[int]struct{}),
	}
	a.open = r
	return r, nil
}

func (r *Region) Name() string { return r.name }

// Start returns the absolute row the region begins at.
func (r *Region) Start() int { return r.start }

func (r *Region) row(offset int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("cs: negative region offset %d", offset)
	}
	row := r.start + offset
	if row >= r.a.n {
		return 0, fmt.Errorf("cs: region %q exceeds grid height %d at offset %d", r.name, r.a.n, offset)
	}
	if offset+1 > r.span {
		r.span = offset + 1
	}
	return row, nil
}

func (r *Region) assign(col Column, offset int, v constraint.Element) (Cell, error) {
	if r.closed {
		return Cell{}, RegionClosedError{Region: r.name}
	}
	row, err := r.row(offset)
	if err != nil {
		return Cell{}, err
	}
	if err := r.a.assign(col, row, v); err != nil {
		return Cell{}, err
	}
	r.touched[col.id] = struct{}{}
	return Cell{Column: col, Row: row}, nil
}

// AssignAdvice writes one private witness cell.
func (r *Region) AssignAdvice(col Column, offset int, v constraint.Element) (Cell, error) {
	if col.kind != Advice {
		panic(fmt.Sprintf("cs: AssignAdvice on %s column %q", col.kind, col.name))
	}
	return r.assign(col, offset, v)
}

// AssignFixed writes one circuit-defining constant cell.
func (r *Region) AssignFixed(col Column, offset int, v constraint.Element) (Cell, error) {
	if col.kind != Fixed {
		panic(fmt.Sprintf("cs: AssignFixed on %s column %q", col.kind, col.name))
	}
	return r.assign(col, offset, v)
}

// AssignAdviceFromConstant writes an advice cell and copy-constrains it to a
// pinned fixed constant, so the prover cannot choose a different value.
func (r *Region) AssignAdviceFromConstant(col Column, offset int, v constraint.Element) (Cell, error) {
	cell, err := r.AssignAdvice(col, offset, v)
	if err != nil {
		return Cell{}, err
	}
	pin, err := r.a.constantCell(v)
	if err != nil {
		return Cell{}, err
	}
	if err := r.a.ConstrainEqual(cell, pin); err != nil {
		return Cell{}, err
	}
	return cell, nil
}

// EnableSelector turns the gates keyed to sel on at the given region row.
func (r *Region) EnableSelector(sel Selector, offset int) error {
	if r.closed {
		return RegionClosedError{Region: r.name}
	}
	row, err := r.row(offset)
	if err != nil {
		return err
	}
	r.a.selRows[sel.id].Set(uint(row))
	r.enabled = append(r.enabled, enabledSelector{sel: sel, offset: offset})
	return nil
}

// ConstrainEqual records a copy constraint; see Assignment.ConstrainEqual.
func (r *Region) ConstrainEqual(c1, c2 Cell) error {
	return r.a.ConstrainEqual(c1, c2)
}

// ConstrainInstance ties a cell to a public-input cell.
func (r *Region) ConstrainInstance(c Cell, col Column, row int) error {
	if col.kind != Instance {
		panic(fmt.Sprintf("cs: ConstrainInstance on %s column %q", col.kind, col.name))
	}
	return r.a.ConstrainEqual(c, Cell{Column: col, Row: row})
}

// End closes the region. It audits that every cell referenced by a gate
// enabled inside the region was assigned, and advances the watermarks so the
// next region starts on fresh rows.
func (r *Region) End() error {
	if r.closed {
		return RegionClosedError{Region: r.name}
	}
	r.closed = true
	r.a.open = nil

	for _, en := range r.enabled {
		row := r.start + en.offset
		for _, g := range r.a.sys.gatesFor(en.sel) {
			for _, ref := range g.Expr.CellRefs() {
				target := ((row+ref.Rot)%r.a.n + r.a.n) % r.a.n
				if !r.a.isAssigned(ref.Col, target) {
					return MissingAssignmentError{
						Region: r.name,
						Gate:   g.Name,
						Column: r.a.sys.columns[ref.Col].name,
						Row:    target,
					}
				}
			}
		}
	}

	end := r.start + r.span
	for id := range r.touched {
		if r.a.watermark[id] < end {
			r.a.watermark[id] = end
		}
	}
	if r.a.floor < end {
		r.a.floor = end
	}
	return nil
}
