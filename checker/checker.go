// Package checker implements mock verification: it re-evaluates every active
// gate, lookup and copy constraint directly against the assigned grid,
// without any cryptographic work, and reports the first violation it finds.
package checker

import (
	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/logger"
	"github.com/consensys/gnark/constraint"
)

// Check walks gates in declaration order (row by row within a gate), then
// lookups in emission order, then copy classes. It returns nil when every
// constraint holds, or the first cs.UnsatisfiedConstraintError otherwise.
func Check(a *cs.Assignment) error {
	f := a.System().Field()
	log := logger.Logger()

	for _, g := range a.System().Gates() {
		rows := a.SelectorActivations(g.Selector)
		for i, ok := rows.NextSet(0); ok; i, ok = rows.NextSet(i + 1) {
			row := int(i)
			v := g.Expr.Eval(f, func(col, rot int) constraint.Element {
				return a.ValueAt(col, row+rot)
			})
			if !v.IsZero() {
				log.Debug().Str("gate", g.Name).Int("row", row).Msg("gate not satisfied")
				return cs.UnsatisfiedConstraintError{
					Constraint: g.Name,
					Row:        row,
					Value:      f.String(v),
				}
			}
		}
	}

	for _, lk := range a.Lookups() {
		v, assigned := a.Value(lk.Cell)
		if !assigned || !lk.Table.Contains(f, v) {
			log.Debug().Str("lookup", lk.Name).Int("row", lk.Cell.Row).Msg("lookup not satisfied")
			return cs.UnsatisfiedConstraintError{
				Constraint: "lookup " + lk.Name,
				Row:        lk.Cell.Row,
				Value:      f.String(v),
			}
		}
	}

	for _, class := range a.CopyClasses() {
		ref, _ := a.Value(class[0])
		for _, c := range class[1:] {
			v, _ := a.Value(c)
			if v != ref {
				log.Debug().Str("column", c.Column.Name()).Int("row", c.Row).Msg("copy constraint not satisfied")
				return cs.UnsatisfiedConstraintError{
					Constraint: "copy " + c.Column.Name(),
					Row:        c.Row,
					Value:      f.String(v),
				}
			}
		}
	}

	return nil
}

// CheckCircuit reports whether every constraint of the assignment holds.
func CheckCircuit(a *cs.Assignment) bool {
	return Check(a) == nil
}
