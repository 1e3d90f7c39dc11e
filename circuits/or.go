package circuits

import (
	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
)

// OrConfig computes a boolean OR on a single witness column: the operands sit
// on two consecutive rows and the result on the third, all gated by one
// selector on the first row.
type OrConfig struct {
	W   cs.Column
	Sel cs.Selector
}

// ConfigureOr declares the column and the three gates: the OR relation
// a + b - a*b - out, plus booleanity checks on both operands.
func ConfigureOr(sys *cs.ConstraintSystem) (OrConfig, error) {
	cfg := OrConfig{
		W:   sys.AdviceColumn("witness"),
		Sel: sys.Selector("or"),
	}
	f := sys.Field()
	a, b, out := cfg.W.Query(0), cfg.W.Query(1), cfg.W.Query(2)
	one := expr.NewConstant(f.One())

	or := expr.Sub(f, expr.Sum(a, b), expr.Sum(expr.Product(a, b), out))
	if err := sys.DeclareGate("or", cfg.Sel, or); err != nil {
		return OrConfig{}, err
	}
	if err := sys.DeclareGate("or_bool_a", cfg.Sel, expr.Product(a, expr.Sub(f, a, one))); err != nil {
		return OrConfig{}, err
	}
	if err := sys.DeclareGate("or_bool_b", cfg.Sel, expr.Product(b, expr.Sub(f, b, one))); err != nil {
		return OrConfig{}, err
	}
	return cfg, nil
}

// Assign lays out one OR instance and returns the output cell.
func (cfg OrConfig) Assign(a *cs.Assignment, x, y constraint.Element) (cs.Cell, error) {
	f := a.System().Field()
	r, err := a.BeginRegion("or")
	if err != nil {
		return cs.Cell{}, err
	}
	if _, err := r.AssignAdvice(cfg.W, 0, x); err != nil {
		return cs.Cell{}, err
	}
	if _, err := r.AssignAdvice(cfg.W, 1, y); err != nil {
		return cs.Cell{}, err
	}
	res := f.Sub(f.Add(x, y), f.Mul(x, y))
	out, err := r.AssignAdvice(cfg.W, 2, res)
	if err != nil {
		return cs.Cell{}, err
	}
	if err := r.EnableSelector(cfg.Sel, 0); err != nil {
		return cs.Cell{}, err
	}
	if err := r.End(); err != nil {
		return cs.Cell{}, err
	}
	return out, nil
}
