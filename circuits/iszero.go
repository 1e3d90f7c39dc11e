package circuits

import (
	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
)

// IsZeroConfig computes out = (x == 0 ? 1 : 0) with the classic inverse
// trick. Two gates pin it down:
//
//	x*inv + out - 1 = 0
//	x*out          = 0
//
// When x != 0 the witness must put inv = 1/x; when x == 0 any inv satisfies
// both gates, and the assignment uses inv = 0.
type IsZeroConfig struct {
	X, Inv, Out cs.Column
	Sel         cs.Selector
}

func ConfigureIsZero(sys *cs.ConstraintSystem) (IsZeroConfig, error) {
	cfg := IsZeroConfig{
		X:   sys.AdviceColumn("x"),
		Inv: sys.AdviceColumn("inv"),
		Out: sys.AdviceColumn("out"),
		Sel: sys.Selector("is_zero"),
	}
	f := sys.Field()
	x, inv, out := cfg.X.Query(0), cfg.Inv.Query(0), cfg.Out.Query(0)
	one := expr.NewConstant(f.One())

	e := expr.Sub(f, expr.Sum(expr.Product(x, inv), out), one)
	if err := sys.DeclareGate("is_zero", cfg.Sel, e); err != nil {
		return IsZeroConfig{}, err
	}
	if err := sys.DeclareGate("is_zero_mul", cfg.Sel, expr.Product(x, out)); err != nil {
		return IsZeroConfig{}, err
	}
	return cfg, nil
}

// Assign lays out one is-zero instance and returns the output cell.
func (cfg IsZeroConfig) Assign(a *cs.Assignment, x constraint.Element) (cs.Cell, error) {
	f := a.System().Field()
	var out constraint.Element
	inv, ok := f.Inverse(x)
	if !ok {
		inv = constraint.Element{}
		out = f.One()
	}
	r, err := a.BeginRegion("is_zero")
	if err != nil {
		return cs.Cell{}, err
	}
	if _, err := r.AssignAdvice(cfg.X, 0, x); err != nil {
		return cs.Cell{}, err
	}
	if _, err := r.AssignAdvice(cfg.Inv, 0, inv); err != nil {
		return cs.Cell{}, err
	}
	outCell, err := r.AssignAdvice(cfg.Out, 0, out)
	if err != nil {
		return cs.Cell{}, err
	}
	if err := r.EnableSelector(cfg.Sel, 0); err != nil {
		return cs.Cell{}, err
	}
	if err := r.End(); err != nil {
		return cs.Cell{}, err
	}
	return outCell, nil
}
