// Package circuits provides small reference circuits used throughout the
// tests and examples: the standard PLONK gate, a boolean OR, and an is-zero
// gadget. They double as templates for writing new chips on top of cs.
package circuits

import (
	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
)

// StandardPlonkConfig instantiates the vanilla PLONK row constraint
//
//	qL*a + qR*b + qO*c + qM*a*b + qC = 0
//
// with the selector coefficients read from fixed columns, so one gate covers
// addition, multiplication and constant loading depending on the row's q
// values.
type StandardPlonkConfig struct {
	A, B, C cs.Column

	QL, QR, QO, QM, QC cs.Column

	Sel cs.Selector
}

// PlonkRow holds the values of one standard PLONK row.
type PlonkRow struct {
	A, B, C            constraint.Element
	QL, QR, QO, QM, QC constraint.Element
}

// ConfigureStandardPlonk declares the columns and the gate.
func ConfigureStandardPlonk(sys *cs.ConstraintSystem) (StandardPlonkConfig, error) {
	cfg := StandardPlonkConfig{
		A:   sys.AdviceColumn("a"),
		B:   sys.AdviceColumn("b"),
		C:   sys.AdviceColumn("c"),
		QL:  sys.FixedColumn("q_l"),
		QR:  sys.FixedColumn("q_r"),
		QO:  sys.FixedColumn("q_o"),
		QM:  sys.FixedColumn("q_m"),
		QC:  sys.FixedColumn("q_c"),
		Sel: sys.Selector("std_plonk"),
	}
	a, b, c := cfg.A.Query(0), cfg.B.Query(0), cfg.C.Query(0)
	e := expr.Sum(
		expr.Product(cfg.QL.Query(0), a),
		expr.Product(cfg.QR.Query(0), b),
		expr.Product(cfg.QO.Query(0), c),
		expr.Product(cfg.QM.Query(0), a, b),
		cfg.QC.Query(0),
	)
	if err := sys.DeclareGate("std_plonk", cfg.Sel, e); err != nil {
		return StandardPlonkConfig{}, err
	}
	return cfg, nil
}

// AssignRow writes one full gate row at the given region offset and enables
// the gate there. It returns the three advice cells for copy constraining.
func (cfg StandardPlonkConfig) AssignRow(r *cs.Region, offset int, row PlonkRow) (a, b, c cs.Cell, err error) {
	if a, err = r.AssignAdvice(cfg.A, offset, row.A); err != nil {
		return
	}
	if b, err = r.AssignAdvice(cfg.B, offset, row.B); err != nil {
		return
	}
	if c, err = r.AssignAdvice(cfg.C, offset, row.C); err != nil {
		return
	}
	fixed := []struct {
		col cs.Column
		v   constraint.Element
	}{
		{cfg.QL, row.QL}, {cfg.QR, row.QR}, {cfg.QO, row.QO}, {cfg.QM, row.QM}, {cfg.QC, row.QC},
	}
	for _, fc := range fixed {
		if _, err = r.AssignFixed(fc.col, offset, fc.v); err != nil {
			return
		}
	}
	err = r.EnableSelector(cfg.Sel, offset)
	return
}
