package circuits_test

import (
	"testing"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/circuits"
	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/field/bn254"
	"github.com/PolyhedraZK/PlonkishScaffold/test"
)

func TestStandardPlonkMul(t *testing.T) {
	f := &bn254.Field{}

	for _, tc := range []struct {
		name string
		c    uint64
		ok   bool
	}{
		{"satisfied", 12, true},
		{"unsatisfied", 11, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert := test.NewAssert(t)
			sys := cs.NewSystem(f)
			cfg, err := circuits.ConfigureStandardPlonk(sys)
			assert.NoError(err)

			a, err := cs.NewAssignment(sys, 4)
			assert.NoError(err)
			r, err := a.BeginRegion("mul")
			assert.NoError(err)
			// 3*4 - c = 0
			_, _, _, err = cfg.AssignRow(r, 0, circuits.PlonkRow{
				A:  f.FromInterface(3),
				B:  f.FromInterface(4),
				C:  f.FromInterface(tc.c),
				QM: f.One(),
				QO: f.Neg(f.One()),
			})
			assert.NoError(err)
			assert.NoError(r.End())

			if tc.ok {
				assert.CheckSucceeded(a)
			} else {
				assert.CheckFailedWith(a, "std_plonk")
			}
		})
	}
}

func TestStandardPlonkAddChain(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	cfg, err := circuits.ConfigureStandardPlonk(sys)
	assert.NoError(err)

	a, err := cs.NewAssignment(sys, 4)
	assert.NoError(err)
	r, err := a.BeginRegion("add_chain")
	assert.NoError(err)
	// row 0: 1 + 2 - 3 = 0; row 1: 3 + 5 - 8 = 0, with the carried operand
	// copy-constrained between the rows
	negOne := f.Neg(f.One())
	_, _, c0, err := cfg.AssignRow(r, 0, circuits.PlonkRow{
		A: f.FromInterface(1), B: f.FromInterface(2), C: f.FromInterface(3),
		QL: f.One(), QR: f.One(), QO: negOne,
	})
	assert.NoError(err)
	a1, _, _, err := cfg.AssignRow(r, 1, circuits.PlonkRow{
		A: f.FromInterface(3), B: f.FromInterface(5), C: f.FromInterface(8),
		QL: f.One(), QR: f.One(), QO: negOne,
	})
	assert.NoError(err)
	assert.NoError(r.ConstrainEqual(c0, a1))
	assert.NoError(r.End())

	assert.CheckSucceeded(a)
}

func TestStandardPlonkSquarePlus72(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	cfg, err := circuits.ConfigureStandardPlonk(sys)
	assert.NoError(err)

	a, err := cs.NewAssignment(sys, 4)
	assert.NoError(err)
	r, err := a.BeginRegion("square_plus_72")
	assert.NoError(err)
	// row 0: x*x - y = 0; row 1: y + 72 - z = 0
	negOne := f.Neg(f.One())
	x0, x1, y0, err := cfg.AssignRow(r, 0, circuits.PlonkRow{
		A: f.FromInterface(6), B: f.FromInterface(6), C: f.FromInterface(36),
		QM: f.One(), QO: negOne,
	})
	assert.NoError(err)
	assert.NoError(r.ConstrainEqual(x0, x1))
	y1, _, _, err := cfg.AssignRow(r, 1, circuits.PlonkRow{
		A: f.FromInterface(36), C: f.FromInterface(108),
		QL: f.One(), QO: negOne, QC: f.FromInterface(72),
	})
	assert.NoError(err)
	assert.NoError(r.ConstrainEqual(y0, y1))
	assert.NoError(r.End())

	assert.CheckSucceeded(a)
}

func TestOrTruthTable(t *testing.T) {
	f := &bn254.Field{}
	for _, tc := range []struct {
		x, y, want uint64
	}{
		{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 1},
	} {
		assert := test.NewAssert(t)
		sys := cs.NewSystem(f)
		cfg, err := circuits.ConfigureOr(sys)
		assert.NoError(err)

		a, err := cs.NewAssignment(sys, 4)
		assert.NoError(err)
		out, err := cfg.Assign(a, f.FromInterface(tc.x), f.FromInterface(tc.y))
		assert.NoError(err)
		assert.CheckSucceeded(a)

		v, ok := a.Value(out)
		assert.True(ok)
		assert.Equal(f.String(f.FromInterface(tc.want)), f.String(v))
	}
}

func TestOrRejectsNonBoolean(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	cfg, err := circuits.ConfigureOr(sys)
	assert.NoError(err)

	a, err := cs.NewAssignment(sys, 4)
	assert.NoError(err)
	_, err = cfg.Assign(a, f.FromInterface(2), f.FromInterface(0))
	assert.NoError(err)
	assert.CheckFailedWith(a, "or_bool_a")
}

func TestIsZero(t *testing.T) {
	f := &bn254.Field{}
	for _, tc := range []struct {
		x    constraint.Element
		want uint64
	}{
		{constraint.Element{}, 1},
		{f.FromInterface(7), 0},
	} {
		assert := test.NewAssert(t)
		sys := cs.NewSystem(f)
		cfg, err := circuits.ConfigureIsZero(sys)
		assert.NoError(err)

		a, err := cs.NewAssignment(sys, 4)
		assert.NoError(err)
		out, err := cfg.Assign(a, tc.x)
		assert.NoError(err)
		assert.CheckSucceeded(a)

		v, ok := a.Value(out)
		assert.True(ok)
		assert.Equal(f.String(f.FromInterface(tc.want)), f.String(v))
	}
}

func TestIsZeroRejectsForgedOutput(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	cfg, err := circuits.ConfigureIsZero(sys)
	assert.NoError(err)

	a, err := cs.NewAssignment(sys, 4)
	assert.NoError(err)
	// claim 7 is zero: x=7, inv=0, out=1 fails x*out = 0
	r, err := a.BeginRegion("forged")
	assert.NoError(err)
	_, err = r.AssignAdvice(cfg.X, 0, f.FromInterface(7))
	assert.NoError(err)
	_, err = r.AssignAdvice(cfg.Inv, 0, constraint.Element{})
	assert.NoError(err)
	_, err = r.AssignAdvice(cfg.Out, 0, f.One())
	assert.NoError(err)
	assert.NoError(r.EnableSelector(cfg.Sel, 0))
	assert.NoError(r.End())

	assert.CheckFailed(a)
}
