package cs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/expr"
	"github.com/PolyhedraZK/PlonkishScaffold/field/babybear"
)

func TestDuplicateGate(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	col := sys.AdviceColumn("w")
	sel := sys.Selector("s")

	req.NoError(sys.DeclareGate("g", sel, col.Query(0)))
	err := sys.DeclareGate("g", sel, col.Query(0))
	var dup cs.DuplicateGateError
	req.True(errors.As(err, &dup))
	req.Equal("g", dup.Gate)
}

func TestGateRejectsUndeclaredColumn(t *testing.T) {
	req := require.New(t)
	sys := cs.NewSystem(&babybear.Field{})
	sel := sys.Selector("s")
	req.Error(sys.DeclareGate("g", sel, expr.NewCellRef(42, 0)))
}

func TestRegionRowAllocation(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)

	r1, err := a.BeginRegion("first")
	req.NoError(err)
	c1, err := r1.AssignAdvice(w, 0, f.One())
	req.NoError(err)
	_, err = r1.AssignAdvice(w, 3, f.One())
	req.NoError(err)
	req.NoError(r1.End())

	r2, err := a.BeginRegion("second")
	req.NoError(err)
	c2, err := r2.AssignAdvice(w, 0, f.One())
	req.NoError(err)
	req.NoError(r2.End())

	req.Equal(0, c1.Row)
	req.Equal(4, c2.Row)
}

func TestRegionExclusivity(t *testing.T) {
	req := require.New(t)
	sys := cs.NewSystem(&babybear.Field{})
	sys.AdviceColumn("w")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	_, err = a.BeginRegion("first")
	req.NoError(err)
	_, err = a.BeginRegion("second")
	req.Error(err)
}

func TestRegionClosed(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	r, err := a.BeginRegion("r")
	req.NoError(err)
	req.NoError(r.End())

	_, err = r.AssignAdvice(w, 0, f.One())
	var closed cs.RegionClosedError
	req.True(errors.As(err, &closed))

	err = r.End()
	req.True(errors.As(err, &closed))
}

func TestReassignment(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	r, err := a.BeginRegion("r")
	req.NoError(err)
	_, err = r.AssignAdvice(w, 0, f.One())
	req.NoError(err)
	_, err = r.AssignAdvice(w, 0, f.One())
	var re cs.ReassignmentError
	req.True(errors.As(err, &re))
	req.Equal("w", re.Column)
}

func TestMissingAssignmentAudit(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")
	sel := sys.Selector("s")
	// gate references both the current and the next row
	req.NoError(sys.DeclareGate("pair", sel, expr.Sub(f, w.Query(1), w.Query(0))))

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	r, err := a.BeginRegion("r")
	req.NoError(err)
	_, err = r.AssignAdvice(w, 0, f.One())
	req.NoError(err)
	req.NoError(r.EnableSelector(sel, 0))

	err = r.End()
	var missing cs.MissingAssignmentError
	req.True(errors.As(err, &missing))
	req.Equal("pair", missing.Gate)
	req.Equal(1, missing.Row)
}

func TestCopyTransitivity(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	r, err := a.BeginRegion("r")
	req.NoError(err)
	var cells []cs.Cell
	for i := 0; i < 3; i++ {
		c, err := r.AssignAdvice(w, i, f.FromInterface(7))
		req.NoError(err)
		cells = append(cells, c)
	}
	req.NoError(r.ConstrainEqual(cells[0], cells[1]))
	req.NoError(r.ConstrainEqual(cells[1], cells[2]))
	req.NoError(r.End())

	classes := a.CopyClasses()
	req.Len(classes, 1)
	req.Len(classes[0], 3)
}

func TestLookupTableMemoized(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)

	t8 := sys.LookupTable(8)
	req.Same(t8, sys.LookupTable(8))
	req.Equal(256, t8.Size())
	req.True(t8.Contains(f, f.FromInterface(255)))
	req.False(t8.Contains(f, f.FromInterface(256)))

	// rebuilding in a fresh system yields identical contents
	other := cs.NewSystem(f).LookupTable(8)
	req.Equal(t8.Values(), other.Values())
}

func TestInstanceConstraint(t *testing.T) {
	req := require.New(t)
	f := &babybear.Field{}
	sys := cs.NewSystem(f)
	w := sys.AdviceColumn("w")
	pub := sys.InstanceColumn("public")

	a, err := cs.NewAssignment(sys, 4)
	req.NoError(err)
	req.NoError(a.SetInstance(pub, 0, f.FromInterface(5)))
	r, err := a.BeginRegion("r")
	req.NoError(err)
	c, err := r.AssignAdvice(w, 0, f.FromInterface(5))
	req.NoError(err)
	req.NoError(r.ConstrainInstance(c, pub, 0))
	req.NoError(r.End())

	req.Len(a.CopyClasses(), 1)
}
