package hashchain_test

import (
	"testing"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/field/bn254"
	"github.com/PolyhedraZK/PlonkishScaffold/hashchain"
	"github.com/PolyhedraZK/PlonkishScaffold/rangecheck"
	"github.com/PolyhedraZK/PlonkishScaffold/test"
	"github.com/PolyhedraZK/PlonkishScaffold/varlen"
)

const maxLen = 3

func digestOf(assert *test.Assert, buffer []constraint.Element, length uint64) string {
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	rc, err := rangecheck.Configure(sys, 4)
	assert.NoError(err)
	g, err := varlen.Configure(sys, rc, maxLen)
	assert.NoError(err)
	chain, err := hashchain.Configure(sys)
	assert.NoError(err)

	a, err := cs.NewAssignment(sys, 6)
	assert.NoError(err)
	b, err := g.Bind(a, buffer, length)
	assert.NoError(err)
	out, err := chain.Absorb(a, b.Buffer, b.Mask)
	assert.NoError(err)
	assert.CheckSucceeded(a)

	v, ok := a.Value(out)
	assert.True(ok)
	return f.String(v)
}

func TestAbsorbMatchesDigest(t *testing.T) {
	f := &bn254.Field{}
	msg := []constraint.Element{
		f.FromInterface(10), f.FromInterface(20), f.FromInterface(30),
	}
	for length := uint64(0); length <= maxLen; length++ {
		assert := test.NewAssert(t)
		want := f.String(hashchain.Digest(f, msg[:length]))
		assert.Equal(want, digestOf(assert, msg, length), "length %d", length)
	}
}

func TestAbsorbIgnoresTailPastLength(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	clean := []constraint.Element{
		f.FromInterface(10), f.FromInterface(20), f.FromInterface(30),
	}
	dirty := []constraint.Element{
		f.FromInterface(10), f.FromInterface(20), f.FromInterface(99),
	}
	assert.Equal(digestOf(assert, clean, 2), digestOf(assert, dirty, 2))
}

func TestAbsorbPublishesToInstance(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	sys := cs.NewSystem(f)
	rc, err := rangecheck.Configure(sys, 4)
	assert.NoError(err)
	g, err := varlen.Configure(sys, rc, maxLen)
	assert.NoError(err)
	chain, err := hashchain.Configure(sys)
	assert.NoError(err)
	pub := sys.InstanceColumn("digest")

	msg := []constraint.Element{f.FromInterface(10), f.FromInterface(20), f.FromInterface(30)}
	a, err := cs.NewAssignment(sys, 6)
	assert.NoError(err)
	b, err := g.Bind(a, msg, maxLen)
	assert.NoError(err)
	out, err := chain.Absorb(a, b.Buffer, b.Mask)
	assert.NoError(err)

	want := hashchain.Digest(f, msg)
	assert.NoError(a.SetInstance(pub, 0, want))
	assert.NoError(a.ConstrainEqual(out, cs.Cell{Column: pub, Row: 0}))
	assert.CheckSucceeded(a)

	// a wrong public digest must break the copy constraint
	a2, err := cs.NewAssignment(sys, 6)
	assert.NoError(err)
	b2, err := g.Bind(a2, msg, maxLen)
	assert.NoError(err)
	out2, err := chain.Absorb(a2, b2.Buffer, b2.Mask)
	assert.NoError(err)
	assert.NoError(a2.SetInstance(pub, 0, f.FromInterface(1)))
	assert.NoError(a2.ConstrainEqual(out2, cs.Cell{Column: pub, Row: 0}))
	assert.CheckFailed(a2)
}

func TestDigestEmpty(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	d := hashchain.Digest(f, nil)
	assert.True(d.IsZero())
}
