package varlen_test

import (
	"errors"
	"testing"

	"github.com/consensys/gnark/constraint"

	"github.com/PolyhedraZK/PlonkishScaffold/cs"
	"github.com/PolyhedraZK/PlonkishScaffold/field/bn254"
	"github.com/PolyhedraZK/PlonkishScaffold/rangecheck"
	"github.com/PolyhedraZK/PlonkishScaffold/test"
	"github.com/PolyhedraZK/PlonkishScaffold/varlen"
)

const maxLen = 5

func setup(assert *test.Assert) (*cs.ConstraintSystem, *varlen.Gadget) {
	sys := cs.NewSystem(&bn254.Field{})
	rc, err := rangecheck.Configure(sys, 4)
	assert.NoError(err)
	g, err := varlen.Configure(sys, rc, maxLen)
	assert.NoError(err)
	return sys, g
}

func TestBindMaskPattern(t *testing.T) {
	f := &bn254.Field{}
	buffer := make([]constraint.Element, maxLen)
	for i := range buffer {
		buffer[i] = f.FromInterface(uint64(10 * (i + 1)))
	}

	for length := uint64(0); length <= maxLen; length++ {
		assert := test.NewAssert(t)
		_, g := setup(assert)

		a, err := cs.NewAssignment(g.System(), 6)
		assert.NoError(err)
		b, err := g.Bind(a, buffer, length)
		assert.NoError(err)
		assert.CheckSucceeded(a)

		assert.Len(b.Mask, maxLen)
		assert.Len(b.Buffer, maxLen)
		for i := 0; i < maxLen; i++ {
			m, ok := a.Value(b.Mask[i])
			assert.True(ok)
			want := "0"
			if uint64(i) < length {
				want = "1"
			}
			assert.Equal(want, f.String(m), "mask at position %d for length %d", i, length)

			v, ok := a.Value(b.Buffer[i])
			assert.True(ok)
			assert.Equal(f.String(buffer[i]), f.String(v))
		}
	}
}

func TestBindPadsShortBuffer(t *testing.T) {
	assert := test.NewAssert(t)
	f := &bn254.Field{}
	_, g := setup(assert)

	a, err := cs.NewAssignment(g.System(), 6)
	assert.NoError(err)
	b, err := g.Bind(a, []constraint.Element{f.FromInterface(7)}, 1)
	assert.NoError(err)
	assert.CheckSucceeded(a)

	v, ok := a.Value(b.Buffer[maxLen-1])
	assert.True(ok)
	assert.True(v.IsZero())
}

func TestBindRejectsOverlongInput(t *testing.T) {
	assert := test.NewAssert(t)
	_, g := setup(assert)

	a, err := cs.NewAssignment(g.System(), 6)
	assert.NoError(err)
	_, err = g.Bind(a, nil, maxLen+1)
	var lerr cs.LengthOutOfBoundsError
	assert.True(errors.As(err, &lerr))
	assert.Equal(uint64(maxLen+1), lerr.Length)
}
