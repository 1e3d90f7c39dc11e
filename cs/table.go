package cs

import (
	"github.com/PolyhedraZK/PlonkishScaffold/field"
	"github.com/consensys/gnark/constraint"
)

// Table is a fixed enumeration of permissible values for lookup constraints.
// The membership itself is enforced by the engine's lookup argument; this
// layer only emits (cell, table) pairs and re-checks them during mock
// verification.
type Table struct {
	bits    int
	values  []constraint.Element
	members map[uint64]struct{}
}

func buildTable(f field.Field, bits int) *Table {
	if bits < 0 || bits >= f.FieldBitLen() {
		panic("cs: table width out of field range")
	}
	n := 1 << bits
	t := &Table{
		bits:    bits,
		values:  make([]constraint.Element, n),
		members: make(map[uint64]struct{}, n),
	}
	for i := 0; i < n; i++ {
		t.values[i] = f.FromInterface(i)
		t.members[uint64(i)] = struct{}{}
	}
	return t
}

func (t *Table) Bits() int { return t.bits }

func (t *Table) Size() int { return len(t.values) }

// Values returns the table contents in ascending order. Callers must not
// mutate the returned slice.
func (t *Table) Values() []constraint.Element { return t.values }

// Contains reports whether v is a member of the table.
func (t *Table) Contains(f field.Field, v constraint.Element) bool {
	b := f.ToBigInt(v)
	if !b.IsUint64() {
		return false
	}
	_, ok := t.members[b.Uint64()]
	return ok
}
