package cs

import (
	"math/big"

	"github.com/PolyhedraZK/PlonkishScaffold/expr"
	"github.com/PolyhedraZK/PlonkishScaffold/utils"
	"github.com/fxamacker/cbor/v2"
)

// Description is the opaque circuit-description object handed to key
// generation, proving and verification: column declarations, gates, selector
// activations, copy constraints, lookups, and the circuit-defining fixed and
// public instance values. Advice values travel separately as witness bytes.
type Description struct {
	Field     []byte
	K         int
	Columns   []ColumnDesc
	Selectors []SelectorDesc
	Gates     []GateDesc
	Copies    [][2]CellDesc
	Lookups   []LookupDesc
	Fixed     []CellValueDesc
	Instance  []CellValueDesc
}

type ColumnDesc struct {
	Name string
	Kind uint8
}

type SelectorDesc struct {
	Name string
	Rows []uint
}

type GateDesc struct {
	Name     string
	Selector int
	Expr     ExprDesc
}

type ExprDesc struct {
	Kind     uint8
	Coeff    []byte     `cbor:",omitempty"`
	Col      int        `cbor:",omitempty"`
	Rot      int        `cbor:",omitempty"`
	Children []ExprDesc `cbor:",omitempty"`
}

type CellDesc struct {
	Col int
	Row int
}

type LookupDesc struct {
	Name      string
	Cell      CellDesc
	TableBits int
}

type CellValueDesc struct {
	Col   int
	Row   int
	Value []byte
}

func (a *Assignment) exprDesc(e expr.Expression) ExprDesc {
	d := ExprDesc{Kind: uint8(e.Kind())}
	switch e.Kind() {
	case expr.KindConstant, expr.KindScaled:
		d.Coeff = a.sys.fld.ToBigInt(e.Coeff()).Bytes()
	case expr.KindCellRef:
		ref := e.Ref()
		d.Col, d.Rot = ref.Col, ref.Rot
	}
	for _, c := range e.Children() {
		d.Children = append(d.Children, a.exprDesc(c))
	}
	return d
}

// Description finalizes the assignment into a transportable form.
func (a *Assignment) Description() *Description {
	d := &Description{
		Field: a.sys.fld.Field().Bytes(),
		K:     a.k,
	}
	for _, col := range a.sys.columns {
		d.Columns = append(d.Columns, ColumnDesc{Name: col.name, Kind: uint8(col.kind)})
	}
	for _, sel := range a.sys.selectors {
		sd := SelectorDesc{Name: sel.name}
		rows := a.selRows[sel.id]
		for i, ok := rows.NextSet(0); ok; i, ok = rows.NextSet(i + 1) {
			sd.Rows = append(sd.Rows, i)
		}
		d.Selectors = append(d.Selectors, sd)
	}
	for _, g := range a.sys.gates {
		d.Gates = append(d.Gates, GateDesc{
			Name:     g.Name,
			Selector: g.Selector.id,
			Expr:     a.exprDesc(g.Expr),
		})
	}
	for _, pair := range a.copies {
		d.Copies = append(d.Copies, [2]CellDesc{
			{Col: pair[0].Column.id, Row: pair[0].Row},
			{Col: pair[1].Column.id, Row: pair[1].Row},
		})
	}
	for _, lk := range a.lookups {
		d.Lookups = append(d.Lookups, LookupDesc{
			Name:      lk.Name,
			Cell:      CellDesc{Col: lk.Cell.Column.id, Row: lk.Cell.Row},
			TableBits: lk.Table.bits,
		})
	}
	for _, col := range a.sys.columns {
		if col.kind != Fixed && col.kind != Instance {
			continue
		}
		mask := a.assigned[col.id]
		if mask == nil {
			continue
		}
		for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
			cv := CellValueDesc{
				Col:   col.id,
				Row:   int(i),
				Value: a.sys.fld.ToBigInt(a.values[col.id][i]).Bytes(),
			}
			if col.kind == Fixed {
				d.Fixed = append(d.Fixed, cv)
			} else {
				d.Instance = append(d.Instance, cv)
			}
		}
	}
	return d
}

// Serialize encodes the description with cbor.
func (d *Description) Serialize() ([]byte, error) {
	return cbor.Marshal(d)
}

// DeserializeDescription decodes a description produced by Serialize.
func DeserializeDescription(data []byte) (*Description, error) {
	var d Description
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// WitnessBytes serializes the advice values of this assignment: for each
// advice column in declaration order, the assigned row count followed by
// (row, value) pairs. Produced fresh per proof, never reused across inputs.
func (a *Assignment) WitnessBytes() []byte {
	o := &utils.OutputBuf{}
	for _, col := range a.sys.columns {
		if col.kind != Advice {
			continue
		}
		mask := a.assigned[col.id]
		if mask == nil {
			o.AppendUint32(0)
			continue
		}
		o.AppendUint32(uint32(mask.Count()))
		for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
			o.AppendUint32(uint32(i))
			o.AppendBigInt(a.sys.fld.ToBigInt(a.values[col.id][i]))
		}
	}
	return o.Bytes()
}

// ParseWitness decodes WitnessBytes output back into per-column sparse
// (row, value) pairs, in the same advice-column order.
func ParseWitness(data []byte) []map[int]*big.Int {
	in := utils.NewInputBuf(data)
	var res []map[int]*big.Int
	for !in.IsEnd() {
		count := int(in.ReadUint32())
		col := make(map[int]*big.Int, count)
		for j := 0; j < count; j++ {
			row := int(in.ReadUint32())
			col[row] = in.ReadBigInt()
		}
		res = append(res, col)
	}
	return res
}
