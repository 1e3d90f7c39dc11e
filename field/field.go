// Package field wraps the field engines usable by the constraint layer.
// Elements are gnark constraint.Element limbs; each engine knows how to
// interpret them for its own modulus.
package field

import (
	"fmt"
	"math/big"

	"github.com/PolyhedraZK/PlonkishScaffold/field/babybear"
	"github.com/PolyhedraZK/PlonkishScaffold/field/bn254"
	"github.com/consensys/gnark/constraint"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	if x.Cmp(babybear.ScalarField) == 0 {
		return &babybear.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}
