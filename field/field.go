package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/PolyhedraZK/zkmlp/field/babybear"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/PolyhedraZK/zkmlp/field/m31"
	"github.com/consensys/gnark/constraint"
)

// Field is the arithmetic engine every cell value goes through. Elements are
// gnark constraint.Element values interpreted by the engine.
type Field interface {
	FromInterface(interface{}) constraint.Element
	ToBigInt(constraint.Element) *big.Int
	Mul(a, b constraint.Element) constraint.Element
	Add(a, b constraint.Element) constraint.Element
	Sub(a, b constraint.Element) constraint.Element
	Neg(a constraint.Element) constraint.Element
	Inverse(a constraint.Element) (constraint.Element, bool)
	One() constraint.Element
	IsOne(constraint.Element) bool
	String(constraint.Element) string
	Uint64(constraint.Element) (uint64, bool)
	Field() *big.Int
	FieldBitLen() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	if x.Cmp(m31.ScalarField) == 0 {
		return &m31.Field{}
	}
	if x.Cmp(babybear.ScalarField) == 0 {
		return &babybear.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}

// GetFieldByName resolves the engines exposed on the command line.
func GetFieldByName(name string) (Field, error) {
	switch strings.ToLower(name) {
	case "bn254", "":
		return &bn254.Field{}, nil
	case "m31":
		return &m31.Field{}, nil
	case "babybear":
		return &babybear.Field{}, nil
	}
	return nil, fmt.Errorf("unsupported field %q", name)
}

// MaxMagnitude is the largest |v| whose signed encoding decodes back to v:
// anything beyond it wraps onto a value of the other sign.
func MaxMagnitude(f Field) *big.Int {
	if m, ok := f.(interface{ MaxMagnitude() uint64 }); ok {
		return new(big.Int).SetUint64(m.MaxMagnitude())
	}
	return new(big.Int).Rsh(f.Field(), 1)
}

// Zero is the additive identity, which is the zero Element for every engine.
func Zero() constraint.Element {
	return constraint.Element{}
}

func IsZero(e constraint.Element) bool {
	return e == constraint.Element{}
}

func Equal(a, b constraint.Element) bool {
	return a == b
}
