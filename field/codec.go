package field

import (
	"github.com/consensys/gnark/constraint"
	"golang.org/x/exp/constraints"
)

// Encode maps a signed integer to the field; negative values wrap to p-|v|.
func Encode[T constraints.Signed](f Field, v T) constraint.Element {
	return f.FromInterface(int64(v))
}

func EncodeSlice[T constraints.Signed](f Field, vs []T) []constraint.Element {
	res := make([]constraint.Element, len(vs))
	for i, v := range vs {
		res[i] = Encode(f, v)
	}
	return res
}

// Decode is the inverse of Encode on the signed range (-p/2, p/2]. Elements in
// the upper half of the field decode to negative integers. The second result
// is false when the value does not fit in an int64.
func Decode(f Field, e constraint.Element) (int64, bool) {
	b := f.ToBigInt(e)
	if b.Cmp(MaxMagnitude(f)) > 0 {
		b.Sub(b, f.Field())
	}
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

func DecodeSlice(f Field, es []constraint.Element) ([]int64, bool) {
	res := make([]int64, len(es))
	for i, e := range es {
		v, ok := Decode(f, e)
		if !ok {
			return nil, false
		}
		res[i] = v
	}
	return res, true
}
