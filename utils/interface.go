package utils

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

type toBigIntInterface interface {
	ToBigIntRegular(res *big.Int) *big.Int
}

// FromInterface converts an integer-like value (native ints, big.Int, decimal
// or 0x-prefixed strings, byte slices) to a big.Int, mirroring the conversion
// gnark applies to frontend.Variable constants.
func FromInterface(input interface{}) big.Int {
	var r big.Int

	switch v := input.(type) {
	case big.Int:
		r.Set(&v)
	case *big.Int:
		if v == nil {
			panic("nil *big.Int")
		}
		r.Set(v)
	case uint8:
		r.SetUint64(uint64(v))
	case uint16:
		r.SetUint64(uint64(v))
	case uint32:
		r.SetUint64(uint64(v))
	case uint64:
		r.SetUint64(v)
	case uint:
		r.SetUint64(uint64(v))
	case int8:
		r.SetInt64(int64(v))
	case int16:
		r.SetInt64(int64(v))
	case int32:
		r.SetInt64(int64(v))
	case int64:
		r.SetInt64(v)
	case int:
		r.SetInt64(int64(v))
	case bool:
		if v {
			r.SetUint64(1)
		}
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		if _, ok := r.SetString(s, base); !ok {
			panic(fmt.Sprintf("unable to set big.Int from string %q", v))
		}
	case []byte:
		r.SetBytes(v)
	case toBigIntInterface:
		v.ToBigIntRegular(&r)
	default:
		rv := reflect.ValueOf(input)
		if rv.Kind() == reflect.Ptr && !rv.IsNil() {
			return FromInterface(rv.Elem().Interface())
		}
		panic(fmt.Sprintf("unsupported type %T", input))
	}

	return r
}
