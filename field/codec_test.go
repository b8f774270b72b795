package field

import (
	"math/big"
	"testing"

	"github.com/PolyhedraZK/zkmlp/field/babybear"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/PolyhedraZK/zkmlp/field/m31"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engines() []Field {
	return []Field{&bn254.Field{}, &m31.Field{}, &babybear.Field{}}
}

func TestEncodeNegative(t *testing.T) {
	for _, f := range engines() {
		e := Encode(f, int32(-5))
		want := new(big.Int).Sub(f.Field(), big.NewInt(5))
		assert.Equal(t, 0, want.Cmp(f.ToBigInt(e)), "%s", f.Field())
		assert.True(t, IsZero(f.Add(e, Encode(f, 5))))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, 8191, -8192, 1 << 20, -(1 << 20)}
	for _, f := range engines() {
		got, ok := DecodeSlice(f, EncodeSlice(f, values))
		require.True(t, ok)
		assert.Equal(t, values, got)
	}
}

func TestDecodeHalf(t *testing.T) {
	f := &m31.Field{}
	half := (int64(m31.P) - 1) / 2
	x, ok := Decode(f, Encode(f, half))
	require.True(t, ok)
	assert.Equal(t, half, x)
	x, ok = Decode(f, Encode(f, half+1))
	require.True(t, ok)
	assert.Equal(t, -half, x)
}

func TestMaxMagnitude(t *testing.T) {
	assert.Equal(t, uint64(m31.Half), MaxMagnitude(&m31.Field{}).Uint64())
	assert.Equal(t, uint64(babybear.Half), MaxMagnitude(&babybear.Field{}).Uint64())
	assert.Equal(t, new(big.Int).Rsh(bn254.ScalarField, 1), MaxMagnitude(&bn254.Field{}))

	for _, f := range engines() {
		m := MaxMagnitude(f)
		if !m.IsInt64() {
			continue
		}
		v := m.Int64()
		for _, x := range []int64{v, -v} {
			got, ok := Decode(f, Encode(f, x))
			require.True(t, ok)
			assert.Equal(t, x, got)
		}
		// one past the margin wraps to the other sign
		got, _ := Decode(f, Encode(f, v+1))
		assert.Equal(t, -v, got)
	}
}

func TestDecodeOverflow(t *testing.T) {
	f := &bn254.Field{}
	wide := f.FromInterface(new(big.Int).Lsh(big.NewInt(1), 100))
	_, ok := Decode(f, wide)
	assert.False(t, ok)
	_, ok = DecodeSlice(f, append(EncodeSlice(f, []int64{1}), wide))
	assert.False(t, ok)
}

func TestGetFieldByName(t *testing.T) {
	for name, order := range map[string]*big.Int{
		"":         bn254.ScalarField,
		"bn254":    bn254.ScalarField,
		"M31":      m31.ScalarField,
		"babybear": babybear.ScalarField,
	} {
		f, err := GetFieldByName(name)
		require.NoError(t, err)
		assert.Equal(t, 0, f.Field().Cmp(order))
		assert.Equal(t, f, GetFieldFromOrder(order))
	}
	_, err := GetFieldByName("goldilocks")
	assert.Error(t, err)
	assert.Panics(t, func() { GetFieldFromOrder(big.NewInt(7)) })
}

func TestEngineArithmetic(t *testing.T) {
	for _, f := range engines() {
		a, b := Encode(f, 1234), Encode(f, -77)
		assert.Equal(t, Encode(f, 1157), f.Add(a, b))
		assert.Equal(t, Encode(f, 1311), f.Sub(a, b))
		assert.Equal(t, Encode(f, -95018), f.Mul(a, b))
		assert.Equal(t, Encode(f, 77), f.Neg(b))
		assert.True(t, IsZero(f.Neg(Zero())))

		inv, ok := f.Inverse(a)
		require.True(t, ok)
		assert.True(t, f.IsOne(f.Mul(a, inv)))
		_, ok = f.Inverse(Zero())
		assert.False(t, ok)

		v, ok := f.Uint64(Encode(f, 42))
		require.True(t, ok)
		assert.Equal(t, uint64(42), v)
		assert.Equal(t, "42", f.String(Encode(f, 42)))
	}
}
