package expr

import (
	"testing"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/PolyhedraZK/zkmlp/field/m31"
	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignment(f field.Field, values map[Var]int64) func(Var) constraint.Element {
	return func(v Var) constraint.Element {
		return field.Encode(f, values[v])
	}
}

func TestBuilderEvaluate(t *testing.T) {
	for _, f := range []field.Field{&bn254.Field{}, &m31.Field{}} {
		b := NewBuilder(f)
		x, y, z := Var{0, 0}, Var{1, -1}, Var{1, 2}
		// (x + 2y) * z - 3x + 5
		e := b.Add(b.Mul(b.Add(b.Query(x), b.Scale(b.Query(y), 2)), b.Query(z)), b.Scale(b.Query(x), -3), b.Constant(5))
		get := assignment(f, map[Var]int64{x: 4, y: -7, z: 3})
		got, ok := field.Decode(f, e.Evaluate(f, get))
		require.True(t, ok)
		assert.Equal(t, int64((4-14)*3-12+5), got)
		assert.Equal(t, 2, e.Degree())
		assert.Equal(t, []Var{x, y, z}, e.Vars())
	}
}

func TestNormalizeCancels(t *testing.T) {
	f := &bn254.Field{}
	b := NewBuilder(f)
	x, y := b.Query(Var{0, 0}), b.Query(Var{1, 0})
	e := b.Sub(b.Mul(x, y), b.Mul(y, x))
	assert.Len(t, e, 0)
	assert.True(t, e.IsConstant())
	assert.Equal(t, 0, e.Degree())

	e = b.Add(x, x, b.Neg(x))
	assert.True(t, e.Equal(x))
	assert.Equal(t, x.HashCode(), e.HashCode())
	assert.True(t, e.EqualI(x))
}

func TestSum(t *testing.T) {
	f := &m31.Field{}
	b := NewBuilder(f)
	xs := []Expression{b.Query(Var{0, 0}), b.Query(Var{0, 1})}
	ys := []Expression{b.Constant(3), b.Query(Var{2, 0})}
	e := b.Sum(xs, ys)
	get := assignment(f, map[Var]int64{{0, 0}: 2, {0, 1}: -5, {2, 0}: 4})
	got, _ := field.Decode(f, e.Evaluate(f, get))
	assert.Equal(t, int64(6-20), got)
	assert.Panics(t, func() { b.Sum(xs, ys[:1]) })
}

func TestEmptyProduct(t *testing.T) {
	f := &bn254.Field{}
	b := NewBuilder(f)
	e := b.Mul()
	assert.True(t, e.IsConstant())
	assert.True(t, f.IsOne(e.Evaluate(f, nil)))
}
