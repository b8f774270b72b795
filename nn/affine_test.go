package nn

import (
	"testing"

	"github.com/PolyhedraZK/zkmlp/checker"
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/field/babybear"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/PolyhedraZK/zkmlp/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type affineColumns struct {
	layers   []*AffineConfig
	instance plonkish.Column
}

type affineParams struct {
	kernel *tensor.Tensor
	bias   *tensor.Tensor
}

func randomAffine(r *rand.Rand, n int) affineParams {
	w := make([]int64, n*n)
	for i := range w {
		w[i] = r.Int63n(101) - 50
	}
	b := make([]int64, n)
	for i := range b {
		b[i] = r.Int63n(101) - 50
	}
	return affineParams{kernel: tensor.MustNew(w, n, n), bias: tensor.Vector(b...)}
}

func (p affineParams) apply(x []int64) []int64 {
	n := len(x)
	res := p.bias.Data()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			res[i] += p.kernel.Get(i, j) * x[j]
		}
	}
	return res
}

// affineChain applies the layers in order to input, all sharing one set of
// columns.
func affineChain(input []int64, layers []affineParams) *testCircuit {
	n := len(input)
	return &testCircuit{
		configure: func(cs *plonkish.ConstraintSystem) (any, error) {
			cols := advice(cs, n+3)
			res := &affineColumns{}
			for range layers {
				layer, err := ConfigureAffine(cs, cols[:n], cols[n+2], cols[n], cols[n+1])
				if err != nil {
					return nil, err
				}
				res.layers = append(res.layers, layer)
			}
			res.instance = cs.InstanceColumn()
			cs.EnableEquality(res.instance)
			return res, nil
		},
		synthesize: func(config any, l layouter.Layouter) error {
			cols := config.(*affineColumns)
			var x IO = Value{Tensor: tensor.Vector(input...)}
			var out []layouter.AssignedCell
			for i, layer := range cols.layers {
				var err error
				out, err = layer.Layout(l, x, [2]IO{Value{Tensor: layers[i].kernel}, Value{Tensor: layers[i].bias}})
				if err != nil {
					return err
				}
				x = PrevAssigned(out)
			}
			return bindOutputs(l, out, cols.instance)
		},
	}
}

func TestAffineRandom(t *testing.T) {
	a := test.NewAssert(t)
	r := rand.New(rand.NewSource(42))
	fields := []field.Field{&bn254.Field{}, &babybear.Field{}}
	for _, n := range []int{1, 2, 4, 7} {
		for _, f := range fields {
			input := make([]int64, n)
			for i := range input {
				input[i] = r.Int63n(201) - 100
			}
			params := randomAffine(r, n)
			want := params.apply(input)

			p := a.Satisfied(6, f, affineChain(input, []affineParams{params}), public(f, want))
			require.Len(t, p.Regions(), 1)
			require.Equal(t, n+2, p.Regions()[0].Height)

			wrong := append([]int64{}, want...)
			wrong[r.Intn(n)]++
			failures := a.Unsatisfied(6, f, affineChain(input, []affineParams{params}), public(f, wrong))
			require.Equal(t, []checker.FailureKind{checker.PermutationNotSatisfied}, test.Kinds(failures))
		}
	}
}

func TestAffineChained(t *testing.T) {
	a := test.NewAssert(t)
	f := &bn254.Field{}
	r := rand.New(rand.NewSource(7))
	input := []int64{-30, -21, 11, 40}
	l0, l1 := randomAffine(r, 4), randomAffine(r, 4)
	want := l1.apply(l0.apply(input))

	p := a.Satisfied(6, f, affineChain(input, []affineParams{l0, l1}), public(f, want))
	heights := []int{}
	for _, reg := range p.Regions() {
		heights = append(heights, reg.Height)
	}
	require.Equal(t, []int{6, 5}, heights)
	require.Equal(t, 4, p.NbCopies())
	require.Equal(t, 3, p.ConstraintSystem().Degree())
}

func TestAffineGateRows(t *testing.T) {
	a := test.NewAssert(t)
	f := &bn254.Field{}
	params := affineParams{
		kernel: tensor.MustNew([]int64{10, 0, 0, -1, 0, 10, 1, 0, 0, 1, 10, 0, 1, 0, 0, 10}, 4, 4),
		bias:   tensor.MustNew([]int64{0, 0, 0, 1}, 1, 4),
	}
	input := []int64{-30, -21, 11, 40}
	want := []int64{-340, -199, 89, 371}
	assert.Equal(t, want, params.apply(input))

	p := a.Satisfied(6, f, affineChain(input, []affineParams{params}), public(f, want))
	lanes := 4
	// kernel row 0 holds W[0], x_0 and the first result
	for j, w := range []int64{10, 0, 0, -1} {
		v, ok := p.Value(plonkish.Column{Kind: plonkish.Advice, Index: j}, 1)
		require.True(t, ok)
		x, _ := field.Decode(f, v)
		assert.Equal(t, w, x)
	}
	for idx, w := range map[int]int64{lanes: -30, lanes + 1: -340, lanes + 2: 0} {
		v, ok := p.Value(plonkish.Column{Kind: plonkish.Advice, Index: idx}, 1)
		require.True(t, ok)
		x, _ := field.Decode(f, v)
		assert.Equal(t, w, x)
	}
	// the output row transposes the results back into the lanes
	for j, w := range want {
		v, ok := p.Value(plonkish.Column{Kind: plonkish.Advice, Index: j}, 5)
		require.True(t, ok)
		x, _ := field.Decode(f, v)
		assert.Equal(t, w, x)
	}
}

func TestAffineParamShapes(t *testing.T) {
	a := test.NewAssert(t)
	f := &bn254.Field{}
	bad := affineParams{kernel: tensor.MustNew(make([]int64, 4), 1, 4), bias: tensor.Vector(0, 0)}
	a.SynthesisFails(6, f, affineChain([]int64{1, 2}, []affineParams{bad}), public(f, []int64{0, 0}), nil)

	bad = affineParams{kernel: tensor.MustNew(make([]int64, 4), 2, 2), bias: tensor.Vector(0, 0, 0)}
	a.SynthesisFails(6, f, affineChain([]int64{1, 2}, []affineParams{bad}), public(f, []int64{0, 0}), nil)
}

func TestConfigureAffine(t *testing.T) {
	cs := plonkish.NewConstraintSystem(&bn254.Field{})
	cols := []plonkish.Column{cs.AdviceColumn(), cs.AdviceColumn(), cs.AdviceColumn(), cs.AdviceColumn()}

	_, err := ConfigureAffine(cs, nil, cols[0], cols[1], cols[2])
	assert.Error(t, err)
	_, err = ConfigureAffine(cs, cols[:1], cols[1], cols[1], cols[2])
	assert.Error(t, err, "duplicate column")
	_, err = ConfigureAffine(cs, cols[:1], cs.FixedColumn(), cols[2], cols[3])
	assert.Error(t, err, "fixed column")
	assert.Empty(t, cs.Gates)

	c, err := ConfigureAffine(cs, cols[:1], cols[1], cols[2], cols[3])
	require.NoError(t, err)
	assert.Equal(t, 2, c.Rows())
	require.Len(t, cs.Gates, 1)
	assert.Equal(t, []string{"transpose in 0", "dot product plus bias 0", "transpose out 0"}, cs.Gates[0].Names)
}
