package mlp

import (
	"math/big"
	"testing"

	"github.com/PolyhedraZK/zkmlp/checker"
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/field/babybear"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/PolyhedraZK/zkmlp/field/m31"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/PolyhedraZK/zkmlp/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const k = 15

func TestForwardFixture(t *testing.T) {
	fx := Fixture4D()
	out, err := Forward(fx.Params, fx.Input, fx.L0, fx.L2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1, 35, 22}, out.Data())
	assert.True(t, out.Equal(fx.Output))

	// skipping the rescale
	p := fx.Params
	p.Divisor = 1
	out, err = Forward(p, fx.Input, fx.L0, fx.L2)
	require.NoError(t, err)
	assert.Equal(t, []int64{519, 89, 4452, 2849}, out.Data())
}

func TestForwardOutOfDomain(t *testing.T) {
	fx := Fixture4D()
	p := fx.Params
	p.Bits = 12
	_, err := Forward(p, fx.Input, fx.L0, fx.L2)
	require.ErrorIs(t, err, ErrOutOfDomain)
}

func TestEndToEnd(t *testing.T) {
	a := test.NewAssert(t)
	fx := Fixture4D()
	c, err := fx.Circuit()
	require.NoError(t, err)

	for _, f := range []field.Field{&bn254.Field{}, &m31.Field{}, &babybear.Field{}} {
		p := a.Satisfied(k, f, c, Instances(f, fx.Output))
		assert.Equal(t, fx.Params.Rows(), p.UsedRows())
		assert.Equal(t, 4, p.NbCopies())

		heights := []int{}
		for _, r := range p.Regions() {
			heights = append(heights, r.Height)
		}
		assert.Equal(t, []int{6, 1, 5, 1, 1}, heights)

		cs := p.ConstraintSystem()
		assert.Equal(t, 7, cs.NbAdvice)
		assert.Equal(t, 1, cs.NbInstance)
		assert.Len(t, cs.Lookups, 12)
		assert.Equal(t, 1<<14, p.TableRows(c.mustConfig(t, f).ReLU.In))
		assert.Equal(t, 1<<14, p.TableRows(c.mustConfig(t, f).Rescale.Out))
	}
}

// mustConfig configures c again; columns are allocated in the same order
// on every call.
func (c *Circuit) mustConfig(t *testing.T, f field.Field) *Config {
	cfg, err := c.Configure(plonkish.NewConstraintSystem(f))
	require.NoError(t, err)
	return cfg.(*Config)
}

func TestRejectWrongOutput(t *testing.T) {
	a := test.NewAssert(t)
	f := &bn254.Field{}
	fx := Fixture4D()
	c, err := fx.Circuit()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		for _, delta := range []int64{-1, 1, 1000} {
			wrong := fx.Output.Data()
			wrong[i] += delta
			failures := a.Unsatisfied(k, f, c, Instances(f, tensor.Vector(wrong...)))
			require.Equal(t, []checker.FailureKind{checker.PermutationNotSatisfied}, test.Kinds(failures))
		}
	}
}

func TestRejectOutOfDomain(t *testing.T) {
	a := test.NewAssert(t)
	f := &bn254.Field{}
	fx := Fixture4D()
	fx.Params.Bits = 12
	c, err := fx.Circuit()
	require.NoError(t, err)

	// 4452 and 2849 do not fit in 12 bits
	failures := a.Unsatisfied(14, f, c, Instances(f, fx.Output))
	names := []string{}
	for _, x := range failures {
		assert.Equal(t, checker.LookupNotSatisfied, x.Kind)
		names = append(names, x.Name)
	}
	assert.Equal(t, []string{"relu lane 2", "relu lane 3", "divide by 128 lane 2", "divide by 128 lane 3"}, names)
}

func TestNotEnoughRows(t *testing.T) {
	f := &bn254.Field{}
	fx := Fixture4D()
	require.Equal(t, k, fx.Params.MinK())
	c, err := fx.Circuit()
	require.NoError(t, err)
	test.NewAssert(t).SynthesisFails(k-1, f, c, Instances(f, fx.Output), layouter.ErrNotEnoughRows)
}

func TestMinK(t *testing.T) {
	p := Params{Len: 40, Bits: 1, Divisor: 1}
	require.Equal(t, 86, p.Rows())
	// 86 rows, 44 blinding rows and one more
	require.Equal(t, 8, p.MinK())
	require.Equal(t, 15, DefaultParams().MinK())
}

func TestDeterminism(t *testing.T) {
	f := &bn254.Field{}
	fx := Fixture4D()
	c, err := fx.Circuit()
	require.NoError(t, err)

	digests := make([][32]byte, 2)
	for i := range digests {
		p, err := checker.Run(k, f, c, Instances(f, fx.Output))
		require.NoError(t, err)
		digests[i] = p.Digest()
	}
	assert.Equal(t, digests[0], digests[1])
}

func TestNewCircuitShapes(t *testing.T) {
	fx := Fixture4D()

	_, err := NewCircuit(fx.Params, tensor.Vector(1, 2, 3), fx.L0, fx.L2)
	assert.Error(t, err)

	_, err = NewCircuit(fx.Params, fx.Input, [2]*tensor.Tensor{fx.L0[0], tensor.Vector(1, 2)}, fx.L2)
	assert.Error(t, err)

	_, err = NewCircuit(fx.Params, fx.Input, fx.L0, [2]*tensor.Tensor{tensor.MustNew(make([]int64, 16), 2, 8), fx.L2[1]})
	assert.Error(t, err)

	_, err = NewCircuit(fx.Params, fx.Input, fx.L0, [2]*tensor.Tensor{nil, fx.L2[1]})
	assert.Error(t, err)

	_, err = NewCircuit(Params{Len: 4, Bits: 30, Divisor: 128}, fx.Input, fx.L0, fx.L2)
	assert.Error(t, err)

	_, err = NewCircuit(Params{Len: 4, Bits: 14, Divisor: 0}, fx.Input, fx.L0, fx.L2)
	assert.Error(t, err)
}

func TestSynthesizeWrongConfig(t *testing.T) {
	c, err := Fixture4D().Circuit()
	require.NoError(t, err)
	require.Error(t, c.Synthesize(struct{}{}, nil))
}

func identity(n int) [2]*tensor.Tensor {
	w := make([]int64, n*n)
	for i := 0; i < n; i++ {
		w[i*n+i] = 1
	}
	return [2]*tensor.Tensor{tensor.MustNew(w, n, n), tensor.Vector(make([]int64, n)...)}
}

func TestRejectFieldOverflow(t *testing.T) {
	a := test.NewAssert(t)
	f := &m31.Field{}
	id := identity(4)

	// P+640 is 640 in m31 and would rescale to 5
	c, err := NewCircuit(DefaultParams(), tensor.Vector(m31.P+5*128, 0, 0, 0), id, id)
	require.NoError(t, err)
	a.SynthesisFails(k, f, c, Instances(f, tensor.Vector(5, 0, 0, 0)), ErrFieldOverflow)
	_, err = c.Output()
	require.ErrorIs(t, err, ErrOutOfDomain)

	// l2 reads up to 2^13 per lane from the relu table
	wide := identity(4)
	wide[0] = tensor.MustNew([]int64{
		1 << 17, 1 << 17, 1 << 17, 1 << 17,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, 4, 4)
	c, err = NewCircuit(DefaultParams(), tensor.Vector(1, 2, 3, 4), id, wide)
	require.NoError(t, err)
	a.SynthesisFails(k, f, c, Instances(f, tensor.Vector(0, 0, 0, 0)), ErrFieldOverflow)
	bb := &babybear.Field{}
	a.SynthesisFails(k, bb, c, Instances(bb, tensor.Vector(0, 0, 0, 0)), ErrFieldOverflow)

	// the same weights fit in bn254
	_, err = c.Configure(plonkish.NewConstraintSystem(&bn254.Field{}))
	require.NoError(t, err)

	for _, f := range []field.Field{&m31.Field{}, &babybear.Field{}} {
		fx := Fixture4D()
		c, err := fx.Circuit()
		require.NoError(t, err)
		require.NoError(t, c.checkMagnitudes(f))
	}
}

func TestAffineBound(t *testing.T) {
	fx := Fixture4D()
	// rows of |W0| sum to 11, |x| <= 40, |b| <= 1
	assert.Equal(t, int64(11*40+1), affineBound(fx.L0, maxAbs(fx.Input)).Int64())
	assert.Equal(t, int64(40), maxAbs(fx.Input).Int64())
	assert.Equal(t, int64(35*8192+1), affineBound(fx.L2, big.NewInt(8192)).Int64())
}
