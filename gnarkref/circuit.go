// Package gnarkref expresses the network of package mlp as a gnark frontend
// circuit over BN254, with the nonlinearities enforced by log-derivative
// lookups. It cross-checks the PLONKish rendition and can produce a real
// Groth16 proof.
package gnarkref

import (
	"github.com/PolyhedraZK/zkmlp/mlp"
	"github.com/PolyhedraZK/zkmlp/nn"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/lookup/logderivlookup"
	"github.com/pkg/errors"
)

// Circuit takes the network parameters as private witness and the output as
// public input.
type Circuit struct {
	Input  []frontend.Variable
	L0W    [][]frontend.Variable
	L0B    []frontend.Variable
	L2W    [][]frontend.Variable
	L2B    []frontend.Variable
	Output []frontend.Variable `gnark:",public"`

	params mlp.Params
}

func matrix(n int) [][]frontend.Variable {
	res := make([][]frontend.Variable, n)
	for i := range res {
		res[i] = make([]frontend.Variable, n)
	}
	return res
}

// New allocates an empty circuit for compilation.
func New(params mlp.Params) *Circuit {
	n := params.Len
	return &Circuit{
		Input:  make([]frontend.Variable, n),
		L0W:    matrix(n),
		L0B:    make([]frontend.Variable, n),
		L2W:    matrix(n),
		L2B:    make([]frontend.Variable, n),
		Output: make([]frontend.Variable, n),
		params: params,
	}
}

func fill(dst []frontend.Variable, src []int64) {
	for i, v := range src {
		dst[i] = v
	}
}

// Assign builds the witness of the network for the claimed output.
func Assign(params mlp.Params, input *tensor.Tensor, l0, l2 [2]*tensor.Tensor, output *tensor.Tensor) (*Circuit, error) {
	if _, err := mlp.NewCircuit(params, input, l0, l2); err != nil {
		return nil, err
	}
	if output == nil || output.Len() != params.Len {
		return nil, errors.Errorf("output must hold %d values", params.Len)
	}
	c := New(params)
	fill(c.Input, input.Data())
	fill(c.L0B, l0[1].Data())
	fill(c.L2B, l2[1].Data())
	fill(c.Output, output.Data())
	for i := 0; i < params.Len; i++ {
		fill(c.L0W[i], l0[0].Row(i))
		fill(c.L2W[i], l2[0].Row(i))
	}
	return c, nil
}

// AssignFixture is Assign for a fixture and its expected output.
func AssignFixture(fx *mlp.Fixture) (*Circuit, error) {
	return Assign(fx.Params, fx.Input, fx.L0, fx.L2, fx.Output)
}

func affine(api frontend.API, x []frontend.Variable, w [][]frontend.Variable, b []frontend.Variable) []frontend.Variable {
	res := make([]frontend.Variable, len(x))
	for i := range res {
		acc := b[i]
		for j := range x {
			acc = api.Add(acc, api.Mul(w[i][j], x[j]))
		}
		res[i] = acc
	}
	return res
}

// table tabulates fn over the signed domain, indexed by x + 2^(bits-1)
type table struct {
	t      *logderivlookup.Table
	offset int64
}

func newTable(api frontend.API, bits int, fn nn.Nonlinearity) *table {
	t := logderivlookup.New(api)
	half := int64(1) << (bits - 1)
	for x := -half; x < half; x++ {
		t.Insert(fn.Apply(x))
	}
	return &table{t: t, offset: half}
}

func (t *table) apply(api frontend.API, x []frontend.Variable) []frontend.Variable {
	idx := make([]frontend.Variable, len(x))
	for i, v := range x {
		idx[i] = api.Add(v, t.offset)
	}
	return t.t.Lookup(idx...)
}

func (c *Circuit) Define(api frontend.API) error {
	if err := c.params.Validate(); err != nil {
		return err
	}
	relu := newTable(api, c.params.Bits, nn.ReLU{})
	rescale := newTable(api, c.params.Bits, nn.DivideBy{D: c.params.Divisor})

	x := affine(api, c.Input, c.L0W, c.L0B)
	x = relu.apply(api, x)
	x = affine(api, x, c.L2W, c.L2B)
	x = relu.apply(api, x)
	x = rescale.apply(api, x)

	for i := range x {
		api.AssertIsEqual(x[i], c.Output[i])
	}
	return nil
}
