// Package mlp composes the layers of package nn into a two-layer quantized
// perceptron: affine, ReLU, affine, ReLU and a final fixed-point rescale,
// with the output exposed as public input.
package mlp

import (
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/nn"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

// Config holds the columns and layer configs. It carries no witness.
type Config struct {
	Advice   []plonkish.Column
	ReLU     *nn.Table
	Rescale  *nn.Table
	L0       *nn.AffineConfig
	L1       *nn.EltwiseConfig
	L2       *nn.AffineConfig
	L3       *nn.EltwiseConfig
	L4       *nn.EltwiseConfig
	Instance plonkish.Column
}

type Circuit struct {
	params Params
	input  *tensor.Tensor
	l0     [2]*tensor.Tensor
	l2     [2]*tensor.Tensor
}

func checkShapes(params Params, input *tensor.Tensor, l0, l2 [2]*tensor.Tensor) error {
	if err := params.Validate(); err != nil {
		return err
	}
	n := params.Len
	if input == nil || input.Len() != n {
		return errors.Errorf("input must hold %d values", n)
	}
	for i, p := range [][2]*tensor.Tensor{l0, l2} {
		name := []string{"l0", "l2"}[i]
		if p[0] == nil || p[1] == nil {
			return errors.Errorf("%s: missing parameters", name)
		}
		if s := p[0].Shape(); len(s) != 2 || s[0] != n || s[1] != n {
			return errors.Errorf("%s: kernel has shape %v, want [%d %d]", name, s, n, n)
		}
		if p[1].Len() != n {
			return errors.Errorf("%s: bias must hold %d values, got %d", name, n, p[1].Len())
		}
	}
	return nil
}

// NewCircuit checks the shapes of the input and of the [kernel, bias] pairs
// of both affine layers.
func NewCircuit(params Params, input *tensor.Tensor, l0, l2 [2]*tensor.Tensor) (*Circuit, error) {
	if err := checkShapes(params, input, l0, l2); err != nil {
		return nil, errors.Wrap(err, "mlp")
	}
	return &Circuit{params: params, input: input, l0: l0, l2: l2}, nil
}

func (c *Circuit) Params() Params {
	return c.params
}

// Output runs the plain forward pass of the circuit's witness.
func (c *Circuit) Output() (*tensor.Tensor, error) {
	return Forward(c.params, c.input, c.l0, c.l2)
}

// Instances encodes output as the instance column of the circuit.
func Instances(f field.Field, output *tensor.Tensor) [][]constraint.Element {
	return [][]constraint.Element{field.EncodeSlice(f, output.Data())}
}

// Configure lays out the columns and layers. It fails with ErrFieldOverflow
// when the witness magnitudes do not fit the field of cs.
func (c *Circuit) Configure(cs *plonkish.ConstraintSystem) (any, error) {
	if err := c.checkMagnitudes(cs.Field()); err != nil {
		return nil, err
	}
	n := c.params.Len
	cfg := &Config{Advice: make([]plonkish.Column, n+3)}
	for i := range cfg.Advice {
		cfg.Advice[i] = cs.AdviceColumn()
		cs.EnableEquality(cfg.Advice[i])
	}
	lanes := cfg.Advice[:n]
	input, output, bias := cfg.Advice[n], cfg.Advice[n+1], cfg.Advice[n+2]

	var err error
	if cfg.ReLU, err = nn.ConfigureTable(cs, c.params.Bits, nn.ReLU{}); err != nil {
		return nil, errors.Wrap(err, "relu table")
	}
	if cfg.Rescale, err = nn.ConfigureTable(cs, c.params.Bits, nn.DivideBy{D: c.params.Divisor}); err != nil {
		return nil, errors.Wrap(err, "rescale table")
	}

	if cfg.L0, err = nn.ConfigureAffine(cs, lanes, bias, input, output); err != nil {
		return nil, errors.Wrap(err, "l0")
	}
	if cfg.L1, err = nn.ConfigureEltwise(cs, lanes, cfg.ReLU); err != nil {
		return nil, errors.Wrap(err, "l1")
	}
	if cfg.L2, err = nn.ConfigureAffine(cs, lanes, bias, input, output); err != nil {
		return nil, errors.Wrap(err, "l2")
	}
	if cfg.L3, err = nn.ConfigureEltwise(cs, lanes, cfg.ReLU); err != nil {
		return nil, errors.Wrap(err, "l3")
	}
	if cfg.L4, err = nn.ConfigureEltwise(cs, lanes, cfg.Rescale); err != nil {
		return nil, errors.Wrap(err, "l4")
	}

	cfg.Instance = cs.InstanceColumn()
	cs.EnableEquality(cfg.Instance)
	return cfg, nil
}

func (c *Circuit) Synthesize(config any, l layouter.Layouter) error {
	cfg, ok := config.(*Config)
	if !ok {
		return errors.Errorf("unexpected config %T", config)
	}
	if err := cfg.ReLU.Layout(l); err != nil {
		return errors.Wrap(err, "relu table")
	}
	if err := cfg.Rescale.Layout(l); err != nil {
		return errors.Wrap(err, "rescale table")
	}

	x, err := cfg.L0.Layout(l, nn.Value{Tensor: c.input.Flatten()}, [2]nn.IO{nn.Value{Tensor: c.l0[0]}, nn.Value{Tensor: c.l0[1]}})
	if err != nil {
		return errors.Wrap(err, "l0")
	}
	if x, err = cfg.L1.Layout(l, nn.PrevAssigned(x)); err != nil {
		return errors.Wrap(err, "l1")
	}
	if x, err = cfg.L2.Layout(l, nn.PrevAssigned(x), [2]nn.IO{nn.Value{Tensor: c.l2[0]}, nn.Value{Tensor: c.l2[1]}}); err != nil {
		return errors.Wrap(err, "l2")
	}
	if x, err = cfg.L3.Layout(l, nn.PrevAssigned(x)); err != nil {
		return errors.Wrap(err, "l3")
	}
	if x, err = cfg.L4.Layout(l, nn.PrevAssigned(x)); err != nil {
		return errors.Wrap(err, "l4")
	}

	for i, cell := range x {
		if err := l.ConstrainInstance(cell.Cell, cfg.Instance, i); err != nil {
			return errors.Wrapf(err, "public output %d", i)
		}
	}
	return nil
}
