package mlp

import (
	"github.com/PolyhedraZK/zkmlp/nn"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/pkg/errors"
)

var ErrOutOfDomain = errors.New("activation outside the lookup table domain")

func affine(x *tensor.Tensor, params [2]*tensor.Tensor) *tensor.Tensor {
	in, w, b := x.Data(), params[0], params[1].Data()
	out := make([]int64, len(in))
	for i := range out {
		acc := b[i]
		for j, v := range w.Row(i) {
			acc += v * in[j]
		}
		out[i] = acc
	}
	return tensor.Vector(out...)
}

func checkDomain(layer string, x *tensor.Tensor, bits int) error {
	hi := int64(1) << (bits - 1)
	for i, v := range x.Data() {
		if v < -hi || v >= hi {
			return errors.Wrapf(ErrOutOfDomain, "%s input %d is %d", layer, i, v)
		}
	}
	return nil
}

// Forward evaluates the network on plain integers with the rounding rule of
// the circuit. It fails when an activation input does not fit in the lookup
// tables, in which case the circuit cannot be satisfied either.
func Forward(params Params, input *tensor.Tensor, l0, l2 [2]*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkShapes(params, input, l0, l2); err != nil {
		return nil, err
	}
	activations := []struct {
		name string
		fn   nn.Nonlinearity
	}{
		{"relu 1", nn.ReLU{}},
		{"relu 3", nn.ReLU{}},
		{"rescale", nn.DivideBy{D: params.Divisor}},
	}

	x := affine(input.Flatten(), l0)
	for i, act := range activations {
		if i == 1 {
			x = affine(x, l2)
		}
		if err := checkDomain(act.name, x, params.Bits); err != nil {
			return nil, err
		}
		x = x.Map(act.fn.Apply)
	}
	return x, nil
}
