package mlp

import (
	"math/big"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/pkg/errors"
)

// ErrFieldOverflow is returned when an affine layer could accumulate a value
// the field cannot tell apart from one of the other sign.
var ErrFieldOverflow = errors.New("affine accumulation may wrap around the field")

func maxAbs(t *tensor.Tensor) *big.Int {
	res := new(big.Int)
	v := new(big.Int)
	for _, x := range t.Data() {
		if v.SetInt64(x).Abs(v).Cmp(res) > 0 {
			res.Set(v)
		}
	}
	return res
}

// affineBound is the largest |sum_j w_ij x_j + b_i| over all rows i, for
// inputs with |x_j| <= xmax. It also bounds every partial sum.
func affineBound(params [2]*tensor.Tensor, xmax *big.Int) *big.Int {
	w, b := params[0], params[1].Data()
	res := new(big.Int)
	v := new(big.Int)
	for i := range b {
		acc := new(big.Int).Abs(big.NewInt(b[i]))
		for _, x := range w.Row(i) {
			acc.Add(acc, v.Mul(v.Abs(big.NewInt(x)), xmax))
		}
		if acc.Cmp(res) > 0 {
			res = acc
		}
	}
	return res
}

// checkMagnitudes rejects a witness whose affine layers could leave the
// signed range of f. The input of l2 is only known to lie in the ReLU table.
func (c *Circuit) checkMagnitudes(f field.Field) error {
	limit := field.MaxMagnitude(f)
	if m := maxAbs(c.input); m.Cmp(limit) > 0 {
		return errors.Wrapf(ErrFieldOverflow, "input magnitude %s exceeds %s", m, limit)
	}
	layers := []struct {
		name   string
		params [2]*tensor.Tensor
		xmax   *big.Int
	}{
		{"l0", c.l0, maxAbs(c.input)},
		{"l2", c.l2, new(big.Int).Lsh(big.NewInt(1), uint(c.params.Bits-1))},
	}
	for _, layer := range layers {
		if m := affineBound(layer.params, layer.xmax); m.Cmp(limit) > 0 {
			return errors.Wrapf(ErrFieldOverflow, "%s can reach %s, field allows %s", layer.name, m, limit)
		}
	}
	return nil
}
