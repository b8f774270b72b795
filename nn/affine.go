package nn

import (
	"fmt"

	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

// AffineConfig computes W·x + b for a square kernel W.
//
// The kernel columns double as the horizontal lanes holding the input row
// (above the selector) and the output row (after the kernel rows). Kernel
// row i holds W[i], x_i in the input column, b_i in the bias column and the
// result in the output column.
type AffineConfig struct {
	Kernel   []plonkish.Column
	Bias     plonkish.Column
	Input    plonkish.Column
	Output   plonkish.Column
	Selector plonkish.Selector
}

func ConfigureAffine(cs *plonkish.ConstraintSystem, kernel []plonkish.Column, bias, input, output plonkish.Column) (*AffineConfig, error) {
	n := len(kernel)
	if n == 0 {
		return nil, errors.New("affine layer needs at least one kernel column")
	}
	all := append(append([]plonkish.Column{}, kernel...), bias, input, output)
	seen := make(map[plonkish.Column]struct{}, len(all))
	for _, c := range all {
		if c.Kind != plonkish.Advice {
			return nil, errors.Errorf("affine column %s is not an advice column", c)
		}
		if _, ok := seen[c]; ok {
			return nil, errors.Errorf("affine column %s used twice", c)
		}
		seen[c] = struct{}{}
	}

	c := &AffineConfig{
		Kernel:   append([]plonkish.Column{}, kernel...),
		Bias:     bias,
		Input:    input,
		Output:   output,
		Selector: cs.Selector(),
	}
	cs.CreateGate("affine", func(vc *plonkish.VirtualCells) []plonkish.Constraint {
		q := vc.QuerySelector(c.Selector)
		var res []plonkish.Constraint
		for i := 0; i < n; i++ {
			res = append(res, plonkish.Constraint{
				Name: fmt.Sprintf("transpose in %d", i),
				Poly: vc.Mul(q, vc.Sub(vc.QueryAdvice(c.Input, i), vc.QueryAdvice(c.Kernel[i], -1))),
			})

			w := make([]expr.Expression, n)
			x := make([]expr.Expression, n)
			for j := 0; j < n; j++ {
				w[j] = vc.QueryAdvice(c.Kernel[j], i)
				x[j] = vc.QueryAdvice(c.Input, j)
			}
			dot := vc.Add(vc.Sum(w, x), vc.QueryAdvice(c.Bias, i))
			res = append(res, plonkish.Constraint{
				Name: fmt.Sprintf("dot product plus bias %d", i),
				Poly: vc.Mul(q, vc.Sub(dot, vc.QueryAdvice(c.Output, i))),
			})

			res = append(res, plonkish.Constraint{
				Name: fmt.Sprintf("transpose out %d", i),
				Poly: vc.Mul(q, vc.Sub(vc.QueryAdvice(c.Kernel[i], n), vc.QueryAdvice(c.Output, i))),
			})
		}
		return res
	})
	return c, nil
}

// Rows is the height of a region laid out from adjacent input cells; a
// fresh input adds one row.
func (c *AffineConfig) Rows() int {
	return len(c.Kernel) + 1
}

// Layout assigns W·x + b where params are [kernel, bias] and returns the
// output row.
func (c *AffineConfig) Layout(l layouter.Layouter, input IO, params [2]IO) ([]layouter.AssignedCell, error) {
	f := l.Field()
	n := len(c.Kernel)
	if v, ok := params[0].(Value); ok && v.Tensor != nil {
		if s := v.Tensor.Shape(); len(s) != 2 || s[0] != n || s[1] != n {
			return nil, errors.Errorf("affine kernel has shape %v, want [%d %d]", s, n, n)
		}
	}
	if m := ioLen(params[0]); m != n*n {
		return nil, errors.Errorf("affine kernel has %d values, want %d", m, n*n)
	}
	if m := ioLen(params[1]); m != n {
		return nil, errors.Errorf("affine bias has %d values, want %d", m, n)
	}
	w, err := elements(f, params[0])
	if err != nil {
		return nil, errors.Wrap(err, "affine kernel")
	}
	b, err := elements(f, params[1])
	if err != nil {
		return nil, errors.Wrap(err, "affine bias")
	}

	var out []layouter.AssignedCell
	err = l.AssignRegion("affine", func(r *layouter.Region) error {
		in, base, err := layInput(r, c.Kernel, input)
		if err != nil {
			return err
		}
		if err := r.EnableSelector("affine", c.Selector, base); err != nil {
			return err
		}
		results := make([]constraint.Element, n)
		for i := 0; i < n; i++ {
			row := base + i
			acc := b[i]
			for j := 0; j < n; j++ {
				if _, err := assignParam(r, "kernel", params[0], w, i*n+j, c.Kernel[j], row); err != nil {
					return err
				}
				acc = f.Add(acc, f.Mul(w[i*n+j], in[j].Value))
			}
			if _, err := r.AssignAdvice("input", c.Input, row, in[i].Value); err != nil {
				return err
			}
			if _, err := assignParam(r, "bias", params[1], b, i, c.Bias, row); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("output", c.Output, row, acc); err != nil {
				return err
			}
			results[i] = acc
		}
		out = make([]layouter.AssignedCell, n)
		for i, v := range results {
			if out[i], err = r.AssignAdvice("output", c.Kernel[i], base+n, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
