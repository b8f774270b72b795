package nn

import (
	"fmt"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/pkg/errors"
)

// EltwiseConfig applies a tabulated nonlinearity to every lane. The input
// sits on the row above the selector and the output on the selector row.
type EltwiseConfig struct {
	Lanes    []plonkish.Column
	Selector plonkish.Selector
	Table    *Table
}

func ConfigureEltwise(cs *plonkish.ConstraintSystem, lanes []plonkish.Column, table *Table) (*EltwiseConfig, error) {
	if len(lanes) == 0 {
		return nil, errors.New("eltwise layer needs at least one lane")
	}
	if table == nil {
		return nil, errors.New("eltwise layer needs a table")
	}
	for _, c := range lanes {
		if c.Kind != plonkish.Advice {
			return nil, errors.Errorf("eltwise lane %s is not an advice column", c)
		}
	}
	// unselected rows look up (0, 0)
	if table.Eval(0) != 0 {
		return nil, errors.Errorf("%s table does not map 0 to 0", table.Name())
	}

	c := &EltwiseConfig{
		Lanes:    append([]plonkish.Column{}, lanes...),
		Selector: cs.Selector(),
		Table:    table,
	}
	for i, lane := range c.Lanes {
		lane := lane
		cs.Lookup(fmt.Sprintf("%s lane %d", table.Name(), i), func(vc *plonkish.VirtualCells) []plonkish.LookupPair {
			q := vc.QuerySelector(c.Selector)
			in := vc.QueryAdvice(lane, -1)
			out := vc.QueryAdvice(lane, 0)
			return []plonkish.LookupPair{
				{Input: vc.Mul(q, in), Table: table.In},
				{Input: vc.Mul(q, out), Table: table.Out},
			}
		})
	}
	return c, nil
}

// Layout assigns the activation of input and returns the output cells.
func (c *EltwiseConfig) Layout(l layouter.Layouter, input IO) ([]layouter.AssignedCell, error) {
	f := l.Field()
	var out []layouter.AssignedCell
	err := l.AssignRegion(c.Table.Name(), func(r *layouter.Region) error {
		in, offset, err := layInput(r, c.Lanes, input)
		if err != nil {
			return err
		}
		if err := r.EnableSelector(c.Table.Name(), c.Selector, offset); err != nil {
			return err
		}
		out = make([]layouter.AssignedCell, len(in))
		for i, cell := range in {
			// values outside the table domain are assigned anyway and
			// rejected by the lookup
			var v int64
			if x, ok := field.Decode(f, cell.Value); ok {
				v = c.Table.Eval(x)
			}
			out[i], err = r.AssignAdvice("output", c.Lanes[i], offset, field.Encode(f, v))
			if err != nil {
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
