package nn

import (
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/PolyhedraZK/zkmlp/tensor"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

// IO is the input of a layer: either plain values, or cells assigned by an
// earlier layer.
type IO interface {
	isIO()
}

type Value struct {
	Tensor *tensor.Tensor
}

type PrevAssigned []layouter.AssignedCell

func (Value) isIO()        {}
func (PrevAssigned) isIO() {}

// elements returns the field values carried by io.
func elements(f field.Field, io IO) ([]constraint.Element, error) {
	switch v := io.(type) {
	case Value:
		if v.Tensor == nil {
			return nil, errors.New("nil tensor")
		}
		return field.EncodeSlice(f, v.Tensor.Data()), nil
	case PrevAssigned:
		res := make([]constraint.Element, len(v))
		for i, c := range v {
			res[i] = c.Value
		}
		return res, nil
	}
	return nil, errors.Errorf("unsupported layer input %T", io)
}

func ioLen(io IO) int {
	switch v := io.(type) {
	case Value:
		if v.Tensor == nil {
			return 0
		}
		return v.Tensor.Len()
	case PrevAssigned:
		return len(v)
	}
	return -1
}

// adjacent reports whether cells fill the lanes on the row right above r.
func adjacent(r *layouter.Region, lanes []plonkish.Column, cells PrevAssigned) bool {
	for i, c := range cells {
		if c.Column != lanes[i] || !r.Adjacent(c.Cell) {
			return false
		}
	}
	return true
}

// layInput makes input readable at rotation -1 from the returned offset.
// Cells sitting in the lanes on the row above r are used in place. Other
// cells are copied into a new row at offset 0, values are assigned there.
func layInput(r *layouter.Region, lanes []plonkish.Column, input IO) ([]layouter.AssignedCell, int, error) {
	if n := ioLen(input); n != len(lanes) {
		return nil, 0, errors.Errorf("input has %d values, layer has %d lanes", n, len(lanes))
	}
	switch v := input.(type) {
	case PrevAssigned:
		if adjacent(r, lanes, v) {
			return v, 0, nil
		}
		cells := make([]layouter.AssignedCell, len(v))
		for i, c := range v {
			cell, err := r.CopyAdvice("input", c, lanes[i], 0)
			if err != nil {
				return nil, 0, err
			}
			cells[i] = cell
		}
		return cells, 1, nil
	case Value:
		f := r.Field()
		values := field.EncodeSlice(f, v.Tensor.Data())
		cells := make([]layouter.AssignedCell, len(values))
		for i, x := range values {
			cell, err := r.AssignAdvice("input", lanes[i], 0, x)
			if err != nil {
				return nil, 0, err
			}
			cells[i] = cell
		}
		return cells, 1, nil
	}
	return nil, 0, errors.Errorf("unsupported layer input %T", input)
}

// assignParam places value i of a parameter into col at offset, copying it
// when the parameter comes from earlier cells.
func assignParam(r *layouter.Region, annotation string, param IO, values []constraint.Element, i int, col plonkish.Column, offset int) (layouter.AssignedCell, error) {
	if cells, ok := param.(PrevAssigned); ok {
		return r.CopyAdvice(annotation, cells[i], col, offset)
	}
	return r.AssignAdvice(annotation, col, offset, values[i])
}
