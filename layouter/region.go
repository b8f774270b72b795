package layouter

import (
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

// Region is a block of consecutive rows. Offsets are relative to its first
// row.
type Region struct {
	l      *SingleChip
	index  int
	name   string
	start  int
	height int
}

func (r *Region) Name() string {
	return r.name
}

func (r *Region) Field() field.Field {
	return r.l.Field()
}

func (r *Region) Index() int {
	return r.index
}

// Start is the absolute row of offset 0.
func (r *Region) Start() int {
	return r.start
}

// Adjacent reports whether cell sits on the row right above the region, so
// that a gate enabled at offset 0 can read it at rotation -1.
func (r *Region) Adjacent(cell Cell) bool {
	return cell.Row == r.start-1
}

func (r *Region) row(offset int) (int, error) {
	if offset < 0 {
		return 0, errors.Wrapf(ErrNegativeOffset, "offset %d", offset)
	}
	row := r.start + offset
	if row >= r.l.asg.UsableRows() {
		return 0, errors.Wrapf(ErrNotEnoughRows, "row %d, usable %d", row, r.l.asg.UsableRows())
	}
	if offset+1 > r.height {
		r.height = offset + 1
	}
	return row, nil
}

func (r *Region) EnableSelector(annotation string, s plonkish.Selector, offset int) error {
	row, err := r.row(offset)
	if err != nil {
		return err
	}
	return r.l.asg.EnableSelector(annotation, s, row)
}

func (r *Region) AssignAdvice(annotation string, col plonkish.Column, offset int, v constraint.Element) (AssignedCell, error) {
	if col.Kind != plonkish.Advice {
		return AssignedCell{}, errors.Errorf("%s: %s is not an advice column", annotation, col)
	}
	row, err := r.row(offset)
	if err != nil {
		return AssignedCell{}, err
	}
	if err := r.l.asg.AssignAdvice(annotation, col, row, v); err != nil {
		return AssignedCell{}, err
	}
	return AssignedCell{Cell: Cell{Region: r.index, Column: col, Row: row}, Value: v}, nil
}

func (r *Region) AssignFixed(annotation string, col plonkish.Column, offset int, v constraint.Element) (AssignedCell, error) {
	if col.Kind != plonkish.Fixed {
		return AssignedCell{}, errors.Errorf("%s: %s is not a fixed column", annotation, col)
	}
	row, err := r.row(offset)
	if err != nil {
		return AssignedCell{}, err
	}
	if err := r.l.asg.AssignFixed(annotation, col, row, v); err != nil {
		return AssignedCell{}, err
	}
	return AssignedCell{Cell: Cell{Region: r.index, Column: col, Row: row}, Value: v}, nil
}

// CopyAdvice assigns the value of cell into col at offset and constrains
// both cells to be equal.
func (r *Region) CopyAdvice(annotation string, cell AssignedCell, col plonkish.Column, offset int) (AssignedCell, error) {
	dst, err := r.AssignAdvice(annotation, col, offset, cell.Value)
	if err != nil {
		return AssignedCell{}, err
	}
	if err := r.ConstrainEqual(cell.Cell, dst.Cell); err != nil {
		return AssignedCell{}, err
	}
	return dst, nil
}

// AssignAdviceFromInstance copies a public input into the region.
func (r *Region) AssignAdviceFromInstance(annotation string, instance plonkish.Column, instanceRow int, col plonkish.Column, offset int) (AssignedCell, error) {
	v, err := r.l.asg.QueryInstance(instance, instanceRow)
	if err != nil {
		return AssignedCell{}, err
	}
	dst, err := r.AssignAdvice(annotation, col, offset, v)
	if err != nil {
		return AssignedCell{}, err
	}
	if err := r.l.asg.Copy(instance, instanceRow, col, dst.Row); err != nil {
		return AssignedCell{}, err
	}
	return dst, nil
}

func (r *Region) ConstrainEqual(a, b Cell) error {
	return r.l.asg.Copy(a.Column, a.Row, b.Column, b.Row)
}
