package layouter

import (
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

// Table fills lookup table columns. Rows are absolute and start at 0.
type Table struct {
	l    *SingleChip
	name string
	rows map[plonkish.Column]int
}

func (t *Table) AssignCell(annotation string, col plonkish.Column, row int, v constraint.Element) error {
	if !t.l.cs.IsTableColumn(col) {
		return errors.Errorf("%s: %s is not a table column", annotation, col)
	}
	if t.l.TableAssigned(col) {
		return errors.Wrapf(ErrTableReassigned, "%s", col)
	}
	if err := t.l.asg.AssignFixed(annotation, col, row, v); err != nil {
		return err
	}
	if row+1 > t.rows[col] {
		t.rows[col] = row + 1
	}
	return nil
}
