package checker

import (
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

type regionRecord struct {
	name      string
	minRow    int
	maxRow    int
	selectors map[plonkish.Selector][]int
}

func (r *regionRecord) touch(row int) {
	if r.minRow < 0 || row < r.minRow {
		r.minRow = row
	}
	if row > r.maxRow {
		r.maxRow = row
	}
}

type cellKey struct {
	column plonkish.Column
	row    int
}

// assembly stores the witness of one synthesis pass. Every advice and fixed
// cell can be written at most once.
type assembly struct {
	cs     *plonkish.ConstraintSystem
	n      int
	usable int

	advice         [][]constraint.Element
	adviceAssigned [][]bool
	fixed          [][]constraint.Element
	fixedAssigned  [][]bool
	instance       [][]constraint.Element

	regions []*regionRecord
	current *regionRecord

	copies [][2]cellKey
}

func newAssembly(cs *plonkish.ConstraintSystem, n, usable int, instances [][]constraint.Element) *assembly {
	a := &assembly{
		cs:             cs,
		n:              n,
		usable:         usable,
		advice:         make([][]constraint.Element, cs.NbAdvice),
		adviceAssigned: make([][]bool, cs.NbAdvice),
		fixed:          make([][]constraint.Element, cs.NbFixed),
		fixedAssigned:  make([][]bool, cs.NbFixed),
		instance:       make([][]constraint.Element, cs.NbInstance),
	}
	for i := range a.advice {
		a.advice[i] = make([]constraint.Element, n)
		a.adviceAssigned[i] = make([]bool, n)
	}
	for i := range a.fixed {
		a.fixed[i] = make([]constraint.Element, n)
		a.fixedAssigned[i] = make([]bool, n)
	}
	for i := range a.instance {
		a.instance[i] = make([]constraint.Element, n)
		copy(a.instance[i], instances[i])
	}
	return a
}

func (a *assembly) UsableRows() int {
	return a.usable
}

func (a *assembly) EnterRegion(name string) {
	a.current = &regionRecord{
		name:      name,
		minRow:    -1,
		maxRow:    -1,
		selectors: make(map[plonkish.Selector][]int),
	}
}

func (a *assembly) ExitRegion() {
	a.regions = append(a.regions, a.current)
	a.current = nil
}

func (a *assembly) checkRow(row int) error {
	if row < 0 || row >= a.usable {
		return errors.Wrapf(layouter.ErrNotEnoughRows, "row %d, usable %d", row, a.usable)
	}
	return nil
}

func (a *assembly) EnableSelector(annotation string, s plonkish.Selector, row int) error {
	if err := a.checkRow(row); err != nil {
		return err
	}
	if a.fixedAssigned[s.Column.Index][row] {
		return errors.Wrapf(layouter.ErrCellReassigned, "%s: %s at row %d", annotation, s, row)
	}
	a.fixed[s.Column.Index][row] = a.cs.Field().One()
	a.fixedAssigned[s.Column.Index][row] = true
	if a.current != nil {
		a.current.touch(row)
		a.current.selectors[s] = append(a.current.selectors[s], row)
	}
	return nil
}

func (a *assembly) AssignAdvice(annotation string, col plonkish.Column, row int, v constraint.Element) error {
	if err := a.checkRow(row); err != nil {
		return err
	}
	if a.adviceAssigned[col.Index][row] {
		return errors.Wrapf(layouter.ErrCellReassigned, "%s: %s at row %d", annotation, col, row)
	}
	a.advice[col.Index][row] = v
	a.adviceAssigned[col.Index][row] = true
	if a.current != nil {
		a.current.touch(row)
	}
	return nil
}

func (a *assembly) AssignFixed(annotation string, col plonkish.Column, row int, v constraint.Element) error {
	if err := a.checkRow(row); err != nil {
		return err
	}
	if a.fixedAssigned[col.Index][row] {
		return errors.Wrapf(layouter.ErrCellReassigned, "%s: %s at row %d", annotation, col, row)
	}
	a.fixed[col.Index][row] = v
	a.fixedAssigned[col.Index][row] = true
	if a.current != nil {
		a.current.touch(row)
	}
	return nil
}

func (a *assembly) QueryInstance(col plonkish.Column, row int) (constraint.Element, error) {
	if err := a.checkRow(row); err != nil {
		return constraint.Element{}, errors.Wrapf(layouter.ErrInstanceOutOfRange, "%s@%d", col, row)
	}
	return a.instance[col.Index][row], nil
}

func (a *assembly) Copy(left plonkish.Column, leftRow int, right plonkish.Column, rightRow int) error {
	for _, c := range []plonkish.Column{left, right} {
		if !a.cs.EqualityEnabled(c) {
			return errors.Wrapf(layouter.ErrColumnNotInPermutation, "%s", c)
		}
	}
	if err := a.checkRow(leftRow); err != nil {
		return err
	}
	if err := a.checkRow(rightRow); err != nil {
		return err
	}
	l, r := cellKey{left, leftRow}, cellKey{right, rightRow}
	a.copies = append(a.copies, [2]cellKey{l, r})
	return nil
}

func (a *assembly) value(c plonkish.Column, row int) constraint.Element {
	row = ((row % a.n) + a.n) % a.n
	switch c.Kind {
	case plonkish.Advice:
		return a.advice[c.Index][row]
	case plonkish.Fixed:
		return a.fixed[c.Index][row]
	case plonkish.Instance:
		return a.instance[c.Index][row]
	}
	panic("unknown column kind " + c.Kind.String())
}

func (a *assembly) assigned(c plonkish.Column, row int) bool {
	if row < 0 || row >= a.usable {
		return false
	}
	switch c.Kind {
	case plonkish.Advice:
		return a.adviceAssigned[c.Index][row]
	case plonkish.Fixed:
		return true
	}
	return true
}

func (a *assembly) regionAt(row int) string {
	for i := len(a.regions) - 1; i >= 0; i-- {
		r := a.regions[i]
		if r.minRow >= 0 && row >= r.minRow && row <= r.maxRow {
			return r.name
		}
	}
	return ""
}
