// Package layouter places regions of cells into the table of a PLONKish
// constraint system and forwards every assignment to an Assignment backend.
package layouter

import (
	"fmt"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
)

var (
	ErrNotEnoughRows          = errors.New("not enough rows available")
	ErrCellReassigned         = errors.New("cell assigned twice")
	ErrColumnNotInPermutation = errors.New("column not in permutation")
	ErrInstanceOutOfRange     = errors.New("instance row out of range")
	ErrTableReassigned        = errors.New("table column assigned twice")
	ErrNegativeOffset         = errors.New("negative region offset")
)

// Cell is an absolute position in the table.
type Cell struct {
	Region int
	Column plonkish.Column
	Row    int
}

func (c Cell) String() string {
	return fmt.Sprintf("%s@%d", c.Column, c.Row)
}

// AssignedCell is a cell together with the value written into it.
type AssignedCell struct {
	Cell
	Value constraint.Element
}

// Assignment receives the witness. It is implemented by provers.
type Assignment interface {
	EnterRegion(name string)
	ExitRegion()
	EnableSelector(annotation string, s plonkish.Selector, row int) error
	AssignAdvice(annotation string, col plonkish.Column, row int, v constraint.Element) error
	AssignFixed(annotation string, col plonkish.Column, row int, v constraint.Element) error
	Copy(left plonkish.Column, leftRow int, right plonkish.Column, rightRow int) error
	QueryInstance(col plonkish.Column, row int) (constraint.Element, error)
	UsableRows() int
}

// Layouter is the interface circuits lay their witness out through.
type Layouter interface {
	Field() field.Field
	// AssignRegion places a new region after the previously assigned ones.
	AssignRegion(name string, assign func(r *Region) error) error
	// AssignTable fills lookup table columns from row 0.
	AssignTable(name string, assign func(t *Table) error) error
	// TableAssigned reports whether col has been filled during this pass.
	TableAssigned(col plonkish.Column) bool
	// ConstrainInstance binds cell to an instance cell.
	ConstrainInstance(cell Cell, instance plonkish.Column, row int) error
}

// RegionInfo describes a region placed by the floor planner.
type RegionInfo struct {
	Name   string
	Start  int
	Height int
}

// SingleChip is a floor planner placing regions one after the other, in
// order of assignment.
type SingleChip struct {
	cs      *plonkish.ConstraintSystem
	asg     Assignment
	cursor  int
	regions []RegionInfo
	tables  map[plonkish.Column]int
}

func NewSingleChip(cs *plonkish.ConstraintSystem, asg Assignment) *SingleChip {
	return &SingleChip{
		cs:     cs,
		asg:    asg,
		tables: make(map[plonkish.Column]int),
	}
}

func (l *SingleChip) Field() field.Field {
	return l.cs.Field()
}

func (l *SingleChip) Regions() []RegionInfo {
	return l.regions
}

// NextRow is the row the next region will start on.
func (l *SingleChip) NextRow() int {
	return l.cursor
}

func (l *SingleChip) AssignRegion(name string, assign func(r *Region) error) error {
	r := &Region{
		l:     l,
		index: len(l.regions),
		name:  name,
		start: l.cursor,
	}
	l.regions = append(l.regions, RegionInfo{Name: name, Start: r.start})
	l.asg.EnterRegion(name)
	err := assign(r)
	l.asg.ExitRegion()
	if err != nil {
		return errors.Wrapf(err, "region %q", name)
	}
	l.regions[r.index].Height = r.height
	l.cursor += r.height
	return nil
}

func (l *SingleChip) AssignTable(name string, assign func(t *Table) error) error {
	t := &Table{l: l, name: name, rows: make(map[plonkish.Column]int)}
	if err := assign(t); err != nil {
		return errors.Wrapf(err, "table %q", name)
	}
	height := -1
	for col, n := range t.rows {
		if height >= 0 && n != height {
			return errors.Errorf("table %q: columns have different lengths (%d and %d)", name, height, n)
		}
		height = n
		l.tables[col] = n
	}
	return nil
}

func (l *SingleChip) TableAssigned(col plonkish.Column) bool {
	_, ok := l.tables[col]
	return ok
}

// TableRows returns the number of rows filled in a table column.
func (l *SingleChip) TableRows(col plonkish.Column) int {
	return l.tables[col]
}

func (l *SingleChip) ConstrainInstance(cell Cell, instance plonkish.Column, row int) error {
	if instance.Kind != plonkish.Instance {
		return errors.Errorf("%s is not an instance column", instance)
	}
	if err := l.asg.Copy(cell.Column, cell.Row, instance, row); err != nil {
		return errors.Wrapf(err, "constrain %s to %s@%d", cell, instance, row)
	}
	return nil
}
