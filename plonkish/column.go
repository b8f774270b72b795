package plonkish

import (
	"fmt"

	"github.com/PolyhedraZK/zkmlp/expr"
)

type ColumnKind int

const (
	Advice ColumnKind = iota
	Fixed
	Instance
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	case Instance:
		return "instance"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

const kindShift = 24

// Column is a vertical lane of the table. Selectors and lookup table columns
// are fixed columns.
type Column struct {
	Kind  ColumnKind
	Index int
}

// ID packs the column into the integer used by expr.Var.
func (c Column) ID() int {
	return int(c.Kind)<<kindShift | c.Index
}

func ColumnFromID(id int) Column {
	return Column{Kind: ColumnKind(id >> kindShift), Index: id & (1<<kindShift - 1)}
}

func (c Column) Query(rot int) expr.Var {
	return expr.Var{Column: c.ID(), Rotation: rot}
}

func (c Column) String() string {
	return fmt.Sprintf("%s[%d]", c.Kind, c.Index)
}

// Selector is a fixed column holding 1 on the rows where it is enabled.
type Selector struct {
	Column Column
}

func (s Selector) String() string {
	return fmt.Sprintf("selector(%d)", s.Column.Index)
}
