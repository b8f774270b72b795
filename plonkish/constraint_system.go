package plonkish

import (
	"fmt"

	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/field"
)

// Gate is a named set of polynomials that must evaluate to zero on every row.
type Gate struct {
	Name        string
	Names       []string
	Polys       []expr.Expression
	Selectors   []Selector
	queriedVars []expr.Var
}

// QueriedCells returns the distinct advice and fixed cells the gate reads,
// selectors excluded.
func (g *Gate) QueriedCells() []expr.Var {
	return g.queriedVars
}

// Lookup requires that, on every row, the tuple of input expressions is a row
// of the table columns.
type Lookup struct {
	Name   string
	Inputs []expr.Expression
	Table  []Column
}

// ConstraintSystem collects the structure of a circuit: columns, gates,
// lookups and the set of columns taking part in equality constraints.
type ConstraintSystem struct {
	f field.Field

	NbAdvice   int
	NbFixed    int
	NbInstance int

	Gates     []*Gate
	Lookups   []*Lookup
	Selectors []Selector

	tableColumns map[Column]struct{}
	equality     []Column
	equalitySet  map[Column]struct{}
}

func NewConstraintSystem(f field.Field) *ConstraintSystem {
	return &ConstraintSystem{
		f:            f,
		tableColumns: make(map[Column]struct{}),
		equalitySet:  make(map[Column]struct{}),
	}
}

func (cs *ConstraintSystem) Field() field.Field {
	return cs.f
}

func (cs *ConstraintSystem) AdviceColumn() Column {
	c := Column{Kind: Advice, Index: cs.NbAdvice}
	cs.NbAdvice++
	return c
}

func (cs *ConstraintSystem) FixedColumn() Column {
	c := Column{Kind: Fixed, Index: cs.NbFixed}
	cs.NbFixed++
	return c
}

// TableColumn allocates a fixed column reserved for a lookup table.
func (cs *ConstraintSystem) TableColumn() Column {
	c := cs.FixedColumn()
	cs.tableColumns[c] = struct{}{}
	return c
}

func (cs *ConstraintSystem) IsTableColumn(c Column) bool {
	_, ok := cs.tableColumns[c]
	return ok
}

func (cs *ConstraintSystem) InstanceColumn() Column {
	c := Column{Kind: Instance, Index: cs.NbInstance}
	cs.NbInstance++
	return c
}

func (cs *ConstraintSystem) Selector() Selector {
	s := Selector{Column: cs.FixedColumn()}
	cs.Selectors = append(cs.Selectors, s)
	return s
}

func (cs *ConstraintSystem) IsSelector(c Column) bool {
	for _, s := range cs.Selectors {
		if s.Column == c {
			return true
		}
	}
	return false
}

func (cs *ConstraintSystem) EnableEquality(c Column) {
	if c.Kind == Fixed && cs.IsTableColumn(c) {
		panic(fmt.Sprintf("table column %s cannot take part in equality constraints", c))
	}
	if _, ok := cs.equalitySet[c]; ok {
		return
	}
	cs.equalitySet[c] = struct{}{}
	cs.equality = append(cs.equality, c)
}

func (cs *ConstraintSystem) EqualityEnabled(c Column) bool {
	_, ok := cs.equalitySet[c]
	return ok
}

func (cs *ConstraintSystem) EqualityColumns() []Column {
	return cs.equality
}

// CreateGate registers the polynomials returned by build under name. Every
// polynomial must vanish on every row of the table.
func (cs *ConstraintSystem) CreateGate(name string, build func(vc *VirtualCells) []Constraint) {
	vc := newVirtualCells(cs)
	constraints := build(vc)
	if len(constraints) == 0 {
		panic(fmt.Sprintf("gate %q has no constraints", name))
	}
	g := &Gate{Name: name, Selectors: vc.selectors}
	for _, c := range constraints {
		g.Names = append(g.Names, c.Name)
		g.Polys = append(g.Polys, c.Poly)
	}
	g.queriedVars = vc.cellQueries()
	cs.Gates = append(cs.Gates, g)
}

// Lookup registers a lookup argument; build returns (input, table column)
// pairs.
func (cs *ConstraintSystem) Lookup(name string, build func(vc *VirtualCells) []LookupPair) {
	vc := newVirtualCells(cs)
	pairs := build(vc)
	if len(pairs) == 0 {
		panic(fmt.Sprintf("lookup %q has no columns", name))
	}
	l := &Lookup{Name: name}
	for _, p := range pairs {
		if !cs.IsTableColumn(p.Table) {
			panic(fmt.Sprintf("lookup %q: %s is not a table column", name, p.Table))
		}
		l.Inputs = append(l.Inputs, p.Input)
		l.Table = append(l.Table, p.Table)
	}
	cs.Lookups = append(cs.Lookups, l)
}

// Degree returns the maximum degree of all gate polynomials and lookup
// inputs; lookups add one for the argument itself.
func (cs *ConstraintSystem) Degree() int {
	d := 1
	for _, g := range cs.Gates {
		for _, p := range g.Polys {
			if p.Degree() > d {
				d = p.Degree()
			}
		}
	}
	for _, l := range cs.Lookups {
		for _, in := range l.Inputs {
			if in.Degree()+1 > d {
				d = in.Degree() + 1
			}
		}
	}
	return d
}

// BlindingFactors is the number of rows at the bottom of the table reserved
// for zero-knowledge blinding.
func (cs *ConstraintSystem) BlindingFactors() int {
	rotations := make(map[int]map[int]struct{})
	record := func(v []expr.Var) {
		for _, q := range v {
			if ColumnFromID(q.Column).Kind != Advice {
				continue
			}
			if rotations[q.Column] == nil {
				rotations[q.Column] = make(map[int]struct{})
			}
			rotations[q.Column][q.Rotation] = struct{}{}
		}
	}
	for _, g := range cs.Gates {
		for _, p := range g.Polys {
			record(p.Vars())
		}
	}
	for _, l := range cs.Lookups {
		for _, in := range l.Inputs {
			record(in.Vars())
		}
	}
	factors := 3
	for _, r := range rotations {
		if len(r) > factors {
			factors = len(r)
		}
	}
	return factors + 2
}

// MinimumRows is the smallest table height able to hold the blinding rows
// and one usable row.
func (cs *ConstraintSystem) MinimumRows() int {
	return cs.BlindingFactors() + 2
}
