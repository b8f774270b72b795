package plonkish

import (
	"sort"

	"github.com/PolyhedraZK/zkmlp/expr"
)

// Constraint is a named polynomial of a gate.
type Constraint struct {
	Name string
	Poly expr.Expression
}

type LookupPair struct {
	Input expr.Expression
	Table Column
}

// VirtualCells records the queries made while building a gate or a lookup
// and offers the expression algebra of the constraint system's field.
type VirtualCells struct {
	expr.Builder
	cs        *ConstraintSystem
	selectors []Selector
	queries   map[expr.Var]struct{}
}

func newVirtualCells(cs *ConstraintSystem) *VirtualCells {
	return &VirtualCells{
		Builder: expr.NewBuilder(cs.f),
		cs:      cs,
		queries: make(map[expr.Var]struct{}),
	}
}

func (vc *VirtualCells) query(c Column, rot int) expr.Expression {
	v := c.Query(rot)
	vc.queries[v] = struct{}{}
	return vc.Query(v)
}

func (vc *VirtualCells) QueryAdvice(c Column, rot int) expr.Expression {
	if c.Kind != Advice {
		panic("QueryAdvice on " + c.String())
	}
	return vc.query(c, rot)
}

func (vc *VirtualCells) QueryFixed(c Column, rot int) expr.Expression {
	if c.Kind != Fixed {
		panic("QueryFixed on " + c.String())
	}
	return vc.query(c, rot)
}

func (vc *VirtualCells) QueryInstance(c Column, rot int) expr.Expression {
	if c.Kind != Instance {
		panic("QueryInstance on " + c.String())
	}
	return vc.query(c, rot)
}

// QuerySelector reads a selector on the current row.
func (vc *VirtualCells) QuerySelector(s Selector) expr.Expression {
	for _, x := range vc.selectors {
		if x == s {
			return vc.Query(s.Column.Query(0))
		}
	}
	vc.selectors = append(vc.selectors, s)
	return vc.Query(s.Column.Query(0))
}

func (vc *VirtualCells) cellQueries() []expr.Var {
	res := make([]expr.Var, 0, len(vc.queries))
	for v := range vc.queries {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Less(res[j]) })
	return res
}
