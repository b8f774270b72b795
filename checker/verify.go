package checker

import (
	"strconv"

	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/PolyhedraZK/zkmlp/utils"
	"github.com/consensys/gnark/constraint"
)

func formatInt(x int64) string {
	return strconv.FormatInt(x, 10)
}

// gatedBy reports whether every term of e is multiplied by one of the
// selector columns, so that e vanishes where they are all disabled.
func gatedBy(e expr.Expression, selectors map[int]struct{}) bool {
	if len(selectors) == 0 {
		return false
	}
	for _, t := range e {
		found := false
		for _, v := range t.Vars {
			if _, ok := selectors[v.Column]; ok && v.Rotation == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (p *MockProver) verifyGates() []VerifyFailure {
	f := p.cs.Field()
	var failures []VerifyFailure
	for _, g := range p.cs.Gates {
		selectors := make(map[int]struct{}, len(g.Selectors))
		for _, s := range g.Selectors {
			selectors[s.Column.ID()] = struct{}{}
		}
		gated := make([]bool, len(g.Polys))
		for i, poly := range g.Polys {
			gated[i] = gatedBy(poly, selectors)
		}
		for row := 0; row < p.asm.usable; row++ {
			active := false
			for _, s := range g.Selectors {
				if !field0(p.asm.value(s.Column, row)) {
					active = true
				}
			}
			if active {
				for _, v := range g.QueriedCells() {
					col := plonkish.ColumnFromID(v.Column)
					if col.Kind == plonkish.Advice && !p.asm.assigned(col, row+v.Rotation) {
						failures = append(failures, VerifyFailure{
							Kind:   CellNotAssigned,
							Name:   g.Name,
							Region: p.asm.regionAt(row),
							Row:    row + v.Rotation,
							Cells:  []CellValue{{Column: col, Rotation: v.Rotation, Value: "unassigned"}},
						})
					}
				}
			}
			get := p.get(row)
			for i, poly := range g.Polys {
				if gated[i] && !active {
					continue
				}
				if res := poly.Evaluate(f, get); !field0(res) {
					failures = append(failures, VerifyFailure{
						Kind:       ConstraintNotSatisfied,
						Name:       g.Name,
						Constraint: g.Names[i],
						Index:      i,
						Region:     p.asm.regionAt(row),
						Row:        row,
						Cells:      p.cellValues(poly.Vars(), row),
					})
				}
			}
		}
	}
	return failures
}

func field0(e constraint.Element) bool {
	return e == constraint.Element{}
}

// tuple is a row of a lookup table
type tuple []constraint.Element

func (t tuple) HashCode() uint64 {
	h := uint64(17)
	for _, e := range t {
		h = h*23 + (e[0] ^ e[1]*998244353 ^ e[2]*1000000007 ^ e[3])
	}
	return h
}

func (t tuple) EqualI(o utils.Hashable) bool {
	u := o.(tuple)
	if len(t) != len(u) {
		return false
	}
	for i := range t {
		if t[i] != u[i] {
			return false
		}
	}
	return true
}

func tableKey(cols []plonkish.Column) string {
	s := ""
	for _, c := range cols {
		s += c.String() + ","
	}
	return s
}

// tableSet collects the rows of the table columns, with the number of times
// each row appears.
func (p *MockProver) tableSet(cols []plonkish.Column) utils.Map[int] {
	set := make(utils.Map[int])
	for row := 0; row < p.asm.usable; row++ {
		t := make(tuple, len(cols))
		for i, c := range cols {
			t[i] = p.asm.value(c, row)
		}
		set.Update(t, func(n int) int { return n + 1 })
	}
	return set
}

func (p *MockProver) verifyLookups() []VerifyFailure {
	f := p.cs.Field()
	var failures []VerifyFailure
	tables := make(map[string]utils.Map[int])
	for _, l := range p.cs.Lookups {
		key := tableKey(l.Table)
		set, ok := tables[key]
		if !ok {
			set = p.tableSet(l.Table)
			tables[key] = set
		}
		var vars []expr.Var
		for _, in := range l.Inputs {
			vars = append(vars, in.Vars()...)
		}
		for row := 0; row < p.asm.usable; row++ {
			get := p.get(row)
			t := make(tuple, len(l.Inputs))
			for i, in := range l.Inputs {
				t[i] = in.Evaluate(f, get)
			}
			if _, ok := set.Find(t); !ok {
				failures = append(failures, VerifyFailure{
					Kind:   LookupNotSatisfied,
					Name:   l.Name,
					Region: p.asm.regionAt(row),
					Row:    row,
					Cells:  p.cellValues(vars, row),
				})
			}
		}
	}
	return failures
}

func (p *MockProver) verifyPermutation() []VerifyFailure {
	var failures []VerifyFailure
	for _, c := range p.asm.copies {
		l, r := c[0], c[1]
		lv := p.asm.value(l.column, l.row)
		rv := p.asm.value(r.column, r.row)
		if lv == rv {
			continue
		}
		failures = append(failures, VerifyFailure{
			Kind:   PermutationNotSatisfied,
			Region: p.asm.regionAt(l.row),
			Row:    l.row,
			Cells: append(
				p.cellValues([]expr.Var{l.column.Query(0)}, l.row),
				p.cellValues([]expr.Var{r.column.Query(0)}, r.row)...,
			),
		})
	}
	return failures
}
