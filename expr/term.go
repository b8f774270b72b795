package expr

// similar to gnark frontend/internal/expr/term, but a term is a monomial of
// arbitrary degree over cell queries

import (
	"sort"

	"github.com/consensys/gnark/constraint"
)

// Var queries the cell of a column at a rotation relative to the row the
// expression is evaluated on.
type Var struct {
	Column   int
	Rotation int
}

func (v Var) Less(o Var) bool {
	if v.Column != o.Column {
		return v.Column < o.Column
	}
	return v.Rotation < o.Rotation
}

// Term is Coeff * Vars[0] * Vars[1] * ... ; no vars means constant.
type Term struct {
	Vars  []Var
	Coeff constraint.Element
}

func NewTerm(coeff constraint.Element, vars ...Var) Term {
	vs := make([]Var, len(vars))
	copy(vs, vars)
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
	return Term{Vars: vs, Coeff: coeff}
}

func (t Term) Degree() int {
	return len(t.Vars)
}

// sameMonomial requires both terms to have sorted vars
func (t Term) sameMonomial(o Term) bool {
	if len(t.Vars) != len(o.Vars) {
		return false
	}
	for i := range t.Vars {
		if t.Vars[i] != o.Vars[i] {
			return false
		}
	}
	return true
}

func (t Term) lessMonomial(o Term) bool {
	if len(t.Vars) != len(o.Vars) {
		return len(t.Vars) < len(o.Vars)
	}
	for i := range t.Vars {
		if t.Vars[i] != o.Vars[i] {
			return t.Vars[i].Less(o.Vars[i])
		}
	}
	return false
}

func (t Term) HashCode() uint64 {
	x := t.Coeff[0] ^ t.Coeff[1] ^ t.Coeff[2] ^ t.Coeff[3] ^ t.Coeff[4] ^ t.Coeff[5]
	for i, v := range t.Vars {
		x ^= uint64(v.Column+1) * 998244353 * uint64(i+1)
		x ^= uint64(int64(v.Rotation)+1<<16) * 1000000007
	}
	return x
}
