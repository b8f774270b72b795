// Polynomial expressions over cell queries, implemented based on gnark
// `frontend/internal/expr`.
package expr

import (
	"sort"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/utils"
	"github.com/consensys/gnark/constraint"
)

type Expression []Term

// NewConstantExpression returns c
func NewConstantExpression(c constraint.Element) Expression {
	return Expression{NewTerm(c)}
}

// NewLinearExpression returns c * v
func NewLinearExpression(v Var, c constraint.Element) Expression {
	return Expression{NewTerm(c, v)}
}

func (e Expression) Clone() Expression {
	res := make(Expression, len(e))
	for i, t := range e {
		res[i] = NewTerm(t.Coeff, t.Vars...)
	}
	return res
}

// Len return the length of the Expression (implements Sort interface)
func (e Expression) Len() int {
	return len(e)
}

// Swap swaps terms in the Expression (implements Sort interface)
func (e Expression) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Less orders terms by degree then by their vars (implements Sort interface)
func (e Expression) Less(i, j int) bool {
	return e[i].lessMonomial(e[j])
}

// Equal returns true if both SORTED expressions are the same
func (e Expression) Equal(o Expression) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i].Coeff != o[i].Coeff || !e[i].sameMonomial(o[i]) {
			return false
		}
	}
	return true
}

// EqualI is similar to Equal, but o is utils.Hashable. Then it can be saved in a utils.Map
func (e Expression) EqualI(o utils.Hashable) bool {
	return e.Equal(o.(Expression))
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code identifier for the expression
//
// requires sorted
func (e Expression) HashCode() uint64 {
	h := uint64(17)
	for _, val := range e {
		h = h*23 + val.HashCode()
	}
	return h
}

// Degree returns the degree of the polynomial
func (e Expression) Degree() int {
	res := 0
	for _, t := range e {
		if t.Degree() > res {
			res = t.Degree()
		}
	}
	return res
}

func (e Expression) IsConstant() bool {
	for _, t := range e {
		if len(t.Vars) != 0 {
			return false
		}
	}
	return true
}

// Vars returns every distinct query of the expression, sorted.
func (e Expression) Vars() []Var {
	seen := make(map[Var]struct{})
	res := []Var{}
	for _, t := range e {
		for _, v := range t.Vars {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				res = append(res, v)
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Less(res[j]) })
	return res
}

// Evaluate computes the expression over f, reading queried cells through get.
func (e Expression) Evaluate(f field.Field, get func(Var) constraint.Element) constraint.Element {
	acc := field.Zero()
	for _, t := range e {
		v := t.Coeff
		for _, q := range t.Vars {
			v = f.Mul(v, get(q))
		}
		acc = f.Add(acc, v)
	}
	return acc
}

// normalize sorts the terms, merges equal monomials and drops zero terms
func normalize(e Expression, f field.Field) Expression {
	sort.Sort(e)
	res := make(Expression, 0, len(e))
	for _, t := range e {
		if n := len(res); n > 0 && res[n-1].sameMonomial(t) {
			res[n-1].Coeff = f.Add(res[n-1].Coeff, t.Coeff)
			continue
		}
		res = append(res, t)
	}
	out := res[:0]
	for _, t := range res {
		if !field.IsZero(t.Coeff) {
			out = append(out, t)
		}
	}
	return out
}
