package expr

import (
	"github.com/PolyhedraZK/zkmlp/field"
)

// Builder performs expression algebra with coefficients in a given field.
type Builder struct {
	F field.Field
}

func NewBuilder(f field.Field) Builder {
	return Builder{F: f}
}

func (b Builder) Constant(v int64) Expression {
	return normalize(NewConstantExpression(field.Encode(b.F, v)), b.F)
}

func (b Builder) Query(v Var) Expression {
	return NewLinearExpression(v, b.F.One())
}

func (b Builder) Add(es ...Expression) Expression {
	res := Expression{}
	for _, e := range es {
		res = append(res, e.Clone()...)
	}
	return normalize(res, b.F)
}

func (b Builder) Neg(e Expression) Expression {
	res := e.Clone()
	for i := range res {
		res[i].Coeff = b.F.Neg(res[i].Coeff)
	}
	return res
}

func (b Builder) Sub(x, y Expression) Expression {
	return b.Add(x, b.Neg(y))
}

func (b Builder) Scale(e Expression, c int64) Expression {
	k := field.Encode(b.F, c)
	res := e.Clone()
	for i := range res {
		res[i].Coeff = b.F.Mul(res[i].Coeff, k)
	}
	return normalize(res, b.F)
}

// Mul multiplies all operands; an empty product is 1.
func (b Builder) Mul(es ...Expression) Expression {
	res := NewConstantExpression(b.F.One())
	for _, e := range es {
		next := make(Expression, 0, len(res)*len(e))
		for _, x := range res {
			for _, y := range e {
				vars := make([]Var, 0, len(x.Vars)+len(y.Vars))
				vars = append(vars, x.Vars...)
				vars = append(vars, y.Vars...)
				next = append(next, NewTerm(b.F.Mul(x.Coeff, y.Coeff), vars...))
			}
		}
		res = normalize(next, b.F)
	}
	return res
}

// Sum adds products pairwise: sum_i xs[i] * ys[i].
func (b Builder) Sum(xs, ys []Expression) Expression {
	if len(xs) != len(ys) {
		panic("operand length mismatch")
	}
	terms := make([]Expression, len(xs))
	for i := range xs {
		terms[i] = b.Mul(xs[i], ys[i])
	}
	return b.Add(terms...)
}
