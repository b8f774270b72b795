package test

import (
	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"golang.org/x/exp/rand"
)

type randomCircuitConfig struct {
	seed       int
	nbInput    randRange
	nbInsn     randRange
	addPercent int
}

type randRange struct {
	l int
	r int
}

func (rr *randRange) sample(r *rand.Rand) int {
	return r.Intn(rr.r-rr.l+1) + rr.l
}

type opKind int

const (
	opLinear opKind = iota
	opMul
)

// insn computes vars[x]*ka + vars[y]*kb or vars[x]*vars[y] and appends it to
// the variables.
type insn struct {
	op     opKind
	x, y   int
	ka, kb int64
}

// randomCircuit is a straight-line program over a three-column PLONKish
// table. Every instruction occupies one row; its operands are copied in
// from earlier rows and the last result is bound to the instance column.
type randomCircuit struct {
	input   []int64
	program []insn
}

type randomCircuitColumns struct {
	a, b, c  plonkish.Column
	ka, kb   plonkish.Column
	qLinear  plonkish.Selector
	qMul     plonkish.Selector
	instance plonkish.Column
}

func newRandomCircuit(conf *randomCircuitConfig) *randomCircuit {
	r := rand.New(rand.NewSource(uint64(conf.seed)))
	n := conf.nbInput.sample(r)
	input := make([]int64, n)
	for i := range input {
		input[i] = r.Int63n(2000) - 1000
	}
	m := conf.nbInsn.sample(r)
	program := make([]insn, m)
	for i := range program {
		nbVars := n + i
		program[i] = insn{
			op: opMul,
			x:  r.Intn(nbVars),
			y:  r.Intn(nbVars),
		}
		if r.Intn(100) < conf.addPercent {
			program[i].op = opLinear
			program[i].ka = r.Int63n(200) - 100
			program[i].kb = r.Int63n(200) - 100
		}
	}
	return &randomCircuit{input: input, program: program}
}

// eval runs the program in f and returns every variable.
func (rc *randomCircuit) eval(f field.Field) []constraint.Element {
	vars := field.EncodeSlice(f, rc.input)
	for _, in := range rc.program {
		var v constraint.Element
		switch in.op {
		case opLinear:
			v = f.Add(
				f.Mul(vars[in.x], field.Encode(f, in.ka)),
				f.Mul(vars[in.y], field.Encode(f, in.kb)),
			)
		case opMul:
			v = f.Mul(vars[in.x], vars[in.y])
		}
		vars = append(vars, v)
	}
	return vars
}

func (rc *randomCircuit) output(f field.Field) constraint.Element {
	vars := rc.eval(f)
	return vars[len(vars)-1]
}

func (rc *randomCircuit) Configure(cs *plonkish.ConstraintSystem) (any, error) {
	cols := &randomCircuitColumns{
		a:        cs.AdviceColumn(),
		b:        cs.AdviceColumn(),
		c:        cs.AdviceColumn(),
		ka:       cs.FixedColumn(),
		kb:       cs.FixedColumn(),
		qLinear:  cs.Selector(),
		qMul:     cs.Selector(),
		instance: cs.InstanceColumn(),
	}
	for _, c := range []plonkish.Column{cols.a, cols.b, cols.c, cols.instance} {
		cs.EnableEquality(c)
	}
	cs.CreateGate("linear", func(vc *plonkish.VirtualCells) []plonkish.Constraint {
		q := vc.QuerySelector(cols.qLinear)
		a, b, c := vc.QueryAdvice(cols.a, 0), vc.QueryAdvice(cols.b, 0), vc.QueryAdvice(cols.c, 0)
		ka, kb := vc.QueryFixed(cols.ka, 0), vc.QueryFixed(cols.kb, 0)
		return []plonkish.Constraint{{
			Name: "a*ka+b*kb=c",
			Poly: vc.Mul(q, vc.Sub(vc.Sum([]expr.Expression{a, b}, []expr.Expression{ka, kb}), c)),
		}}
	})
	cs.CreateGate("mul", func(vc *plonkish.VirtualCells) []plonkish.Constraint {
		q := vc.QuerySelector(cols.qMul)
		a, b, c := vc.QueryAdvice(cols.a, 0), vc.QueryAdvice(cols.b, 0), vc.QueryAdvice(cols.c, 0)
		return []plonkish.Constraint{{Name: "a*b=c", Poly: vc.Mul(q, vc.Sub(vc.Mul(a, b), c))}}
	})
	return cols, nil
}

func (rc *randomCircuit) Synthesize(config any, l layouter.Layouter) error {
	cols := config.(*randomCircuitColumns)
	f := l.Field()
	var vars []layouter.AssignedCell
	err := l.AssignRegion("input", func(r *layouter.Region) error {
		for i, x := range rc.input {
			cell, err := r.AssignAdvice("input", cols.c, i, field.Encode(f, x))
			if err != nil {
				return err
			}
			vars = append(vars, cell)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, in := range rc.program {
		in := in
		err := l.AssignRegion("insn", func(r *layouter.Region) error {
			a, err := r.CopyAdvice("a", vars[in.x], cols.a, 0)
			if err != nil {
				return err
			}
			b, err := r.CopyAdvice("b", vars[in.y], cols.b, 0)
			if err != nil {
				return err
			}
			var v constraint.Element
			switch in.op {
			case opLinear:
				if err := r.EnableSelector("linear", cols.qLinear, 0); err != nil {
					return err
				}
				ka, kb := field.Encode(f, in.ka), field.Encode(f, in.kb)
				if _, err := r.AssignFixed("ka", cols.ka, 0, ka); err != nil {
					return err
				}
				if _, err := r.AssignFixed("kb", cols.kb, 0, kb); err != nil {
					return err
				}
				v = f.Add(f.Mul(a.Value, ka), f.Mul(b.Value, kb))
			case opMul:
				if err := r.EnableSelector("mul", cols.qMul, 0); err != nil {
					return err
				}
				v = f.Mul(a.Value, b.Value)
			}
			c, err := r.AssignAdvice("c", cols.c, 0, v)
			if err != nil {
				return err
			}
			vars = append(vars, c)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return l.ConstrainInstance(vars[len(vars)-1].Cell, cols.instance, 0)
}
