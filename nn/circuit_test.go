package nn

import (
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
)

// testCircuit adapts closures to checker.Circuit.
type testCircuit struct {
	configure  func(cs *plonkish.ConstraintSystem) (any, error)
	synthesize func(config any, l layouter.Layouter) error
}

func (c *testCircuit) Configure(cs *plonkish.ConstraintSystem) (any, error) {
	return c.configure(cs)
}

func (c *testCircuit) Synthesize(config any, l layouter.Layouter) error {
	return c.synthesize(config, l)
}

func advice(cs *plonkish.ConstraintSystem, n int) []plonkish.Column {
	res := make([]plonkish.Column, n)
	for i := range res {
		res[i] = cs.AdviceColumn()
		cs.EnableEquality(res[i])
	}
	return res
}

func bindOutputs(l layouter.Layouter, cells []layouter.AssignedCell, instance plonkish.Column) error {
	for i, c := range cells {
		if err := l.ConstrainInstance(c.Cell, instance, i); err != nil {
			return err
		}
	}
	return nil
}

func public(f field.Field, xs []int64) [][]constraint.Element {
	return [][]constraint.Element{field.EncodeSlice(f, xs)}
}
