// Package checker implements a mock prover: it synthesizes a circuit into an
// in-memory table and checks every gate, lookup and equality constraint
// against the witness without producing a proof.
package checker

import (
	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
)

// Circuit is the two-phase contract of a circuit: Configure declares the
// structure once, Synthesize lays out a witness for the returned config.
type Circuit interface {
	Configure(cs *plonkish.ConstraintSystem) (any, error)
	Synthesize(config any, l layouter.Layouter) error
}

type MockProver struct {
	k       int
	cs      *plonkish.ConstraintSystem
	asm     *assembly
	planner *layouter.SingleChip
}

// Run configures and synthesizes circuit in a table of 2^k rows, with the
// given values for the instance columns.
func Run(k int, f field.Field, circuit Circuit, instances [][]constraint.Element) (*MockProver, error) {
	log := logger.Logger()
	n := 1 << k

	cs := plonkish.NewConstraintSystem(f)
	config, err := circuit.Configure(cs)
	if err != nil {
		return nil, errors.Wrap(err, "configure")
	}
	if n < cs.MinimumRows() {
		return nil, errors.Wrapf(layouter.ErrNotEnoughRows, "k=%d, need at least %d rows", k, cs.MinimumRows())
	}
	if len(instances) != cs.NbInstance {
		return nil, errors.Errorf("got %d instance columns, circuit declares %d", len(instances), cs.NbInstance)
	}
	usable := n - (cs.BlindingFactors() + 1)
	for i, col := range instances {
		if len(col) > usable {
			return nil, errors.Wrapf(layouter.ErrInstanceOutOfRange, "instance column %d has %d values, usable rows %d", i, len(col), usable)
		}
	}

	asm := newAssembly(cs, n, usable, instances)
	planner := layouter.NewSingleChip(cs, asm)
	if err := circuit.Synthesize(config, planner); err != nil {
		return nil, errors.Wrap(err, "synthesize")
	}

	stats := cs.GetStats()
	log.Debug().
		Int("k", k).
		Int("usableRows", usable).
		Int("usedRows", planner.NextRow()).
		Int("nbAdvice", stats.NbAdvice).
		Int("nbFixed", stats.NbFixed).
		Int("nbGates", stats.NbGates).
		Int("nbPolys", stats.NbPolys).
		Int("nbLookups", stats.NbLookups).
		Int("degree", stats.Degree).
		Msg("synthesized")

	return &MockProver{k: k, cs: cs, asm: asm, planner: planner}, nil
}

func (p *MockProver) ConstraintSystem() *plonkish.ConstraintSystem {
	return p.cs
}

func (p *MockProver) UsableRows() int {
	return p.asm.usable
}

// UsedRows is the number of rows occupied by regions.
func (p *MockProver) UsedRows() int {
	return p.planner.NextRow()
}

func (p *MockProver) Regions() []layouter.RegionInfo {
	return p.planner.Regions()
}

// TableRows returns the number of rows filled in a lookup table column.
func (p *MockProver) TableRows(col plonkish.Column) int {
	return p.planner.TableRows(col)
}

// Value returns the value of a cell and whether it has been assigned.
func (p *MockProver) Value(col plonkish.Column, row int) (constraint.Element, bool) {
	return p.asm.value(col, row), p.asm.assigned(col, row)
}

// NbCopies is the number of equality constraints added during synthesis.
func (p *MockProver) NbCopies() int {
	return len(p.asm.copies)
}

// AssertSatisfied panics with the failure report when the witness is
// rejected.
func (p *MockProver) AssertSatisfied() {
	if err := p.Verify(); err != nil {
		panic(err.Error())
	}
}

// Verify checks every gate, lookup and equality constraint. It returns a
// *FailureError listing every failure found.
func (p *MockProver) Verify() error {
	var failures []VerifyFailure
	failures = append(failures, p.verifyGates()...)
	failures = append(failures, p.verifyLookups()...)
	failures = append(failures, p.verifyPermutation()...)
	if len(failures) == 0 {
		return nil
	}
	log := logger.Logger()
	log.Debug().Int("nbFailures", len(failures)).Msg("verification failed")
	return &FailureError{Failures: failures}
}

func (p *MockProver) get(row int) func(expr.Var) constraint.Element {
	return func(v expr.Var) constraint.Element {
		return p.asm.value(plonkish.ColumnFromID(v.Column), row+v.Rotation)
	}
}

func (p *MockProver) cellValues(vars []expr.Var, row int) []CellValue {
	f := p.cs.Field()
	res := make([]CellValue, 0, len(vars))
	for _, v := range vars {
		col := plonkish.ColumnFromID(v.Column)
		val := p.asm.value(col, row+v.Rotation)
		s := f.String(val)
		if x, ok := field.Decode(f, val); ok {
			s = formatInt(x)
		}
		res = append(res, CellValue{Column: col, Rotation: v.Rotation, Value: s})
	}
	return res
}
