// Package nn lays quantized network layers out in a PLONKish table:
// nonlinearities are checked through lookup tables and affine layers
// through polynomial gates.
package nn

import (
	"fmt"
	"math/big"

	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/PolyhedraZK/zkmlp/layouter"
	"github.com/PolyhedraZK/zkmlp/plonkish"
	"github.com/pkg/errors"
)

// MaxBits bounds the table width; 2^MaxBits rows is more than any k the
// mock prover is meant for.
const MaxBits = 24

// Nonlinearity is an integer function tabulated by a lookup table.
type Nonlinearity interface {
	Name() string
	Apply(x int64) int64
}

type ReLU struct{}

func (ReLU) Name() string { return "relu" }

func (ReLU) Apply(x int64) int64 {
	if x < 0 {
		return 0
	}
	return x
}

// DivideBy is the fixed-point rescale x/D, rounded half away from zero.
type DivideBy struct {
	D int64
}

func (d DivideBy) Name() string { return fmt.Sprintf("divide by %d", d.D) }

func (d DivideBy) Validate() error {
	if d.D < 1 {
		return errors.Errorf("divisor must be positive, got %d", d.D)
	}
	return nil
}

func (d DivideBy) Apply(x int64) int64 {
	if x < 0 {
		return -d.Apply(-x)
	}
	return (2*x + d.D) / (2 * d.D)
}

// Table tabulates a Nonlinearity over [-2^(bits-1), 2^(bits-1)) in two table
// columns. It holds no witness: Layout fills the columns once per synthesis
// pass.
type Table struct {
	In  plonkish.Column
	Out plonkish.Column

	bits int
	fn   Nonlinearity
}

func ConfigureTable(cs *plonkish.ConstraintSystem, bits int, fn Nonlinearity) (*Table, error) {
	if fn == nil {
		return nil, errors.New("nil nonlinearity")
	}
	if v, ok := fn.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrapf(err, "%s table", fn.Name())
		}
	}
	if bits < 1 || bits > MaxBits {
		return nil, errors.Errorf("%s table: bits must be in [1, %d], got %d", fn.Name(), MaxBits, bits)
	}
	half := new(big.Int).Rsh(cs.Field().Field(), 1)
	if big.NewInt(1<<bits).Cmp(half) >= 0 {
		return nil, errors.Errorf("%s table: 2^%d rows do not fit in half of the field", fn.Name(), bits)
	}
	return &Table{
		In:   cs.TableColumn(),
		Out:  cs.TableColumn(),
		bits: bits,
		fn:   fn,
	}, nil
}

func (t *Table) Name() string {
	return t.fn.Name()
}

func (t *Table) Bits() int {
	return t.bits
}

// Size is the number of rows of the table.
func (t *Table) Size() int {
	return 1 << t.bits
}

// Domain returns the half-open input range [lo, hi).
func (t *Table) Domain() (lo, hi int64) {
	hi = int64(1) << (t.bits - 1)
	return -hi, hi
}

func (t *Table) Contains(x int64) bool {
	lo, hi := t.Domain()
	return x >= lo && x < hi
}

func (t *Table) Eval(x int64) int64 {
	return t.fn.Apply(x)
}

// Layout fills the table columns. It does nothing when the table has
// already been laid out through l.
func (t *Table) Layout(l layouter.Layouter) error {
	if l.TableAssigned(t.In) {
		return nil
	}
	f := l.Field()
	return l.AssignTable(t.Name(), func(tbl *layouter.Table) error {
		lo, hi := t.Domain()
		for x := lo; x < hi; x++ {
			row := int(x - lo)
			if err := tbl.AssignCell("in", t.In, row, field.Encode(f, x)); err != nil {
				return err
			}
			if err := tbl.AssignCell("out", t.Out, row, field.Encode(f, t.fn.Apply(x))); err != nil {
				return err
			}
		}
		return nil
	})
}
