package mlp

import (
	"github.com/PolyhedraZK/zkmlp/nn"
	"github.com/PolyhedraZK/zkmlp/utils"
	"github.com/pkg/errors"
)

// Params are the static dimensions of the network.
type Params struct {
	// Len is the width of every layer.
	Len int
	// Bits is the width of the lookup tables; activations must lie in
	// [-2^(Bits-1), 2^(Bits-1)).
	Bits int
	// Divisor is the fixed-point scale removed by the final rescale.
	Divisor int64
}

func DefaultParams() Params {
	return Params{Len: 4, Bits: 14, Divisor: 128}
}

func (p Params) Validate() error {
	if p.Len < 1 {
		return errors.Errorf("layer width must be positive, got %d", p.Len)
	}
	if p.Bits < 1 || p.Bits > nn.MaxBits {
		return errors.Errorf("table bits must be in [1, %d], got %d", nn.MaxBits, p.Bits)
	}
	if p.Divisor < 1 {
		return errors.Errorf("divisor must be positive, got %d", p.Divisor)
	}
	return nil
}

// Rows is the number of rows the regions of the network occupy: a fresh
// input row and Len+1 rows per affine layer, one row per activation.
func (p Params) Rows() int {
	return 2*p.Len + 6
}

// MinK is the smallest k such that a 2^k table holds the lookup tables and
// the regions above the blinding rows.
func (p Params) MinK() int {
	rows := 1 << p.Bits
	if r := p.Rows(); r > rows {
		rows = r
	}
	// the affine gates read every lane at Len+2 rotations
	blinding := max(3, p.Len+2) + 2
	return utils.Log2Ceil(rows + blinding + 1)
}
