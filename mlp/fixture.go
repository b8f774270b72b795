package mlp

import "github.com/PolyhedraZK/zkmlp/tensor"

// Fixture is a complete set of network inputs with its expected output.
type Fixture struct {
	Params Params
	Input  *tensor.Tensor
	L0     [2]*tensor.Tensor
	L2     [2]*tensor.Tensor
	Output *tensor.Tensor
}

func (fx *Fixture) Circuit() (*Circuit, error) {
	return NewCircuit(fx.Params, fx.Input, fx.L0, fx.L2)
}

// Fixture4D is the 4-wide network used by the mlp_4d example. The output
// before the rescale is [519, 89, 4452, 2849].
func Fixture4D() *Fixture {
	return &Fixture{
		Params: DefaultParams(),
		Input:  tensor.MustNew([]int64{-30, -21, 11, 40}, 1, 4),
		L0: [2]*tensor.Tensor{
			tensor.MustNew([]int64{
				10, 0, 0, -1,
				0, 10, 1, 0,
				0, 1, 10, 0,
				1, 0, 0, 10,
			}, 4, 4),
			tensor.MustNew([]int64{0, 0, 0, 1}, 1, 4),
		},
		L2: [2]*tensor.Tensor{
			tensor.MustNew([]int64{
				0, 3, 10, -1,
				0, 10, 1, 0,
				0, 1, 0, 12,
				1, -2, 32, 0,
			}, 4, 4),
			tensor.MustNew([]int64{0, 0, 0, 1}, 1, 4),
		},
		Output: tensor.Vector(4, 1, 35, 22),
	}
}
