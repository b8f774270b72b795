// Package tensor holds the quantized integer tensors fed to the network.
package tensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrShapeMismatch = errors.New("data length does not match shape")

// Tensor is an immutable row-major array of quantized values.
type Tensor struct {
	shape []int
	data  []int64
}

func numel(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, errors.Errorf("negative dimension in shape %v", shape)
		}
		n *= d
	}
	return n, nil
}

// New copies data into a tensor of the given shape.
func New(data []int64, shape ...int) (*Tensor, error) {
	n, err := numel(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d values for shape %v", len(data), shape)
	}
	t := &Tensor{
		shape: append([]int{}, shape...),
		data:  append([]int64{}, data...),
	}
	return t, nil
}

// MustNew is New for literals known to be well formed.
func MustNew(data []int64, shape ...int) *Tensor {
	t, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

// Vector builds a rank-1 tensor.
func Vector(data ...int64) *Tensor {
	return MustNew(data, len(data))
}

func (t *Tensor) Shape() []int {
	return append([]int{}, t.shape...)
}

func (t *Tensor) Rank() int {
	return len(t.shape)
}

func (t *Tensor) Len() int {
	return len(t.data)
}

// Data returns a copy of the values in row-major order.
func (t *Tensor) Data() []int64 {
	return append([]int64{}, t.data...)
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("index %v for shape %v", idx, t.shape))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("index %v out of range for shape %v", idx, t.shape))
		}
		off = off*t.shape[i] + x
	}
	return off
}

// Get returns the element at idx. It panics when idx is out of range.
func (t *Tensor) Get(idx ...int) int64 {
	return t.data[t.offset(idx)]
}

// Row returns the i-th slice along the first dimension of a rank-2 tensor.
func (t *Tensor) Row(i int) []int64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Row on tensor of rank %d", len(t.shape)))
	}
	w := t.shape[1]
	t.offset([]int{i, 0})
	return append([]int64{}, t.data[i*w:(i+1)*w]...)
}

func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	return New(t.data, shape...)
}

func (t *Tensor) Flatten() *Tensor {
	return MustNew(t.data, len(t.data))
}

// Map applies fn elementwise.
func (t *Tensor) Map(fn func(int64) int64) *Tensor {
	data := make([]int64, len(t.data))
	for i, x := range t.data {
		data[i] = fn(x)
	}
	return &Tensor{shape: t.Shape(), data: data}
}

func (t *Tensor) Equal(o *Tensor) bool {
	if len(t.shape) != len(o.shape) || len(t.data) != len(o.data) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (t *Tensor) String() string {
	parts := make([]string, len(t.data))
	for i, x := range t.data {
		parts[i] = fmt.Sprint(x)
	}
	return fmt.Sprintf("%v[%s]", t.shape, strings.Join(parts, " "))
}
