package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Array is a dense, row-major float64 array with a fixed shape.
//
// Arrays produced by this package are treated as values: nothing in the
// package mutates an array after returning it, except the explicit in-place
// helpers (AddInPlace, Fill) which exist for gradient buffers.
type Array struct {
	shape Shape
	data  []float64
}

// FromSlice creates an array from a Go slice.
// The slice is copied into the array's memory.
func FromSlice(data []float64, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	buf := make([]float64, len(data))
	copy(buf, data)
	return &Array{shape: shape.Clone(), data: buf}, nil
}

// Scalar creates a 0-d array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, data: []float64{v}}
}

// Vector creates a 1-d array from the given values.
func Vector(values ...float64) *Array {
	buf := make([]float64, len(values))
	copy(buf, values)
	return &Array{shape: Shape{len(values)}, data: buf}
}

// Zeros creates an array filled with zeros.
//
// Example:
//
//	a := tensor.Zeros(Shape{3, 4})
func Zeros(shape Shape) *Array {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Array{shape: shape.Clone(), data: make([]float64, shape.NumElements())}
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates an array filled with a specific value.
func Full(shape Shape, value float64) *Array {
	a := Zeros(shape)
	for i := range a.data {
		a.data[i] = value
	}
	return a
}

// ZerosLike creates a zero array with the shape of a.
func ZerosLike(a *Array) *Array {
	return Zeros(a.shape)
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// NDim returns the number of dimensions (0 for scalars).
func (a *Array) NDim() int {
	return len(a.shape)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return len(a.data)
}

// IsScalar reports whether the array is 0-dimensional.
func (a *Array) IsScalar() bool {
	return len(a.shape) == 0
}

// Data returns a copy of the array's elements in row-major order.
func (a *Array) Data() []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Item returns the value of a 0-d array.
// Panics if the array is not a scalar.
func (a *Array) Item() float64 {
	if len(a.shape) != 0 {
		panic(fmt.Sprintf("Item() only works for scalar arrays, got shape %v", a.shape))
	}
	return a.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) At(indices ...int) float64 {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}

	offset := 0
	strides := a.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * strides[i]
	}
	return a.data[offset]
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	return &Array{shape: a.shape.Clone(), data: a.Data()}
}

// IndexFunc returns the flat index of the first element satisfying f, or -1.
func (a *Array) IndexFunc(f func(float64) bool) int {
	for i, v := range a.data {
		if f(v) {
			return i
		}
	}
	return -1
}

// AllClose reports whether a and b have equal shapes and every pair of
// elements differs by at most tol.
func (a *Array) AllClose(b *Array, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i, v := range a.data {
		if math.Abs(v-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// AddInPlace adds src into a element-wise. Shapes must match exactly;
// broadcasting-reduction is the caller's job.
func (a *Array) AddInPlace(src *Array) error {
	if !a.shape.Equal(src.shape) {
		return fmt.Errorf("accumulate: shape mismatch %v vs %v", a.shape, src.shape)
	}
	for i, v := range src.data {
		a.data[i] += v
	}
	return nil
}

// Fill sets every element of a to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// String renders the array in nested-bracket form, e.g. [[1 2] [3 4]].
func (a *Array) String() string {
	if len(a.shape) == 0 {
		return fmt.Sprintf("%g", a.data[0])
	}
	var sb strings.Builder
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, offset int) {
	strides := a.shape.ComputeStrides()
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if dim == len(a.shape)-1 {
			fmt.Fprintf(sb, "%g", a.data[offset+i])
		} else {
			a.format(sb, dim+1, offset+i*strides[dim])
		}
	}
	sb.WriteByte(']')
}
