// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/minigrad/internal/tensor"
)

// Array is a dense n-dimensional float64 array.
type Array = tensor.Array

// Shape is the size of each dimension. An empty Shape is a 0-d scalar.
type Shape = tensor.Shape

// FromSlice creates an Array holding a copy of data.
// len(data) must equal the product of shape.
func FromSlice(data []float64, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a 0-d Array.
func Scalar(v float64) *Array {
	return tensor.Scalar(v)
}

// Vector creates a 1-d Array.
func Vector(values ...float64) *Array {
	return tensor.Vector(values...)
}

// Zeros creates an Array filled with zeros.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Ones creates an Array filled with ones.
func Ones(shape Shape) *Array {
	return tensor.Ones(shape)
}

// Full creates an Array filled with value.
func Full(shape Shape, value float64) *Array {
	return tensor.Full(shape, value)
}

// BroadcastShapes returns the broadcast result of a and b.
// The bool reports whether either side needed expanding.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return tensor.Add(a, b)
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return tensor.Sub(a, b)
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return tensor.Mul(a, b)
}

// Div returns a / b with broadcasting.
func Div(a, b *Array) (*Array, error) {
	return tensor.Div(a, b)
}

// Sum reduces all elements to a 0-d Array.
func Sum(a *Array) *Array {
	return tensor.Sum(a)
}

// SumAxes sums along the given axes.
func SumAxes(a *Array, keepDims bool, axes ...int) (*Array, error) {
	return tensor.SumAxes(a, keepDims, axes...)
}

// ReduceTo sums a broadcast gradient back down to target.
func ReduceTo(grad *Array, target Shape) (*Array, error) {
	return tensor.ReduceTo(grad, target)
}
