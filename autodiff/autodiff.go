// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Every operation computes its value immediately and returns a Node that
// remembers its operands. Backward then walks that graph from the root and
// accumulates the gradient of the root into every node that requires one.
//
// Example:
//
//	import (
//	    "github.com/born-ml/minigrad/autodiff"
//	)
//
//	func main() {
//	    a := autodiff.Scalar(2, true)
//	    b := autodiff.Scalar(3, true)
//
//	    c := autodiff.Must(autodiff.Mul(a, b))
//	    d := autodiff.Must(autodiff.Add(c, a)) // d = a*b + a
//
//	    if err := autodiff.Backward(d); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(a.Grad(), b.Grad()) // 4 2
//	}
package autodiff

import (
	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/tensor"
)

// Node is a value in the computation graph.
type Node = autodiff.Node

// Error describes a failed operation. Match its kind with errors.Is
// against ErrShape, ErrDomain or ErrGraphIntegrity.
type Error = autodiff.Error

// Error kinds.
var (
	ErrShape          = autodiff.ErrShape
	ErrDomain         = autodiff.ErrDomain
	ErrGraphIntegrity = autodiff.ErrGraphIntegrity
)

// NewLeaf creates a leaf node holding a copy of value.
func NewLeaf(value *tensor.Array, requiresGrad bool) *Node {
	return autodiff.NewLeaf(value, requiresGrad)
}

// Scalar creates a 0-d leaf node.
func Scalar(v float64, requiresGrad bool) *Node {
	return autodiff.Scalar(v, requiresGrad)
}

// FromSlice creates a leaf node from data laid out in shape.
func FromSlice(data []float64, shape tensor.Shape, requiresGrad bool) (*Node, error) {
	return autodiff.FromSlice(data, shape, requiresGrad)
}

// Detach returns a leaf sharing n's value that does not require gradients.
func Detach(n *Node) *Node {
	return autodiff.Detach(n)
}

// Must panics if err is non-nil.
func Must(n *Node, err error) *Node {
	return autodiff.Must(n, err)
}

// Add returns a + b with broadcasting.
func Add(a, b *Node) (*Node, error) { return autodiff.Add(a, b) }

// Sub returns a - b with broadcasting.
func Sub(a, b *Node) (*Node, error) { return autodiff.Sub(a, b) }

// Mul returns a * b with broadcasting.
func Mul(a, b *Node) (*Node, error) { return autodiff.Mul(a, b) }

// Div returns a / b with broadcasting. A zero divisor is an ErrDomain.
func Div(a, b *Node) (*Node, error) { return autodiff.Div(a, b) }

// Pow raises a to the constant exponent n.
func Pow(a *Node, n float64) (*Node, error) { return autodiff.Pow(a, n) }

// Neg returns -a.
func Neg(a *Node) (*Node, error) { return autodiff.Neg(a) }

// Sum reduces a to a 0-d scalar.
func Sum(a *Node) (*Node, error) { return autodiff.Sum(a) }

// SumAxes sums a along axes.
func SumAxes(a *Node, keepDims bool, axes ...int) (*Node, error) {
	return autodiff.SumAxes(a, keepDims, axes...)
}

// Mean averages a into a 0-d scalar.
func Mean(a *Node) (*Node, error) { return autodiff.Mean(a) }

// MeanAxes averages a along axes.
func MeanAxes(a *Node, keepDims bool, axes ...int) (*Node, error) {
	return autodiff.MeanAxes(a, keepDims, axes...)
}

// Exp computes e^a.
func Exp(a *Node) (*Node, error) { return autodiff.Exp(a) }

// Log computes ln(a). Non-positive input is an ErrDomain.
func Log(a *Node) (*Node, error) { return autodiff.Log(a) }

// Tanh computes tanh(a).
func Tanh(a *Node) (*Node, error) { return autodiff.Tanh(a) }

// ReLU computes max(0, a).
func ReLU(a *Node) (*Node, error) { return autodiff.ReLU(a) }

// Sigmoid computes 1 / (1 + e^-a).
func Sigmoid(a *Node) (*Node, error) { return autodiff.Sigmoid(a) }

// Backward accumulates d(root)/d(node) into every reachable node that
// requires gradients. root must be a 0-d scalar.
func Backward(root *Node) error {
	return autodiff.Backward(root)
}

// BackwardWithSeed is Backward with an explicit upstream gradient whose
// shape matches root.
func BackwardWithSeed(root *Node, seed *tensor.Array) error {
	return autodiff.BackwardWithSeed(root, seed)
}

// ZeroGrad resets the gradient of every node reachable from root.
func ZeroGrad(root *Node) error {
	return autodiff.ZeroGrad(root)
}

// TopoOrder returns every node reachable from root, dependents first.
func TopoOrder(root *Node) ([]*Node, error) {
	return autodiff.TopoOrder(root)
}
