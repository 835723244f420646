// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built graph of Nodes.
//
// Architecture:
//   - Node: value, accumulated gradient, parents, local backward rule
//   - Graph builder: every operation (Add, Mul, Sum...) computes its forward
//     value eagerly and returns a new Node recording its operands and an
//     ops.Operation rule
//   - Scheduler: TopoOrder walks the parent closure of a root once and
//     returns nodes with every dependent before its dependencies
//   - Backward driver: seeds the root, applies each rule in that order and
//     reduces every contribution to its parent's shape before accumulating
//
// Usage:
//
//	a := autodiff.Scalar(2, true)
//	b := autodiff.Scalar(3, true)
//	c := autodiff.Must(autodiff.Mul(a, b))
//	d := autodiff.Must(autodiff.Add(c, a)) // d = a*b + a
//
//	if err := autodiff.Backward(d); err != nil { ... }
//	fmt.Println(a.Grad()) // b + 1 = 4
//	fmt.Println(b.Grad()) // a = 2
//
// Shape errors are reported when an operation is built, never during
// Backward. Gradients accumulate across Backward calls until ZeroGrad.
package autodiff

import (
	"math"

	"github.com/born-ml/minigrad/internal/autodiff/ops"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Must returns n, panicking if err is non-nil. It is meant for model code
// whose shapes are known to be valid.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// binary validates operands, runs the broadcasting kernel and wires the result.
func binary(
	name string,
	a, b *Node,
	kernel func(x, y *tensor.Array) (*tensor.Array, error),
	rule func() ops.Operation,
) (*Node, error) {
	if err := checkOperands(name, a, b); err != nil {
		return nil, err
	}
	out, err := kernel(a.value, b.value)
	if err != nil {
		return nil, shapeError(name, err)
	}
	return newNode(out, rule(), false, a, b), nil
}

// Add performs element-wise addition with broadcasting: a + b.
func Add(a, b *Node) (*Node, error) {
	return binary("add", a, b, tensor.Add, func() ops.Operation { return ops.NewAddOp() })
}

// Sub performs element-wise subtraction with broadcasting: a - b.
func Sub(a, b *Node) (*Node, error) {
	return binary("sub", a, b, tensor.Sub, func() ops.Operation { return ops.NewSubOp() })
}

// Mul performs element-wise multiplication with broadcasting: a * b.
func Mul(a, b *Node) (*Node, error) {
	return binary("mul", a, b, tensor.Mul, func() ops.Operation {
		return ops.NewMulOp(a.value, b.value)
	})
}

// Div performs element-wise division with broadcasting: a / b.
//
// Division by exactly zero is rejected with ErrDomain instead of producing
// an infinity. Shape compatibility is checked first.
func Div(a, b *Node) (*Node, error) {
	if err := checkOperands("div", a, b); err != nil {
		return nil, err
	}
	if _, _, err := tensor.BroadcastShapes(a.value.Shape(), b.value.Shape()); err != nil {
		return nil, shapeError("div", err)
	}
	if idx := b.value.IndexFunc(func(v float64) bool { return v == 0 }); idx >= 0 {
		return nil, domainError("div", "division by zero (divisor element %d)", idx)
	}
	return binary("div", a, b, tensor.Div, func() ops.Operation {
		return ops.NewDivOp(a.value, b.value)
	})
}

// Pow raises every element of a to the constant exponent n.
//
// Returns ErrDomain for a negative base with a non-integer exponent, which
// has no real result, and for a zero base whenever n < 1 (n != 0): either
// the value 0^n or the derivative n*0^(n-1) is infinite.
func Pow(a *Node, n float64) (*Node, error) {
	if err := checkOperands("pow", a); err != nil {
		return nil, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, domainError("pow", "exponent must be finite, got %v", n)
	}
	if n < 1 && n != 0 {
		if idx := a.value.IndexFunc(func(v float64) bool { return v == 0 }); idx >= 0 {
			return nil, domainError("pow", "zero base (element %d) with exponent %v has no finite derivative", idx, n)
		}
	}
	if n != math.Trunc(n) {
		if idx := a.value.IndexFunc(func(v float64) bool { return v < 0 }); idx >= 0 {
			return nil, domainError("pow", "negative base (element %d) with non-integer exponent %v", idx, n)
		}
	}
	return newNode(tensor.Pow(a.value, n), ops.NewPowOp(a.value, n), false, a), nil
}

// Neg returns -a.
func Neg(a *Node) (*Node, error) {
	if err := checkOperands("neg", a); err != nil {
		return nil, err
	}
	return newNode(tensor.Neg(a.value), ops.NewNegOp(), false, a), nil
}

// Sum reduces every element of a to a 0-d scalar.
func Sum(a *Node) (*Node, error) {
	return SumAxes(a, false)
}

// SumAxes sums a along the given axes (negative axes count from the end).
// With no axes every dimension is reduced. keepDims keeps reduced
// dimensions with size 1.
func SumAxes(a *Node, keepDims bool, axes ...int) (*Node, error) {
	if err := checkOperands("sum", a); err != nil {
		return nil, err
	}
	norm, err := a.value.Shape().NormalizeAxes(axes...)
	if err != nil {
		return nil, shapeError("sum", err)
	}
	out, err := tensor.SumAxes(a.value, keepDims, norm...)
	if err != nil {
		return nil, shapeError("sum", err)
	}
	return newNode(out, ops.NewSumOp(a.value.Shape(), norm), false, a), nil
}

// Mean averages every element of a into a 0-d scalar.
func Mean(a *Node) (*Node, error) {
	return MeanAxes(a, false)
}

// MeanAxes averages a along the given axes, following SumAxes conventions.
func MeanAxes(a *Node, keepDims bool, axes ...int) (*Node, error) {
	if err := checkOperands("mean", a); err != nil {
		return nil, err
	}
	norm, err := a.value.Shape().NormalizeAxes(axes...)
	if err != nil {
		return nil, shapeError("mean", err)
	}
	sum, err := tensor.SumAxes(a.value, keepDims, norm...)
	if err != nil {
		return nil, shapeError("mean", err)
	}
	count := a.value.NumElements() / sum.NumElements()
	out := tensor.Scale(sum, 1/float64(count))
	return newNode(out, ops.NewMeanOp(a.value.Shape(), norm), false, a), nil
}

// Exp computes element-wise e^a.
func Exp(a *Node) (*Node, error) {
	if err := checkOperands("exp", a); err != nil {
		return nil, err
	}
	out := tensor.Map(a.value, math.Exp)
	return newNode(out, ops.NewExpOp(out), false, a), nil
}

// Log computes element-wise natural logarithm.
// Every element must be strictly positive.
func Log(a *Node) (*Node, error) {
	if err := checkOperands("log", a); err != nil {
		return nil, err
	}
	if idx := a.value.IndexFunc(func(v float64) bool { return v <= 0 }); idx >= 0 {
		return nil, domainError("log", "non-positive value at element %d", idx)
	}
	return newNode(tensor.Map(a.value, math.Log), ops.NewLogOp(a.value), false, a), nil
}

// Tanh applies hyperbolic tangent element-wise.
func Tanh(a *Node) (*Node, error) {
	if err := checkOperands("tanh", a); err != nil {
		return nil, err
	}
	out := tensor.Map(a.value, math.Tanh)
	return newNode(out, ops.NewTanhOp(out), false, a), nil
}

// ReLU applies max(0, x) element-wise.
func ReLU(a *Node) (*Node, error) {
	if err := checkOperands("relu", a); err != nil {
		return nil, err
	}
	out := tensor.Map(a.value, func(x float64) float64 { return math.Max(0, x) })
	return newNode(out, ops.NewReLUOp(a.value), false, a), nil
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise.
func Sigmoid(a *Node) (*Node, error) {
	if err := checkOperands("sigmoid", a); err != nil {
		return nil, err
	}
	out := tensor.Map(a.value, func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) })
	return newNode(out, ops.NewSigmoidOp(out), false, a), nil
}
