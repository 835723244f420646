package ops

import "github.com/born-ml/minigrad/internal/tensor"

// DivOp represents an element-wise division operation: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = outputGrad / b
//   - d(a/b)/db = -a/b², so grad_b = -outputGrad * a / b²
type DivOp struct {
	a, b *tensor.Array
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b *tensor.Array) *DivOp {
	return &DivOp{a: a, b: b}
}

// Name returns "div".
func (op *DivOp) Name() string { return "div" }

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	gradA := must(tensor.Div(outputGrad, op.b))

	bSquared := must(tensor.Mul(op.b, op.b))
	numerator := must(tensor.Mul(outputGrad, op.a))
	gradB := tensor.Neg(must(tensor.Div(numerator, bSquared)))

	return []*tensor.Array{gradA, gradB}
}
