package ops

import "github.com/born-ml/minigrad/internal/tensor"

// MulOp represents an element-wise multiplication operation: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
//
// a and b are the original operand values; the products broadcast them to
// the output shape.
type MulOp struct {
	a, b *tensor.Array
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b *tensor.Array) *MulOp {
	return &MulOp{a: a, b: b}
}

// Name returns "mul".
func (op *MulOp) Name() string { return "mul" }

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	gradA := must(tensor.Mul(outputGrad, op.b))
	gradB := must(tensor.Mul(outputGrad, op.a))
	return []*tensor.Array{gradA, gradB}
}
