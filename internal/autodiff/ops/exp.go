package ops

import "github.com/born-ml/minigrad/internal/tensor"

// ExpOp represents the exponential operation: y = exp(x).
//
// Backward pass:
//   - d(exp(x))/dx = exp(x) = y
//   - grad_input = grad_output * output
type ExpOp struct {
	output *tensor.Array
}

// NewExpOp creates a new ExpOp.
func NewExpOp(output *tensor.Array) *ExpOp {
	return &ExpOp{output: output}
}

// Name returns "exp".
func (op *ExpOp) Name() string { return "exp" }

// Backward computes input gradient for exp.
func (op *ExpOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{must(tensor.Mul(outputGrad, op.output))}
}
