package ops

import "github.com/born-ml/minigrad/internal/tensor"

// AddOp represents an element-wise addition operation: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
type AddOp struct{}

// NewAddOp creates a new AddOp.
func NewAddOp() *AddOp {
	return &AddOp{}
}

// Name returns "add".
func (op *AddOp) Name() string { return "add" }

// Backward passes the output gradient through to both inputs.
func (op *AddOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{outputGrad.Clone(), outputGrad.Clone()}
}
