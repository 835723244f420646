package ops

import "github.com/born-ml/minigrad/internal/tensor"

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
//
// The gradient at exactly 0 is taken as 0.
type ReLUOp struct {
	input *tensor.Array
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input *tensor.Array) *ReLUOp {
	return &ReLUOp{input: input}
}

// Name returns "relu".
func (op *ReLUOp) Name() string { return "relu" }

// Backward computes input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	mask := tensor.Map(op.input, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
	return []*tensor.Array{must(tensor.Mul(outputGrad, mask))}
}
