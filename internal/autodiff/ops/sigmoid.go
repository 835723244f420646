package ops

import "github.com/born-ml/minigrad/internal/tensor"

// SigmoidOp represents sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
//
// Backward pass:
//   - d(σ(x))/dx = σ(x) * (1 - σ(x))
type SigmoidOp struct {
	output *tensor.Array
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(output *tensor.Array) *SigmoidOp {
	return &SigmoidOp{output: output}
}

// Name returns "sigmoid".
func (op *SigmoidOp) Name() string { return "sigmoid" }

// Backward computes input gradient for sigmoid.
func (op *SigmoidOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	local := tensor.Map(op.output, func(s float64) float64 { return s * (1 - s) })
	return []*tensor.Array{must(tensor.Mul(outputGrad, local))}
}
