package ops

import "github.com/born-ml/minigrad/internal/tensor"

// TanhOp represents hyperbolic tangent activation: y = tanh(x).
//
// Backward pass:
//   - d(tanh(x))/dx = 1 - tanh²(x) = 1 - y²
type TanhOp struct {
	output *tensor.Array
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(output *tensor.Array) *TanhOp {
	return &TanhOp{output: output}
}

// Name returns "tanh".
func (op *TanhOp) Name() string { return "tanh" }

// Backward computes input gradient for tanh.
func (op *TanhOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	local := tensor.Map(op.output, func(y float64) float64 { return 1 - y*y })
	return []*tensor.Array{must(tensor.Mul(outputGrad, local))}
}
