package ops

import (
	"math"

	"github.com/born-ml/minigrad/internal/tensor"
)

// PowOp represents raising to a constant power: output = x^n.
//
// Backward pass:
//   - d(x^n)/dx = n * x^(n-1)
//   - grad_input = grad_output * n * x^(n-1)
type PowOp struct {
	input    *tensor.Array
	exponent float64
}

// NewPowOp creates a new PowOp.
func NewPowOp(input *tensor.Array, exponent float64) *PowOp {
	return &PowOp{input: input, exponent: exponent}
}

// Name returns "pow".
func (op *PowOp) Name() string { return "pow" }

// Backward computes input gradient for pow.
func (op *PowOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	n := op.exponent
	local := tensor.Map(op.input, func(x float64) float64 {
		// n == 0 has a zero derivative everywhere, including x == 0
		// where x^(n-1) would be infinite.
		if n == 0 {
			return 0
		}
		return n * math.Pow(x, n-1)
	})
	return []*tensor.Array{must(tensor.Mul(outputGrad, local))}
}
