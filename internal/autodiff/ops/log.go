package ops

import "github.com/born-ml/minigrad/internal/tensor"

// LogOp represents the natural logarithm: y = log(x).
//
// Backward pass:
//   - d(log(x))/dx = 1/x
//   - grad_input = grad_output / input
type LogOp struct {
	input *tensor.Array
}

// NewLogOp creates a new LogOp.
func NewLogOp(input *tensor.Array) *LogOp {
	return &LogOp{input: input}
}

// Name returns "log".
func (op *LogOp) Name() string { return "log" }

// Backward computes input gradient for log.
func (op *LogOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{must(tensor.Div(outputGrad, op.input))}
}
