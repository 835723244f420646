// Package ops defines the local derivative rules used by the autodiff engine.
//
// Each rule implements the Operation interface. A rule is created by the
// graph builder when the forward value is computed, closes over whatever
// forward values its derivative needs, and turns the gradient of the
// operation's output into one contribution per input.
//
// Contributions are returned at the OUTPUT shape of the operation, i.e. the
// broadcast shape. Reducing them back to each input's own shape is done once,
// generically, by the backward driver. Rules never reduce.
//
// Supported operations:
//   - AddOp, SubOp, MulOp, DivOp: binary element-wise with broadcasting
//   - PowOp: element-wise power with a constant exponent
//   - NegOp, ExpOp, LogOp, TanhOp, ReLUOp, SigmoidOp: unary element-wise
//   - SumOp, MeanOp: reductions
package ops

import "github.com/born-ml/minigrad/internal/tensor"

// Operation is the backward rule recorded on a non-leaf node.
type Operation interface {
	// Name identifies the operation (e.g. "add", "sum") for debugging tools.
	Name() string

	// Backward computes one gradient contribution per input, in input order,
	// given the gradient accumulated on the operation's output.
	//
	// Example for AddOp:
	//   outputGrad: dL/d(a+b), shape of a+b
	//   returns: [dL/d(a+b), dL/d(a+b)] (both at the shape of a+b)
	Backward(outputGrad *tensor.Array) []*tensor.Array
}
