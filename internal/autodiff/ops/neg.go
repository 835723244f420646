package ops

import "github.com/born-ml/minigrad/internal/tensor"

// NegOp represents negation: output = -x.
type NegOp struct{}

// NewNegOp creates a new NegOp.
func NewNegOp() *NegOp {
	return &NegOp{}
}

// Name returns "neg".
func (op *NegOp) Name() string { return "neg" }

// Backward returns -outputGrad.
func (op *NegOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Neg(outputGrad)}
}
