package ops

import "github.com/born-ml/minigrad/internal/tensor"

// MeanOp represents a mean reduction over one or more axes.
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape) / count
//
// where count is the number of elements averaged into each output element.
type MeanOp struct {
	inputShape tensor.Shape
	keepShape  tensor.Shape
	count      int
}

// NewMeanOp creates a new MeanOp. axes follow the same convention as NewSumOp.
func NewMeanOp(inputShape tensor.Shape, axes []int) *MeanOp {
	keep := keepDimsShape(inputShape, axes)
	return &MeanOp{
		inputShape: inputShape.Clone(),
		keepShape:  keep,
		count:      inputShape.NumElements() / keep.NumElements(),
	}
}

// Name returns "mean".
func (op *MeanOp) Name() string { return "mean" }

// Backward computes input gradient for mean.
func (op *MeanOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	grad := expandReduced(outputGrad, op.keepShape, op.inputShape)
	return []*tensor.Array{tensor.Scale(grad, 1/float64(op.count))}
}
