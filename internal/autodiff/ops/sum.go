package ops

import "github.com/born-ml/minigrad/internal/tensor"

// SumOp represents a sum reduction over one or more axes.
//
// Forward:
//
//	y = sum(x, axes, keepDims)
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape)
//
// Every element of x contributes with weight 1, so each receives an identical
// copy of the gradient along the summed axes. When keepDims was false the
// reduced axes are re-inserted as size 1 before broadcasting.
type SumOp struct {
	inputShape tensor.Shape
	keepShape  tensor.Shape
}

// NewSumOp creates a new SumOp. axes must already be normalized
// (non-negative, in range); an empty list means every axis was reduced.
func NewSumOp(inputShape tensor.Shape, axes []int) *SumOp {
	return &SumOp{
		inputShape: inputShape.Clone(),
		keepShape:  keepDimsShape(inputShape, axes),
	}
}

// Name returns "sum".
func (op *SumOp) Name() string { return "sum" }

// Backward broadcasts the output gradient back to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{expandReduced(outputGrad, op.keepShape, op.inputShape)}
}

// keepDimsShape returns shape with every listed axis set to 1.
// An empty axes list reduces every axis.
func keepDimsShape(shape tensor.Shape, axes []int) tensor.Shape {
	keep := shape.Clone()
	if len(axes) == 0 {
		for i := range keep {
			keep[i] = 1
		}
		return keep
	}
	for _, axis := range axes {
		keep[axis] = 1
	}
	return keep
}
