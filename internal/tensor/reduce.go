package tensor

import "fmt"

// Sum adds every element of a into a 0-d array.
func Sum(a *Array) *Array {
	var sum float64
	for _, v := range a.data {
		sum += v
	}
	return Scalar(sum)
}

// SumAxes sums a along the given axes (negative axes count from the end).
// With no axes every dimension is reduced. If keepDims is true the reduced
// dimensions stay in the result with size 1.
//
// Example:
//
//	x := tensor.Zeros(Shape{2, 3, 4})
//	y, _ := tensor.SumAxes(x, true, -1)   // shape: [2, 3, 1]
//	z, _ := tensor.SumAxes(x, false, 0, 2) // shape: [3]
func SumAxes(a *Array, keepDims bool, axes ...int) (*Array, error) {
	norm, err := a.shape.NormalizeAxes(axes...)
	if err != nil {
		return nil, err
	}

	reduced := make([]bool, len(a.shape))
	for _, axis := range norm {
		reduced[axis] = true
	}

	// Accumulate into the keep-dims layout first, then drop dimensions.
	keepShape := a.shape.Clone()
	for axis, r := range reduced {
		if r {
			keepShape[axis] = 1
		}
	}

	out := &Array{shape: keepShape, data: make([]float64, keepShape.NumElements())}
	if len(a.shape) > 0 {
		inStrides := a.shape.ComputeStrides()
		outStrides := broadcastStrides(keepShape, a.shape)
		for i, v := range a.data {
			out.data[flatIndex(i, inStrides, outStrides)] += v
		}
	} else {
		out.data[0] = a.data[0]
	}

	if !keepDims {
		squeezed := make(Shape, 0, len(keepShape))
		for axis, dim := range keepShape {
			if !reduced[axis] {
				squeezed = append(squeezed, dim)
			}
		}
		out.shape = squeezed
	}
	return out, nil
}

// Reshape returns a copy of a with a new shape holding the same number of elements.
func Reshape(a *Array, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(a.data) {
		return nil, fmt.Errorf("cannot reshape %v (%d elements) to %v (%d elements)",
			a.shape, len(a.data), shape, shape.NumElements())
	}
	return &Array{shape: shape.Clone(), data: a.Data()}, nil
}

// BroadcastTo expands a to the target shape by repeating size-1 and missing
// leading dimensions. The target must be the broadcast of a's shape with itself.
func BroadcastTo(a *Array, target Shape) (*Array, error) {
	if a.shape.Equal(target) {
		return a.Clone(), nil
	}

	outShape, _, err := BroadcastShapes(a.shape, target)
	if err != nil {
		return nil, err
	}
	if !outShape.Equal(target) {
		return nil, fmt.Errorf("cannot broadcast %v to %v", a.shape, target)
	}

	out := &Array{shape: target.Clone(), data: make([]float64, target.NumElements())}
	outStrides := target.ComputeStrides()
	inStrides := broadcastStrides(a.shape, target)
	for i := range out.data {
		out.data[i] = a.data[flatIndex(i, outStrides, inStrides)]
	}
	return out, nil
}

// ReduceTo is the inverse of BroadcastTo: it sums grad over every dimension
// that broadcasting would have expanded to turn target into grad's shape.
//
// Example:
//
//	Forward: a[3,1] + b[4] -> c[3,4]
//	Backward: ReduceTo(grad_c[3,4], [3,1]) sums dim 1 -> [3,1]
//	          ReduceTo(grad_c[3,4], [4])   sums dim 0 -> [4]
func ReduceTo(grad *Array, target Shape) (*Array, error) {
	if grad.shape.Equal(target) {
		return grad.Clone(), nil
	}

	gradDims := len(grad.shape)
	targetDims := len(target)
	if targetDims > gradDims {
		return nil, fmt.Errorf("cannot reduce %v to higher-rank shape %v", grad.shape, target)
	}

	// Leading dimensions absent from target, plus size-1 target dimensions
	// that were expanded.
	lead := gradDims - targetDims
	axes := make([]int, 0, gradDims)
	for i := 0; i < gradDims; i++ {
		if i < lead {
			axes = append(axes, i)
			continue
		}
		td := target[i-lead]
		switch {
		case td == grad.shape[i]:
		case td == 1:
			axes = append(axes, i)
		default:
			return nil, fmt.Errorf("cannot reduce %v to %v (dimension %d: %d vs %d)",
				grad.shape, target, i, grad.shape[i], td)
		}
	}

	summed, err := SumAxes(grad, true, axes...)
	if err != nil {
		return nil, err
	}
	return Reshape(summed, target)
}
