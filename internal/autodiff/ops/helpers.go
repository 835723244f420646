package ops

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/tensor"
)

// must unwraps a kernel result whose shapes were validated at forward time.
// A failure here means the graph was corrupted after construction.
func must(a *tensor.Array, err error) *tensor.Array {
	if err != nil {
		panic(fmt.Sprintf("ops: shape invariant violated during backward: %v", err))
	}
	return a
}

// expandReduced broadcasts a reduction's output gradient back to the input
// shape. keepShape is the input shape with every reduced axis set to 1.
func expandReduced(outputGrad *tensor.Array, keepShape, inputShape tensor.Shape) *tensor.Array {
	grad := must(tensor.Reshape(outputGrad, keepShape))
	return must(tensor.BroadcastTo(grad, inputShape))
}
