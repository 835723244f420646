package tensor

import "math"

// Map applies f to every element of a and returns the result as a new array.
func Map(a *Array, f func(float64) float64) *Array {
	out := &Array{shape: a.shape.Clone(), data: make([]float64, len(a.data))}
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// ZipWith combines a and b element-wise with NumPy broadcasting.
// The result has the broadcast shape of the two operands.
func ZipWith(a, b *Array, f func(x, y float64) float64) (*Array, error) {
	outShape, needsBroadcast, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}

	out := &Array{shape: outShape, data: make([]float64, outShape.NumElements())}

	// Fast path: identical shapes, no index arithmetic.
	if !needsBroadcast {
		for i := range out.data {
			out.data[i] = f(a.data[i], b.data[i])
		}
		return out, nil
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)
	for i := range out.data {
		out.data[i] = f(a.data[flatIndex(i, outStrides, aStrides)], b.data[flatIndex(i, outStrides, bStrides)])
	}
	return out, nil
}

// Add computes a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return ZipWith(a, b, func(x, y float64) float64 { return x + y })
}

// Sub computes a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return ZipWith(a, b, func(x, y float64) float64 { return x - y })
}

// Mul computes a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return ZipWith(a, b, func(x, y float64) float64 { return x * y })
}

// Div computes a / b with broadcasting. Division by zero follows IEEE-754;
// callers that must reject it check the divisor first.
func Div(a, b *Array) (*Array, error) {
	return ZipWith(a, b, func(x, y float64) float64 { return x / y })
}

// Neg returns -a.
func Neg(a *Array) *Array {
	return Map(a, func(x float64) float64 { return -x })
}

// Scale returns k * a.
func Scale(a *Array, k float64) *Array {
	return Map(a, func(x float64) float64 { return k * x })
}

// Pow raises every element of a to the constant power n.
func Pow(a *Array, n float64) *Array {
	return Map(a, func(x float64) float64 { return math.Pow(x, n) })
}
