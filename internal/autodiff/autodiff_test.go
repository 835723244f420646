package autodiff_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, data []float64, shape tensor.Shape) *autodiff.Node {
	t.Helper()
	n, err := autodiff.FromSlice(data, shape, true)
	require.NoError(t, err)
	return n
}

// TestLeaf_Creation tests leaf construction.
func TestLeaf_Creation(t *testing.T) {
	x := leaf(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	assert.True(t, x.IsLeaf())
	assert.True(t, x.RequiresGrad())
	assert.Equal(t, "leaf", x.Op())
	assert.Empty(t, x.Parents())
	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, tensor.Shape{2, 3}, x.Grad().Shape())
	assert.Equal(t, make([]float64, 6), x.Grad().Data())

	_, err := autodiff.FromSlice([]float64{1, 2}, tensor.Shape{3}, true)
	require.ErrorIs(t, err, autodiff.ErrShape)
}

// TestLeaf_CopiesValue tests that leaves do not alias the caller's array.
func TestLeaf_CopiesValue(t *testing.T) {
	src := tensor.Zeros(tensor.Shape{2})
	x := autodiff.NewLeaf(src, true)
	src.Fill(7)
	assert.Equal(t, []float64{0, 0}, x.Value().Data())
}

// TestBackward_Scenario tests d = a*b + a at a=2, b=3.
func TestBackward_Scenario(t *testing.T) {
	a := autodiff.Scalar(2, true)
	b := autodiff.Scalar(3, true)
	c := autodiff.Must(autodiff.Mul(a, b))
	d := autodiff.Must(autodiff.Add(c, a))

	assert.InDelta(t, 8.0, d.Item(), 0)

	require.NoError(t, autodiff.Backward(d))

	assert.InDelta(t, 4.0, a.Grad().Item(), 1e-12) // b + 1
	assert.InDelta(t, 2.0, b.Grad().Item(), 1e-12) // a
	assert.InDelta(t, 1.0, d.Grad().Item(), 1e-12)
	assert.InDelta(t, 1.0, c.Grad().Item(), 1e-12)
}

// TestBackward_FanOut tests that a node used twice receives both contributions.
func TestBackward_FanOut(t *testing.T) {
	x := autodiff.Scalar(3, true)
	y1 := autodiff.Must(autodiff.Mul(x, autodiff.Scalar(2, false))) // 2x
	y2 := autodiff.Must(autodiff.Pow(x, 2))                         // x²
	z := autodiff.Must(autodiff.Add(y1, y2))

	require.NoError(t, autodiff.Backward(z))

	// dz/dx = 2 + 2x = 8
	assert.InDelta(t, 8.0, x.Grad().Item(), 1e-12)
}

// TestBackward_SelfMultiply tests x*x, where the same node is both operands.
func TestBackward_SelfMultiply(t *testing.T) {
	x := leaf(t, []float64{11, -19, 7}, tensor.Shape{3})
	loss := autodiff.Must(autodiff.Sum(autodiff.Must(autodiff.Mul(x, x))))

	require.NoError(t, autodiff.Backward(loss))
	assert.Equal(t, []float64{22, -38, 14}, x.Grad().Data())
}

// TestBackward_BroadcastAdd tests that a broadcast operand receives the
// column sums of the upstream gradient.
func TestBackward_BroadcastAdd(t *testing.T) {
	m := leaf(t, make([]float64, 12), tensor.Shape{3, 4})
	v := leaf(t, []float64{1, 2, 3, 4}, tensor.Shape{4})

	s := autodiff.Must(autodiff.Add(m, v))
	assert.Equal(t, tensor.Shape{3, 4}, s.Shape())

	require.NoError(t, autodiff.Backward(autodiff.Must(autodiff.Sum(s))))

	assert.Equal(t, tensor.Shape{4}, v.Grad().Shape())
	assert.Equal(t, []float64{3, 3, 3, 3}, v.Grad().Data())
	assert.Equal(t, tensor.Ones(tensor.Shape{3, 4}).Data(), m.Grad().Data())
}

// TestBackwardWithSeed_Add mirrors an explicit-seed add with broadcasting.
func TestBackwardWithSeed_Add(t *testing.T) {
	t1 := leaf(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	t2 := leaf(t, []float64{7, 8, 9}, tensor.Shape{3})
	t3 := leaf(t, []float64{7, 8, 9}, tensor.Shape{1, 3})

	sum := autodiff.Must(autodiff.Add(t1, t2))
	assert.Equal(t, []float64{8, 10, 12, 11, 13, 15}, sum.Value().Data())
	require.NoError(t, autodiff.BackwardWithSeed(sum, tensor.Ones(tensor.Shape{2, 3})))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, t1.Grad().Data())
	assert.Equal(t, []float64{2, 2, 2}, t2.Grad().Data())

	sum2 := autodiff.Must(autodiff.Add(t1, t3))
	require.NoError(t, autodiff.BackwardWithSeed(sum2, tensor.Ones(tensor.Shape{2, 3})))
	assert.Equal(t, tensor.Shape{1, 3}, t3.Grad().Shape())
	assert.Equal(t, []float64{2, 2, 2}, t3.Grad().Data())

	seed := tensor.Vector(-1, -2, -3)
	a := leaf(t, []float64{1, 2, 3}, tensor.Shape{3})
	b := leaf(t, []float64{4, 5, 6}, tensor.Shape{3})
	c := autodiff.Must(autodiff.Add(a, b))
	require.NoError(t, autodiff.BackwardWithSeed(c, seed))
	assert.Equal(t, []float64{-1, -2, -3}, a.Grad().Data())
	assert.Equal(t, []float64{-1, -2, -3}, b.Grad().Data())

	err := autodiff.BackwardWithSeed(c, tensor.Vector(1, 2))
	require.ErrorIs(t, err, autodiff.ErrShape)
}

// TestBackward_SumWithSeed tests sum backward with a non-unit seed.
func TestBackward_SumWithSeed(t *testing.T) {
	t1 := leaf(t, []float64{1, 2, 3}, tensor.Shape{3})
	t2 := autodiff.Must(autodiff.Sum(t1))
	assert.InDelta(t, 6.0, t2.Item(), 0)

	require.NoError(t, autodiff.BackwardWithSeed(t2, tensor.Scalar(3)))
	assert.Equal(t, []float64{3, 3, 3}, t1.Grad().Data())
}

// TestBackward_NonScalarRoot tests that a non-scalar root needs a seed.
func TestBackward_NonScalarRoot(t *testing.T) {
	x := leaf(t, []float64{1, 2}, tensor.Shape{2})
	y := autodiff.Must(autodiff.Mul(x, x))

	err := autodiff.Backward(y)
	require.ErrorIs(t, err, autodiff.ErrDomain)

	var aerr *autodiff.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "backward", aerr.Op)
}

// TestBackward_RootWithoutGrad tests backward on a graph with no tracked leaves.
func TestBackward_RootWithoutGrad(t *testing.T) {
	a := autodiff.Scalar(1, false)
	b := autodiff.Scalar(2, false)
	c := autodiff.Must(autodiff.Add(a, b))

	assert.False(t, c.RequiresGrad())
	require.ErrorIs(t, autodiff.Backward(c), autodiff.ErrDomain)
}

// TestBackward_NoGradLeafUntouched tests that constants never accumulate.
func TestBackward_NoGradLeafUntouched(t *testing.T) {
	x := autodiff.Scalar(2, true)
	k := autodiff.Scalar(5, false)
	y := autodiff.Must(autodiff.Mul(x, k))

	require.True(t, y.RequiresGrad())
	require.NoError(t, autodiff.Backward(y))

	assert.InDelta(t, 5.0, x.Grad().Item(), 1e-12)
	assert.InDelta(t, 0.0, k.Grad().Item(), 0)
}

// TestBackward_RepeatedAccumulates tests that gradients add up across calls
// without ZeroGrad, exactly once per call.
func TestBackward_RepeatedAccumulates(t *testing.T) {
	x := autodiff.Scalar(3, true)
	h := autodiff.Must(autodiff.Mul(x, x))
	y := autodiff.Must(autodiff.Mul(h, autodiff.Scalar(2, false))) // 2x²

	require.NoError(t, autodiff.Backward(y))
	assert.InDelta(t, 12.0, x.Grad().Item(), 1e-12)

	require.NoError(t, autodiff.Backward(y))
	assert.InDelta(t, 24.0, x.Grad().Item(), 1e-12)
	assert.InDelta(t, 4.0, h.Grad().Item(), 1e-12)
}

// TestZeroGrad_Idempotent tests that zero_grad + backward is repeatable.
func TestZeroGrad_Idempotent(t *testing.T) {
	a := leaf(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := leaf(t, []float64{0.5, -1, 2}, tensor.Shape{3})
	prod := autodiff.Must(autodiff.Mul(a, b))
	loss := autodiff.Must(autodiff.Sum(autodiff.Must(autodiff.Tanh(prod))))

	require.NoError(t, autodiff.ZeroGrad(loss))
	require.NoError(t, autodiff.Backward(loss))
	firstA, firstB := a.Grad(), b.Grad()

	require.NoError(t, autodiff.ZeroGrad(loss))
	assert.Equal(t, make([]float64, 6), a.Grad().Data())
	assert.Equal(t, make([]float64, 6), prod.Grad().Data())

	require.NoError(t, autodiff.Backward(loss))
	assert.Equal(t, firstA.Data(), a.Grad().Data())
	assert.Equal(t, firstB.Data(), b.Grad().Data())
}

// TestNode_ZeroGrad tests resetting a single node.
func TestNode_ZeroGrad(t *testing.T) {
	x := leaf(t, []float64{1, 2}, tensor.Shape{2})
	require.NoError(t, autodiff.Backward(autodiff.Must(autodiff.Sum(x))))
	assert.Equal(t, []float64{1, 1}, x.Grad().Data())

	x.ZeroGrad()
	assert.Equal(t, []float64{0, 0}, x.Grad().Data())
}

// TestOps_ShapeErrors tests eager shape validation.
func TestOps_ShapeErrors(t *testing.T) {
	a := leaf(t, make([]float64, 12), tensor.Shape{3, 4})
	b := leaf(t, make([]float64, 3), tensor.Shape{3})
	nonzero := leaf(t, []float64{1, 2, 3}, tensor.Shape{3})

	builders := map[string]func() (*autodiff.Node, error){
		"add": func() (*autodiff.Node, error) { return autodiff.Add(a, b) },
		"sub": func() (*autodiff.Node, error) { return autodiff.Sub(a, b) },
		"mul": func() (*autodiff.Node, error) { return autodiff.Mul(a, b) },
		"div": func() (*autodiff.Node, error) { return autodiff.Div(a, nonzero) },
		// Shape is checked before the zero divisor.
		"div zero divisor": func() (*autodiff.Node, error) { return autodiff.Div(a, b) },
		"sum axis":         func() (*autodiff.Node, error) { return autodiff.SumAxes(a, false, 2) },
		"sum negative":     func() (*autodiff.Node, error) { return autodiff.SumAxes(a, false, -3) },
		"sum duplicate":    func() (*autodiff.Node, error) { return autodiff.SumAxes(a, false, 1, -1) },
		"mean axis":        func() (*autodiff.Node, error) { return autodiff.MeanAxes(a, true, 5) },
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			n, err := build()
			require.ErrorIs(t, err, autodiff.ErrShape)
			assert.Nil(t, n)
		})
	}
}

// TestOps_DomainErrors tests forward-time domain checks.
func TestOps_DomainErrors(t *testing.T) {
	zero := leaf(t, []float64{1, 0}, tensor.Shape{2})
	neg := leaf(t, []float64{-2, 3}, tensor.Shape{2})
	ones := leaf(t, []float64{1, 1}, tensor.Shape{2})

	tests := []struct {
		name  string
		build func() (*autodiff.Node, error)
	}{
		{"div by zero", func() (*autodiff.Node, error) { return autodiff.Div(ones, zero) }},
		{"zero to negative power", func() (*autodiff.Node, error) { return autodiff.Pow(zero, -1) }},
		{"zero to fractional power", func() (*autodiff.Node, error) { return autodiff.Pow(zero, 0.5) }},
		{"negative base fractional power", func() (*autodiff.Node, error) { return autodiff.Pow(neg, 0.5) }},
		{"log of zero", func() (*autodiff.Node, error) { return autodiff.Log(zero) }},
		{"log of negative", func() (*autodiff.Node, error) { return autodiff.Log(neg) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.build()
			require.ErrorIs(t, err, autodiff.ErrDomain)
			assert.Nil(t, n)
		})
	}

	// Negative bases are fine with integer exponents.
	sq, err := autodiff.Pow(neg, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 9}, sq.Value().Data())

	// Zero bases are fine when n >= 1 or n == 0, and the gradient stays finite.
	for _, n := range []float64{0, 1, 1.5, 2} {
		x := leaf(t, []float64{0, 4}, tensor.Shape{2})
		y, err := autodiff.Pow(x, n)
		require.NoError(t, err, "n=%v", n)
		require.NoError(t, autodiff.Backward(autodiff.Must(autodiff.Sum(y))))
		for _, g := range x.Grad().Data() {
			assert.False(t, math.IsInf(g, 0) || math.IsNaN(g), "n=%v grad=%v", n, x.Grad())
		}
	}
}

// TestOps_ForeignNode tests that zero-value nodes are rejected.
func TestOps_ForeignNode(t *testing.T) {
	x := autodiff.Scalar(1, true)

	_, err := autodiff.Add(x, &autodiff.Node{})
	require.ErrorIs(t, err, autodiff.ErrGraphIntegrity)

	_, err = autodiff.Mul(nil, x)
	require.ErrorIs(t, err, autodiff.ErrGraphIntegrity)

	require.ErrorIs(t, autodiff.Backward(&autodiff.Node{}), autodiff.ErrGraphIntegrity)
}

// TestTopoOrder tests dependents-before-dependencies ordering.
func TestTopoOrder(t *testing.T) {
	a := autodiff.Scalar(2, true)
	b := autodiff.Scalar(3, true)
	c := autodiff.Must(autodiff.Mul(a, b))
	d := autodiff.Must(autodiff.Add(c, a))

	order, err := autodiff.TopoOrder(d)
	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Same(t, d, order[0])

	pos := make(map[*autodiff.Node]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	for _, n := range order {
		for _, p := range n.Parents() {
			assert.Less(t, pos[n], pos[p], "%v must precede its parent %v", n, p)
		}
	}

	// Deterministic across calls.
	again, err := autodiff.TopoOrder(d)
	require.NoError(t, err)
	assert.Equal(t, order, again)
}

// TestDetach tests that detached nodes stop gradient flow.
func TestDetach(t *testing.T) {
	x := autodiff.Scalar(3, true)
	y := autodiff.Must(autodiff.Mul(x, x))
	yd := autodiff.Detach(y)
	z := autodiff.Must(autodiff.Mul(yd, x)) // treated as 9x

	require.NoError(t, autodiff.Backward(z))
	assert.InDelta(t, 9.0, x.Grad().Item(), 1e-12)
	assert.InDelta(t, 0.0, y.Grad().Item(), 0)
}

// TestDetach_InvalidNode tests that Detach panics on nodes it cannot copy.
func TestDetach_InvalidNode(t *testing.T) {
	assert.Panics(t, func() { autodiff.Detach(nil) })
	assert.Panics(t, func() { autodiff.Detach(&autodiff.Node{}) })
}

// TestMean tests mean forward and backward.
func TestMean(t *testing.T) {
	x := leaf(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})

	m := autodiff.Must(autodiff.Mean(x))
	assert.InDelta(t, 2.5, m.Item(), 1e-12)

	require.NoError(t, autodiff.Backward(m))
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, x.Grad().Data())

	rows := autodiff.Must(autodiff.MeanAxes(x, false, 1))
	assert.Equal(t, []float64{1.5, 3.5}, rows.Value().Data())
}

// TestNode_String tests the debug representation.
func TestNode_String(t *testing.T) {
	x := autodiff.Scalar(1, true)
	y := autodiff.Must(autodiff.Neg(x))
	assert.Contains(t, y.String(), "neg")
	assert.Contains(t, x.String(), "leaf")
	assert.Less(t, x.ID(), y.ID())
}
