package main

import (
	"github.com/born-ml/minigrad/autodiff"
	"github.com/born-ml/minigrad/gradcheck"
	"github.com/born-ml/minigrad/tensor"
)

type selfCheck struct {
	name   string
	loss   gradcheck.Func
	inputs []*tensor.Array
}

// selfChecks exercises every op, broadcasting binary ops across a matrix and
// a row. Unary ops square their output before summing so the upstream
// gradient is not constant.
func selfChecks() []selfCheck {
	m := mustArray([]float64{0.5, -1.2, 2.0, 1.5, 0.3, -0.7}, tensor.Shape{2, 3})
	pos := mustArray([]float64{0.5, 1.2, 2.0, 1.5, 0.3, 0.7}, tensor.Shape{2, 3})
	row := tensor.Vector(1.1, -0.4, 2.5)

	binary := func(op func(a, b *autodiff.Node) (*autodiff.Node, error)) gradcheck.Func {
		return func(in []*autodiff.Node) (*autodiff.Node, error) {
			out, err := op(in[0], in[1])
			if err != nil {
				return nil, err
			}
			return squaredSum(out)
		}
	}
	unary := func(op func(a *autodiff.Node) (*autodiff.Node, error)) gradcheck.Func {
		return func(in []*autodiff.Node) (*autodiff.Node, error) {
			out, err := op(in[0])
			if err != nil {
				return nil, err
			}
			return squaredSum(out)
		}
	}

	return []selfCheck{
		{"add", binary(autodiff.Add), []*tensor.Array{m, row}},
		{"sub", binary(autodiff.Sub), []*tensor.Array{m, row}},
		{"mul", binary(autodiff.Mul), []*tensor.Array{m, row}},
		{"div", binary(autodiff.Div), []*tensor.Array{m, row}},
		{"pow", unary(func(a *autodiff.Node) (*autodiff.Node, error) { return autodiff.Pow(a, 3) }), []*tensor.Array{m}},
		{"neg", unary(autodiff.Neg), []*tensor.Array{m}},
		{"sum_axes", unary(func(a *autodiff.Node) (*autodiff.Node, error) { return autodiff.SumAxes(a, false, 0) }), []*tensor.Array{m}},
		{"mean_axes", unary(func(a *autodiff.Node) (*autodiff.Node, error) { return autodiff.MeanAxes(a, true, -1) }), []*tensor.Array{m}},
		{"exp", unary(autodiff.Exp), []*tensor.Array{m}},
		{"log", unary(autodiff.Log), []*tensor.Array{pos}},
		{"tanh", unary(autodiff.Tanh), []*tensor.Array{m}},
		{"relu", unary(autodiff.ReLU), []*tensor.Array{m}},
		{"sigmoid", unary(autodiff.Sigmoid), []*tensor.Array{m}},
	}
}

func squaredSum(n *autodiff.Node) (*autodiff.Node, error) {
	sq, err := autodiff.Mul(n, n)
	if err != nil {
		return nil, err
	}
	return autodiff.Sum(sq)
}

func mustArray(data []float64, shape tensor.Shape) *tensor.Array {
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return a
}
