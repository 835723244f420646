// Package optim implements optimization algorithms over autodiff leaves.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Node values are immutable, so Step does not update parameters in place.
// It reads each parameter's value and accumulated gradient and returns fresh
// leaves holding the updated values. Optimizer state (velocities, moments)
// is keyed by the parameter's position in the slice.
//
// Example usage:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//	params := []*autodiff.Node{w, b}
//
//	for step := range steps {
//	    loss := computeLoss(params, data)
//	    if err := autodiff.Backward(loss); err != nil {
//	        return err
//	    }
//	    if params, err = opt.Step(params); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step returns one updated leaf per parameter. Parameters that do not
	// require gradients are returned unchanged.
	Step(params []*autodiff.Node) ([]*autodiff.Node, error)

	// GetLR returns the current learning rate.
	GetLR() float64
}

// update computes the new value for one parameter from its value and gradient.
type update func(i int, value, grad []float64) error

// step applies fn to every trainable parameter and rebuilds the leaves.
func step(params []*autodiff.Node, fn update) ([]*autodiff.Node, error) {
	out := make([]*autodiff.Node, len(params))
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("optim: parameter %d is nil", i)
		}
		if !p.RequiresGrad() {
			out[i] = p
			continue
		}
		if !p.IsLeaf() {
			return nil, fmt.Errorf("optim: parameter %d is a %s result, not a leaf", i, p.Op())
		}

		value := p.Value().Data()
		if err := fn(i, value, p.Grad().Data()); err != nil {
			return nil, err
		}
		next, err := tensor.FromSlice(value, p.Shape())
		if err != nil {
			return nil, err
		}
		out[i] = autodiff.NewLeaf(next, true)
	}
	return out, nil
}

// stateFor returns the state buffer for parameter i, allocating it on first
// use. A parameter whose size changed between steps is an error.
func stateFor(state map[int][]float64, i, size int) ([]float64, error) {
	buf, ok := state[i]
	if !ok {
		buf = make([]float64, size)
		state[i] = buf
	}
	if len(buf) != size {
		return nil, fmt.Errorf("optim: parameter %d changed size from %d to %d", i, len(buf), size)
	}
	return buf, nil
}
