package optim

import (
	"github.com/born-ml/minigrad/internal/autodiff"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[int][]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[int][]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(params []*autodiff.Node) ([]*autodiff.Node, error) {
	return step(params, func(i int, value, grad []float64) error {
		if s.momentum == 0 {
			for j, g := range grad {
				value[j] -= s.lr * g
			}
			return nil
		}

		velocity, err := stateFor(s.velocities, i, len(value))
		if err != nil {
			return err
		}
		for j, g := range grad {
			velocity[j] = s.momentum*velocity[j] + g
			value[j] -= s.lr * velocity[j]
		}
		return nil
	})
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
