// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that update autodiff leaves from their
// accumulated gradients.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minigrad/autodiff"
//	    "github.com/born-ml/minigrad/optim"
//	)
//
//	func main() {
//	    opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//	    params := []*autodiff.Node{w, b}
//
//	    for step := range 100 {
//	        loss := computeLoss(params)
//	        if err := autodiff.Backward(loss); err != nil {
//	            log.Fatal(err)
//	        }
//	        params, err = opt.Step(params)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// # Parameters
//
// Node values never change, so Step returns new leaves rather than updating
// in place. Their gradients start at zero, so no ZeroGrad call is needed
// between steps. Keep passing the parameters in the same order: optimizer
// state is tracked by position.
package optim
