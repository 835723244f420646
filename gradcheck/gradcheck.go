// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcheck verifies autodiff gradients against central finite
// differences.
//
// Example:
//
//	loss := func(in []*autodiff.Node) (*autodiff.Node, error) {
//	    sq, err := autodiff.Mul(in[0], in[0])
//	    if err != nil {
//	        return nil, err
//	    }
//	    return autodiff.Sum(sq)
//	}
//
//	report, err := gradcheck.Check(loss, []*tensor.Array{x}, gradcheck.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if !report.OK() {
//	    fmt.Println(report.Mismatches)
//	}
package gradcheck

import (
	"github.com/born-ml/minigrad/internal/gradcheck"
	"github.com/born-ml/minigrad/tensor"
)

// Func builds a scalar loss from one leaf per input.
type Func = gradcheck.Func

// Config controls step size, tolerances and parallelism.
type Config = gradcheck.Config

// Report holds analytic and numerical gradients and any mismatches.
type Report = gradcheck.Report

// Mismatch records one element whose gradients disagree.
type Mismatch = gradcheck.Mismatch

// DefaultConfig returns tolerances suited to float64 and smooth functions.
func DefaultConfig() Config {
	return gradcheck.DefaultConfig()
}

// Check compares Backward's gradients for f at inputs with finite differences.
func Check(f Func, inputs []*tensor.Array, cfg Config) (*Report, error) {
	return gradcheck.Check(f, inputs, cfg)
}
