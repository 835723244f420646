// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 arrays that autodiff nodes carry.
//
// # Overview
//
// An Array is an n-dimensional, row-major block of float64 values. This
// package provides:
//   - Construction from slices, scalars and fill values
//   - NumPy-style broadcasting for element-wise arithmetic
//   - Full and per-axis sum reductions
//   - ReduceTo, the inverse of broadcasting, used to fold gradients back
//     onto operand shapes
//
// # Basic Usage
//
//	a, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	if err != nil {
//	    return err
//	}
//	b := tensor.Vector(10, 20, 30)
//
//	c, err := tensor.Add(a, b) // [[11 22 33] [14 25 36]]
//
// # Broadcasting
//
// Shapes are aligned from the trailing dimension. Two dimensions are
// compatible when they are equal or one of them is 1; a missing leading
// dimension counts as 1:
//
//	[3, 4] + [4]    -> [3, 4]
//	[3, 1] + [1, 4] -> [3, 4]
//	[2, 3] + [3, 2] -> error
//
// Arrays are value types from the caller's point of view: constructors copy
// their input and Data returns a copy.
package tensor
