// Package gradcheck compares autodiff gradients against central finite
// differences.
//
// The loss function is rebuilt from scratch for every perturbation, so each
// evaluation owns a disjoint graph. Evaluations are spread over worker
// goroutines with internal/parallel; nothing is shared between them except
// the read-only input arrays.
package gradcheck

import (
	"fmt"
	"math"
	"runtime"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/parallel"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Func builds a scalar loss from one leaf per input.
type Func func(inputs []*autodiff.Node) (*autodiff.Node, error)

// Config controls the finite-difference check. Zero Epsilon, AbsTolerance
// and RelTolerance take the DefaultConfig values.
type Config struct {
	Epsilon      float64         // Perturbation size for central differences.
	AbsTolerance float64         // Allowed absolute error.
	RelTolerance float64         // Allowed error relative to |numerical|.
	Parallel     parallel.Config // Worker fan-out for the perturbed evaluations.
}

// DefaultConfig returns tolerances suited to float64 and smooth functions.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Epsilon:      1e-6,
		AbsTolerance: 1e-5,
		RelTolerance: 1e-4,
		Parallel: parallel.Config{
			Enabled:      n > 1,
			NumWorkers:   n,
			MinChunkSize: 1, // Each item is a whole forward pass.
		},
	}
}

// Mismatch records one element whose gradients disagree.
type Mismatch struct {
	Input     int
	Element   int
	Analytic  float64
	Numerical float64
}

// String implements fmt.Stringer.
func (m Mismatch) String() string {
	return fmt.Sprintf("input %d element %d: autodiff %g, numerical %g", m.Input, m.Element, m.Analytic, m.Numerical)
}

// Report holds the outcome of a check.
type Report struct {
	Analytic    []*tensor.Array // Gradient from Backward, per input.
	Numerical   []*tensor.Array // Finite-difference estimate, per input.
	MaxAbsError float64
	Mismatches  []Mismatch
}

// OK reports whether every element was within tolerance.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Check evaluates f at inputs, runs Backward, and compares every input
// gradient element with (f(x+ε) - f(x-ε)) / 2ε.
//
// An error is returned only if cfg is invalid or f or Backward fails.
// Disagreeing gradients are reported through Report.Mismatches, and so is
// any element where either gradient is NaN or infinite.
func Check(f Func, inputs []*tensor.Array, cfg Config) (*Report, error) {
	cfg, err := withDefaults(cfg)
	if err != nil {
		return nil, err
	}

	analytic, err := analyticGrads(f, inputs)
	if err != nil {
		return nil, err
	}

	type slot struct{ input, element int }
	var slots []slot
	numerical := make([][]float64, len(inputs))
	for i, in := range inputs {
		numerical[i] = make([]float64, in.NumElements())
		for j := 0; j < in.NumElements(); j++ {
			slots = append(slots, slot{i, j})
		}
	}

	err = parallel.ForErr(len(slots), func(k int) error {
		s := slots[k]
		plus, err := evalPerturbed(f, inputs, s.input, s.element, cfg.Epsilon)
		if err != nil {
			return err
		}
		minus, err := evalPerturbed(f, inputs, s.input, s.element, -cfg.Epsilon)
		if err != nil {
			return err
		}
		numerical[s.input][s.element] = (plus - minus) / (2 * cfg.Epsilon)
		return nil
	}, cfg.Parallel)
	if err != nil {
		return nil, err
	}

	report := &Report{Analytic: analytic, Numerical: make([]*tensor.Array, len(inputs))}
	for i, in := range inputs {
		num, err := tensor.FromSlice(numerical[i], in.Shape())
		if err != nil {
			return nil, err
		}
		report.Numerical[i] = num

		got := analytic[i].Data()
		for j, want := range numerical[i] {
			diff := math.Abs(got[j] - want)
			bad := diff > cfg.AbsTolerance+cfg.RelTolerance*math.Abs(want)
			if !finite(got[j]) || !finite(want) {
				diff, bad = math.Inf(1), true
			}
			report.MaxAbsError = math.Max(report.MaxAbsError, diff)
			if bad {
				report.Mismatches = append(report.Mismatches, Mismatch{
					Input: i, Element: j, Analytic: got[j], Numerical: want,
				})
			}
		}
	}
	return report, nil
}

// withDefaults fills zero fields from DefaultConfig and rejects negative ones.
func withDefaults(cfg Config) (Config, error) {
	def := DefaultConfig()
	if cfg.Epsilon == 0 {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.AbsTolerance == 0 {
		cfg.AbsTolerance = def.AbsTolerance
	}
	if cfg.RelTolerance == 0 {
		cfg.RelTolerance = def.RelTolerance
	}
	if !(cfg.Epsilon > 0) || math.IsInf(cfg.Epsilon, 0) {
		return cfg, fmt.Errorf("gradcheck: epsilon must be positive and finite, got %v", cfg.Epsilon)
	}
	if cfg.AbsTolerance < 0 || cfg.RelTolerance < 0 {
		return cfg, fmt.Errorf("gradcheck: tolerances must not be negative, got abs %v rel %v",
			cfg.AbsTolerance, cfg.RelTolerance)
	}
	return cfg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// analyticGrads builds the graph once with gradient-tracking leaves and
// returns each leaf's gradient after Backward.
func analyticGrads(f Func, inputs []*tensor.Array) ([]*tensor.Array, error) {
	leaves := make([]*autodiff.Node, len(inputs))
	for i, in := range inputs {
		leaves[i] = autodiff.NewLeaf(in, true)
	}
	loss, err := f(leaves)
	if err != nil {
		return nil, fmt.Errorf("gradcheck: build loss: %w", err)
	}
	if err := autodiff.Backward(loss); err != nil {
		return nil, fmt.Errorf("gradcheck: backward: %w", err)
	}

	grads := make([]*tensor.Array, len(leaves))
	for i, l := range leaves {
		grads[i] = l.Grad()
	}
	return grads, nil
}

// evalPerturbed evaluates f with element j of input i shifted by delta.
func evalPerturbed(f Func, inputs []*tensor.Array, i, j int, delta float64) (float64, error) {
	leaves := make([]*autodiff.Node, len(inputs))
	for k, in := range inputs {
		if k != i {
			leaves[k] = autodiff.NewLeaf(in, false)
			continue
		}
		data := in.Data()
		data[j] += delta
		shifted, err := autodiff.FromSlice(data, in.Shape(), false)
		if err != nil {
			return 0, err
		}
		leaves[k] = shifted
	}

	loss, err := f(leaves)
	if err != nil {
		return 0, fmt.Errorf("gradcheck: evaluate input %d element %d: %w", i, j, err)
	}
	return loss.Item(), nil
}
