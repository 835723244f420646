package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/optim"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// linearGrad runs Backward on sum(k * x) so that x.Grad() == k.
func linearGrad(t *testing.T, x *autodiff.Node, k ...float64) {
	t.Helper()
	c := autodiff.NewLeaf(tensor.Vector(k...), false)
	loss, err := autodiff.Sum(autodiff.Must(autodiff.Mul(c, x)))
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if err := autodiff.Backward(loss); err != nil {
		t.Fatalf("Backward failed: %v", err)
	}
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	x := autodiff.NewLeaf(tensor.Vector(2.0), true)
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	linearGrad(t, x, 1.0)
	params, err := opt.Step([]*autodiff.Node{x})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if got := params[0].Value().At(0); !floatEqual(got, 1.9, 1e-12) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
	if x.Value().At(0) != 2.0 {
		t.Error("Step must not modify the original leaf")
	}
	if !params[0].RequiresGrad() || !params[0].IsLeaf() {
		t.Error("Step should return trainable leaves")
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	x := autodiff.NewLeaf(tensor.Vector(1.0), true)
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 1 - 0.1 = 0.9
	linearGrad(t, x, 1.0)
	params, err := opt.Step([]*autodiff.Node{x})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if got := params[0].Value().At(0); !floatEqual(got, 0.9, 1e-12) {
		t.Errorf("Step 1: got %f, want 0.9", got)
	}

	// Step 2: v = 0.9*1 + 1 = 1.9, x = 0.9 - 0.19 = 0.71
	linearGrad(t, params[0], 1.0)
	params, err = opt.Step(params)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if got := params[0].Value().At(0); !floatEqual(got, 0.71, 1e-12) {
		t.Errorf("Step 2: got %f, want 0.71", got)
	}
}

// TestSGD_GetSetLR tests learning rate getter and setter.
func TestSGD_GetSetLR(t *testing.T) {
	opt := optim.NewSGD(optim.SGDConfig{})
	if opt.GetLR() != 0.01 {
		t.Errorf("default LR = %f, want 0.01", opt.GetLR())
	}
	opt.SetLR(0.5)
	if opt.GetLR() != 0.5 {
		t.Errorf("LR after SetLR = %f, want 0.5", opt.GetLR())
	}
}

// TestAdam_SimpleUpdate tests that the first Adam step moves by about lr.
func TestAdam_SimpleUpdate(t *testing.T) {
	x := autodiff.NewLeaf(tensor.Vector(1.0, -1.0), true)
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.001})

	linearGrad(t, x, 2.0, -5.0)
	params, err := opt.Step([]*autodiff.Node{x})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// After bias correction m_hat = g and v_hat = g², so the step is lr*sign(g).
	want := []float64{0.999, -0.999}
	for i, w := range want {
		if got := params[0].Value().At(i); !floatEqual(got, w, 1e-8) {
			t.Errorf("element %d: got %f, want %f", i, got, w)
		}
	}
	if opt.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", opt.GetTimestep())
	}
}

// TestAdam_Defaults tests default configuration values.
func TestAdam_Defaults(t *testing.T) {
	opt := optim.NewAdam(optim.AdamConfig{})
	if opt.GetLR() != 0.001 {
		t.Errorf("default LR = %f, want 0.001", opt.GetLR())
	}
}

// TestConvergence_SimpleQuadratic minimizes (x - 3)² with both optimizers.
func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name  string
		opt   optim.Optimizer
		steps int
	}{
		{"sgd", optim.NewSGD(optim.SGDConfig{LR: 0.1}), 100},
		{"sgd momentum", optim.NewSGD(optim.SGDConfig{LR: 0.05, Momentum: 0.9}), 300},
		{"adam", optim.NewAdam(optim.AdamConfig{LR: 0.1}), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := []*autodiff.Node{autodiff.Scalar(0, true)}
			target := autodiff.Scalar(3, false)

			for i := 0; i < tt.steps; i++ {
				diff := autodiff.Must(autodiff.Sub(params[0], target))
				loss := autodiff.Must(autodiff.Pow(diff, 2))
				if err := autodiff.Backward(loss); err != nil {
					t.Fatalf("Backward failed: %v", err)
				}
				var err error
				if params, err = tt.opt.Step(params); err != nil {
					t.Fatalf("Step failed: %v", err)
				}
			}

			if got := params[0].Item(); !floatEqual(got, 3, 1e-2) {
				t.Errorf("converged to %f, want 3", got)
			}
		})
	}
}

// TestMultipleParameters tests that frozen and trainable parameters mix.
func TestMultipleParameters(t *testing.T) {
	w := autodiff.NewLeaf(tensor.Vector(1, 2), true)
	frozen := autodiff.NewLeaf(tensor.Vector(5, 5), false)
	b := autodiff.Scalar(0.5, true)

	loss := autodiff.Must(autodiff.Sum(autodiff.Must(autodiff.Add(autodiff.Must(autodiff.Mul(w, frozen)), b))))
	if err := autodiff.Backward(loss); err != nil {
		t.Fatalf("Backward failed: %v", err)
	}

	params, err := optim.NewSGD(optim.SGDConfig{LR: 0.1}).Step([]*autodiff.Node{w, frozen, b})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// dL/dw = frozen = 5, dL/db = 2 (broadcast over two elements).
	if got := params[0].Value().Data(); !floatEqual(got[0], 0.5, 1e-12) || !floatEqual(got[1], 1.5, 1e-12) {
		t.Errorf("w = %v, want [0.5 1.5]", got)
	}
	if params[1] != frozen {
		t.Error("frozen parameter should be returned unchanged")
	}
	if got := params[2].Item(); !floatEqual(got, 0.3, 1e-12) {
		t.Errorf("b = %f, want 0.3", got)
	}
}

// TestStep_RejectsNonLeaf tests that operation results cannot be stepped.
func TestStep_RejectsNonLeaf(t *testing.T) {
	x := autodiff.Scalar(1, true)
	y := autodiff.Must(autodiff.Neg(x))

	if _, err := optim.NewSGD(optim.SGDConfig{}).Step([]*autodiff.Node{y}); err == nil {
		t.Error("expected error for non-leaf parameter")
	}
}
