// Package main provides the minigrad CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/born-ml/minigrad/autodiff"
	"github.com/born-ml/minigrad/gradcheck"
	"github.com/born-ml/minigrad/internal/serialization"
	"github.com/born-ml/minigrad/optim"
	"github.com/born-ml/minigrad/tensor"
)

const version = "v0.1.0-dev"

var errChecksFailed = errors.New("gradient check failed")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "minigrad: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) == 0 {
		usage(w)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(w, "minigrad %s\n", version)
		return nil
	case "minimize":
		return runMinimize(args[1:], w)
	case "gradcheck":
		return runGradcheck(args[1:], w)
	default:
		usage(w)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "minigrad - reverse-mode automatic differentiation")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version      Show version")
	fmt.Fprintln(w, "  minimize     Gradient descent on a sum of squares")
	fmt.Fprintln(w, "  gradcheck    Compare every op against finite differences")
}

// runMinimize drives x toward zero by descending sum(x*x).
func runMinimize(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("minimize", flag.ContinueOnError)
	fs.SetOutput(w)
	steps := fs.Int("steps", 100, "Number of descent steps")
	lr := fs.Float64("lr", 0.1, "Learning rate")
	momentum := fs.Float64("momentum", 0, "SGD momentum")
	optimizer := fs.String("optimizer", "sgd", "Optimizer: sgd or adam")
	initPath := fs.String("init", "", "Load the starting x from a SafeTensors checkpoint")
	savePath := fs.String("save", "", "Write the final x to a SafeTensors checkpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opt optim.Optimizer
	switch *optimizer {
	case "sgd":
		opt = optim.NewSGD(optim.SGDConfig{LR: *lr, Momentum: *momentum})
	case "adam":
		opt = optim.NewAdam(optim.AdamConfig{LR: *lr})
	default:
		return fmt.Errorf("unknown optimizer %q", *optimizer)
	}

	start := tensor.Vector(11, -19, 7, -1, 2, 13)
	if *initPath != "" {
		loaded, _, err := serialization.LoadFile(*initPath)
		if err != nil {
			return err
		}
		x, ok := loaded["x"]
		if !ok {
			return fmt.Errorf("%s: no tensor named \"x\"", *initPath)
		}
		start = x
	}

	final, err := minimize(start, *steps, opt, func(step int, loss float64) {
		fmt.Fprintf(w, "%d %g\n", step, loss)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "x = %v\n", final)

	if *savePath != "" {
		meta := map[string]string{
			"optimizer": *optimizer,
			"steps":     strconv.Itoa(*steps),
		}
		if err := serialization.SaveFile(*savePath, map[string]*tensor.Array{"x": final}, meta); err != nil {
			return err
		}
	}
	return nil
}

// minimize runs steps of opt on sum(x*x) starting from start and returns
// the final x. report receives the loss evaluated before each update.
func minimize(start *tensor.Array, steps int, opt optim.Optimizer, report func(step int, loss float64)) (*tensor.Array, error) {
	params := []*autodiff.Node{autodiff.NewLeaf(start, true)}
	for i := 0; i < steps; i++ {
		sq, err := autodiff.Mul(params[0], params[0])
		if err != nil {
			return nil, err
		}
		loss, err := autodiff.Sum(sq)
		if err != nil {
			return nil, err
		}
		if err := autodiff.Backward(loss); err != nil {
			return nil, err
		}
		if params, err = opt.Step(params); err != nil {
			return nil, err
		}
		report(i, loss.Item())
	}
	return params[0].Value(), nil
}

func runGradcheck(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("gradcheck", flag.ContinueOnError)
	fs.SetOutput(w)
	cfg := gradcheck.DefaultConfig()
	fs.Float64Var(&cfg.Epsilon, "eps", cfg.Epsilon, "Finite-difference step")
	fs.Float64Var(&cfg.AbsTolerance, "atol", cfg.AbsTolerance, "Absolute tolerance")
	fs.Float64Var(&cfg.RelTolerance, "rtol", cfg.RelTolerance, "Relative tolerance")
	fs.IntVar(&cfg.Parallel.NumWorkers, "workers", cfg.Parallel.NumWorkers, "Worker goroutines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Parallel.Enabled = cfg.Parallel.NumWorkers > 1

	failed := 0
	for _, c := range selfChecks() {
		report, err := gradcheck.Check(c.loss, c.inputs, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		status := "ok"
		if !report.OK() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "%-12s %-4s max abs error %.2e\n", c.name, status, report.MaxAbsError)
		for _, m := range report.Mismatches {
			fmt.Fprintf(w, "    %v\n", m)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d ops", errChecksFailed, failed, len(selfChecks()))
	}
	return nil
}
