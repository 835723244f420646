package autodiff

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/tensor"
)

// Backward computes gradients of a scalar root with respect to every node it
// depends on and accumulates them into each node's gradient buffer.
//
// root must be 0-dimensional; use BackwardWithSeed for other shapes.
// Gradients are never cleared automatically: calling Backward twice adds the
// gradients twice. Call ZeroGrad between training steps.
//
// If Backward fails the gradient buffers of the graph are unspecified and
// should be reset with ZeroGrad before reuse.
func Backward(root *Node) error {
	if err := checkOperands("backward", root); err != nil {
		return err
	}
	if !root.value.IsScalar() {
		return domainError("backward", "root has shape %v; non-scalar roots need an explicit seed (BackwardWithSeed)", root.value.Shape())
	}
	return backward(root, tensor.Scalar(1))
}

// BackwardWithSeed runs a backward pass starting from an explicit gradient
// for root. seed must have root's shape.
//
// Example:
//
//	y := autodiff.Must(autodiff.Add(a, b)) // shape [3]
//	err := autodiff.BackwardWithSeed(y, tensor.Vector(-1, -2, -3))
func BackwardWithSeed(root *Node, seed *tensor.Array) error {
	if err := checkOperands("backward", root); err != nil {
		return err
	}
	if seed == nil {
		return domainError("backward", "nil seed")
	}
	if !seed.Shape().Equal(root.value.Shape()) {
		return shapeError("backward", fmt.Errorf("seed shape %v does not match root shape %v", seed.Shape(), root.value.Shape()))
	}
	return backward(root, seed)
}

// backward drives one pass.
//
// Algorithm:
//  1. Order the gradient-requiring closure of root, dependents first
//  2. Seed root with the given gradient
//  3. For each node, apply its rule to the gradient it received in this pass
//  4. Reduce each contribution to the parent's shape (undo broadcasting)
//     and add it to the parent's pass gradient and gradient buffer
//
// Rules see only this pass's gradient, so a node's previously accumulated
// buffer is never propagated a second time.
func backward(root *Node, seed *tensor.Array) error {
	if !root.requiresGrad {
		return domainError("backward", "root does not require gradients")
	}

	order, err := topoOrder(root, true)
	if err != nil {
		return err
	}

	pass := make(map[*Node]*tensor.Array, len(order))
	if err := accumulate(pass, root, seed.Clone()); err != nil {
		return err
	}

	for _, n := range order {
		if n.op == nil {
			continue
		}
		grad, ok := pass[n]
		if !ok {
			// Every non-root node in order is a parent of an earlier node,
			// so it must have received a contribution.
			return integrityError("backward", "%v received no gradient", n)
		}

		contributions := n.op.Backward(grad)
		if len(contributions) != len(n.parents) {
			return integrityError("backward", "%v produced %d gradients for %d parents",
				n, len(contributions), len(n.parents))
		}

		for i, p := range n.parents {
			if !p.requiresGrad {
				continue
			}
			reduced, err := tensor.ReduceTo(contributions[i], p.value.Shape())
			if err != nil {
				return integrityError("backward", "gradient for parent %d of %v: %v", i, n, err)
			}
			if err := accumulate(pass, p, reduced); err != nil {
				return err
			}
		}
	}
	return nil
}

// accumulate adds g into n's gradient buffer and into its gradient for the
// current pass. g is owned by the callee afterwards.
func accumulate(pass map[*Node]*tensor.Array, n *Node, g *tensor.Array) error {
	if err := n.grad.AddInPlace(g); err != nil {
		return integrityError("backward", "%v: %v", n, err)
	}
	if existing, ok := pass[n]; ok {
		if err := existing.AddInPlace(g); err != nil {
			return integrityError("backward", "%v: %v", n, err)
		}
		return nil
	}
	pass[n] = g
	return nil
}

// ZeroGrad resets the gradient of every node reachable from root, including
// nodes that do not require gradients.
func ZeroGrad(root *Node) error {
	order, err := topoOrder(root, false)
	if err != nil {
		return err
	}
	for _, n := range order {
		n.grad.Fill(0)
	}
	return nil
}
