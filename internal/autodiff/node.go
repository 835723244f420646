package autodiff

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/minigrad/internal/autodiff/ops"
	"github.com/born-ml/minigrad/internal/tensor"
)

// nodeCounter stamps every node with its creation order. Ids start at 1;
// a zero id marks a Node that did not come from a constructor.
var nodeCounter atomic.Uint64

// Node is a value in the computational graph together with its accumulated
// gradient and the record of how it was produced.
//
// The value never changes after creation. The gradient has the value's shape,
// starts at zero and is only written by Backward (accumulated) and ZeroGrad.
// Parents are referenced child-to-parent only, and every parent was created
// strictly before its child, so the graph is acyclic by construction.
type Node struct {
	id           uint64
	value        *tensor.Array
	grad         *tensor.Array
	parents      []*Node
	op           ops.Operation // nil for leaves
	requiresGrad bool
}

// NewLeaf creates a leaf node holding a copy of value.
// Leaves are used for parameters and input data.
func NewLeaf(value *tensor.Array, requiresGrad bool) *Node {
	if value == nil {
		panic("autodiff: NewLeaf called with nil value")
	}
	return newNode(value.Clone(), nil, requiresGrad)
}

// Scalar creates a 0-d leaf node.
func Scalar(v float64, requiresGrad bool) *Node {
	return newNode(tensor.Scalar(v), nil, requiresGrad)
}

// FromSlice creates a leaf node from a Go slice and a shape.
func FromSlice(data []float64, shape tensor.Shape, requiresGrad bool) (*Node, error) {
	value, err := tensor.FromSlice(data, shape)
	if err != nil {
		return nil, shapeError("leaf", err)
	}
	return newNode(value, nil, requiresGrad), nil
}

// Detach returns a new leaf sharing n's value with gradient tracking disabled.
// Nothing computed from the result propagates gradients back into n.
// Like NewLeaf, it panics if n is nil or was not created by this package.
func Detach(n *Node) *Node {
	if err := checkOperands("detach", n); err != nil {
		panic(err)
	}
	return newNode(n.value, nil, false)
}

// newNode allocates a node with a zero gradient buffer. An operation result
// requires gradients if any of its parents does.
func newNode(value *tensor.Array, op ops.Operation, requiresGrad bool, parents ...*Node) *Node {
	for _, p := range parents {
		requiresGrad = requiresGrad || p.requiresGrad
	}
	return &Node{
		id:           nodeCounter.Add(1),
		value:        value,
		grad:         tensor.ZerosLike(value),
		parents:      parents,
		op:           op,
		requiresGrad: requiresGrad,
	}
}

// ID returns the node's creation stamp. Parents always have smaller ids
// than their children.
func (n *Node) ID() uint64 {
	return n.id
}

// Value returns the node's value.
//
// The array is shared with every consumer of the node and must not be modified.
func (n *Node) Value() *tensor.Array {
	return n.value
}

// Grad returns a snapshot of the gradient accumulated so far.
func (n *Node) Grad() *tensor.Array {
	return n.grad.Clone()
}

// Shape returns the shape of the node's value (and gradient).
func (n *Node) Shape() tensor.Shape {
	return n.value.Shape()
}

// Item returns the value of a 0-d node. Panics if the node is not a scalar.
func (n *Node) Item() float64 {
	return n.value.Item()
}

// Parents returns the direct inputs of the operation that produced n,
// in operand order. Leaves have none.
func (n *Node) Parents() []*Node {
	out := make([]*Node, len(n.parents))
	copy(out, n.parents)
	return out
}

// IsLeaf reports whether n was created directly rather than by an operation.
func (n *Node) IsLeaf() bool {
	return n.op == nil
}

// Op returns the name of the producing operation, or "leaf".
func (n *Node) Op() string {
	if n.op == nil {
		return "leaf"
	}
	return n.op.Name()
}

// RequiresGrad reports whether gradients are tracked for n.
func (n *Node) RequiresGrad() bool {
	return n.requiresGrad
}

// ZeroGrad resets n's gradient to zero. Use the package-level ZeroGrad to
// reset a whole graph.
func (n *Node) ZeroGrad() {
	n.grad.Fill(0)
}

// String renders a short description such as "Node#7(mul, shape=[2 3])".
func (n *Node) String() string {
	return fmt.Sprintf("Node#%d(%s, shape=%v)", n.id, n.Op(), n.value.Shape())
}

// checkOperands verifies that every operand came from a constructor.
func checkOperands(op string, operands ...*Node) error {
	for i, n := range operands {
		if n == nil {
			return integrityError(op, "operand %d is nil", i)
		}
		if n.id == 0 || n.value == nil || n.grad == nil {
			return integrityError(op, "operand %d was not created by this engine", i)
		}
	}
	return nil
}
