package autodiff

// Traversal states for the depth-first search.
const (
	unvisited uint8 = iota
	visiting
	visited
)

// TopoOrder returns every node in the parent closure of root, each exactly
// once, ordered so that a node appears after all nodes that depend on it and
// before all of its parents. root is first.
//
// Parents are visited in operand order, so the result is deterministic for a
// given graph. Nodes that do not require gradients are included but their
// parents are not expanded through them.
func TopoOrder(root *Node) ([]*Node, error) {
	return topoOrder(root, false)
}

// topoOrder is an iterative post-order DFS. With gradOnly set, nodes that do
// not require gradients are skipped entirely; they never receive
// contributions during a backward pass.
func topoOrder(root *Node, gradOnly bool) ([]*Node, error) {
	if err := checkOperands("topo", root); err != nil {
		return nil, err
	}

	type frame struct {
		node *Node
		next int // index of the next parent to visit
	}

	state := make(map[*Node]uint8)
	order := make([]*Node, 0, 16)
	stack := []frame{{node: root}}
	state[root] = visiting

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := top.node

		expand := !gradOnly || n.requiresGrad
		if expand && top.next < len(n.parents) {
			p := n.parents[top.next]
			top.next++

			if err := checkEdge(n, p); err != nil {
				return nil, err
			}
			if gradOnly && !p.requiresGrad {
				continue
			}
			switch state[p] {
			case visiting:
				return nil, integrityError("topo", "cycle detected through %v", p)
			case visited:
				continue
			}
			state[p] = visiting
			stack = append(stack, frame{node: p})
			continue
		}

		state[n] = visited
		order = append(order, n)
		stack = stack[:len(stack)-1]
	}

	// Post-order lists parents first; reverse it so dependents come first.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// checkEdge verifies the child -> parent edge respects construction order.
func checkEdge(child, parent *Node) error {
	if parent == nil || parent.id == 0 || parent.value == nil || parent.grad == nil {
		return integrityError("topo", "%v references a parent that was not created by this engine", child)
	}
	if parent.id >= child.id {
		return integrityError("topo", "%v references %v created after it", child, parent)
	}
	return nil
}
