package value

import (
	"fmt"
	"math"
)

// TopoSort returns every node reachable from root through operand links, each node placed
// after all of its operands (post-order). shared ancestors appear once.
// the walk uses an explicit stack so long chains do not grow the goroutine stack.
func TopoSort(root *Value) []*Value {
	if root == nil {
		return nil
	}

	type frame struct {
		node     *Value
		expanded bool
	}

	var order []*Value
	visited := make(map[*Value]bool)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expanded {
			order = append(order, f.node)
			continue
		}
		if visited[f.node] {
			continue
		}
		visited[f.node] = true

		// push the node again so it is emitted once its operands are done
		stack = append(stack, frame{node: f.node, expanded: true})
		for i := len(f.node.operands) - 1; i >= 0; i-- {
			if operand := f.node.operands[i]; !visited[operand] {
				stack = append(stack, frame{node: operand})
			}
		}
	}
	return order
}

// Backward computes d(v)/d(n) for every node n reachable from v and adds it into n.Grad.
//
// leaf gradients are never cleared here: calling Backward twice without zeroing doubles
// them, which is what lets callers accumulate over several losses. the gradients of
// interior (non-leaf) nodes are transient and are reset at the start of every pass.
// v itself is seeded with 1.
func (v *Value) Backward() {
	order := TopoSort(v)
	for _, n := range order {
		if !n.IsLeaf() {
			n.Grad = 0
		}
	}

	v.Grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		order[i].propagate()
	}
}

// propagate adds this node's contribution into its operands' gradients.
// v.Grad is final by the time this runs: every consumer sits later in the topological order.
func (v *Value) propagate() {
	g := v.Grad

	switch v.op {
	case OpLeaf:
		return
	case OpAdd:
		a, b := v.operands[0], v.operands[1]
		a.Grad += g
		b.Grad += g
	case OpMul:
		a, b := v.operands[0], v.operands[1]
		a.Grad += g * b.Data
		b.Grad += g * a.Data
	case OpPow:
		a, n := v.operands[0], v.exponent
		a.Grad += g * n * math.Pow(a.Data, n-1)
	case OpNeg:
		v.operands[0].Grad -= g
	case OpReLU:
		if a := v.operands[0]; a.Data > 0 {
			a.Grad += g
		}
	case OpTanh:
		v.operands[0].Grad += g * (1 - v.Data*v.Data)
	case OpExp:
		v.operands[0].Grad += g * v.Data
	case OpLog:
		a := v.operands[0]
		a.Grad += g / a.Data
	case OpSigmoid:
		v.operands[0].Grad += g * v.Data * (1 - v.Data)
	default:
		panic(fmt.Sprintf("value: no backward rule for %v", v.op))
	}
}
