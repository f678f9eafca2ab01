package autograd

import (
	"go-grad/value"

	"gonum.org/v1/gonum/floats"
)

// Backward runs the backward pass from root. it is the function form of root.Backward():
// every node reachable from root gets d(root)/d(node) added into its Grad.
// leaf gradients accumulate across calls, so zero parameters between optimization steps.
func Backward(root *value.Value) {
	if root == nil {
		return
	}
	root.Backward()
}

// ZeroGrad sets the gradient of every value in params to 0.
func ZeroGrad(params []*value.Value) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// GradNorm returns the euclidean norm of the gradients held by params.
func GradNorm(params []*value.Value) float64 {
	if len(params) == 0 {
		return 0
	}
	return floats.Norm(value.Grads(params), 2)
}
