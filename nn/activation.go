package nn

import (
	"fmt"
	"strings"

	"go-grad/value"
)

// Activation is the nonlinearity a neuron applies to its weighted sum.
// the zero value is Tanh, a bounded nonlinearity.
type Activation uint8

const (
	Tanh Activation = iota
	ReLU
	Sigmoid
	Linear // identity, typically for output neurons
)

// Valid reports whether a is one of the defined activations.
func (a Activation) Valid() bool { return a <= Linear }

// Apply builds act(v) on the graph. it panics on an activation outside Tanh..Linear;
// constructors and loaders reject those before a neuron is built.
func (a Activation) Apply(v *value.Value) *value.Value {
	switch a {
	case Tanh:
		return v.Tanh()
	case ReLU:
		return v.ReLU()
	case Sigmoid:
		return v.Sigmoid()
	case Linear:
		return v
	}
	panic(fmt.Sprintf("nn: apply of unknown %v", a))
}

func (a Activation) String() string {
	switch a {
	case Tanh:
		return "tanh"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("activation(%d)", uint8(a))
	}
}

// ParseActivation maps a name such as "relu" back to its Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tanh":
		return Tanh, nil
	case "relu":
		return ReLU, nil
	case "sigmoid":
		return Sigmoid, nil
	case "linear", "identity", "none":
		return Linear, nil
	}
	return 0, fmt.Errorf("nn: unknown activation %q", name)
}
