package nn

import (
	"fmt"
	"math"

	"go-grad/value"
)

// single neuron: output = act(sum(w_i * x_i) + b)
type Neuron struct {
	weights    []*value.Value
	bias       *value.Value
	activation Activation
}

// NewNeuron creates a neuron with nin inputs. weights and bias are leaf values drawn from the
// configured initializers; WithActivation picks the nonlinearity (default Tanh).
func NewNeuron(nin int, opts ...Option) (*Neuron, error) {
	cfg := newConfig(opts)
	return newNeuron(nin, 1, cfg.hidden, cfg)
}

func newNeuron(nin, fanOut int, act Activation, cfg config) (*Neuron, error) {
	if nin <= 0 {
		return nil, fmt.Errorf("neuron input size must be positive, got %d", nin)
	}
	if !act.Valid() {
		return nil, fmt.Errorf("neuron has unknown %v", act)
	}

	weights := make([]*value.Value, nin)
	for i := range weights {
		w := cfg.weightInit(cfg.rng, nin, fanOut)
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("neuron weight initializer produced %g", w)
		}
		weights[i] = value.New(w)
	}

	b := cfg.biasInit(cfg.rng, nin, fanOut)
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return nil, fmt.Errorf("neuron bias initializer produced %g", b)
	}

	return &Neuron{weights: weights, bias: value.New(b), activation: act}, nil
}

// Forward builds act(w . inputs + b). inputs must have one entry per weight.
func (n *Neuron) Forward(inputs []*value.Value) (*value.Value, error) {
	if len(inputs) != len(n.weights) {
		return nil, fmt.Errorf("%w: neuron expects %d inputs, got %d", ErrArity, len(n.weights), len(inputs))
	}
	sum, err := value.Dot(n.weights, inputs)
	if err != nil {
		return nil, err
	}
	return n.activation.Apply(sum.Add(n.bias)), nil
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*value.Value {
	params := make([]*value.Value, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

func (n *Neuron) ZeroGrad() {
	for _, p := range n.Parameters() {
		p.ZeroGrad()
	}
}

func (n *Neuron) Name() string {
	return fmt.Sprintf("Neuron(%d, %s)", len(n.weights), n.activation)
}

// Weights returns the weight leaves, one per input.
func (n *Neuron) Weights() []*value.Value { return append([]*value.Value(nil), n.weights...) }

// Bias returns the bias leaf.
func (n *Neuron) Bias() *value.Value { return n.bias }

// Activation returns the neuron's nonlinearity.
func (n *Neuron) Activation() Activation { return n.activation }
