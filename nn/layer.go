package nn

import (
	"fmt"

	"go-grad/value"

	"gonum.org/v1/gonum/mat"
)

// Module is implemented by Neuron, Layer and MLP.
type Module interface {
	Parameters() []*value.Value
	ZeroGrad()
	Name() string
}

var (
	_ Module = (*Neuron)(nil)
	_ Module = (*Layer)(nil)
	_ Module = (*MLP)(nil)
)

// Layer is a set of neurons that all read the same inputs.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates nout neurons with nin inputs each, all using the WithActivation nonlinearity.
func NewLayer(nin, nout int, opts ...Option) (*Layer, error) {
	cfg := newConfig(opts)
	return newLayer(nin, nout, cfg.hidden, cfg)
}

func newLayer(nin, nout int, act Activation, cfg config) (*Layer, error) {
	if nout <= 0 {
		return nil, fmt.Errorf("layer output size must be positive, got %d", nout)
	}
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		n, err := newNeuron(nin, nout, act, cfg)
		if err != nil {
			return nil, fmt.Errorf("layer neuron %d: %w", i, err)
		}
		neurons[i] = n
	}
	return &Layer{neurons: neurons}, nil
}

// Forward applies every neuron to the same inputs and returns their outputs in order.
func (l *Layer) Forward(inputs []*value.Value) ([]*value.Value, error) {
	outs := make([]*value.Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Forward(inputs)
		if err != nil {
			return nil, err
		}
		outs[i] = out
	}
	return outs, nil
}

// Parameters flattens the parameters of every neuron, neuron by neuron.
func (l *Layer) Parameters() []*value.Value {
	params := []*value.Value{}
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

func (l *Layer) ZeroGrad() {
	for _, n := range l.neurons {
		n.ZeroGrad()
	}
}

func (l *Layer) Name() string {
	return fmt.Sprintf("Layer(%d -> %d, %s)", l.InSize(), l.OutSize(), l.Activation())
}

// InSize is the number of inputs each neuron reads.
func (l *Layer) InSize() int { return len(l.neurons[0].weights) }

// OutSize is the number of neurons.
func (l *Layer) OutSize() int { return len(l.neurons) }

// Activation is the nonlinearity shared by the layer's neurons.
func (l *Layer) Activation() Activation { return l.neurons[0].activation }

// Neurons returns the layer's neurons in order.
func (l *Layer) Neurons() []*Neuron { return append([]*Neuron(nil), l.neurons...) }

// WeightMatrix copies the weights into an OutSize x InSize matrix, one row per neuron.
func (l *Layer) WeightMatrix() *mat.Dense {
	w := mat.NewDense(l.OutSize(), l.InSize(), nil)
	for i, n := range l.neurons {
		w.SetRow(i, value.Data(n.weights))
	}
	return w
}

// GradMatrix is WeightMatrix for the weight gradients.
func (l *Layer) GradMatrix() *mat.Dense {
	g := mat.NewDense(l.OutSize(), l.InSize(), nil)
	for i, n := range l.neurons {
		g.SetRow(i, value.Grads(n.weights))
	}
	return g
}

// Biases returns the current bias values, one per neuron.
func (l *Layer) Biases() []float64 {
	b := make([]float64, len(l.neurons))
	for i, n := range l.neurons {
		b[i] = n.bias.Data
	}
	return b
}
