package nn

import (
	"fmt"
	"strings"

	"go-grad/value"
)

// MLP is a sequence of fully connected layers. hidden layers use the WithActivation
// nonlinearity and the last layer uses WithOutputActivation.
type MLP struct {
	layers []*Layer
}

// NewMLP creates a network reading nin inputs with one layer per entry of sizes;
// the output size is sizes[len(sizes)-1].
func NewMLP(nin int, sizes []int, opts ...Option) (*MLP, error) {
	if nin <= 0 {
		return nil, fmt.Errorf("mlp input size must be positive, got %d", nin)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("mlp needs at least one layer")
	}

	cfg := newConfig(opts)
	dims := append([]int{nin}, sizes...)
	layers := make([]*Layer, len(sizes))
	for i := range sizes {
		act := cfg.hidden
		if i == len(sizes)-1 {
			act = cfg.output
		}
		l, err := newLayer(dims[i], dims[i+1], act, cfg)
		if err != nil {
			return nil, fmt.Errorf("mlp layer %d: %w", i, err)
		}
		layers[i] = l
	}
	return &MLP{layers: layers}, nil
}

// Forward threads inputs through every layer and returns the last layer's outputs.
func (m *MLP) Forward(inputs []*value.Value) ([]*value.Value, error) {
	x := inputs
	var err error
	for i, l := range m.layers {
		x, err = l.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("mlp layer %d: %w", i, err)
		}
	}
	return x, nil
}

// ForwardScalar is Forward for networks whose last layer has a single neuron.
func (m *MLP) ForwardScalar(inputs []*value.Value) (*value.Value, error) {
	if m.OutSize() != 1 {
		return nil, fmt.Errorf("%w: mlp has %d outputs, not 1", ErrArity, m.OutSize())
	}
	out, err := m.Forward(inputs)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Parameters flattens all weights and biases, layer by layer.
func (m *MLP) Parameters() []*value.Value {
	params := []*value.Value{}
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad sets the gradient of every parameter to 0.
func (m *MLP) ZeroGrad() {
	for _, l := range m.layers {
		l.ZeroGrad()
	}
}

func (m *MLP) Name() string {
	parts := make([]string, len(m.layers))
	for i, l := range m.layers {
		parts[i] = l.Name()
	}
	return "MLP[" + strings.Join(parts, ", ") + "]"
}

func (m *MLP) Layers() []*Layer { return append([]*Layer(nil), m.layers...) }

func (m *MLP) InSize() int { return m.layers[0].InSize() }

func (m *MLP) OutSize() int { return m.layers[len(m.layers)-1].OutSize() }

// Sizes returns the output size of every layer.
func (m *MLP) Sizes() []int {
	sizes := make([]int, len(m.layers))
	for i, l := range m.layers {
		sizes[i] = l.OutSize()
	}
	return sizes
}
