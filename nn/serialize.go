package nn

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"slices"

	"go-grad/value"
)

// snapshot is the gob encoded form of an MLP: its architecture plus every parameter value
// in Parameters() order.
type snapshot struct {
	InSize      int
	Sizes       []int
	Activations []Activation
	Params      []float64
}

func (m *MLP) snapshot() snapshot {
	acts := make([]Activation, len(m.layers))
	for i, l := range m.layers {
		acts[i] = l.Activation()
	}
	return snapshot{
		InSize:      m.InSize(),
		Sizes:       m.Sizes(),
		Activations: acts,
		Params:      value.Data(m.Parameters()),
	}
}

// Save writes the architecture and parameter values of m to w.
func (m *MLP) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m.snapshot()); err != nil {
		return fmt.Errorf("could not encode mlp: %w", err)
	}
	return nil
}

// Load overwrites the parameter values of m with the ones saved in r. the saved network must
// have the same architecture as m, activations included. gradients are left untouched.
func (m *MLP) Load(r io.Reader) error {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return fmt.Errorf("could not decode mlp: %w", err)
	}

	if s.InSize != m.InSize() || !slices.Equal(s.Sizes, m.Sizes()) {
		return fmt.Errorf("%w: saved mlp is %d -> %v, model is %d -> %v", ErrShape, s.InSize, s.Sizes, m.InSize(), m.Sizes())
	}
	for i, l := range m.layers {
		if i >= len(s.Activations) || s.Activations[i] != l.Activation() {
			return fmt.Errorf("%w: saved mlp activations %v, model layer %d is %v", ErrShape, s.Activations, i, l.Activation())
		}
	}
	params := m.Parameters()
	if len(s.Params) != len(params) {
		return fmt.Errorf("%w: saved mlp has %d parameters, model has %d", ErrShape, len(s.Params), len(params))
	}
	for i, p := range params {
		p.Data = s.Params[i]
	}
	return nil
}

// LoadMLP rebuilds a network, architecture included, from data written by Save.
func LoadMLP(r io.Reader) (*MLP, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode mlp: %w", err)
	}
	if len(s.Sizes) == 0 || len(s.Activations) != len(s.Sizes) {
		return nil, fmt.Errorf("%w: saved mlp has %d layers and %d activations", ErrShape, len(s.Sizes), len(s.Activations))
	}

	for i, a := range s.Activations {
		if !a.Valid() {
			return nil, fmt.Errorf("%w: saved layer %d has unknown %v", ErrShape, i, a)
		}
	}

	cfg := newConfig([]Option{WithInitializer(Zeros())})
	dims := append([]int{s.InSize}, s.Sizes...)
	layers := make([]*Layer, len(s.Sizes))
	for i := range s.Sizes {
		l, err := newLayer(dims[i], dims[i+1], s.Activations[i], cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: saved layer %d: %v", ErrShape, i, err)
		}
		layers[i] = l
	}

	m := &MLP{layers: layers}
	params := m.Parameters()
	if len(s.Params) != len(params) {
		return nil, fmt.Errorf("%w: saved mlp has %d parameters, architecture needs %d", ErrShape, len(s.Params), len(params))
	}
	for i, p := range params {
		p.Data = s.Params[i]
	}
	return m, nil
}

// SaveFile writes m to a file at path. gob is the go native binary format.
func (m *MLP) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file %s: %w", path, err)
	}
	if err := m.Save(file); err != nil {
		file.Close()
		return fmt.Errorf("could not save to %s: %w", path, err)
	}
	return file.Close()
}

// LoadMLPFile is LoadMLP for a file at path.
func LoadMLPFile(path string) (*MLP, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer file.Close()

	m, err := LoadMLP(file)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	return m, nil
}
