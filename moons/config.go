package moons

import (
	"flag"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go-grad/nn"
)

// RunConfig is the command line configuration shared by the moons programs.
type RunConfig struct {
	Samples    int
	Noise      float64
	Hidden     string // comma separated hidden layer sizes, e.g. "16,16"
	Activation string
	Steps      int
	LR         float64
	Alpha      float64
	Batch      int
	Holdout    float64 // fraction of samples kept out of training
	Seed       int64
}

// RegisterFlags binds every field to a flag on fs, with the defaults of the classic demo.
func (c *RunConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Samples, "samples", 100, "number of generated points")
	fs.Float64Var(&c.Noise, "noise", 0.1, "standard deviation of the point jitter")
	fs.StringVar(&c.Hidden, "hidden", "16,16", "comma separated hidden layer sizes")
	fs.StringVar(&c.Activation, "activation", "relu", "hidden activation (tanh|relu|sigmoid|linear)")
	fs.IntVar(&c.Steps, "steps", 100, "number of optimization steps")
	fs.Float64Var(&c.LR, "lr", 1.0, "initial learning rate, decayed linearly to a tenth")
	fs.Float64Var(&c.Alpha, "alpha", 1e-4, "L2 regularization strength")
	fs.IntVar(&c.Batch, "batch", 0, "minibatch size, 0 for the full training set")
	fs.Float64Var(&c.Holdout, "holdout", 0.2, "fraction of points held out for evaluation")
	fs.Int64Var(&c.Seed, "seed", 1337, "random seed for data and weights")
}

func (c *RunConfig) Validate() error {
	if c.Samples < 4 {
		return fmt.Errorf("invalid samples: %d", c.Samples)
	}
	if c.Noise < 0 {
		return fmt.Errorf("invalid noise: %g", c.Noise)
	}
	if _, err := c.HiddenSizes(); err != nil {
		return err
	}
	if _, err := nn.ParseActivation(c.Activation); err != nil {
		return err
	}
	if c.Steps <= 0 {
		return fmt.Errorf("invalid steps: %d", c.Steps)
	}
	if c.LR <= 0 {
		return fmt.Errorf("invalid learning rate: %g", c.LR)
	}
	if c.Alpha < 0 {
		return fmt.Errorf("invalid alpha: %g", c.Alpha)
	}
	if c.Batch < 0 {
		return fmt.Errorf("invalid batch size: %d", c.Batch)
	}
	if !(c.Holdout > 0 && c.Holdout < 1) {
		return fmt.Errorf("invalid holdout fraction: %g", c.Holdout)
	}
	return nil
}

// HiddenSizes parses Hidden. an empty string means no hidden layers.
func (c *RunConfig) HiddenSizes() ([]int, error) {
	if strings.TrimSpace(c.Hidden) == "" {
		return nil, nil
	}
	parts := strings.Split(c.Hidden, ",")
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid hidden layer size %q", p)
		}
		sizes[i] = n
	}
	return sizes, nil
}

// TrainConfig is the part of c that drives a Trainer.
func (c *RunConfig) TrainConfig() Config {
	return Config{Steps: c.Steps, LearningRate: c.LR, Alpha: c.Alpha, BatchSize: c.Batch}
}

// Setup is everything a run needs, built deterministically from a RunConfig.
type Setup struct {
	Model *nn.MLP
	Train *Dataset
	Test  *Dataset
	Rand  *rand.Rand
}

// NewSetup generates the data, splits off the holdout set and builds a 2 -> hidden -> 1
// network with a linear output.
func (c *RunConfig) NewSetup() (*Setup, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	hidden, _ := c.HiddenSizes()
	act, _ := nn.ParseActivation(c.Activation)

	r := rand.New(rand.NewSource(c.Seed))
	ds, err := Generate(c.Samples, c.Noise, r)
	if err != nil {
		return nil, err
	}
	train, test, err := ds.Split(1 - c.Holdout)
	if err != nil {
		return nil, err
	}

	model, err := nn.NewMLP(2, append(hidden, 1), nn.WithActivation(act), nn.WithRand(r))
	if err != nil {
		return nil, err
	}
	return &Setup{Model: model, Train: train, Test: test, Rand: r}, nil
}
