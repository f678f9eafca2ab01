package nn

import (
	"math"
	"math/rand"
	"time"
)

// Initializer draws one starting value for a parameter of a neuron with fanIn inputs that
// sits in a layer of fanOut neurons.
type Initializer func(r *rand.Rand, fanIn, fanOut int) float64

// Uniform draws from U(-limit, limit).
func Uniform(limit float64) Initializer {
	return func(r *rand.Rand, _, _ int) float64 {
		return limit * (2*r.Float64() - 1)
	}
}

// Gaussian draws from N(0, std^2).
func Gaussian(std float64) Initializer {
	return func(r *rand.Rand, _, _ int) float64 {
		return r.NormFloat64() * std
	}
}

// Xavier draws from U(-a, a) with a = sqrt(6 / (fanIn + fanOut)).
func Xavier() Initializer {
	return func(r *rand.Rand, fanIn, fanOut int) float64 {
		limit := math.Sqrt(6 / float64(fanIn+fanOut))
		return limit * (2*r.Float64() - 1)
	}
}

// Zeros always returns 0.
func Zeros() Initializer {
	return func(*rand.Rand, int, int) float64 { return 0 }
}

type config struct {
	hidden     Activation
	output     Activation
	weightInit Initializer
	biasInit   Initializer
	rng        *rand.Rand
}

func defaultConfig() config {
	return config{
		hidden:     Tanh,
		output:     Linear,
		weightInit: Uniform(1),
		biasInit:   Zeros(),
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return cfg
}

// Option configures NewNeuron, NewLayer and NewMLP.
type Option func(*config)

// WithActivation sets the nonlinearity of hidden layers (default Tanh).
// for a standalone Neuron or Layer it is the nonlinearity of that unit.
func WithActivation(a Activation) Option {
	return func(c *config) { c.hidden = a }
}

// WithOutputActivation sets the nonlinearity of the last MLP layer (default Linear).
func WithOutputActivation(a Activation) Option {
	return func(c *config) { c.output = a }
}

// WithInitializer sets how weights are drawn (default Uniform(1)).
func WithInitializer(init Initializer) Option {
	return func(c *config) { c.weightInit = init }
}

// WithBiasInitializer sets how biases are drawn (default Zeros()).
func WithBiasInitializer(init Initializer) Option {
	return func(c *config) { c.biasInit = init }
}

// WithRand sets the random source used by the initializers.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithSeed is WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}
