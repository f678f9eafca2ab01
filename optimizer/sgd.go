package optimizer

import (
	"fmt"
	"math"

	"go-grad/value"
)

// common method all optimizers must utilize
type Optimizer interface {
	Step() error
	ZeroGrad()
	Parameters() []*value.Value // the leaves the optimizer updates
}

// SGD : plain stochastic gradient descent, p.Data -= lr * p.Grad.
type SGD struct {
	learningRate float64
	parameters   []*value.Value
}

// creates a new SGD over the given leaves. nil entries are dropped.
func NewSGD(parameters []*value.Value, learningRate float64) (*SGD, error) {
	if err := checkRate(learningRate); err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return nil, fmt.Errorf("optimizer: created with empty parameters list")
	}

	valid := make([]*value.Value, 0, len(parameters))
	for i, p := range parameters {
		if p == nil {
			continue
		}
		if !p.IsLeaf() {
			return nil, fmt.Errorf("optimizer: parameter %d is a %s node, not a leaf", i, p.Op())
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("optimizer: no non-nil parameters provided")
	}

	return &SGD{learningRate: learningRate, parameters: valid}, nil
}

func checkRate(lr float64) error {
	if lr <= 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		return fmt.Errorf("optimizer: learning rate must be positive and finite, got %g", lr)
	}
	return nil
}

// Step moves every parameter against its gradient. a non-finite gradient aborts the step
// before any parameter is touched.
func (s *SGD) Step() error {
	for i, p := range s.parameters {
		if math.IsNaN(p.Grad) || math.IsInf(p.Grad, 0) {
			return fmt.Errorf("optimizer: parameter %d has non-finite gradient %g", i, p.Grad)
		}
	}
	for _, p := range s.parameters {
		p.Data -= s.learningRate * p.Grad
	}
	return nil
}

// sets all params managed by this to zero
func (s *SGD) ZeroGrad() {
	for _, p := range s.parameters {
		p.ZeroGrad()
	}
}

func (s *SGD) Parameters() []*value.Value {
	return s.parameters
}

func (s *SGD) LearningRate() float64 { return s.learningRate }

// SetLearningRate is used by schedules such as the linear decay in package moons.
func (s *SGD) SetLearningRate(lr float64) error {
	if err := checkRate(lr); err != nil {
		return err
	}
	s.learningRate = lr
	return nil
}
