package autograd

import (
	"errors"
	"fmt"
	"math"

	"go-grad/value"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// ErrGradientMismatch is returned by CheckGradients when backward and finite differences disagree.
var ErrGradientMismatch = errors.New("autograd: gradient mismatch")

// Func builds a scalar expression from leaf inputs.
type Func func(inputs []*value.Value) (*value.Value, error)

// GradCheck holds the two gradients compared by CheckGradients.
type GradCheck struct {
	Analytic []float64
	Numeric  []float64
	// MaxAbsDiff is the largest |analytic - numeric| over all inputs.
	MaxAbsDiff float64
}

// NumericalGradient estimates the gradient of f at x with central finite differences.
// f is rebuilt from fresh leaves at every probe point.
func NumericalGradient(f Func, x []float64) ([]float64, error) {
	var evalErr error
	objective := func(p []float64) float64 {
		out, err := f(value.NewSlice(p))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return out.Data
	}

	grad := fd.Gradient(make([]float64, len(x)), objective, x, &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return nil, fmt.Errorf("numerical gradient: %w", evalErr)
	}
	return grad, nil
}

// CheckGradients builds f at x, runs Backward and compares the gradient on every input leaf
// against NumericalGradient. values agree when they are within tol absolutely or relatively.
func CheckGradients(f Func, x []float64, tol float64) (*GradCheck, error) {
	leaves := value.NewSlice(x)
	out, err := f(leaves)
	if err != nil {
		return nil, fmt.Errorf("gradient check forward: %w", err)
	}
	Backward(out)

	numeric, err := NumericalGradient(f, x)
	if err != nil {
		return nil, err
	}

	check := &GradCheck{
		Analytic: value.Grads(leaves),
		Numeric:  numeric,
	}
	check.MaxAbsDiff = floats.Distance(check.Analytic, check.Numeric, math.Inf(1))

	for i := range check.Analytic {
		if !scalar.EqualWithinAbsOrRel(check.Analytic[i], check.Numeric[i], tol, tol) {
			return check, fmt.Errorf("%w: input %d analytic %g numeric %g", ErrGradientMismatch, i, check.Analytic[i], check.Numeric[i])
		}
	}
	return check, nil
}
