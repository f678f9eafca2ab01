package nn

import "errors"

var (
	// ErrArity is returned when a forward pass or loss receives the wrong number of inputs.
	ErrArity = errors.New("nn: arity mismatch")
	// ErrShape is returned when loaded parameters do not fit the model.
	ErrShape = errors.New("nn: shape mismatch")
)
