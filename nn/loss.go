package nn

import (
	"fmt"

	"go-grad/value"
)

// MSE is the mean of (pred_i - target_i)^2.
func MSE(preds []*value.Value, targets []float64) (*value.Value, error) {
	if len(preds) == 0 || len(preds) != len(targets) {
		return nil, fmt.Errorf("%w: mse got %d predictions and %d targets", ErrArity, len(preds), len(targets))
	}

	terms := make([]*value.Value, len(preds))
	for i, p := range preds {
		sq, err := p.AddScalar(-targets[i]).Pow(2)
		if err != nil {
			return nil, fmt.Errorf("mse term %d: %w", i, err)
		}
		terms[i] = sq
	}
	return value.Mean(terms...)
}

// HingeLoss is the max-margin loss mean(relu(1 - y_i * s_i)) for labels y_i in {-1, +1}.
func HingeLoss(scores []*value.Value, labels []float64) (*value.Value, error) {
	if len(scores) == 0 || len(scores) != len(labels) {
		return nil, fmt.Errorf("%w: hinge loss got %d scores and %d labels", ErrArity, len(scores), len(labels))
	}

	terms := make([]*value.Value, len(scores))
	for i, s := range scores {
		terms[i] = s.MulScalar(-labels[i]).AddScalar(1).ReLU()
	}
	return value.Mean(terms...)
}

// L2Penalty is alpha * sum(p^2), the usual weight decay term added to a loss.
func L2Penalty(params []*value.Value, alpha float64) *value.Value {
	sq := make([]*value.Value, len(params))
	for i, p := range params {
		sq[i] = p.Mul(p)
	}
	return value.Sum(sq...).MulScalar(alpha)
}

// Accuracy is the fraction of scores whose sign matches the sign of their label.
func Accuracy(scores []*value.Value, labels []float64) (float64, error) {
	if len(scores) == 0 || len(scores) != len(labels) {
		return 0, fmt.Errorf("%w: accuracy got %d scores and %d labels", ErrArity, len(scores), len(labels))
	}
	correct := 0
	for i, s := range scores {
		if (s.Data > 0) == (labels[i] > 0) {
			correct++
		}
	}
	return float64(correct) / float64(len(scores)), nil
}
