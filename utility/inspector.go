package utility

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go-grad/nn"
	"go-grad/value"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// provides utility functions to analyze and log details of a model.
type ModelInspector struct {
	model *nn.MLP
}

// creates a new inspector for the given network.
func NewModelInspector(model *nn.MLP) *ModelInspector {
	return &ModelInspector{model: model}
}

// LayerStats describes one layer: its shape and the size of its weights and gradients.
type LayerStats struct {
	Name       string
	Weights    [2]int // rows (neurons) x cols (inputs)
	Params     int
	WeightNorm float64 // frobenius norm of the weight matrix
	GradNorm   float64
	BiasMean   float64
}

// Stats collects LayerStats for every layer in order.
func (mi *ModelInspector) Stats() []LayerStats {
	layers := mi.model.Layers()
	stats := make([]LayerStats, len(layers))
	for i, l := range layers {
		w := l.WeightMatrix()
		r, c := w.Dims()
		biases := l.Biases()
		stats[i] = LayerStats{
			Name:       l.Name(),
			Weights:    [2]int{r, c},
			Params:     len(l.Parameters()),
			WeightNorm: mat.Norm(w, 2),
			GradNorm:   mat.Norm(l.GradMatrix(), 2),
			BiasMean:   floats.Sum(biases) / float64(len(biases)),
		}
	}
	return stats
}

// prints summary of the model
func (mi *ModelInspector) Summary(out io.Writer) error {
	fmt.Fprintln(out, "\n--- Model Summary ---")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layer\tWeights\tParam #\t|W|\t|dW|\tmean(b)")
	fmt.Fprintln(w, "-----\t-------\t-------\t---\t----\t-------")

	for _, s := range mi.Stats() {
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.4f\t%.4f\t%.4f\n",
			s.Name, s.Weights[0], s.Weights[1], s.Params, s.WeightNorm, s.GradNorm, s.BiasMean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total := mi.CountParameters()
	data := value.Data(mi.model.Parameters())

	fmt.Fprintln(out, "----------------------------------")
	fmt.Fprintf(out, "Total Parameters: %d\n", total)
	fmt.Fprintf(out, "Parameter Range: [%.4f, %.4f]\n", floats.Min(data), floats.Max(data))
	_, err := fmt.Fprintln(out, "----------------------------------")
	return err
}

// number of scalar parameters in the model.
func (mi *ModelInspector) CountParameters() int {
	total := 0
	for _, l := range mi.model.Layers() {
		total += len(l.Parameters())
	}
	return total
}
