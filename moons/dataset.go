// Package moons is the two-moons binary classification problem used to exercise the engine
// under training: a generator, a hinge-loss objective, a training loop and evaluation.
package moons

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Dataset holds 2-d points and their labels, -1 for the upper moon and +1 for the lower one.
type Dataset struct {
	X [][]float64
	Y []float64
}

// Generate draws n points on two interleaving half circles and adds N(0, noise^2) jitter to
// each coordinate. the upper moon gets n/2 points, the lower one the rest.
func Generate(n int, noise float64, r *rand.Rand) (*Dataset, error) {
	if n < 2 {
		return nil, fmt.Errorf("moons: need at least 2 samples, got %d", n)
	}
	if noise < 0 || math.IsNaN(noise) || math.IsInf(noise, 0) {
		return nil, fmt.Errorf("moons: noise must be a finite non-negative number, got %g", noise)
	}

	upper := n / 2
	lower := n - upper
	ds := &Dataset{X: make([][]float64, 0, n), Y: make([]float64, 0, n)}

	for i := 0; i < upper; i++ {
		theta := math.Pi * float64(i) / float64(max(upper-1, 1))
		ds.add(math.Cos(theta), math.Sin(theta), -1, noise, r)
	}
	for i := 0; i < lower; i++ {
		theta := math.Pi * float64(i) / float64(max(lower-1, 1))
		ds.add(1-math.Cos(theta), 0.5-math.Sin(theta), 1, noise, r)
	}

	r.Shuffle(n, func(i, j int) {
		ds.X[i], ds.X[j] = ds.X[j], ds.X[i]
		ds.Y[i], ds.Y[j] = ds.Y[j], ds.Y[i]
	})
	return ds, nil
}

func (d *Dataset) add(x, y, label, noise float64, r *rand.Rand) {
	if noise > 0 {
		x += r.NormFloat64() * noise
		y += r.NormFloat64() * noise
	}
	d.X = append(d.X, []float64{x, y})
	d.Y = append(d.Y, label)
}

func (d *Dataset) Len() int { return len(d.Y) }

// Batch samples size points without replacement. size <= 0 or size >= Len returns d itself.
func (d *Dataset) Batch(size int, r *rand.Rand) *Dataset {
	if size <= 0 || size >= d.Len() {
		return d
	}
	b := &Dataset{X: make([][]float64, size), Y: make([]float64, size)}
	for i, j := range r.Perm(d.Len())[:size] {
		b.X[i] = d.X[j]
		b.Y[i] = d.Y[j]
	}
	return b
}

// Split returns the first frac of the points and the remainder.
func (d *Dataset) Split(frac float64) (*Dataset, *Dataset, error) {
	if !(frac > 0 && frac < 1) {
		return nil, nil, fmt.Errorf("moons: split fraction must be in (0, 1), got %g", frac)
	}
	k := int(math.Round(frac * float64(d.Len())))
	if k == 0 || k == d.Len() {
		return nil, nil, fmt.Errorf("moons: split of %d points at %g leaves an empty side", d.Len(), frac)
	}
	return &Dataset{X: d.X[:k], Y: d.Y[:k]}, &Dataset{X: d.X[k:], Y: d.Y[k:]}, nil
}

// Column copies feature i of every point.
func (d *Dataset) Column(i int) []float64 {
	col := make([]float64, d.Len())
	for j, x := range d.X {
		col[j] = x[i]
	}
	return col
}

// Summary is a short description of the data: counts per class and the bounding box.
type Summary struct {
	Count        int
	Positive     int
	MinX, MaxX   float64
	MinY, MaxY   float64
	MeanX, MeanY float64
}

func (d *Dataset) Summarize() Summary {
	xs, ys := d.Column(0), d.Column(1)
	pos := 0
	for _, y := range d.Y {
		if y > 0 {
			pos++
		}
	}
	n := float64(d.Len())
	return Summary{
		Count:    d.Len(),
		Positive: pos,
		MinX:     floats.Min(xs),
		MaxX:     floats.Max(xs),
		MinY:     floats.Min(ys),
		MaxY:     floats.Max(ys),
		MeanX:    floats.Sum(xs) / n,
		MeanY:    floats.Sum(ys) / n,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d points (%d positive), x in [%.2f, %.2f], y in [%.2f, %.2f], mean (%.2f, %.2f)",
		s.Count, s.Positive, s.MinX, s.MaxX, s.MinY, s.MaxY, s.MeanX, s.MeanY)
}
