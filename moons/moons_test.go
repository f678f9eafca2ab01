package moons

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"go-grad/nn"
)

func TestGenerate(t *testing.T) {
	ds, err := Generate(101, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 101 || len(ds.X) != 101 {
		t.Fatalf("expected 101 points, got %d", ds.Len())
	}

	s := ds.Summarize()
	if s.Positive != 51 {
		t.Errorf("expected 51 points on the lower moon, got %d", s.Positive)
	}

	// without noise every point sits on its unit half circle
	for i, p := range ds.X {
		cx, cy := 0.0, 0.0
		if ds.Y[i] > 0 {
			cx, cy = 1, 0.5
		}
		if r := math.Hypot(p[0]-cx, p[1]-cy); math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %d %v is %g from its moon center", i, p, r)
		}
		if ds.Y[i] < 0 && p[1] < -1e-9 {
			t.Fatalf("upper moon point %d below the axis: %v", i, p)
		}
	}

	if s.MinX > -0.99 || s.MaxX < 1.99 {
		t.Errorf("unexpected x range [%g, %g]", s.MinX, s.MaxX)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, _ := Generate(50, 0.1, rand.New(rand.NewSource(7)))
	b, _ := Generate(50, 0.1, rand.New(rand.NewSource(7)))
	for i := range a.X {
		if a.X[i][0] != b.X[i][0] || a.X[i][1] != b.X[i][1] || a.Y[i] != b.Y[i] {
			t.Fatalf("point %d differs", i)
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if _, err := Generate(1, 0.1, r); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := Generate(10, -0.1, r); err == nil {
		t.Error("expected error for negative noise")
	}
}

func TestBatchAndSplit(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	ds, _ := Generate(40, 0.1, r)

	b := ds.Batch(10, r)
	if b.Len() != 10 {
		t.Errorf("expected batch of 10, got %d", b.Len())
	}
	if ds.Batch(0, r) != ds || ds.Batch(100, r) != ds {
		t.Error("expected full dataset for size 0 or oversized batch")
	}

	train, test, err := ds.Split(0.75)
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 30 || test.Len() != 10 {
		t.Errorf("expected 30/10 split, got %d/%d", train.Len(), test.Len())
	}
	if _, _, err := ds.Split(1); err == nil {
		t.Error("expected error for fraction 1")
	}
}

func TestLinearDecay(t *testing.T) {
	if got := LinearDecay(1, 0, 100); got != 1 {
		t.Errorf("expected 1 at step 0, got %g", got)
	}
	if got := LinearDecay(1, 50, 100); math.Abs(got-0.55) > 1e-12 {
		t.Errorf("expected 0.55 halfway, got %g", got)
	}
	if got := LinearDecay(2, 100, 100); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected 0.2 at the end, got %g", got)
	}
}

func TestObjective(t *testing.T) {
	model, err := nn.NewMLP(2, []int{4, 1}, nn.WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}
	ds, _ := Generate(20, 0.1, rand.New(rand.NewSource(3)))

	plain, acc, err := Objective(model, ds, 0)
	if err != nil {
		t.Fatal(err)
	}
	if acc < 0 || acc > 1 {
		t.Errorf("accuracy out of range: %g", acc)
	}
	reg, _, err := Objective(model, ds, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := plain.Data + 0.1*sumSquares(model)
	if math.Abs(reg.Data-want) > 1e-9 {
		t.Errorf("expected regularized loss %g, got %g", want, reg.Data)
	}
}

func sumSquares(m *nn.MLP) float64 {
	s := 0.0
	for _, p := range m.Parameters() {
		s += p.Data * p.Data
	}
	return s
}

func TestTrainerLowersLoss(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	ds, _ := Generate(60, 0.1, r)
	model, err := nn.NewMLP(2, []int{8, 8, 1}, nn.WithActivation(nn.ReLU), nn.WithSeed(4))
	if err != nil {
		t.Fatal(err)
	}

	tr, err := NewTrainer(model, ds, Config{Steps: 40, LearningRate: 0.5, Alpha: 1e-4}, r)
	if err != nil {
		t.Fatal(err)
	}

	var results []StepResult
	if err := tr.Run(func(res StepResult) { results = append(results, res) }); err != nil {
		t.Fatal(err)
	}
	if len(results) != 40 || !tr.Done() {
		t.Fatalf("expected 40 steps, got %d", len(results))
	}
	// 60 forward passes through a 2-8-8-1 network plus the loss and penalty
	if results[0].Nodes < 60*len(model.Parameters()) {
		t.Errorf("expected a graph of at least %d nodes, got %d", 60*len(model.Parameters()), results[0].Nodes)
	}
	if results[0].LearningRate != 0.5 || results[39].LearningRate >= 0.5 {
		t.Errorf("learning rate did not decay: %g -> %g", results[0].LearningRate, results[39].LearningRate)
	}

	final, _, err := Objective(model, ds, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if final.Data >= results[0].Loss {
		t.Errorf("expected loss below %g, got %g", results[0].Loss, final.Data)
	}

	if _, err := tr.Step(); err == nil {
		t.Error("expected error stepping a finished trainer")
	}
}

func TestNewTrainerValidation(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	ds, _ := Generate(10, 0.1, r)
	wide, _ := nn.NewMLP(3, []int{1}, nn.WithSeed(5))
	if _, err := NewTrainer(wide, ds, Config{Steps: 1, LearningRate: 1}, r); !errors.Is(err, nn.ErrArity) {
		t.Errorf("expected ErrArity for a 3-input model, got %v", err)
	}
	ok, _ := nn.NewMLP(2, []int{1}, nn.WithSeed(5))
	if _, err := NewTrainer(ok, ds, Config{Steps: 0, LearningRate: 1}, r); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := NewTrainer(ok, ds, Config{Steps: 1, LearningRate: 0}, r); err == nil {
		t.Error("expected error for zero learning rate")
	}
}

func TestEvaluateMatchesSerialAccuracy(t *testing.T) {
	ds, _ := Generate(57, 0.2, rand.New(rand.NewSource(6)))
	model, _ := nn.NewMLP(2, []int{6, 1}, nn.WithSeed(6))

	scores, err := Scores(model, ds)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := nn.Accuracy(scores, ds.Y)

	for _, workers := range []int{0, 1, 4, 100} {
		got, err := Evaluate(model, ds, workers)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("workers=%d: expected %g, got %g", workers, want, got)
		}
	}

	if _, err := Evaluate(model, &Dataset{}, 2); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestBoundary(t *testing.T) {
	ds, _ := Generate(10, 0, rand.New(rand.NewSource(8)))
	model, _ := nn.NewMLP(2, []int{4, 1}, nn.WithSeed(8))

	out, err := Boundary(model, ds, 30, 12)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 || len(lines[0]) != 30 {
		t.Fatalf("expected 12 lines of 30, got %d lines of %d", len(lines), len(lines[0]))
	}
	if !strings.ContainsAny(out, "ox") {
		t.Error("expected data points in the plot")
	}
	if _, err := Boundary(model, ds, 1, 1); err == nil {
		t.Error("expected error for a degenerate grid")
	}
	if _, err := Boundary(model, &Dataset{}, 30, 12); err == nil {
		t.Error("expected error for an empty dataset")
	}
}
