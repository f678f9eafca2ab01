package moons

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"go-grad/autograd"
	"go-grad/nn"
	"go-grad/optimizer"
	"go-grad/value"
)

// Objective builds the regularized max-margin loss of model over ds:
// mean(relu(1 - y_i * score_i)) + alpha * sum(p^2). it also reports the training accuracy
// of the same scores.
func Objective(model *nn.MLP, ds *Dataset, alpha float64) (*value.Value, float64, error) {
	scores, err := Scores(model, ds)
	if err != nil {
		return nil, 0, err
	}

	dataLoss, err := nn.HingeLoss(scores, ds.Y)
	if err != nil {
		return nil, 0, err
	}
	loss := dataLoss
	if alpha != 0 {
		loss = dataLoss.Add(nn.L2Penalty(model.Parameters(), alpha))
	}

	acc, err := nn.Accuracy(scores, ds.Y)
	if err != nil {
		return nil, 0, err
	}
	return loss, acc, nil
}

// Scores runs model on every point of ds.
func Scores(model *nn.MLP, ds *Dataset) ([]*value.Value, error) {
	scores := make([]*value.Value, ds.Len())
	for i, x := range ds.X {
		s, err := model.ForwardScalar(value.NewSlice(x))
		if err != nil {
			return nil, fmt.Errorf("moons: sample %d: %w", i, err)
		}
		scores[i] = s
	}
	return scores, nil
}

// LinearDecay is the schedule lr_k = base * (1 - 0.9 * k / steps), ending at a tenth of base.
func LinearDecay(base float64, k, steps int) float64 {
	if steps <= 0 {
		return base
	}
	return base * (1 - 0.9*float64(k)/float64(steps))
}

// Config holds the training hyperparameters.
type Config struct {
	Steps        int
	LearningRate float64
	Alpha        float64 // L2 strength
	BatchSize    int     // 0 means the full dataset every step
}

// StepResult describes one optimization step.
type StepResult struct {
	Step         int
	Loss         float64
	Accuracy     float64
	LearningRate float64
	GradNorm     float64
	Nodes        int // size of the step's computational graph
}

// Trainer runs SGD with linear learning-rate decay on a dataset.
type Trainer struct {
	model *nn.MLP
	opt   *optimizer.SGD
	data  *Dataset
	cfg   Config
	rng   *rand.Rand
	step  int
}

func NewTrainer(model *nn.MLP, data *Dataset, cfg Config, r *rand.Rand) (*Trainer, error) {
	if model.InSize() != 2 || model.OutSize() != 1 {
		return nil, fmt.Errorf("%w: moons needs a 2 -> 1 model, got %d -> %d", nn.ErrArity, model.InSize(), model.OutSize())
	}
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("moons: steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Alpha < 0 {
		return nil, fmt.Errorf("moons: alpha must be non-negative, got %g", cfg.Alpha)
	}
	opt, err := optimizer.NewSGD(model.Parameters(), cfg.LearningRate)
	if err != nil {
		return nil, err
	}
	return &Trainer{model: model, opt: opt, data: data, cfg: cfg, rng: r}, nil
}

// Done reports whether every configured step has run.
func (t *Trainer) Done() bool { return t.step >= t.cfg.Steps }

// Step runs one forward, backward and update cycle.
func (t *Trainer) Step() (StepResult, error) {
	if t.Done() {
		return StepResult{}, fmt.Errorf("moons: all %d steps already ran", t.cfg.Steps)
	}

	lr := LinearDecay(t.cfg.LearningRate, t.step, t.cfg.Steps)
	if err := t.opt.SetLearningRate(lr); err != nil {
		return StepResult{}, err
	}

	batch := t.data.Batch(t.cfg.BatchSize, t.rng)
	loss, acc, err := Objective(t.model, batch, t.cfg.Alpha)
	if err != nil {
		return StepResult{}, err
	}

	nodes := len(value.TopoSort(loss))
	t.opt.ZeroGrad()
	autograd.Backward(loss)
	norm := autograd.GradNorm(t.opt.Parameters())
	if err := t.opt.Step(); err != nil {
		return StepResult{}, fmt.Errorf("moons: step %d: %w", t.step, err)
	}

	res := StepResult{Step: t.step, Loss: loss.Data, Accuracy: acc, LearningRate: lr, GradNorm: norm, Nodes: nodes}
	t.step++
	return res, nil
}

// Run calls Step until Done, passing every result to onStep if it is not nil.
func (t *Trainer) Run(onStep func(StepResult)) error {
	for !t.Done() {
		res, err := t.Step()
		if err != nil {
			return err
		}
		if onStep != nil {
			onStep(res)
		}
	}
	return nil
}

// Evaluate computes the accuracy of model on ds, splitting the points across workers
// goroutines (0 means GOMAXPROCS). it only reads parameter values, so it must not run
// while the model is being trained.
func Evaluate(model *nn.MLP, ds *Dataset, workers int) (float64, error) {
	n := ds.Len()
	if n == 0 {
		return 0, fmt.Errorf("moons: evaluate on an empty dataset")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	var wg sync.WaitGroup
	correct := make([]int, workers)
	errs := make([]error, workers)
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				s, err := model.ForwardScalar(value.NewSlice(ds.X[i]))
				if err != nil {
					errs[w] = fmt.Errorf("moons: sample %d: %w", i, err)
					return
				}
				if (s.Data > 0) == (ds.Y[i] > 0) {
					correct[w]++
				}
			}
		}(w, start, end)
	}
	wg.Wait()

	total := 0
	for w := range correct {
		if errs[w] != nil {
			return 0, errs[w]
		}
		total += correct[w]
	}
	return float64(total) / float64(n), nil
}

// Boundary renders the sign of the model's score on a cols x rows grid spanning the bounding
// box of ds, with the data points drawn on top ('o' for -1, 'x' for +1).
func Boundary(model *nn.MLP, ds *Dataset, cols, rows int) (string, error) {
	if cols < 2 || rows < 2 {
		return "", fmt.Errorf("moons: boundary grid must be at least 2x2, got %dx%d", cols, rows)
	}
	if ds.Len() == 0 {
		return "", fmt.Errorf("moons: boundary of an empty dataset")
	}
	s := ds.Summarize()
	minX, maxX := s.MinX-0.25, s.MaxX+0.25
	minY, maxY := s.MinY-0.25, s.MaxY+0.25
	dx := (maxX - minX) / float64(cols-1)
	dy := (maxY - minY) / float64(rows-1)

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = make([]byte, cols)
		y := maxY - float64(r)*dy
		for c := range grid[r] {
			x := minX + float64(c)*dx
			out, err := model.ForwardScalar(value.NewSlice([]float64{x, y}))
			if err != nil {
				return "", err
			}
			if out.Data > 0 {
				grid[r][c] = '+'
			} else {
				grid[r][c] = '.'
			}
		}
	}

	for i, p := range ds.X {
		c := int((p[0]-minX)/dx + 0.5)
		r := int((maxY-p[1])/dy + 0.5)
		if ds.Y[i] > 0 {
			grid[r][c] = 'x'
		} else {
			grid[r][c] = 'o'
		}
	}

	out := make([]byte, 0, rows*(cols+1))
	for _, line := range grid {
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out), nil
}
