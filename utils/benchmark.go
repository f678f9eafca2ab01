package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"go-grad/nn"
	"go-grad/value"
)

// bench params
const (
	numIterations    = 100
	shortChain       = 1_000
	mediumChain      = 10_000
	longChain        = 100_000
	defaultBatchSize = 32
)

// utility functions for benchmark creation

func generateRandomData(r *rand.Rand, size int) []float64 {
	data := make([]float64, size)
	for i := range data {
		data[i] = r.Float64()*2 - 1
	}
	return data
}

// we perform the following graph-size based tasks:
// 1) building a chain of adds and muls   - 1k, 10k, 100k nodes
// 2) backward over that chain
// 3) a tanh chain, forward and backward

// all durations are averaged per iteration.

func buildChain(xs []*value.Value) *value.Value {
	acc := xs[0]
	for i, x := range xs[1:] {
		if i%2 == 0 {
			acc = acc.Add(x)
		} else {
			acc = acc.Mul(x)
		}
	}
	return acc
}

func benchmarkBuild(r *rand.Rand, n int, iterations int) time.Duration {
	var totalDuration time.Duration
	xs := value.NewSlice(generateRandomData(r, n))

	for i := 0; i < iterations; i++ {
		start := time.Now()
		buildChain(xs)
		totalDuration += time.Since(start)
	}
	return totalDuration / time.Duration(iterations)
}

func benchmarkBackward(r *rand.Rand, n int, iterations int) time.Duration {
	var totalDuration time.Duration
	xs := value.NewSlice(generateRandomData(r, n))
	root := buildChain(xs)

	for i := 0; i < iterations; i++ {
		start := time.Now()
		root.Backward()
		totalDuration += time.Since(start)
	}
	return totalDuration / time.Duration(iterations)
}

func benchmarkTanhChain(n int, iterations int) time.Duration {
	var totalDuration time.Duration
	for i := 0; i < iterations; i++ {
		x := value.New(0.5)
		start := time.Now()
		y := x
		for j := 0; j < n; j++ {
			y = y.Tanh()
		}
		y.Backward()
		totalDuration += time.Since(start)
	}
	return totalDuration / time.Duration(iterations)
}

// we perform the following model and loss benchmarks
// 1) mlp forward over a batch
// 2) hinge loss
// 3) full forward-backward

func randomBatch(r *rand.Rand, batchSize, inputDim int) ([][]float64, []float64) {
	xs := make([][]float64, batchSize)
	ys := make([]float64, batchSize)
	for i := range xs {
		xs[i] = generateRandomData(r, inputDim)
		ys[i] = 1
		if r.Intn(2) == 0 {
			ys[i] = -1
		}
	}
	return xs, ys
}

func forwardBatch(model *nn.MLP, xs [][]float64) []*value.Value {
	scores := make([]*value.Value, len(xs))
	for i, x := range xs {
		s, err := model.ForwardScalar(value.NewSlice(x))
		if err != nil {
			log.Fatalf("go-grad: Error in MLP forward: %v", err)
		}
		scores[i] = s
	}
	return scores
}

func benchmarkMLPForward(r *rand.Rand, batchSize, inputDim, hiddenDim int, iterations int) time.Duration {
	var totalDuration time.Duration
	model, err := nn.NewMLP(inputDim, []int{hiddenDim, hiddenDim, 1}, nn.WithRand(r))
	if err != nil {
		log.Fatalf("go-grad: Error creating MLP: %v", err)
	}
	xs, _ := randomBatch(r, batchSize, inputDim)

	for i := 0; i < iterations; i++ {
		start := time.Now()
		forwardBatch(model, xs)
		totalDuration += time.Since(start)
	}
	return totalDuration / time.Duration(iterations)
}

func benchmarkHingeLoss(r *rand.Rand, batchSize int, iterations int) time.Duration {
	var totalDuration time.Duration
	scores := value.NewSlice(generateRandomData(r, batchSize))
	_, labels := randomBatch(r, batchSize, 1)

	for i := 0; i < iterations; i++ {
		start := time.Now()
		_, err := nn.HingeLoss(scores, labels)
		if err != nil {
			log.Fatalf("go-grad: Error in HingeLoss: %v", err)
		}
		totalDuration += time.Since(start)
	}
	return totalDuration / time.Duration(iterations)
}

func benchmarkForwardBackward(r *rand.Rand, batchSize, inputDim, hiddenDim int, iterations int) time.Duration {
	var totalDuration time.Duration
	model, err := nn.NewMLP(inputDim, []int{hiddenDim, hiddenDim, 1}, nn.WithActivation(nn.ReLU), nn.WithRand(r))
	if err != nil {
		log.Fatalf("go-grad: Error creating MLP: %v", err)
	}

	for i := 0; i < iterations; i++ {
		xs, ys := randomBatch(r, batchSize, inputDim)

		// begin the timer here
		start := time.Now()

		loss, err := nn.HingeLoss(forwardBatch(model, xs), ys)
		if err != nil {
			log.Fatalf("go-grad: Error in loss during forward/backward: %v", err)
		}
		loss.Backward()
		totalDuration += time.Since(start)
		// end the timer here

		model.ZeroGrad()
	}
	return totalDuration / time.Duration(iterations)
}

func main() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	fmt.Println("--- go-grad Benchmarks ---")
	fmt.Printf("Iterations per benchmark: %d\n\n", numIterations)

	for _, n := range []int{shortChain, mediumChain, longChain} {
		iters := numIterations * shortChain / n
		fmt.Printf("--- Graph size: %d nodes (%d iterations) ---\n", n, iters)
		fmt.Printf("Build add/mul chain: %v\n", benchmarkBuild(r, n, iters))
		fmt.Printf("Backward add/mul chain: %v\n", benchmarkBackward(r, n, iters))
		fmt.Printf("Tanh chain forward+backward: %v\n", benchmarkTanhChain(n, iters))
		fmt.Println()
	}

	fmt.Println("--- Model and Loss Benchmarks ---")
	inputDim := 2
	hiddenDim := 16

	fmt.Printf("MLP Forward (Batch: %d, Net: %d-%d-%d-1): %v\n",
		defaultBatchSize, inputDim, hiddenDim, hiddenDim,
		benchmarkMLPForward(r, defaultBatchSize, inputDim, hiddenDim, numIterations))

	fmt.Printf("HingeLoss (Batch: %d): %v\n",
		defaultBatchSize,
		benchmarkHingeLoss(r, defaultBatchSize, numIterations))

	fmt.Printf("Full Forward-Backward (Net: %d-%d-%d-1, Batch: %d): %v\n",
		inputDim, hiddenDim, hiddenDim, defaultBatchSize,
		benchmarkForwardBackward(r, defaultBatchSize, inputDim, hiddenDim, numIterations/10)) // fewer iterations for the slower fwd-bwd

	fmt.Println("\n--- Benchmarks Complete ---")
}
