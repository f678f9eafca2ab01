package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"go-grad/autograd"
	"go-grad/nn"
	"go-grad/utility"
	"go-grad/value"
)

func main() {
	fmt.Println("--> value test")

	// 1. leaves and a small expression: z = x**2 + y
	x := value.Named("x", 2)
	y := value.Named("y", 3)
	sq, err := x.Pow(2)
	if err != nil {
		log.Fatalf("Error computing x**2: %v", err)
	}
	z := sq.Add(y)
	z.Label = "z"
	fmt.Printf("z = %s\n", z)

	// 2. backward pass
	z.Backward()
	fmt.Printf("dz/dx = %.4f (expected 4), dz/dy = %.4f (expected 1)\n", x.Grad, y.Grad)

	// 3. gradients accumulate across calls until they are zeroed
	z.Backward()
	fmt.Printf("after a second backward: dz/dx = %.4f, dz/dy = %.4f\n", x.Grad, y.Grad)
	autograd.ZeroGrad([]*value.Value{x, y})
	fmt.Printf("after ZeroGrad: dz/dx = %.4f, dz/dy = %.4f\n", x.Grad, y.Grad)

	// 4. a reused operand: c = a*a + a, dc/da = 2a + 1
	a := value.Named("a", -3)
	c := a.Mul(a).Add(a)
	c.Backward()
	fmt.Printf("c = a*a + a at a=-3: c = %.4f, dc/da = %.4f (expected -5)\n", c.Data, a.Grad)

	// 5. domain errors come back as errors, not NaN
	if _, err := value.New(-1).Pow(0.5); errors.Is(err, value.ErrDomain) {
		fmt.Printf("(-1)**0.5 rejected: %v\n", err)
	} else {
		log.Fatalf("Expected a domain error from (-1)**0.5, got %v", err)
	}
	fmt.Println()

	// -------------------- Activation section -------------------- //

	fmt.Println("--> activation functions")

	for _, in := range []float64{-2.0, -0.5, 0.0, 0.5, 2.0} {
		v := value.New(in)
		fmt.Printf("x=%5.2f  relu=%.4f  tanh=%7.4f  sigmoid=%.4f\n",
			in, v.ReLU().Data, v.Tanh().Data, v.Sigmoid().Data)
	}
	fmt.Println()

	// ------------------- Gradient check section ------------- //

	fmt.Println("--> finite difference check")

	f := func(in []*value.Value) (*value.Value, error) {
		p, q := in[0], in[1]
		r, err := p.Mul(q).AddScalar(2).Div(q.Tanh().AddScalar(2))
		if err != nil {
			return nil, err
		}
		return r.Sigmoid().Add(p.ReLU()), nil
	}
	check, err := autograd.CheckGradients(f, []float64{0.7, -1.3}, 1e-6)
	if err != nil {
		log.Fatalf("Error checking gradients: %v", err)
	}
	fmt.Printf("analytic %v\nnumeric  %v\nmax |diff| %.2e\n", check.Analytic, check.Numeric, check.MaxAbsDiff)
	fmt.Println()

	// ------------------- MLP section ------------- //

	fmt.Println("--- MLP, loss and autograd demo ---")

	model, err := nn.NewMLP(3, []int{4, 4, 1}, nn.WithSeed(1337))
	if err != nil {
		log.Fatalf("Error creating MLP: %v", err)
	}
	utility.NewModelInspector(model).Summary(os.Stdout)

	xs := [][]float64{{2, 3, -1}, {3, -1, 0.5}, {0.5, 1, 1}, {1, 1, -1}}
	ys := []float64{1, -1, -1, 1}

	for step := 0; step < 20; step++ {
		preds := make([]*value.Value, len(xs))
		for i, in := range xs {
			out, err := model.ForwardScalar(value.NewSlice(in))
			if err != nil {
				log.Fatalf("Error in forward pass: %v", err)
			}
			preds[i] = out
		}

		loss, err := nn.MSE(preds, ys)
		if err != nil {
			log.Fatalf("Error calculating loss: %v", err)
		}

		model.ZeroGrad()
		loss.Backward()
		for _, p := range model.Parameters() {
			p.Data -= 0.1 * p.Grad
		}

		if step%5 == 0 || step == 19 {
			fmt.Printf("step %2d  loss %.6f  preds %.3f\n", step, loss.Data, value.Data(preds))
		}
	}

	// shape errors are reported, not panicked
	if _, err := model.Forward(value.NewSlice([]float64{1, 2})); err != nil {
		fmt.Printf("2 inputs into a 3-input MLP: %v\n", err)
	}

	// -------------- Graph export ------------------ //

	fmt.Println("\n--- computation graph of z = x**2 + y (graphviz) ---")
	if err := autograd.WriteDOT(os.Stdout, z); err != nil {
		log.Fatalf("Error writing graph: %v", err)
	}

	fmt.Println("\n--- stats achieved ---")
}
