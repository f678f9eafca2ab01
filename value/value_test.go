package value

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func mustPow(t *testing.T, v *Value, n float64) *Value {
	t.Helper()
	out, err := v.Pow(n)
	if err != nil {
		t.Fatalf("Pow(%g, %g) failed: %v", v.Data, n, err)
	}
	return out
}

// TestSquarePlusLinear checks z = x**2 + y at x=2, y=3.
func TestSquarePlusLinear(t *testing.T) {
	x := New(2.0)
	y := New(3.0)
	z := mustPow(t, x, 2).Add(y)

	if z.Data != 7.0 {
		t.Fatalf("expected z=7, got %g", z.Data)
	}

	z.Backward()

	if x.Grad != 4.0 {
		t.Errorf("expected dz/dx=4, got %g", x.Grad)
	}
	if y.Grad != 1.0 {
		t.Errorf("expected dz/dy=1, got %g", y.Grad)
	}
}

// TestSharedOperandAccumulates uses the same leaf twice: c = a*a + a.
func TestSharedOperandAccumulates(t *testing.T) {
	a := New(-3.0)
	c := a.Mul(a).Add(a)
	c.Backward()

	want := 2*a.Data + 1
	if a.Grad != want {
		t.Errorf("expected a.Grad=%g, got %g", want, a.Grad)
	}
}

func TestBackwardTwiceDoublesLeafGradients(t *testing.T) {
	a := New(1.5)
	b := New(-2.0)
	d := a.Mul(b)
	c := d.Add(a).Tanh()

	c.Backward()
	once := []float64{a.Grad, b.Grad}

	c.Backward()
	if !almostEqual(a.Grad, 2*once[0]) || !almostEqual(b.Grad, 2*once[1]) {
		t.Errorf("expected doubled gradients %v, got [%g %g]", []float64{2 * once[0], 2 * once[1]}, a.Grad, b.Grad)
	}

	a.ZeroGrad()
	b.ZeroGrad()
	c.Backward()
	if !almostEqual(a.Grad, once[0]) || !almostEqual(b.Grad, once[1]) {
		t.Errorf("expected single-call gradients %v after zeroing, got [%g %g]", once, a.Grad, b.Grad)
	}
}

// TestDiamond builds a -> b, a -> c, b -> d, c -> d; a must collect both branches.
func TestDiamond(t *testing.T) {
	a := New(0.5)
	b := a.MulScalar(3)   // db/da = 3
	c := mustPow(t, a, 2) // dc/da = 2a = 1
	d := b.Mul(c)         // dd/db = c, dd/dc = b
	d.Backward()

	// dd/da = c*3 + b*2a
	want := c.Data*3 + b.Data*2*a.Data
	if !almostEqual(a.Grad, want) {
		t.Errorf("expected a.Grad=%g, got %g", want, a.Grad)
	}
	if !almostEqual(b.Grad, c.Data) || !almostEqual(c.Grad, b.Data) {
		t.Errorf("expected b.Grad=%g c.Grad=%g, got %g %g", c.Data, b.Data, b.Grad, c.Grad)
	}
}

func TestTopoSortPlacesOperandsFirst(t *testing.T) {
	a := New(1)
	b := New(2)
	shared := a.Mul(b)
	root := shared.Add(shared.Tanh()).Add(a)

	order := TopoSort(root)
	pos := make(map[*Value]int, len(order))
	for i, n := range order {
		if _, dup := pos[n]; dup {
			t.Fatalf("node %v appears twice in topological order", n)
		}
		pos[n] = i
	}
	for _, n := range order {
		for _, operand := range n.Operands() {
			if pos[operand] >= pos[n] {
				t.Errorf("operand %v placed after consumer %v", operand, n)
			}
		}
	}
	if order[len(order)-1] != root {
		t.Errorf("expected root last, got %v", order[len(order)-1])
	}
	if len(order) != 6 {
		t.Errorf("expected 6 distinct nodes, got %d", len(order))
	}
}

func TestTopoSortNil(t *testing.T) {
	if order := TopoSort(nil); order != nil {
		t.Errorf("expected nil order, got %v", order)
	}
}

func TestLocalGradients(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		build    func(*Value) (*Value, error)
		wantData float64
		wantGrad float64
	}{
		{"neg", 2, func(v *Value) (*Value, error) { return v.Neg(), nil }, -2, -1},
		{"relu positive", 2, func(v *Value) (*Value, error) { return v.ReLU(), nil }, 2, 1},
		{"relu negative", -2, func(v *Value) (*Value, error) { return v.ReLU(), nil }, 0, 0},
		{"relu zero", 0, func(v *Value) (*Value, error) { return v.ReLU(), nil }, 0, 0},
		{"tanh", 0.5, func(v *Value) (*Value, error) { return v.Tanh(), nil }, math.Tanh(0.5), 1 - math.Tanh(0.5)*math.Tanh(0.5)},
		{"sigmoid", 0, func(v *Value) (*Value, error) { return v.Sigmoid(), nil }, 0.5, 0.25},
		{"exp", 1, func(v *Value) (*Value, error) { return v.Exp() }, math.E, math.E},
		{"log", 2, func(v *Value) (*Value, error) { return v.Log() }, math.Log(2), 0.5},
		{"cube", -2, func(v *Value) (*Value, error) { return v.Pow(3) }, -8, 12},
		{"sqrt", 4, func(v *Value) (*Value, error) { return v.Pow(0.5) }, 2, 0.25},
		{"reciprocal", 4, func(v *Value) (*Value, error) { return v.Reciprocal() }, 0.25, -1.0 / 16},
		{"sub", 5, func(v *Value) (*Value, error) { return Constant(1).Sub(v), nil }, -4, -1},
		{"div", 3, func(v *Value) (*Value, error) { return Constant(6).Div(v) }, 2, -6.0 / 9},
		{"add scalar", 3, func(v *Value) (*Value, error) { return v.AddScalar(1.5), nil }, 4.5, 1},
		{"mul scalar", 3, func(v *Value) (*Value, error) { return v.MulScalar(-2), nil }, -6, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New(tt.x)
			out, err := tt.build(x)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(out.Data, tt.wantData) {
				t.Errorf("expected data %g, got %g", tt.wantData, out.Data)
			}
			out.Backward()
			if !almostEqual(x.Grad, tt.wantGrad) {
				t.Errorf("expected grad %g, got %g", tt.wantGrad, x.Grad)
			}
		})
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Value, error)
	}{
		{"negative base fractional power", func() (*Value, error) { return Constant(-1).Pow(0.5) }},
		{"zero to negative power", func() (*Value, error) { return Constant(0).Pow(-1) }},
		{"zero to zero", func() (*Value, error) { return Constant(0).Pow(0) }},
		{"pow overflow", func() (*Value, error) { return Constant(10).Pow(400) }},
		{"divide by zero", func() (*Value, error) { return Constant(1).Div(Constant(0)) }},
		{"log zero", func() (*Value, error) { return Constant(0).Log() }},
		{"log negative", func() (*Value, error) { return Constant(-3).Log() }},
		{"exp overflow", func() (*Value, error) { return Constant(1000).Exp() }},
		{"reciprocal derivative overflow", func() (*Value, error) { return Constant(1e-200).Reciprocal() }},
		{"divide by tiny value", func() (*Value, error) { return Constant(1).Div(Constant(-1e-200)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.build()
			if err == nil {
				t.Fatalf("expected a domain error, got %v", out)
			}
			if !errors.Is(err, ErrDomain) {
				t.Errorf("expected ErrDomain, got %v", err)
			}
			if out != nil {
				t.Errorf("expected no node on error, got %v", out)
			}
		})
	}
}

func TestSmallReciprocalHasFiniteGradient(t *testing.T) {
	x := New(1e-100)
	r, err := x.Reciprocal()
	if err != nil {
		t.Fatalf("expected 1/1e-100 to be accepted, got %v", err)
	}
	r.Backward()
	if math.IsInf(x.Grad, 0) || math.IsNaN(x.Grad) {
		t.Errorf("expected a finite gradient, got %g", x.Grad)
	}
}

func TestNegativeBaseIntegralPowerIsAllowed(t *testing.T) {
	x := New(-2)
	y := mustPow(t, x, 2)
	if y.Data != 4 {
		t.Fatalf("expected 4, got %g", y.Data)
	}
	y.Backward()
	if x.Grad != -4 {
		t.Errorf("expected grad -4, got %g", x.Grad)
	}
}

func TestOperationsLeaveOperandsUntouched(t *testing.T) {
	a := New(2)
	b := New(3)
	_ = a.Mul(b).Add(a).Tanh()

	if a.Data != 2 || b.Data != 3 || a.Grad != 0 || b.Grad != 0 {
		t.Errorf("operands changed by forward pass: a=%v b=%v", a, b)
	}
	if !a.IsLeaf() || len(a.Operands()) != 0 {
		t.Errorf("leaf gained operands: %v", a.Operands())
	}
}

func TestOpLabels(t *testing.T) {
	x := New(2)
	sq := mustPow(t, x, 2)
	if got := sq.OpLabel(); got != "**2" {
		t.Errorf("expected **2, got %q", got)
	}
	if got := sq.Exponent(); got != 2 {
		t.Errorf("expected exponent 2, got %g", got)
	}
	if got := x.Add(x).Op(); got != OpAdd {
		t.Errorf("expected OpAdd, got %v", got)
	}
	if got := x.Op(); got != OpLeaf {
		t.Errorf("expected OpLeaf, got %v", got)
	}
	if got := Constant(1.5).Label; got != "1.5" {
		t.Errorf("expected constant label 1.5, got %q", got)
	}
}

func TestSumDotMean(t *testing.T) {
	xs := NewSlice([]float64{1, 2, 3})
	ws := NewSlice([]float64{4, 5, 6})

	dot, err := Dot(ws, xs)
	if err != nil {
		t.Fatalf("Dot failed: %v", err)
	}
	if dot.Data != 32 {
		t.Fatalf("expected 32, got %g", dot.Data)
	}
	dot.Backward()
	for i := range xs {
		if xs[i].Grad != ws[i].Data || ws[i].Grad != xs[i].Data {
			t.Errorf("index %d: expected grads (%g, %g), got (%g, %g)", i, ws[i].Data, xs[i].Data, xs[i].Grad, ws[i].Grad)
		}
	}

	if _, err := Dot(ws, xs[:2]); err == nil {
		t.Error("expected length mismatch error from Dot")
	}

	mean, err := Mean(xs...)
	if err != nil || mean.Data != 2 {
		t.Errorf("expected mean 2, got %v (err %v)", mean, err)
	}
	if _, err := Mean(); err == nil {
		t.Error("expected error for empty mean")
	}
	if s := Sum(); s.Data != 0 {
		t.Errorf("expected empty sum 0, got %g", s.Data)
	}
}

// TestLongChain makes sure a very deep graph does not blow the stack.
func TestLongChain(t *testing.T) {
	x := New(1)
	acc := x
	const depth = 200000
	for i := 0; i < depth; i++ {
		acc = acc.Add(x)
	}
	acc.Backward()
	if x.Grad != depth+1 {
		t.Errorf("expected grad %d, got %g", depth+1, x.Grad)
	}
}

func TestDataAndGrads(t *testing.T) {
	vs := NewSlice([]float64{1, -1})
	vs[0].Grad = 3
	if d := Data(vs); d[0] != 1 || d[1] != -1 {
		t.Errorf("unexpected data %v", d)
	}
	if g := Grads(vs); g[0] != 3 || g[1] != 0 {
		t.Errorf("unexpected grads %v", g)
	}
}

func BenchmarkForwardBackward(b *testing.B) {
	xs := NewSlice([]float64{0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.7, -0.8})
	ws := NewSlice([]float64{0.8, 0.7, -0.6, 0.5, -0.4, 0.3, -0.2, 0.1})
	for i := 0; i < b.N; i++ {
		out, _ := Dot(ws, xs)
		out.Tanh().Backward()
	}
}
