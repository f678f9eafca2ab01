package value

import (
	"math"

	"github.com/pkg/errors"
)

// every op below allocates exactly one new node, records its operands and tag, and never
// touches the operands themselves.

func newNode(data float64, op Op, operands ...*Value) *Value {
	return &Value{Data: data, op: op, operands: operands}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// c = v + other
func (v *Value) Add(other *Value) *Value {
	return newNode(v.Data+other.Data, OpAdd, v, other)
}

// c = v * other
func (v *Value) Mul(other *Value) *Value {
	return newNode(v.Data*other.Data, OpMul, v, other)
}

// c = -v
func (v *Value) Neg() *Value {
	return newNode(-v.Data, OpNeg, v)
}

// Pow raises v to a fixed exponent n. n is a plain number, not a graph node.
// zero to a power below 1, a negative base to a non-integral power, and a result or
// local derivative n * v**(n-1) that overflows are reported as ErrDomain.
func (v *Value) Pow(n float64) (*Value, error) {
	x := v.Data
	switch {
	case !isFinite(x) || !isFinite(n):
		return nil, domainErrorf("pow: %g ** %g", x, n)
	case x == 0 && n < 1:
		return nil, domainErrorf("pow: %g ** %g", x, n)
	case x < 0 && n != math.Trunc(n):
		return nil, domainErrorf("pow: negative base %g with non-integral exponent %g", x, n)
	}

	out := math.Pow(x, n)
	if !isFinite(out) {
		return nil, domainErrorf("pow: %g ** %g overflows", x, n)
	}
	if d := n * math.Pow(x, n-1); !isFinite(d) {
		return nil, domainErrorf("pow: derivative of %g ** %g overflows", x, n)
	}
	c := newNode(out, OpPow, v)
	c.exponent = n
	return c, nil
}

// you definitely know ReLU if you're reading this: c = max(0, v)
func (v *Value) ReLU() *Value {
	return newNode(math.Max(0, v.Data), OpReLU, v)
}

// c = tanh(v)
func (v *Value) Tanh() *Value {
	return newNode(math.Tanh(v.Data), OpTanh, v)
}

// c = 1 / (1 + exp(-v)), computed without overflowing for large |v|.
func (v *Value) Sigmoid() *Value {
	x := v.Data
	var s float64
	if x >= 0 {
		s = 1 / (1 + math.Exp(-x))
	} else {
		e := math.Exp(x)
		s = e / (1 + e)
	}
	return newNode(s, OpSigmoid, v)
}

// c = e^v. fails with ErrDomain if the result overflows.
func (v *Value) Exp() (*Value, error) {
	out := math.Exp(v.Data)
	if !isFinite(out) {
		return nil, domainErrorf("exp: e ** %g overflows", v.Data)
	}
	return newNode(out, OpExp, v), nil
}

// c = ln(v). fails with ErrDomain for v <= 0.
func (v *Value) Log() (*Value, error) {
	if !(v.Data > 0) || math.IsInf(v.Data, 1) {
		return nil, domainErrorf("log: %g", v.Data)
	}
	return newNode(math.Log(v.Data), OpLog, v), nil
}

// --- derived operations, no backward rule of their own ---

// c = v - other, built as v + (-other)
func (v *Value) Sub(other *Value) *Value {
	return v.Add(other.Neg())
}

// c = v / other, built as v * other**-1
func (v *Value) Div(other *Value) (*Value, error) {
	inv, err := other.Reciprocal()
	if err != nil {
		return nil, errors.WithMessage(err, "div")
	}
	return v.Mul(inv), nil
}

// c = 1 / v, built as v**-1
func (v *Value) Reciprocal() (*Value, error) {
	return v.Pow(-1)
}

// c = v + x for a literal x
func (v *Value) AddScalar(x float64) *Value {
	return v.Add(Constant(x))
}

// c = v * x for a literal x
func (v *Value) MulScalar(x float64) *Value {
	return v.Mul(Constant(x))
}

// Sum folds vs with Add from left to right. an empty sum is the constant 0.
func Sum(vs ...*Value) *Value {
	if len(vs) == 0 {
		return Constant(0)
	}
	acc := vs[0]
	for _, v := range vs[1:] {
		acc = acc.Add(v)
	}
	return acc
}

// Dot returns sum(a_i * b_i). both slices must have the same length.
func Dot(a, b []*Value) (*Value, error) {
	if len(a) != len(b) {
		return nil, errors.Errorf("dot: length mismatch %d != %d", len(a), len(b))
	}
	terms := make([]*Value, len(a))
	for i := range a {
		terms[i] = a[i].Mul(b[i])
	}
	return Sum(terms...), nil
}

// Mean is Sum(vs) / len(vs). the mean of nothing is an error.
func Mean(vs ...*Value) (*Value, error) {
	if len(vs) == 0 {
		return nil, errors.New("mean: no values")
	}
	return Sum(vs...).MulScalar(1 / float64(len(vs))), nil
}
