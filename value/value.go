package value

import (
	"fmt"
)

// NOTE: a Value is a single scalar in the computational graph. forward values are computed
// eagerly when an operation is applied; gradients are filled in later by Backward.

// Op tags the operation that produced a Value. leaves carry OpLeaf.
type Op uint8

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow
	OpNeg
	OpReLU
	OpTanh
	OpExp
	OpLog
	OpSigmoid
)

var opNames = [...]string{
	OpLeaf:    "",
	OpAdd:     "+",
	OpMul:     "*",
	OpPow:     "pow",
	OpNeg:     "neg",
	OpReLU:    "relu",
	OpTanh:    "tanh",
	OpExp:     "exp",
	OpLog:     "log",
	OpSigmoid: "sigmoid",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// simple scalar Value struct
type Value struct {
	Data  float64
	Grad  float64
	Label string

	op       Op
	operands []*Value
	exponent float64 // only meaningful for OpPow
}

// builds a new leaf value (an input or a trainable parameter)
func New(data float64) *Value {
	return &Value{Data: data}
}

// Constant builds a leaf for a numeric literal that appears inside an expression.
// it has a Grad field like any other node but nobody is expected to read it.
func Constant(data float64) *Value {
	return &Value{Data: data, Label: fmt.Sprintf("%g", data)}
}

// Named builds a leaf with a debugging label.
func Named(label string, data float64) *Value {
	return &Value{Data: data, Label: label}
}

// NewSlice wraps every element of data in its own leaf.
func NewSlice(data []float64) []*Value {
	out := make([]*Value, len(data))
	for i, d := range data {
		out[i] = New(d)
	}
	return out
}

// Op returns the tag of the operation that produced v.
func (v *Value) Op() Op {
	return v.op
}

// IsLeaf reports whether v has no operands.
func (v *Value) IsLeaf() bool {
	return len(v.operands) == 0
}

// Operands returns a copy of the inputs v was computed from, in order.
func (v *Value) Operands() []*Value {
	return append([]*Value(nil), v.operands...)
}

// Exponent returns the fixed exponent of a pow node, 0 for any other op.
func (v *Value) Exponent() float64 {
	if v.op != OpPow {
		return 0
	}
	return v.exponent
}

// ZeroGrad sets the gradient accumulator back to 0.
func (v *Value) ZeroGrad() {
	v.Grad = 0
}

func (v *Value) String() string {
	if v == nil {
		return "Value(<nil>)"
	}
	s := fmt.Sprintf("Value(data=%g, grad=%g", v.Data, v.Grad)
	if v.op != OpLeaf {
		s += fmt.Sprintf(", op=%s", v.opLabel())
	}
	if v.Label != "" {
		s += fmt.Sprintf(", label=%s", v.Label)
	}
	return s + ")"
}

// opLabel is the op name, with the exponent spelled out for pow nodes.
func (v *Value) opLabel() string {
	if v.op == OpPow {
		return fmt.Sprintf("**%g", v.exponent)
	}
	return v.op.String()
}

// OpLabel is the human readable operation tag, e.g. "+", "tanh" or "**2".
func (v *Value) OpLabel() string {
	return v.opLabel()
}

// Data returns the forward values of vs.
func Data(vs []*Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Data
	}
	return out
}

// Grads returns the gradients of vs.
func Grads(vs []*Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Grad
	}
	return out
}
