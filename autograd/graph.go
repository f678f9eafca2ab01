package autograd

import (
	"fmt"
	"io"

	"go-grad/value"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is a gonum graph node wrapping one Value of a computational graph.
type Node struct {
	id int64
	v  *value.Value
}

func (n Node) ID() int64 { return n.id }

// Value returns the wrapped scalar.
func (n Node) Value() *value.Value { return n.v }

// Attributes renders the node as a graphviz record: label or op, data, grad.
func (n Node) Attributes() []encoding.Attribute {
	name := n.v.Label
	if op := n.v.OpLabel(); op != "" {
		if name != "" {
			name += " = "
		}
		name += op
	}
	if name == "" {
		name = "leaf"
	}
	return []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("{ %s | data %.4f | grad %.4f }", name, n.v.Data, n.v.Grad)},
	}
}

// Graph converts everything reachable from root into a gonum directed graph.
// edges run from operand to consumer, i.e. the direction data flows in the forward pass.
// node ids follow value.TopoSort order, so the root has the largest id.
func Graph(root *value.Value) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	ids := make(map[*value.Value]int64)

	for i, v := range value.TopoSort(root) {
		n := Node{id: int64(i), v: v}
		ids[v] = n.id
		g.AddNode(n)
		for _, operand := range v.Operands() {
			g.SetEdge(g.NewEdge(g.Node(ids[operand]), n))
		}
	}
	return g
}

type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute { return a }

// dotGraph adds graph wide graphviz attributes on top of the plain gonum graph.
type dotGraph struct {
	graph.Directed
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return attributes{{Key: "rankdir", Value: "LR"}},
		attributes{{Key: "shape", Value: "record"}},
		attributes{}
}

// WriteDOT writes the computational graph rooted at root in graphviz DOT format.
func WriteDOT(w io.Writer, root *value.Value) error {
	b, err := dot.Marshal(dotGraph{Graph(root)}, "computation", "", "  ")
	if err != nil {
		return fmt.Errorf("autograd: marshal dot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("autograd: write dot: %w", err)
	}
	return nil
}
