// Package sample builds the demonstration scene shown by the graphkit
// binaries. It exercises every node shape, every edge regime and the
// label stacking rules.
package sample

import (
	"fmt"

	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Scene names the drawables of the sample.
type Scene struct {
	Nodes map[string]diagram.NodeID
	Edges map[string]diagram.EdgeID
}

type nodeDef struct {
	name string
	spec diagram.NodeSpec
}

type edgeDef struct {
	name     string
	src, dst string
	label    string
	style    func(*diagram.EdgeStyle)
	dstBind  vec.Vec
	bindDst  bool
}

var nodes = []nodeDef{
	{"start", diagram.NodeSpec{Shape: diagram.ShapeCircle, Pos: vec.V(0, 0), Label: "start", Border: diagram.Border{Width: 2}}},
	{"process", diagram.NodeSpec{
		Shape:   diagram.ShapeRectangle,
		Pos:     vec.V(224, 0),
		Label:   "process",
		MinSize: vec.V(96, 48),
		Border:  diagram.Border{Width: 1.5},
		Anchors: []vec.Vec{vec.V(0, -24), vec.V(-48, 0), vec.V(48, 0), vec.V(0, 24)},
	}},
	{"decide", diagram.NodeSpec{Shape: diagram.ShapeEllipse, Pos: vec.V(224, 176), Label: "decide", Border: diagram.Border{Width: 1.5, Style: diagram.LineDashed}}},
	{"done", diagram.NodeSpec{Shape: diagram.ShapeSquare, Pos: vec.V(448, 176), Label: "done", Border: diagram.Border{Width: 1.5, Style: diagram.LineDouble}}},
	{"input", diagram.NodeSpec{Shape: diagram.ShapeImage, Pos: vec.V(0, 176), ImageW: 48, ImageH: 32, Border: diagram.Border{Width: 1}}},
}

var edges = []edgeDef{
	{name: "begin", src: "start", dst: "process", label: "go", dstBind: vec.V(-48, 0), bindDst: true},
	{name: "ask", src: "process", dst: "decide"},
	{name: "revise", src: "decide", dst: "process", label: "no"},
	{name: "retry", src: "decide", dst: "decide", label: "retry"},
	{name: "accept", src: "decide", dst: "done", label: "yes", style: func(s *diagram.EdgeStyle) { s.Line = diagram.LineDashed }},
	{name: "skip", src: "decide", dst: "done", label: "skip"},
	{name: "feed", src: "input", dst: "start", style: func(s *diagram.EdgeStyle) { s.Line = diagram.LineDotted }},
	{name: "report", src: "done", dst: "process", style: func(s *diagram.EdgeStyle) {
		s.Line = diagram.LineDouble
		s.SrcArrow = true
		s.LineWidth = 1
	}},
}

// Build adds the sample to g in a single batch.
func Build(g *diagram.Graph) (Scene, error) {
	sc := Scene{
		Nodes: make(map[string]diagram.NodeID, len(nodes)),
		Edges: make(map[string]diagram.EdgeID, len(edges)),
	}
	g.Suspend()
	defer g.Resume()
	for _, n := range nodes {
		sc.Nodes[n.name] = g.CreateNode(n.spec)
	}
	for _, e := range edges {
		spec := diagram.DefaultEdgeSpec()
		spec.Label = e.label
		if e.style != nil {
			e.style(&spec.EdgeStyle)
		}
		if e.bindDst {
			spec.DstBinding = diagram.Bind(e.dstBind)
		}
		id, err := g.CreateEdge(sc.Nodes[e.src], sc.Nodes[e.dst], spec)
		if err != nil {
			return Scene{}, fmt.Errorf("sample edge %s: %w", e.name, err)
		}
		sc.Edges[e.name] = id
	}
	return sc, nil
}

// New returns a graph holding the sample.
func New(opts ...diagram.Option) (*diagram.Graph, Scene, error) {
	g := diagram.New(opts...)
	sc, err := Build(g)
	if err != nil {
		return nil, Scene{}, err
	}
	return g, sc, nil
}
