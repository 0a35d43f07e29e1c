package render

import (
	"image/color"
	"math"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Overlay is interaction feedback drawn above the graph.
type Overlay struct {
	// Ghost previews an edge being created or moved, in canvas
	// coordinates. Nil when no edge is dragged.
	Ghost      diagram.Curve
	GhostStyle diagram.EdgeStyle
	// Band is the rubber-band rectangle while HasBand is set.
	Band    vec.Rect
	HasBand bool
}

type builder struct {
	th    Theme
	m     canvas.TextMeasurer
	items []Item
}

func (b *builder) add(it Item) { b.items = append(b.items, it) }

// Build makes the plan for the current state of g. Edges are drawn first
// so nodes cover their ends, then the overlay.
func Build(g *diagram.Graph, th Theme, ov Overlay) Plan {
	b := &builder{th: th, m: g.Measurer()}
	for _, e := range g.Edges() {
		b.edge(g, e)
	}
	for _, n := range g.Nodes() {
		b.node(g, n)
	}
	if ov.Ghost != nil {
		b.ghost(ov)
	}
	if ov.HasBand {
		b.band(ov.Band)
	}
	return Plan{Background: th.Background, Items: b.items}
}

func curvePrim(c diagram.Curve) Prim {
	switch c := c.(type) {
	case diagram.Straight:
		return Polyline{Points: []vec.Vec{c.Src, c.Dst}}
	case diagram.Quadratic:
		return Quad{P0: c.Src, C: c.Ctrl, P1: c.Dst}
	case diagram.Cubic:
		return Cubic{P0: c.Src, C1: c.C1, C2: c.C2, P1: c.Dst}
	case diagram.Loop:
		return Cubic{P0: c.Src, C1: c.C1, C2: c.C2, P1: c.Dst}
	}
	return Polyline{}
}

// stroked adds the items stroking prim. A double line is a wide stroke
// with its middle cut out again.
func (b *builder) stroked(ref diagram.Ref, l Layer, prim Prim, s Style, double bool) {
	if !double {
		b.add(Item{Ref: ref, Layer: l, Style: s, Shapes: []Prim{prim}})
		return
	}
	outer := s
	outer.LineWidth = s.LineWidth * 3
	inner := s
	inner.Fill = nil
	inner.Stroke = b.th.Background
	inner.ShadowBlur = 0
	inner.Composite = canvas.CompositeDestinationOut
	b.add(Item{Ref: ref, Layer: l, Style: outer, Shapes: []Prim{prim}})
	b.add(Item{Ref: ref, Layer: l, Style: inner, Shapes: []Prim{prim}})
}

// arrowHead returns a triangle with its tip at tip, pointing along dir.
func arrowHead(tip, dir vec.Vec, length, width float64) (Polyline, bool) {
	u, ok := dir.Unit()
	if !ok {
		return Polyline{}, false
	}
	base := tip.Sub(u.Scale(length))
	n := u.Perp().Scale(width)
	return Polyline{Points: []vec.Vec{tip, base.Add(n), base.Sub(n)}, Closed: true}, true
}

func (b *builder) arrows(ref diagram.Ref, l Layer, path diagram.Curve, st diagram.EdgeStyle, col color.Color, alpha float64) {
	atSrc, atDst := diagram.Tangents(path)
	src, dst := path.Ends()
	length := b.th.ArrowLen + 2*st.LineWidth
	width := b.th.ArrowWidth + st.LineWidth

	var shapes []Prim
	if st.DstArrow {
		if p, ok := arrowHead(dst, atDst, length, width); ok {
			shapes = append(shapes, p)
		}
	}
	if st.SrcArrow {
		if p, ok := arrowHead(src, atSrc.Neg(), length, width); ok {
			shapes = append(shapes, p)
		}
	}
	if len(shapes) == 0 {
		return
	}
	b.add(Item{
		Ref:    ref,
		Layer:  l,
		Style:  Style{Fill: col, Stroke: col, LineWidth: 1, Alpha: alpha},
		Shapes: shapes,
	})
}

// lines centres a block of text lines on c.
func (b *builder) lines(lines []string, c vec.Vec, col color.Color) []Text {
	lh := b.m.LineHeight()
	top := c.Y - lh*float64(len(lines)-1)/2
	out := make([]Text, len(lines))
	for i, l := range lines {
		out[i] = Text{S: l, At: vec.V(c.X, top+float64(i)*lh), Color: col}
	}
	return out
}

func (b *builder) edge(g *diagram.Graph, e *diagram.Edge) {
	if e.Path == nil {
		return
	}
	ref := diagram.EdgeRef(e.ID)
	col := e.Color
	if col == nil {
		col = b.th.Edge
	}
	s := Style{LineWidth: math.Max(e.LineWidth, 1), Dash: e.Line.Dash()}
	if w, ok := g.Wrapper(ref); ok {
		switch w.State {
		case diagram.StateHovered:
			col = b.th.hovered(col)
		case diagram.StateDragging:
			s.Alpha = 0.4
		}
	}
	if g.IsSelected(ref) {
		col = b.th.Selected
		s.ShadowBlur = b.th.ShadowBlur
		s.ShadowColor = b.th.Shadow
	}
	s.Stroke = col

	b.stroked(ref, LayerEdge, curvePrim(e.Path), s, e.Line == diagram.LineDouble)
	b.arrows(ref, LayerArrow, e.Path, e.EdgeStyle, col, s.Alpha)
	if e.HasLabel() {
		b.add(Item{
			Ref:    ref,
			Layer:  LayerEdgeLabel,
			Style:  Style{Fill: b.th.Background},
			Shapes: []Prim{Box{e.LabelRect}},
			Texts:  b.lines(e.Lines(), e.LabelCenter, b.th.Text),
		})
	}
}

func nodePrim(n *diagram.Node) Prim {
	box := n.Box()
	if n.Shape.Rounded() {
		h := n.Half()
		return Ellipse{Center: box.Center(), RX: h.X, RY: h.Y}
	}
	return Box{box}
}

func (b *builder) node(g *diagram.Graph, n *diagram.Node) {
	ref := diagram.NodeRef(n.ID)
	w, _ := g.Wrapper(ref)

	fill := n.Fill
	if fill == nil {
		fill = b.th.NodeFill
	}
	s := Style{Fill: fill, LineWidth: n.Border.Width, Dash: n.Border.Style.Dash()}
	if n.Border.Width > 0 {
		s.Stroke = n.Border.Color
		if s.Stroke == nil {
			s.Stroke = b.th.NodeBorder
		}
	}
	if w != nil {
		switch w.State {
		case diagram.StateHovered:
			s.Fill = b.th.hovered(fill)
		case diagram.StateDragging:
			s.ShadowBlur = b.th.ShadowBlur
			s.ShadowColor = b.th.Shadow
		}
	}
	if g.IsSelected(ref) {
		s.Stroke = b.th.Selected
		s.LineWidth = math.Max(n.Border.Width, 1) + 1
	}

	outline := nodePrim(n)
	if n.Border.Style == diagram.LineDouble && s.Stroke != nil {
		body := s
		body.Stroke = nil
		rim := s
		rim.Fill = nil
		rim.ShadowBlur = 0
		b.add(Item{Ref: ref, Layer: LayerNode, Style: body, Shapes: []Prim{outline}})
		b.stroked(ref, LayerNode, outline, rim, true)
	} else {
		b.add(Item{Ref: ref, Layer: LayerNode, Style: s, Shapes: []Prim{outline}})
	}

	center := n.Box().Center()
	if n.Shape == diagram.ShapeImage {
		// picture placeholder
		box := n.Box()
		b.add(Item{
			Ref:   ref,
			Layer: LayerNode,
			Style: Style{Stroke: b.th.NodeBorder, LineWidth: 1, Alpha: 0.5},
			Shapes: []Prim{
				Polyline{Points: []vec.Vec{box.Min, box.Max}},
				Polyline{Points: []vec.Vec{vec.V(box.Min.X, box.Max.Y), vec.V(box.Max.X, box.Min.Y)}},
			},
		})
	}
	if lines := n.Lines(); len(lines) > 0 {
		b.add(Item{Ref: ref, Layer: LayerNodeLabel, Texts: b.lines(lines, center, b.th.Text)})
	}

	if w == nil {
		return
	}
	if (w.State == diagram.StateHovered || w.Handle) && len(n.Anchors) > 0 {
		shapes := make([]Prim, len(n.Anchors))
		for i, a := range n.Anchors {
			shapes[i] = Ellipse{Center: n.Pos.Add(a), RX: b.th.AnchorSize, RY: b.th.AnchorSize}
		}
		b.add(Item{Ref: ref, Layer: LayerAnchor, Style: Style{Fill: b.th.Anchor}, Shapes: shapes})
	}
	if w.Handle {
		r := b.th.AnchorSize + 1
		b.add(Item{
			Ref:    ref,
			Layer:  LayerAnchor,
			Style:  Style{Stroke: b.th.Selected, LineWidth: 1.5},
			Shapes: []Prim{Ellipse{Center: n.Pos.Add(w.HandleOffset), RX: r, RY: r}},
		})
	}
}

func (b *builder) ghost(ov Overlay) {
	st := ov.GhostStyle
	col := st.Color
	if col == nil {
		col = b.th.Ghost
	}
	s := Style{Stroke: col, LineWidth: math.Max(st.LineWidth, 1), Dash: canvas.DashDashed, Alpha: 0.8}
	b.stroked(diagram.Ref{}, LayerGhost, curvePrim(ov.Ghost), s, false)
	b.arrows(diagram.Ref{}, LayerGhost, ov.Ghost, st, col, 0.8)
}

func (b *builder) band(r vec.Rect) {
	b.add(Item{Layer: LayerBand, Style: Style{Fill: b.th.Band, Alpha: 0.15}, Shapes: []Prim{Box{r}}})
	b.add(Item{
		Layer:  LayerBand,
		Style:  Style{Stroke: b.th.Band, LineWidth: 1, Dash: canvas.DashDashed, Alpha: 0.8},
		Shapes: []Prim{Box{r}},
	})
}
