// Package render turns a diagram snapshot into a Plan: an immutable list
// of styled shapes and texts that can be drawn on any canvas.Canvas.
// Building a plan never draws and drawing a plan never reads the graph,
// so the same plan can be painted on several backends.
package render

import (
	"image/color"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Prim is a traceable shape in canvas coordinates.
type Prim interface {
	trace(c canvas.Canvas)
}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center vec.Vec
	RX, RY float64
}

// Box is an axis-aligned rectangle.
type Box struct {
	vec.Rect
}

// Polyline is a sequence of connected segments.
type Polyline struct {
	Points []vec.Vec
	Closed bool
}

// Quad is a quadratic Bézier.
type Quad struct {
	P0, C, P1 vec.Vec
}

// Cubic is a cubic Bézier.
type Cubic struct {
	P0, C1, C2, P1 vec.Vec
}

func (e Ellipse) trace(c canvas.Canvas) { c.TraceEllipse(e.Center, e.RX, e.RY) }
func (b Box) trace(c canvas.Canvas)     { c.TraceRect(b.Rect) }
func (q Quad) trace(c canvas.Canvas)    { c.TraceQuadratic(vec.Vec{}, q.P0, q.C, q.P1) }
func (k Cubic) trace(c canvas.Canvas)   { c.TraceCubic(vec.Vec{}, k.P0, k.C1, k.C2, k.P1) }

func (p Polyline) trace(c canvas.Canvas) {
	if len(p.Points) == 0 {
		return
	}
	c.TracePath(vec.Vec{}, p.Points...)
	if p.Closed {
		c.ClosePath()
	}
}

// Style is the paint state of one item. A nil Stroke or Fill skips that
// pass.
type Style struct {
	Stroke      color.Color
	Fill        color.Color
	LineWidth   float64
	Dash        canvas.Dash
	Alpha       float64 // zero means opaque
	ShadowBlur  float64
	ShadowColor color.Color
	Composite   canvas.Composite // empty means source-over
}

// Text is a single centred line.
type Text struct {
	S       string
	At      vec.Vec
	Color   color.Color
	Outline bool // StrokeText instead of FillText
}

// Item is one draw step: its shapes are traced into a single path, filled
// and then stroked, and its texts drawn on top.
type Item struct {
	Ref    diagram.Ref // zero for overlay items
	Layer  Layer
	Style  Style
	Shapes []Prim
	Texts  []Text
}

// Layer says what an item depicts.
type Layer int

const (
	LayerEdge Layer = iota
	LayerArrow
	LayerEdgeLabel
	LayerNode
	LayerNodeLabel
	LayerAnchor
	LayerGhost
	LayerBand
)

// Plan is a frame ready to draw.
type Plan struct {
	Background color.Color
	Items      []Item
}

// Draw paints the plan on c in order.
func (p Plan) Draw(c canvas.Canvas) {
	for _, it := range p.Items {
		drawItem(c, it)
	}
}

// Filter returns the items of one layer.
func (p Plan) Filter(l Layer) []Item {
	var out []Item
	for _, it := range p.Items {
		if it.Layer == l {
			out = append(out, it)
		}
	}
	return out
}

func drawItem(c canvas.Canvas, it Item) {
	s := it.Style
	alpha := s.Alpha
	if alpha == 0 {
		alpha = 1
	}
	op := s.Composite
	if op == "" {
		op = canvas.CompositeSourceOver
	}
	c.SetAlpha(alpha)
	c.SetComposite(op)
	c.SetShadow(s.ShadowBlur, s.ShadowColor)
	c.SetLineWidth(s.LineWidth)
	c.SetDash(s.Dash)

	if len(it.Shapes) > 0 {
		c.BeginPath()
		for _, p := range it.Shapes {
			p.trace(c)
		}
		// the shadow goes under the first pass only
		if s.Fill != nil {
			c.SetFillColor(s.Fill)
			c.Fill()
			if s.ShadowBlur > 0 {
				c.SetShadow(0, nil)
			}
		}
		if s.Stroke != nil {
			c.SetStrokeColor(s.Stroke)
			c.Stroke()
		}
	}

	if len(it.Texts) > 0 {
		c.SetShadow(0, nil)
		c.SetDash(canvas.DashSolid)
		for _, t := range it.Texts {
			if t.Outline {
				c.SetStrokeColor(t.Color)
				c.StrokeText(t.S, t.At)
				continue
			}
			c.SetFillColor(t.Color)
			c.FillText(t.S, t.At)
		}
	}

	if s.ShadowBlur > 0 {
		c.SetShadow(0, nil)
	}
	if op != canvas.CompositeSourceOver {
		c.SetComposite(canvas.CompositeSourceOver)
	}
}
