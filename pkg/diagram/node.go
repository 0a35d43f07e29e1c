package diagram

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Layout constants, in canvas units.
const (
	GridUnit     = 16.0
	MinSpacing   = GridUnit     // smallest node extent on either axis
	NodePad      = GridUnit / 2 // space between a label and the outline
	HitBand      = 6.0          // width of the rim band on each side of the outline
	HitMargin    = 6.0          // edge hit distance before line width is added
	CurveOffset  = 2 * GridUnit // control point offset of opposed edges
	LoopReach    = 2 * GridUnit // control vector length of self-loops
	LabelPad     = 4.0
	MaxLineWidth = 16.0

	DefaultLineWidth = 1.5
)

// Shape is the outline of a node.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeEllipse
	ShapeSquare
	ShapeRectangle
	ShapeImage
)

var shapeNames = [...]string{"circle", "ellipse", "square", "rectangle", "image"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape converts a shape name to a Shape.
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Rounded reports whether the shape uses ellipse geometry.
func (s Shape) Rounded() bool {
	return s == ShapeCircle || s == ShapeEllipse
}

// Next cycles through the shapes, used by hosts to change a node's shape.
func (s Shape) Next() Shape {
	return Shape((int(s) + 1) % len(shapeNames))
}

// LineStyle is the stroke pattern of an edge or border.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDotted
	LineDashed
	LineDouble
)

var lineStyleNames = [...]string{"solid", "dotted", "dashed", "double"}

func (l LineStyle) String() string {
	if l < 0 || int(l) >= len(lineStyleNames) {
		return fmt.Sprintf("LineStyle(%d)", int(l))
	}
	return lineStyleNames[l]
}

// ParseLineStyle converts a style name to a LineStyle.
func ParseLineStyle(name string) (LineStyle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range lineStyleNames {
		if n == name {
			return LineStyle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown line style %q", name)
}

// Dash maps the style onto a canvas dash pattern. Double lines are drawn
// solid; the renderer hollows them out.
func (l LineStyle) Dash() canvas.Dash {
	switch l {
	case LineDotted:
		return canvas.DashDotted
	case LineDashed:
		return canvas.DashDashed
	}
	return canvas.DashSolid
}

// Border describes a node outline.
type Border struct {
	Width float64
	Color color.Color
	Style LineStyle
}

// Node is a shaped, labelled box in the diagram.
type Node struct {
	ID    NodeID
	Shape Shape
	Pos   vec.Vec // semantic centre
	// Size is derived by Fit. X is the width, Y the height.
	Size vec.Vec
	// Origin is subtracted from Pos to find the top-left corner of the box.
	Origin  vec.Vec
	Anchors []vec.Vec // offsets from Pos
	Border  Border
	Fill    color.Color
	Label   string // lines separated by \n

	// MinSize, when set, is a lower bound for the fitted size.
	MinSize vec.Vec
	// ImageW and ImageH give the picture size of ShapeImage nodes.
	ImageW, ImageH float64
}

// Lines splits the label into lines.
func (n *Node) Lines() []string {
	if n.Label == "" {
		return nil
	}
	return strings.Split(n.Label, "\n")
}

// Half returns half the node size.
func (n *Node) Half() vec.Vec {
	return n.Size.Scale(0.5)
}

// Box returns the node rectangle in canvas coordinates.
func (n *Node) Box() vec.Rect {
	tl := n.Pos.Sub(n.Origin)
	return vec.Rect{Min: tl, Max: tl.Add(n.Size)}
}

// Fit derives the node size from its label (or picture) and resets the
// origin to the geometric centre. Sizes are rounded up to the grid and
// never fall below MinSpacing.
func (n *Node) Fit(m canvas.TextMeasurer) {
	var w, h float64
	if n.Shape == ShapeImage {
		w, h = n.ImageW, n.ImageH
	} else if lines := n.Lines(); len(lines) > 0 && m != nil {
		for _, l := range lines {
			w = math.Max(w, m.TextWidth(l))
		}
		h = float64(len(lines)) * m.LineHeight()
		w += 2 * NodePad
		h += 2 * NodePad
	}

	switch n.Shape {
	case ShapeCircle:
		// the text box must fit inside the circle
		d := math.Hypot(w, h)
		w, h = d, d
	case ShapeEllipse:
		w *= math.Sqrt2
		h *= math.Sqrt2
	case ShapeSquare:
		d := math.Max(w, h)
		w, h = d, d
	}

	w = math.Max(w, n.MinSize.X)
	h = math.Max(h, n.MinSize.Y)
	w, h = snap(w), snap(h)
	if n.Shape == ShapeCircle || n.Shape == ShapeSquare {
		d := math.Max(w, h)
		w, h = d, d
	}
	n.Size = vec.V(w, h)
	n.Origin = n.Half()
}

// snap rounds up to the grid and applies the MinSpacing floor.
func snap(x float64) float64 {
	x = math.Ceil(x/GridUnit-vec.Epsilon) * GridUnit
	return math.Max(x, MinSpacing)
}
