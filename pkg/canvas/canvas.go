// Package canvas defines the immediate-mode drawing capability the diagram
// engine renders through, plus the backends that implement it: a raster
// backend for PNG output, an SVG writer, a terminal backend for the editor
// and a Recorder for tests.
//
// Paths follow the HTML canvas model: Trace* calls append to the current
// path, Stroke and Fill paint it without clearing it, BeginPath clears it.
// All coordinates are canvas coordinates; backends map them to device
// space through their Viewport.
package canvas

import (
	"image/color"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// TextMeasurer reports text metrics in canvas units.
type TextMeasurer interface {
	TextWidth(s string) float64
	LineHeight() float64
}

// Canvas is the drawing capability consumed by render plans.
type Canvas interface {
	TextMeasurer

	BeginPath()
	// TracePath appends a polyline through pts, each offset by origin.
	TracePath(origin vec.Vec, pts ...vec.Vec)
	// TraceQuadratic appends a quadratic Bézier, each point offset by origin.
	TraceQuadratic(origin, p0, c, p1 vec.Vec)
	// TraceCubic appends a cubic Bézier, each point offset by origin.
	TraceCubic(origin, p0, c1, c2, p1 vec.Vec)
	TraceEllipse(center vec.Vec, rx, ry float64)
	TraceRect(r vec.Rect)
	ClosePath()

	Stroke()
	Fill()

	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(d Dash)
	SetShadow(blur float64, c color.Color)
	SetAlpha(a float64)
	SetComposite(op Composite)

	// FillText and StrokeText draw s centred on at.
	FillText(s string, at vec.Vec)
	StrokeText(s string, at vec.Vec)

	// Coordinates translates a device position (pixels or cells scaled to
	// pixels) into canvas coordinates.
	Coordinates(device vec.Vec) vec.Vec
}

// Dash selects a line dash pattern.
type Dash int

const (
	DashSolid Dash = iota
	DashDotted
	DashDashed
)

func (d Dash) String() string {
	switch d {
	case DashDotted:
		return "dotted"
	case DashDashed:
		return "dashed"
	}
	return "solid"
}

// Pattern returns on/off lengths for the dash scaled to the line width.
// Solid lines return nil.
func (d Dash) Pattern(lineWidth float64) []float64 {
	if lineWidth < 1 {
		lineWidth = 1
	}
	switch d {
	case DashDotted:
		return []float64{lineWidth, lineWidth * 2}
	case DashDashed:
		return []float64{lineWidth * 4, lineWidth * 3}
	}
	return nil
}

// Composite names a global composite operation.
type Composite string

const (
	CompositeSourceOver     Composite = "source-over"
	CompositeDestinationOut Composite = "destination-out"
	CompositeLighter        Composite = "lighter"
	CompositeMultiply       Composite = "multiply"
	CompositeScreen         Composite = "screen"
)

// Viewport maps canvas coordinates to device coordinates:
// device = (canvas + Pan) * Scale.
type Viewport struct {
	Scale float64
	Pan   vec.Vec
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// ToCanvas converts a device position to canvas coordinates.
func (v Viewport) ToCanvas(device vec.Vec) vec.Vec {
	return device.Scale(1 / v.scale()).Sub(v.Pan)
}

// ToDevice converts a canvas position to device coordinates.
func (v Viewport) ToDevice(p vec.Vec) vec.Vec {
	return p.Add(v.Pan).Scale(v.scale())
}

// Coordinates implements the Canvas device-to-canvas translation for every
// backend that embeds a Viewport.
func (v Viewport) Coordinates(device vec.Vec) vec.Vec {
	return v.ToCanvas(device)
}

// withAlpha scales the alpha channel of c by a.
func withAlpha(c color.Color, a float64) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	n.A = uint8(float64(n.A) * a)
	return n
}
