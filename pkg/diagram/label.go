package diagram

import (
	"math"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// LabelBox returns the padded rectangle of label lines centred on c.
func LabelBox(lines []string, c vec.Vec, m canvas.TextMeasurer) vec.Rect {
	var w float64
	for _, l := range lines {
		w = math.Max(w, m.TextWidth(l))
	}
	h := float64(len(lines)) * m.LineHeight()
	return vec.RectCentered(c, w+2*LabelPad, h+2*LabelPad)
}

// LabelStep is the distance between labels of stacked edges.
func LabelStep(m canvas.TextMeasurer) float64 {
	return m.LineHeight() + 2*LabelPad
}

// placeLabel positions the label of e, the index-th member of its stack.
// The edge path must be current.
func placeLabel(e *Edge, index int, srcPos, dstPos vec.Vec, m canvas.TextMeasurer) {
	c := e.Path.Midpoint()
	if index > 0 {
		dir := StackDirection(srcPos, dstPos, e.SelfLoop())
		c = c.Add(dir.Scale(float64(index) * LabelStep(m)))
	}
	e.LabelCenter = c
	if !e.HasLabel() {
		e.LabelRect = vec.Rect{}
		return
	}
	e.LabelRect = LabelBox(e.Lines(), c, m)
}

// fixedMetrics measures text with constant per-rune advance. It stands in
// until a host supplies real font metrics.
type fixedMetrics struct {
	charW, lineH float64
}

func (f fixedMetrics) TextWidth(s string) float64 {
	n := 0
	for range s {
		n++
	}
	return float64(n) * f.charW
}

func (f fixedMetrics) LineHeight() float64 { return f.lineH }

// DefaultMetrics approximates a 13px sans-serif face.
var DefaultMetrics canvas.TextMeasurer = fixedMetrics{charW: 7, lineH: 15}
