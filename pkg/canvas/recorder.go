package canvas

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// Recorder metrics: every rune is RecorderCharW wide, lines are
// RecorderLineH tall.
const (
	RecorderCharW = 7.0
	RecorderLineH = 14.0
)

// Op is one recorded drawing call.
type Op struct {
	Name string
	Args []any
}

func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = fmt.Sprint(a)
	}
	return o.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Recorder is a Canvas that keeps every call for inspection. Text metrics
// are fixed so layout is deterministic.
type Recorder struct {
	Viewport
	Ops []Op
}

// NewRecorder returns an empty recorder at scale 1.
func NewRecorder() *Recorder {
	return &Recorder{Viewport: Viewport{Scale: 1}}
}

func (r *Recorder) rec(name string, args ...any) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many ops with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to FillText, in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Name == "FillText" {
			out = append(out, op.Args[0].(string))
		}
	}
	return out
}

func (r *Recorder) TextWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * RecorderCharW
}

func (r *Recorder) LineHeight() float64 { return RecorderLineH }

func (r *Recorder) BeginPath() { r.rec("BeginPath") }

func (r *Recorder) TracePath(origin vec.Vec, pts ...vec.Vec) {
	abs := make([]vec.Vec, len(pts))
	for i, p := range pts {
		abs[i] = origin.Add(p)
	}
	r.rec("TracePath", abs)
}

func (r *Recorder) TraceQuadratic(origin, p0, c, p1 vec.Vec) {
	r.rec("TraceQuadratic", origin.Add(p0), origin.Add(c), origin.Add(p1))
}

func (r *Recorder) TraceCubic(origin, p0, c1, c2, p1 vec.Vec) {
	r.rec("TraceCubic", origin.Add(p0), origin.Add(c1), origin.Add(c2), origin.Add(p1))
}

func (r *Recorder) TraceEllipse(center vec.Vec, rx, ry float64) {
	r.rec("TraceEllipse", center, rx, ry)
}

func (r *Recorder) TraceRect(rc vec.Rect) { r.rec("TraceRect", rc) }
func (r *Recorder) ClosePath()            { r.rec("ClosePath") }
func (r *Recorder) Stroke()               { r.rec("Stroke") }
func (r *Recorder) Fill()                 { r.rec("Fill") }

func (r *Recorder) SetStrokeColor(c color.Color) { r.rec("SetStrokeColor", c) }
func (r *Recorder) SetFillColor(c color.Color)   { r.rec("SetFillColor", c) }
func (r *Recorder) SetLineWidth(w float64)       { r.rec("SetLineWidth", w) }
func (r *Recorder) SetDash(d Dash)               { r.rec("SetDash", d) }
func (r *Recorder) SetAlpha(a float64)           { r.rec("SetAlpha", a) }
func (r *Recorder) SetComposite(op Composite)    { r.rec("SetComposite", op) }

func (r *Recorder) SetShadow(blur float64, c color.Color) { r.rec("SetShadow", blur, c) }

func (r *Recorder) FillText(s string, at vec.Vec)   { r.rec("FillText", s, at) }
func (r *Recorder) StrokeText(s string, at vec.Vec) { r.rec("StrokeText", s, at) }
