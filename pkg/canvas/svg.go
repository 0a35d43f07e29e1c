package canvas

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// SVGOptions configures an SVG canvas.
type SVGOptions struct {
	Width, Height int
	FontSize      float64
	Background    color.Color
}

// SVG writes drawing calls as SVG elements with ajstarks/svgo. Every Stroke
// or Fill emits one <path>; text becomes translated <text> elements.
type SVG struct {
	Viewport

	doc     *svg.SVG
	opts    SVGOptions
	metrics FaceMetrics
	path    strings.Builder

	stroke      color.Color
	fill        color.Color
	alpha       float64
	lineWidth   float64
	dash        Dash
	shadowBlur  float64
	shadowColor color.Color
	composite   Composite
}

// NewSVG starts an SVG document on w. Call Close to finish it.
func NewSVG(w io.Writer, opts SVGOptions) (*SVG, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("svg size %dx%d: must be positive", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	face, err := NewFace(opts.FontSize)
	if err != nil {
		return nil, err
	}
	s := &SVG{
		Viewport:  Viewport{Scale: 1},
		doc:       svg.New(w),
		opts:      opts,
		metrics:   FaceMetrics{Face: face, Factor: 1},
		stroke:    color.Black,
		fill:      color.White,
		alpha:     1,
		lineWidth: 1,
		composite: CompositeSourceOver,
	}
	s.doc.Start(opts.Width, opts.Height)
	if opts.Background != nil {
		s.doc.Rect(0, 0, opts.Width, opts.Height, "fill:"+hexColor(opts.Background))
	}
	return s, nil
}

// Close ends the document.
func (s *SVG) Close() {
	s.doc.End()
}

// hexColor drops alpha; opacity carries it separately.
func hexColor(c color.Color) string {
	if c == nil {
		return "none"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cf.Clamped().Hex()
}

func opacity(c color.Color, alpha float64) float64 {
	if c == nil {
		return 0
	}
	return float64(withAlpha(c, alpha).A) / 255
}

func (s *SVG) pt(p vec.Vec) string {
	d := s.ToDevice(p)
	return fmt.Sprintf("%.2f %.2f", d.X, d.Y)
}

func (s *SVG) length(l float64) float64 {
	return l * s.Viewport.scale()
}

func (s *SVG) TextWidth(str string) float64 { return s.metrics.TextWidth(str) }
func (s *SVG) LineHeight() float64          { return s.metrics.LineHeight() }

func (s *SVG) BeginPath() { s.path.Reset() }

func (s *SVG) TracePath(origin vec.Vec, pts ...vec.Vec) {
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&s.path, "%s%s ", cmd, s.pt(origin.Add(p)))
	}
}

func (s *SVG) TraceQuadratic(origin, p0, c, p1 vec.Vec) {
	fmt.Fprintf(&s.path, "M%s Q%s %s ",
		s.pt(origin.Add(p0)), s.pt(origin.Add(c)), s.pt(origin.Add(p1)))
}

func (s *SVG) TraceCubic(origin, p0, c1, c2, p1 vec.Vec) {
	fmt.Fprintf(&s.path, "M%s C%s %s %s ",
		s.pt(origin.Add(p0)), s.pt(origin.Add(c1)), s.pt(origin.Add(c2)), s.pt(origin.Add(p1)))
}

// TraceEllipse appends the ellipse as two half arcs.
func (s *SVG) TraceEllipse(center vec.Vec, rx, ry float64) {
	left := s.pt(center.Sub(vec.V(rx, 0)))
	right := s.pt(center.Add(vec.V(rx, 0)))
	a, b := s.length(rx), s.length(ry)
	fmt.Fprintf(&s.path, "M%s A%.2f %.2f 0 1 0 %s A%.2f %.2f 0 1 0 %s Z ", left, a, b, right, a, b, left)
}

func (s *SVG) TraceRect(r vec.Rect) {
	fmt.Fprintf(&s.path, "M%s L%s L%s L%s Z ",
		s.pt(r.Min), s.pt(vec.V(r.Max.X, r.Min.Y)), s.pt(r.Max), s.pt(vec.V(r.Min.X, r.Max.Y)))
}

func (s *SVG) ClosePath() { s.path.WriteString("Z ") }

func (s *SVG) blend() string {
	switch s.composite {
	case CompositeLighter:
		return ";mix-blend-mode:plus-lighter"
	case CompositeMultiply:
		return ";mix-blend-mode:multiply"
	case CompositeScreen:
		return ";mix-blend-mode:screen"
	}
	return ""
}

func (s *SVG) Stroke() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	if s.shadowBlur > 0 && s.shadowColor != nil {
		s.doc.Path(d, fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.2f;stroke-width:%.2f",
			hexColor(s.shadowColor), opacity(s.shadowColor, s.alpha*0.6), s.length(s.lineWidth+s.shadowBlur)))
	}
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.2f;stroke-width:%.2f",
		hexColor(s.stroke), opacity(s.stroke, s.alpha), s.length(s.lineWidth))
	if pat := s.dash.Pattern(s.lineWidth); pat != nil {
		parts := make([]string, len(pat))
		for i, v := range pat {
			parts[i] = fmt.Sprintf("%.2f", s.length(v))
		}
		style += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	s.doc.Path(d, style+s.blend())
}

func (s *SVG) Fill() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	fill := s.fill
	if s.composite == CompositeDestinationOut {
		fill = s.opts.Background
	}
	s.doc.Path(d, fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:none%s",
		hexColor(fill), opacity(fill, s.alpha), s.blend()))
}

func (s *SVG) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *SVG) SetFillColor(c color.Color)   { s.fill = c }
func (s *SVG) SetLineWidth(w float64)       { s.lineWidth = w }
func (s *SVG) SetDash(d Dash)               { s.dash = d }
func (s *SVG) SetAlpha(a float64)           { s.alpha = a }
func (s *SVG) SetComposite(op Composite)    { s.composite = op }

func (s *SVG) SetShadow(blur float64, c color.Color) {
	s.shadowBlur = blur
	s.shadowColor = c
}

func (s *SVG) text(str string, at vec.Vec, paint string) {
	d := s.ToDevice(at)
	s.doc.Gtransform(fmt.Sprintf("translate(%.2f,%.2f)", d.X, d.Y))
	s.doc.Text(0, 0, str, fmt.Sprintf(
		"text-anchor:middle;dominant-baseline:central;font-family:Go,sans-serif;font-size:%.1fpx;%s",
		s.length(s.opts.FontSize), paint))
	s.doc.Gend()
}

func (s *SVG) FillText(str string, at vec.Vec) {
	s.text(str, at, fmt.Sprintf("fill:%s;fill-opacity:%.2f", hexColor(s.fill), opacity(s.fill, s.alpha)))
}

func (s *SVG) StrokeText(str string, at vec.Vec) {
	s.text(str, at, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f", hexColor(s.stroke), s.length(s.lineWidth)))
}
