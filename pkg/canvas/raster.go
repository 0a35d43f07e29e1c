package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// RasterOptions configures a Raster canvas.
type RasterOptions struct {
	Width, Height int
	// Supersample renders at this multiple of the target size and
	// downsamples on output. Zero means 2.
	Supersample int
	FontSize    float64
	Background  color.Color
}

// Raster draws into an RGBA image with fogleman/gg.
type Raster struct {
	Viewport

	opts RasterOptions
	dc   *gg.Context
	ss   float64

	face       font.Face
	faceFactor float64

	stroke      color.Color
	fill        color.Color
	alpha       float64
	lineWidth   float64
	dash        Dash
	shadowBlur  float64
	shadowColor color.Color
	composite   Composite
}

// NewRaster creates a raster canvas cleared to the background colour.
func NewRaster(opts RasterOptions) (*Raster, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("raster size %dx%d: must be positive", opts.Width, opts.Height)
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 2
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	r := &Raster{
		Viewport:  Viewport{Scale: 1},
		opts:      opts,
		dc:        gg.NewContext(opts.Width*opts.Supersample, opts.Height*opts.Supersample),
		ss:        float64(opts.Supersample),
		stroke:    color.Black,
		fill:      color.White,
		alpha:     1,
		lineWidth: 1,
		composite: CompositeSourceOver,
	}
	if err := r.ensureFace(); err != nil {
		return nil, err
	}
	r.Clear(opts.Background)
	return r, nil
}

// ensureFace rebuilds the font face when the effective device scale changed.
func (r *Raster) ensureFace() error {
	k := r.ss * r.Viewport.scale()
	if r.face != nil && k == r.faceFactor {
		return nil
	}
	face, err := NewFace(r.opts.FontSize * k)
	if err != nil {
		return err
	}
	r.face = face
	r.faceFactor = k
	r.dc.SetFontFace(face)
	return nil
}

func (r *Raster) metrics() FaceMetrics {
	if err := r.ensureFace(); err != nil {
		return FaceMetrics{}
	}
	return FaceMetrics{Face: r.face, Factor: r.faceFactor}
}

// dev maps a canvas point to supersampled device pixels.
func (r *Raster) dev(p vec.Vec) (float64, float64) {
	d := r.ToDevice(p).Scale(r.ss)
	return d.X, d.Y
}

func (r *Raster) devLen(l float64) float64 {
	return l * r.Viewport.scale() * r.ss
}

// Clear fills the whole image with c and drops the current path.
func (r *Raster) Clear(c color.Color) {
	r.dc.ClearPath()
	r.dc.SetColor(c)
	r.dc.Clear()
}

// TextWidth implements TextMeasurer.
func (r *Raster) TextWidth(s string) float64 { return r.metrics().TextWidth(s) }

// LineHeight implements TextMeasurer.
func (r *Raster) LineHeight() float64 { return r.metrics().LineHeight() }

func (r *Raster) BeginPath() { r.dc.ClearPath() }

func (r *Raster) TracePath(origin vec.Vec, pts ...vec.Vec) {
	for i, p := range pts {
		x, y := r.dev(origin.Add(p))
		if i == 0 {
			r.dc.MoveTo(x, y)
			continue
		}
		r.dc.LineTo(x, y)
	}
}

func (r *Raster) TraceQuadratic(origin, p0, c, p1 vec.Vec) {
	x0, y0 := r.dev(origin.Add(p0))
	cx, cy := r.dev(origin.Add(c))
	x1, y1 := r.dev(origin.Add(p1))
	r.dc.MoveTo(x0, y0)
	r.dc.QuadraticTo(cx, cy, x1, y1)
}

func (r *Raster) TraceCubic(origin, p0, c1, c2, p1 vec.Vec) {
	x0, y0 := r.dev(origin.Add(p0))
	ax, ay := r.dev(origin.Add(c1))
	bx, by := r.dev(origin.Add(c2))
	x1, y1 := r.dev(origin.Add(p1))
	r.dc.MoveTo(x0, y0)
	r.dc.CubicTo(ax, ay, bx, by, x1, y1)
}

func (r *Raster) TraceEllipse(center vec.Vec, rx, ry float64) {
	x, y := r.dev(center)
	r.dc.DrawEllipse(x, y, r.devLen(rx), r.devLen(ry))
}

func (r *Raster) TraceRect(rc vec.Rect) {
	x, y := r.dev(rc.Min)
	r.dc.DrawRectangle(x, y, r.devLen(rc.W()), r.devLen(rc.H()))
}

func (r *Raster) ClosePath() { r.dc.ClosePath() }

// Stroke paints the current path outline. A shadow is approximated by a
// wider translucent stroke underneath, since gg has no blur.
func (r *Raster) Stroke() {
	width := r.devLen(r.lineWidth)
	if r.shadowBlur > 0 && r.shadowColor != nil {
		r.dc.SetDash()
		r.dc.SetLineWidth(width + r.devLen(r.shadowBlur))
		r.dc.SetColor(withAlpha(r.shadowColor, r.alpha*0.6))
		r.dc.StrokePreserve()
	}
	r.dc.SetLineWidth(width)
	if pat := r.dash.Pattern(r.lineWidth); pat != nil {
		for i := range pat {
			pat[i] = r.devLen(pat[i])
		}
		r.dc.SetDash(pat...)
	} else {
		r.dc.SetDash()
	}
	r.dc.SetColor(r.paintColor(r.stroke))
	r.dc.StrokePreserve()
}

func (r *Raster) Fill() {
	if r.shadowBlur > 0 && r.shadowColor != nil {
		r.dc.SetDash()
		r.dc.SetLineWidth(r.devLen(r.shadowBlur))
		r.dc.SetColor(withAlpha(r.shadowColor, r.alpha*0.6))
		r.dc.StrokePreserve()
	}
	r.dc.SetColor(r.paintColor(r.fill))
	r.dc.FillPreserve()
}

func (r *Raster) SetStrokeColor(c color.Color) { r.stroke = c }
func (r *Raster) SetFillColor(c color.Color)   { r.fill = c }
func (r *Raster) SetLineWidth(w float64)       { r.lineWidth = w }
func (r *Raster) SetDash(d Dash)               { r.dash = d }
func (r *Raster) SetAlpha(a float64)           { r.alpha = a }

func (r *Raster) SetShadow(blur float64, c color.Color) {
	r.shadowBlur = blur
	r.shadowColor = c
}

// SetComposite records the operation. gg only composites source-over, so
// destination-out is emulated by painting with the background colour and
// every other operation falls back to source-over.
func (r *Raster) SetComposite(op Composite) { r.composite = op }

func (r *Raster) paintColor(c color.Color) color.Color {
	if r.composite == CompositeDestinationOut {
		return r.opts.Background
	}
	return withAlpha(c, r.alpha)
}

func (r *Raster) FillText(s string, at vec.Vec) {
	if err := r.ensureFace(); err != nil {
		return
	}
	x, y := r.dev(at)
	r.dc.SetColor(r.paintColor(r.fill))
	r.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// StrokeText outlines s by stamping it around its position in the stroke
// colour.
func (r *Raster) StrokeText(s string, at vec.Vec) {
	if err := r.ensureFace(); err != nil {
		return
	}
	x, y := r.dev(at)
	d := r.devLen(r.lineWidth) / 2
	if d < 1 {
		d = 1
	}
	r.dc.SetColor(r.paintColor(r.stroke))
	for _, o := range [][2]float64{{-d, 0}, {d, 0}, {0, -d}, {0, d}} {
		r.dc.DrawStringAnchored(s, x+o[0], y+o[1], 0.5, 0.5)
	}
}

// Image returns the rendered picture at the target size, downsampled with
// Catmull-Rom filtering.
func (r *Raster) Image() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	src := r.dc.Image()
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// EncodePNG writes the rendered picture as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
