package render

import (
	"fmt"
	"io"
	"math"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Options configures PNG and SVG export.
type Options struct {
	Width       int
	Height      int
	Padding     int
	FontSize    float64
	Supersample int // PNG only
	Theme       Theme
}

// DefaultOptions returns sensible defaults for export.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Padding:     40,
		FontSize:    canvas.DefaultFontSize,
		Supersample: 4,
		Theme:       DefaultTheme(),
	}
}

// Bounds returns the canvas area covered by the nodes, edges and labels of
// g. It reports false for an empty graph.
func Bounds(g *diagram.Graph) (vec.Rect, bool) {
	var r vec.Rect
	first := true
	grow := func(o vec.Rect) {
		if first {
			r, first = o, false
			return
		}
		r = r.Union(o)
	}
	for _, n := range g.Nodes() {
		grow(n.Box().Expand(n.Border.Width / 2))
	}
	for _, e := range g.Edges() {
		if e.Path == nil {
			continue
		}
		grow(vec.Bounds(e.Path.Points()...))
		if e.HasLabel() {
			grow(e.LabelRect)
		}
	}
	return r, !first
}

// Fit returns a viewport that centres r in a w×h device area, shrinking
// it to fit inside the padding. It never magnifies.
func Fit(r vec.Rect, w, h, pad int) canvas.Viewport {
	aw := float64(w - 2*pad)
	ah := float64(h - 2*pad)
	if aw <= 0 || ah <= 0 {
		aw, ah = float64(w), float64(h)
	}
	s := 1.0
	if r.W() > 0 {
		s = math.Min(s, aw/r.W())
	}
	if r.H() > 0 {
		s = math.Min(s, ah/r.H())
	}
	center := vec.V(float64(w)/2, float64(h)/2)
	return canvas.Viewport{Scale: s, Pan: center.Scale(1 / s).Sub(r.Center())}
}

// PNG renders g to w as a PNG image. The graph is refitted to the font
// metrics of the image first.
func PNG(g *diagram.Graph, w io.Writer, opts Options) error {
	r, err := canvas.NewRaster(canvas.RasterOptions{
		Width:       opts.Width,
		Height:      opts.Height,
		Supersample: opts.Supersample,
		FontSize:    opts.FontSize,
		Background:  opts.Theme.Background,
	})
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	g.SetMeasurer(r)
	if b, ok := Bounds(g); ok {
		r.Viewport = Fit(b, opts.Width, opts.Height, opts.Padding)
	}
	Build(g, opts.Theme, Overlay{}).Draw(r)
	return r.EncodePNG(w)
}

// SVG renders g to w as an SVG document. The graph is refitted to the
// font metrics of the document first.
func SVG(g *diagram.Graph, w io.Writer, opts Options) error {
	s, err := canvas.NewSVG(w, canvas.SVGOptions{
		Width:      opts.Width,
		Height:     opts.Height,
		FontSize:   opts.FontSize,
		Background: opts.Theme.Background,
	})
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	g.SetMeasurer(s)
	if b, ok := Bounds(g); ok {
		s.Viewport = Fit(b, opts.Width, opts.Height, opts.Padding)
	}
	Build(g, opts.Theme, Overlay{}).Draw(s)
	s.Close()
	return nil
}
