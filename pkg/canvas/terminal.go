package canvas

import (
	"image/color"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// Default terminal cell size in device pixels. Pointer positions reported
// in cells are multiplied by these before Coordinates is applied.
const (
	DefaultCellW = 8.0
	DefaultCellH = 16.0
)

// Terminal rasterises paths onto a tcell screen, one rune per cell.
// Curves are flattened to polylines; strokes pick box-drawing runes by
// slope and fills paint cell backgrounds.
type Terminal struct {
	Viewport

	screen tcell.Screen
	CellW  float64
	CellH  float64

	subpaths [][]vec.Vec // device pixels
	closed   []bool

	stroke     color.Color
	fill       color.Color
	alpha      float64
	lineWidth  float64
	dash       Dash
	shadowBlur float64
	composite  Composite
}

// NewTerminal wraps an initialised screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		Viewport:  Viewport{Scale: 1},
		screen:    screen,
		CellW:     DefaultCellW,
		CellH:     DefaultCellH,
		stroke:    color.White,
		fill:      color.Black,
		alpha:     1,
		lineWidth: 1,
		composite: CompositeSourceOver,
	}
}

// CellToDevice converts a cell position to device pixels at the cell centre.
func (t *Terminal) CellToDevice(x, y int) vec.Vec {
	return vec.V((float64(x)+0.5)*t.CellW, (float64(y)+0.5)*t.CellH)
}

func (t *Terminal) cell(d vec.Vec) (int, int) {
	return int(math.Floor(d.X / t.CellW)), int(math.Floor(d.Y / t.CellH))
}

func (t *Terminal) TextWidth(s string) float64 {
	return float64(runewidth.StringWidth(s)) * t.CellW / t.Viewport.scale()
}

func (t *Terminal) LineHeight() float64 {
	return t.CellH / t.Viewport.scale()
}

func (t *Terminal) BeginPath() {
	t.subpaths = t.subpaths[:0]
	t.closed = t.closed[:0]
}

func (t *Terminal) addSubpath(pts []vec.Vec, closed bool) {
	dev := make([]vec.Vec, len(pts))
	for i, p := range pts {
		dev[i] = t.ToDevice(p)
	}
	t.subpaths = append(t.subpaths, dev)
	t.closed = append(t.closed, closed)
}

func offsetAll(origin vec.Vec, pts []vec.Vec) []vec.Vec {
	out := make([]vec.Vec, len(pts))
	for i, p := range pts {
		out[i] = origin.Add(p)
	}
	return out
}

func (t *Terminal) TracePath(origin vec.Vec, pts ...vec.Vec) {
	if len(pts) == 0 {
		return
	}
	t.addSubpath(offsetAll(origin, pts), false)
}

func (t *Terminal) TraceQuadratic(origin, p0, c, p1 vec.Vec) {
	t.addSubpath(offsetAll(origin, vec.FlattenQuad(p0, c, p1, 16)), false)
}

func (t *Terminal) TraceCubic(origin, p0, c1, c2, p1 vec.Vec) {
	t.addSubpath(offsetAll(origin, vec.FlattenCubic(p0, c1, c2, p1, 24)), false)
}

func (t *Terminal) TraceEllipse(center vec.Vec, rx, ry float64) {
	const n = 32
	pts := make([]vec.Vec, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / n
		pts = append(pts, center.Add(vec.V(rx*math.Cos(a), ry*math.Sin(a))))
	}
	t.addSubpath(pts, true)
}

func (t *Terminal) TraceRect(r vec.Rect) {
	t.addSubpath([]vec.Vec{r.Min, vec.V(r.Max.X, r.Min.Y), r.Max, vec.V(r.Min.X, r.Max.Y)}, true)
}

func (t *Terminal) ClosePath() {
	if n := len(t.closed); n > 0 {
		t.closed[n-1] = true
	}
}

func tcellColor(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorDefault
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return tcell.ColorDefault
	}
	r, g, b := cf.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// view is the screen in device pixels, widened by one cell on each side.
func (t *Terminal) view() vec.Rect {
	w, h := t.screen.Size()
	return vec.Rect{
		Min: vec.V(-t.CellW, -t.CellH),
		Max: vec.V(float64(w+1)*t.CellW, float64(h+1)*t.CellH),
	}
}

// clipSegment returns the parameter range of the segment a→b that lies
// inside r (Liang-Barsky).
func clipSegment(a, b vec.Vec, r vec.Rect) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	d := b.Sub(a)
	for _, c := range [4][2]float64{
		{-d.X, a.X - r.Min.X},
		{d.X, r.Max.X - a.X},
		{-d.Y, a.Y - r.Min.Y},
		{d.Y, r.Max.Y - a.Y},
	} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		u := q / p
		if p < 0 {
			if u > t1 {
				return 0, 0, false
			}
			t0 = math.Max(t0, u)
		} else {
			if u < t0 {
				return 0, 0, false
			}
			t1 = math.Min(t1, u)
		}
	}
	return t0, t1, true
}

// put sets the rune at a cell, keeping the background already painted there.
func (t *Terminal) put(x, y int, r rune, fg tcell.Color, attr tcell.AttrMask) {
	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	_, _, old, _ := t.screen.GetContent(x, y)
	_, bg, _ := old.Decompose()
	style := tcell.StyleDefault.Foreground(fg).Background(bg).Attributes(attr)
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *Terminal) attrs() tcell.AttrMask {
	var a tcell.AttrMask
	if t.shadowBlur > 0 {
		a |= tcell.AttrBold
	}
	if t.alpha < 0.5 {
		a |= tcell.AttrDim
	}
	return a
}

func slopeRune(d vec.Vec) rune {
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case ax > 2*ay:
		return '─'
	case ay > 2*ax:
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	}
	return '╱'
}

func (t *Terminal) Stroke() {
	if t.composite == CompositeDestinationOut {
		return
	}
	fg := tcellColor(t.stroke)
	attr := t.attrs()
	step := math.Min(t.CellW, t.CellH) / 2
	view := t.view()
	for i, sp := range t.subpaths {
		pts := sp
		if t.closed[i] && len(sp) > 1 {
			pts = append(append([]vec.Vec{}, sp...), sp[0])
		}
		n := 0
		for j := 1; j < len(pts); j++ {
			a, b := pts[j-1], pts[j]
			if !a.IsFinite() || !b.IsFinite() {
				continue
			}
			r := slopeRune(b.Sub(a))
			t0, t1, ok := clipSegment(a, b, view)
			if !ok {
				continue
			}
			a, b = a.Lerp(b, t0), a.Lerp(b, t1)
			d := b.Sub(a)
			steps := int(math.Ceil(d.Mag() / step))
			if steps < 1 {
				steps = 1
			}
			for k := 0; k <= steps; k++ {
				n++
				if t.dash == DashDotted && n%2 == 0 {
					continue
				}
				if t.dash == DashDashed && (n/3)%2 == 1 {
					continue
				}
				glyph := r
				if t.dash == DashDotted {
					glyph = '·'
				}
				x, y := t.cell(a.Lerp(b, float64(k)/float64(steps)))
				t.put(x, y, glyph, fg, attr)
			}
		}
	}
}

// Fill paints the background of every cell whose centre lies inside a
// closed subpath, using an even-odd scanline.
func (t *Terminal) Fill() {
	bg := tcellColor(t.fill)
	if t.composite == CompositeDestinationOut {
		bg = tcell.ColorDefault
	}
	w, h := t.screen.Size()
	for i, sp := range t.subpaths {
		if !t.closed[i] || len(sp) < 3 {
			continue
		}
		bounds := vec.Bounds(sp...)
		if !bounds.Min.IsFinite() || !bounds.Max.IsFinite() {
			continue
		}
		y0 := int(math.Max(math.Floor(bounds.Min.Y/t.CellH), 0))
		y1 := int(math.Min(math.Floor(bounds.Max.Y/t.CellH), float64(h-1)))
		for cy := y0; cy <= y1; cy++ {
			yc := (float64(cy) + 0.5) * t.CellH
			var xs []float64
			for j := range sp {
				a, b := sp[j], sp[(j+1)%len(sp)]
				if (a.Y <= yc) == (b.Y <= yc) {
					continue
				}
				xs = append(xs, a.X+(yc-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
			sort.Float64s(xs)
			for k := 0; k+1 < len(xs); k += 2 {
				lo := math.Max(math.Ceil(xs[k]/t.CellW-0.5), 0)
				hi := math.Min(math.Floor(xs[k+1]/t.CellW-0.5), float64(w-1))
				for cx := lo; cx <= hi; cx++ {
					t.screen.SetContent(int(cx), cy, ' ', nil, tcell.StyleDefault.Background(bg))
				}
			}
		}
	}
}

func (t *Terminal) SetStrokeColor(c color.Color)          { t.stroke = c }
func (t *Terminal) SetFillColor(c color.Color)            { t.fill = c }
func (t *Terminal) SetLineWidth(w float64)                { t.lineWidth = w }
func (t *Terminal) SetDash(d Dash)                        { t.dash = d }
func (t *Terminal) SetAlpha(a float64)                    { t.alpha = a }
func (t *Terminal) SetComposite(op Composite)             { t.composite = op }
func (t *Terminal) SetShadow(blur float64, _ color.Color) { t.shadowBlur = blur }

func (t *Terminal) text(s string, at vec.Vec, fg tcell.Color, attr tcell.AttrMask) {
	cx, cy := t.cell(t.ToDevice(at))
	x := cx - runewidth.StringWidth(s)/2
	for _, r := range s {
		t.put(x, cy, r, fg, attr)
		x += runewidth.RuneWidth(r)
	}
}

func (t *Terminal) FillText(s string, at vec.Vec) {
	t.text(s, at, tcellColor(t.fill), t.attrs())
}

// StrokeText has no outline in a terminal; it renders bold in the stroke
// colour.
func (t *Terminal) StrokeText(s string, at vec.Vec) {
	t.text(s, at, tcellColor(t.stroke), t.attrs()|tcell.AttrBold)
}
