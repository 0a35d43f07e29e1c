package vec

import "math"

// Rect is an axis-aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min, Max Vec
}

// RectFrom returns the rectangle spanned by two corner points in any order.
func RectFrom(a, b Vec) Rect {
	return Rect{
		Min: Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// RectCentered returns the rectangle of the given size centred on c.
func RectCentered(c Vec, w, h float64) Rect {
	return Rect{
		Min: Vec{c.X - w/2, c.Y - h/2},
		Max: Vec{c.X + w/2, c.Y + h/2},
	}
}

// Bounds returns the smallest rectangle containing all points.
// It returns the zero Rect for no points.
func Bounds(pts ...Vec) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// W returns the width.
func (r Rect) W() float64 { return r.Max.X - r.Min.X }

// H returns the height.
func (r Rect) H() float64 { return r.Max.Y - r.Min.Y }

// Center returns the centre point.
func (r Rect) Center() Vec { return Mid(r.Min, r.Max) }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows r by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{
		Min: Vec{r.Min.X - m, r.Min.Y - m},
		Max: Vec{r.Max.X + m, r.Max.Y + m},
	}
}

// ExpandXY grows r by mx horizontally and my vertically on each side.
func (r Rect) ExpandXY(mx, my float64) Rect {
	return Rect{
		Min: Vec{r.Min.X - mx, r.Min.Y - my},
		Max: Vec{r.Max.X + mx, r.Max.Y + my},
	}
}

// Translate moves r by d.
func (r Rect) Translate(d Vec) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Overlaps reports whether r and o share any point.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Bounds(r.Min, r.Max, o.Min, o.Max)
}

// Sides returns the four sides as directed segments: top, right, bottom, left.
func (r Rect) Sides() [4][2]Vec {
	tl := r.Min
	tr := Vec{r.Max.X, r.Min.Y}
	br := r.Max
	bl := Vec{r.Min.X, r.Max.Y}
	return [4][2]Vec{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}
