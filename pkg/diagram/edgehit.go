package diagram

import (
	"math"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// End names one end of an edge.
type End int

const (
	EndSource End = iota
	EndDestination
)

func (e End) String() string {
	if e == EndDestination {
		return "destination"
	}
	return "source"
}

// Other returns the opposite end.
func (e End) Other() End {
	if e == EndSource {
		return EndDestination
	}
	return EndSource
}

// HitPtTestLine tests p against the chord a→b. It hits when the rejection
// of p from the chord is shorter than margin and the projection falls
// within the chord. The returned end is the one the projection is nearer
// to: the source when the squared projected length is under a quarter of
// the squared chord length. A degenerate chord is treated as the point a.
func HitPtTestLine(a, b, p vec.Vec, margin float64) (End, bool) {
	v := b.Sub(a)
	w := p.Sub(a)
	vv := v.MagSq()
	m2 := margin * margin
	if vv < vec.Epsilon {
		return EndSource, w.MagSq() < m2
	}

	proj := w.Dot(v)
	rej := w.Sub(v.Scale(proj / vv))
	if rej.MagSq() >= m2 || proj < 0 || proj > vv {
		return EndSource, false
	}
	if proj*proj/vv < vv/4 {
		return EndSource, true
	}
	return EndDestination, true
}

// EdgeMargin is the hit distance of an edge of the given line width.
func EdgeMargin(lineWidth, hitMargin float64) float64 {
	return math.Sqrt(lineWidth*lineWidth + hitMargin*hitMargin)
}

func hitPolyline(pts []vec.Vec, p vec.Vec, margin float64) bool {
	for i := 1; i < len(pts); i++ {
		if _, ok := HitPtTestLine(pts[i-1], pts[i], p, margin); ok {
			return true
		}
	}
	return false
}

// hitHalves tests the source half and the destination half of a curve.
// When p is near the joint and both halves hit, the nearer end wins.
func hitHalves(srcHalf, dstHalf []vec.Vec, p vec.Vec, margin float64) (End, bool) {
	s := hitPolyline(srcHalf, p, margin)
	d := hitPolyline(dstHalf, p, margin)
	switch {
	case s && d:
		if p.DistSq(srcHalf[0]) <= p.DistSq(dstHalf[len(dstHalf)-1]) {
			return EndSource, true
		}
		return EndDestination, true
	case s:
		return EndSource, true
	case d:
		return EndDestination, true
	}
	return EndSource, false
}

// HitEdge tests p (canvas coordinates) against an edge and reports which
// end is nearer the hit. hitMargin is the hit distance for a zero-width
// line.
func HitEdge(e *Edge, p vec.Vec, hitMargin float64) (End, bool) {
	if e.Path == nil {
		return EndSource, false
	}
	src, dst := e.Path.Ends()

	if e.HasLabel() && e.LabelRect.Contains(p) {
		if math.Abs(p.X-src.X) <= math.Abs(p.X-dst.X) {
			return EndSource, true
		}
		return EndDestination, true
	}

	margin := EdgeMargin(e.LineWidth, hitMargin)
	if !vec.Bounds(e.Path.Points()...).Expand(margin).Contains(p) {
		return EndSource, false
	}

	switch c := e.Path.(type) {
	case Straight:
		return HitPtTestLine(c.Src, c.Dst, p, margin)
	case Quadratic:
		return hitHalves([]vec.Vec{c.Src, c.Mid}, []vec.Vec{c.Mid, c.Dst}, p, margin)
	case Cubic:
		return hitHalves([]vec.Vec{c.Src, c.Mid}, []vec.Vec{c.Mid, c.Dst}, p, margin)
	case Loop:
		return hitHalves([]vec.Vec{c.Src, c.T1, c.Mid}, []vec.Vec{c.Mid, c.T2, c.Dst}, p, margin)
	}
	return EndSource, false
}

// EdgeHitRect reports whether an edge touches r: a key point inside r, or
// the curve crossing one of its sides.
func EdgeHitRect(e *Edge, r vec.Rect) bool {
	if e.Path == nil {
		return false
	}
	src, dst := e.Path.Ends()
	if r.Contains(src) || r.Contains(dst) || r.Contains(e.Path.Midpoint()) {
		return true
	}
	if e.HasLabel() && r.Contains(e.LabelCenter) {
		return true
	}

	for _, side := range r.Sides() {
		a, b := side[0], side[1]
		var hit bool
		switch c := e.Path.(type) {
		case Straight:
			hit = vec.SegmentsIntersect(c.Src, c.Dst, a, b)
		case Quadratic:
			hit = vec.QuadSegmentIntersects(c.Src, c.Ctrl, c.Dst, a, b)
		case Cubic:
			hit = vec.CubicSegmentIntersects(c.Src, c.C1, c.C2, c.Dst, a, b)
		case Loop:
			hit = vec.CubicSegmentIntersects(c.Src, c.C1, c.C2, c.Dst, a, b)
		}
		if hit {
			return true
		}
	}
	return false
}
