package vec

import "math"

// lineImplicit returns A, B, C with A*x + B*y = C for the line through a, b.
func lineImplicit(a, b Vec) (A, B, C float64) {
	A = b.Y - a.Y
	B = a.X - b.X
	C = A*a.X + B*a.Y
	return
}

// segmentParam returns where p falls along the segment a→b, measured on the
// dominant axis so near-vertical segments stay well conditioned.
func segmentParam(a, b, p Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx == 0 {
			return math.NaN()
		}
		return (p.X - a.X) / dx
	}
	return (p.Y - a.Y) / dy
}

func onSegment(s float64) bool {
	return !math.IsNaN(s) && s >= -paramSlack && s <= 1+paramSlack
}

// QuadSegmentIntersects reports whether the quadratic Bézier p0, c, p1
// crosses the segment a→b.
func QuadSegmentIntersects(p0, c, p1, a, b Vec) bool {
	A, B, C := lineImplicit(a, b)
	if A == 0 && B == 0 {
		return false
	}
	ax, bx, cx := QuadCoeffs(p0.X, c.X, p1.X)
	ay, by, cy := QuadCoeffs(p0.Y, c.Y, p1.Y)
	roots := QuadraticRoots(A*ax+B*ay, A*bx+B*by, A*cx+B*cy-C)
	for _, t := range roots {
		if onSegment(segmentParam(a, b, QuadAt(p0, c, p1, t))) {
			return true
		}
	}
	return false
}

// CubicSegmentIntersects reports whether the cubic Bézier p0, c1, c2, p1
// crosses the segment a→b.
func CubicSegmentIntersects(p0, c1, c2, p1, a, b Vec) bool {
	A, B, C := lineImplicit(a, b)
	if A == 0 && B == 0 {
		return false
	}
	ax, bx, cx, dx := CubicCoeffs(p0.X, c1.X, c2.X, p1.X)
	ay, by, cy, dy := CubicCoeffs(p0.Y, c1.Y, c2.Y, p1.Y)
	roots := CubicRoots(A*ax+B*ay, A*bx+B*by, A*cx+B*cy, A*dx+B*dy-C)
	for _, t := range roots {
		if onSegment(segmentParam(a, b, CubicAt(p0, c1, c2, p1, t))) {
			return true
		}
	}
	return false
}

// SegmentsIntersect reports whether segments p0→p1 and q0→q1 cross.
// Parallel segments never intersect, even when collinear.
func SegmentsIntersect(p0, p1, q0, q1 Vec) bool {
	d1 := p1.Sub(p0)
	d2 := q1.Sub(q0)
	denom := d1.Cross(d2)
	if math.Abs(denom) < Epsilon {
		return false
	}
	w := q0.Sub(p0)
	t := w.Cross(d2) / denom
	u := w.Cross(d1) / denom
	return onSegment(t) && onSegment(u)
}

// SegmentRectIntersects reports whether the segment touches r, either by
// crossing a side or by lying entirely inside it.
func SegmentRectIntersects(a, b Vec, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	for _, side := range r.Sides() {
		if SegmentsIntersect(a, b, side[0], side[1]) {
			return true
		}
	}
	return false
}
