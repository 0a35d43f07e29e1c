package vec

// Bézier evaluation in Bernstein form.

// QuadWeights returns the quadratic Bernstein weights at t.
func QuadWeights(t float64) (w0, w1, w2 float64) {
	mt := 1 - t
	return mt * mt, 2 * mt * t, t * t
}

// CubicWeights returns the cubic Bernstein weights at t.
func CubicWeights(t float64) (w0, w1, w2, w3 float64) {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t
	return mt2 * mt, 3 * mt2 * t, 3 * mt * t2, t2 * t
}

// QuadAt evaluates the quadratic Bézier p0, c, p1 at t.
func QuadAt(p0, c, p1 Vec, t float64) Vec {
	w0, w1, w2 := QuadWeights(t)
	return Vec{
		X: w0*p0.X + w1*c.X + w2*p1.X,
		Y: w0*p0.Y + w1*c.Y + w2*p1.Y,
	}
}

// QuadTangent returns the derivative of the quadratic Bézier at t.
func QuadTangent(p0, c, p1 Vec, t float64) Vec {
	mt := 1 - t
	return c.Sub(p0).Scale(2 * mt).Add(p1.Sub(c).Scale(2 * t))
}

// CubicAt evaluates the cubic Bézier p0, c1, c2, p1 at t.
func CubicAt(p0, c1, c2, p1 Vec, t float64) Vec {
	w0, w1, w2, w3 := CubicWeights(t)
	return Vec{
		X: w0*p0.X + w1*c1.X + w2*c2.X + w3*p1.X,
		Y: w0*p0.Y + w1*c1.Y + w2*c2.Y + w3*p1.Y,
	}
}

// CubicTangent returns the derivative of the cubic Bézier at t.
func CubicTangent(p0, c1, c2, p1 Vec, t float64) Vec {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t
	return Vec{
		X: 3*mt2*(c1.X-p0.X) + 6*mt*t*(c2.X-c1.X) + 3*t2*(p1.X-c2.X),
		Y: 3*mt2*(c1.Y-p0.Y) + 6*mt*t*(c2.Y-c1.Y) + 3*t2*(p1.Y-c2.Y),
	}
}

// QuadCoeffs returns the power-basis coefficients of one axis of a quadratic
// Bézier: a*t² + b*t + c.
func QuadCoeffs(p0, c, p1 float64) (a, b, k float64) {
	return p0 - 2*c + p1, 2 * (c - p0), p0
}

// CubicCoeffs returns the power-basis coefficients of one axis of a cubic
// Bézier: a*t³ + b*t² + c*t + d.
func CubicCoeffs(p0, c1, c2, p1 float64) (a, b, c, d float64) {
	return -p0 + 3*c1 - 3*c2 + p1,
		3*p0 - 6*c1 + 3*c2,
		-3*p0 + 3*c1,
		p0
}

// FlattenQuad samples the quadratic Bézier into n+1 points.
func FlattenQuad(p0, c, p1 Vec, n int) []Vec {
	if n < 1 {
		n = 1
	}
	pts := make([]Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, QuadAt(p0, c, p1, float64(i)/float64(n)))
	}
	return pts
}

// FlattenCubic samples the cubic Bézier into n+1 points.
func FlattenCubic(p0, c1, c2, p1 Vec, n int) []Vec {
	if n < 1 {
		n = 1
	}
	pts := make([]Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, CubicAt(p0, c1, c2, p1, float64(i)/float64(n)))
	}
	return pts
}
