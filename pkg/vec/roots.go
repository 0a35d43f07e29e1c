package vec

import (
	"math"
	"sort"
)

// paramSlack admits roots a hair outside [0,1] caused by rounding.
const paramSlack = 1e-9

// inUnit keeps t when it lies in the curve parameter domain, clamping the
// rounding slack back onto the interval.
func inUnit(roots []float64, t float64) []float64 {
	if math.IsNaN(t) || t < -paramSlack || t > 1+paramSlack {
		return roots
	}
	return append(roots, math.Max(0, math.Min(1, t)))
}

// QuadraticRoots returns the real roots of a*t² + b*t + c = 0 that fall in
// [0,1], sorted ascending. A vanishing leading coefficient degrades to the
// linear equation.
func QuadraticRoots(a, b, c float64) []float64 {
	var roots []float64
	if math.Abs(a) < Epsilon {
		if math.Abs(b) < Epsilon {
			return nil
		}
		return inUnit(roots, -c/b)
	}
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		return inUnit(roots, -b/(2*a))
	}
	sq := math.Sqrt(disc)
	roots = inUnit(roots, (-b+sq)/(2*a))
	roots = inUnit(roots, (-b-sq)/(2*a))
	sort.Float64s(roots)
	return roots
}

// CubicRoots returns the real roots of a*t³ + b*t² + c*t + d = 0 that fall
// in [0,1], sorted ascending. It uses Cardano's formula when the
// discriminant is non-negative and the trigonometric form for three real
// roots, falling back to QuadraticRoots when a vanishes.
func CubicRoots(a, b, c, d float64) []float64 {
	if math.Abs(a) < Epsilon {
		return QuadraticRoots(b, c, d)
	}
	A := b / a
	B := c / a
	C := d / a

	Q := (3*B - A*A) / 9
	R := (9*A*B - 27*C - 2*A*A*A) / 54
	D := Q*Q*Q + R*R

	var roots []float64
	if D >= 0 {
		sqD := math.Sqrt(D)
		S := math.Cbrt(R + sqD)
		T := math.Cbrt(R - sqD)
		roots = inUnit(roots, -A/3+(S+T))
		// The complex pair collapses to a real double root when S == T.
		if math.Abs(math.Sqrt(3)*(S-T)/2) < Epsilon {
			roots = inUnit(roots, -A/3-(S+T)/2)
		}
	} else {
		th := math.Acos(math.Max(-1, math.Min(1, R/math.Sqrt(-Q*Q*Q))))
		m := 2 * math.Sqrt(-Q)
		for k := 0; k < 3; k++ {
			roots = inUnit(roots, m*math.Cos((th+2*math.Pi*float64(k))/3)-A/3)
		}
	}
	sort.Float64s(roots)
	return dedupe(roots)
}

func dedupe(roots []float64) []float64 {
	if len(roots) < 2 {
		return roots
	}
	out := roots[:1]
	for _, r := range roots[1:] {
		if math.Abs(r-out[len(out)-1]) > 1e-12 {
			out = append(out, r)
		}
	}
	return out
}
