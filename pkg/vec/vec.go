// Package vec provides the 2D vector arithmetic, polynomial root solvers
// and Bézier helpers used by diagram geometry and hit-testing.
package vec

import "math"

// Epsilon is the tolerance used when deciding that a magnitude or a
// polynomial coefficient is zero.
const Epsilon = 1e-9

// Vec is a 2D vector or point. Y grows downward, as on a canvas.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{x, y}
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v.X + w.X, v.Y + w.Y}
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{v.X - w.X, v.Y - w.Y}
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Mul multiplies component-wise.
func (v Vec) Mul(w Vec) Vec {
	return Vec{v.X * w.X, v.Y * w.Y}
}

// Div divides component-wise. Zero components of w yield zero.
func (v Vec) Div(w Vec) Vec {
	var out Vec
	if w.X != 0 {
		out.X = v.X / w.X
	}
	if w.Y != 0 {
		out.Y = v.Y / w.Y
	}
	return out
}

// Dot returns the dot product.
func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec) Cross(w Vec) float64 {
	return v.X*w.Y - v.Y*w.X
}

// MagSq returns the squared magnitude.
func (v Vec) MagSq() float64 {
	return v.Dot(v)
}

// Mag returns the magnitude.
func (v Vec) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns v scaled to length 1. A zero vector cannot be normalised;
// it returns the zero vector and false, and callers must treat that as a
// degenerate no-op rather than propagating NaN.
func (v Vec) Unit() (Vec, bool) {
	m := v.Mag()
	if m < Epsilon || math.IsNaN(m) || math.IsInf(m, 0) {
		return Vec{}, false
	}
	return Vec{v.X / m, v.Y / m}, true
}

// Perp returns v rotated 90° counter-clockwise in a y-down frame: (y, -x).
func (v Vec) Perp() Vec {
	return Vec{v.Y, -v.X}
}

// Neg returns -v.
func (v Vec) Neg() Vec {
	return Vec{-v.X, -v.Y}
}

// Abs returns the component-wise absolute value.
func (v Vec) Abs() Vec {
	return Vec{math.Abs(v.X), math.Abs(v.Y)}
}

// Rotate rotates v by theta radians (clockwise on screen, since y points down).
func (v Vec) Rotate(theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Lerp interpolates between v (t=0) and w (t=1).
func (v Vec) Lerp(w Vec, t float64) Vec {
	return Vec{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Dist returns the distance between two points.
func (v Vec) Dist(w Vec) float64 {
	return w.Sub(v).Mag()
}

// DistSq returns the squared distance between two points.
func (v Vec) DistSq(w Vec) float64 {
	return w.Sub(v).MagSq()
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Near reports whether v and w are within tol in both axes.
func (v Vec) Near(w Vec, tol float64) bool {
	return math.Abs(v.X-w.X) <= tol && math.Abs(v.Y-w.Y) <= tol
}

// Mid returns the midpoint of v and w.
func Mid(v, w Vec) Vec {
	return Vec{(v.X + w.X) / 2, (v.Y + w.Y) / 2}
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
