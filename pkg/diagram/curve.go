package diagram

import "github.com/ha1tch/graphkit/pkg/vec"

// Curve is the cached draw geometry of an edge. It is one of Straight,
// Quadratic, Cubic or Loop; callers switch on the concrete type.
//
// In an edge's cache Src is an offset from the source node position, Dst
// an offset from the destination node position, and every other point an
// offset from the source node position. Absolute turns a cached curve into
// canvas coordinates.
type Curve interface {
	// Ends returns the two end points.
	Ends() (src, dst vec.Vec)
	// Midpoint returns the visual middle of the curve.
	Midpoint() vec.Vec
	// Points returns the ordered point list: 3 entries for Straight, 4 for
	// Quadratic, 5 for Cubic and 7 for Loop.
	Points() []vec.Vec
	curve()
}

// Straight is a line segment.
type Straight struct {
	Src, Dst, Mid vec.Vec
}

// Quadratic is a single-control-point Bézier, used to separate opposed
// edges.
type Quadratic struct {
	Src, Dst, Mid, Ctrl vec.Vec
}

// Cubic is a two-control-point Bézier, used for opposed edges whose ends
// are pinned to anchors.
type Cubic struct {
	Src, Dst, Mid, C1, C2 vec.Vec
}

// Loop is a self-loop: a cubic Bézier from Src to Dst through C1 and C2,
// with T1, Mid and T2 the curve points at 1/3, 1/2 and 2/3.
type Loop struct {
	Src, Dst, Mid, T1, T2, C1, C2 vec.Vec
}

func (Straight) curve()  {}
func (Quadratic) curve() {}
func (Cubic) curve()     {}
func (Loop) curve()      {}

func (c Straight) Ends() (vec.Vec, vec.Vec)  { return c.Src, c.Dst }
func (c Quadratic) Ends() (vec.Vec, vec.Vec) { return c.Src, c.Dst }
func (c Cubic) Ends() (vec.Vec, vec.Vec)     { return c.Src, c.Dst }
func (c Loop) Ends() (vec.Vec, vec.Vec)      { return c.Src, c.Dst }

func (c Straight) Midpoint() vec.Vec  { return c.Mid }
func (c Quadratic) Midpoint() vec.Vec { return c.Mid }
func (c Cubic) Midpoint() vec.Vec     { return c.Mid }
func (c Loop) Midpoint() vec.Vec      { return c.Mid }

func (c Straight) Points() []vec.Vec  { return []vec.Vec{c.Src, c.Dst, c.Mid} }
func (c Quadratic) Points() []vec.Vec { return []vec.Vec{c.Src, c.Dst, c.Mid, c.Ctrl} }
func (c Cubic) Points() []vec.Vec     { return []vec.Vec{c.Src, c.Dst, c.Mid, c.C1, c.C2} }
func (c Loop) Points() []vec.Vec {
	return []vec.Vec{c.Src, c.Dst, c.Mid, c.T1, c.T2, c.C1, c.C2}
}

// Absolute converts a cached curve into canvas coordinates given the
// source and destination node positions.
func Absolute(c Curve, srcPos, dstPos vec.Vec) Curve {
	switch c := c.(type) {
	case Straight:
		return Straight{Src: srcPos.Add(c.Src), Dst: dstPos.Add(c.Dst), Mid: srcPos.Add(c.Mid)}
	case Quadratic:
		return Quadratic{
			Src: srcPos.Add(c.Src), Dst: dstPos.Add(c.Dst),
			Mid: srcPos.Add(c.Mid), Ctrl: srcPos.Add(c.Ctrl),
		}
	case Cubic:
		return Cubic{
			Src: srcPos.Add(c.Src), Dst: dstPos.Add(c.Dst),
			Mid: srcPos.Add(c.Mid), C1: srcPos.Add(c.C1), C2: srcPos.Add(c.C2),
		}
	case Loop:
		return Loop{
			Src: srcPos.Add(c.Src), Dst: dstPos.Add(c.Dst), Mid: srcPos.Add(c.Mid),
			T1: srcPos.Add(c.T1), T2: srcPos.Add(c.T2),
			C1: srcPos.Add(c.C1), C2: srcPos.Add(c.C2),
		}
	}
	return nil
}

// Tangents returns the direction of travel at both ends of an absolute
// curve, used to orient arrowheads. Both point along the curve towards its
// destination.
func Tangents(c Curve) (atSrc, atDst vec.Vec) {
	switch c := c.(type) {
	case Straight:
		d := c.Dst.Sub(c.Src)
		return d, d
	case Quadratic:
		return vec.QuadTangent(c.Src, c.Ctrl, c.Dst, 0), vec.QuadTangent(c.Src, c.Ctrl, c.Dst, 1)
	case Cubic:
		return vec.CubicTangent(c.Src, c.C1, c.C2, c.Dst, 0), vec.CubicTangent(c.Src, c.C1, c.C2, c.Dst, 1)
	case Loop:
		return vec.CubicTangent(c.Src, c.C1, c.C2, c.Dst, 0), vec.CubicTangent(c.Src, c.C1, c.C2, c.Dst, 1)
	}
	return vec.Vec{}, vec.Vec{}
}
