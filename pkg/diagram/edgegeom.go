package diagram

import (
	"math"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// loopAngle is the angle between vertical and each self-loop end.
const loopAngle = math.Pi / 8

// Regime is the kind of curve an edge is routed with.
type Regime int

const (
	RegimeStraight Regime = iota
	RegimeQuadratic
	RegimeCubic
	RegimeLoop
)

func (r Regime) String() string {
	switch r {
	case RegimeQuadratic:
		return "quadratic"
	case RegimeCubic:
		return "cubic"
	case RegimeLoop:
		return "loop"
	}
	return "straight"
}

// ChooseRegime picks the curve kind for an edge. opposed reports whether
// an edge runs the other way between the same nodes.
func ChooseRegime(selfLoop, opposed bool, sb, db Binding) Regime {
	switch {
	case selfLoop:
		return RegimeLoop
	case opposed && (sb.Bound || db.Bound):
		// bound ends cannot be shifted towards a single control point
		return RegimeCubic
	case opposed:
		return RegimeQuadratic
	}
	return RegimeStraight
}

// chordNormal returns the unit normal of the line between two centres,
// (y, -x) of the unit chord. ok is false when the centres coincide.
func chordNormal(from, to vec.Vec) (vec.Vec, bool) {
	u, ok := to.Sub(from).Unit()
	if !ok {
		return vec.Vec{}, false
	}
	return u.Perp(), true
}

// StraightPoints routes a straight edge. Bound ends are used verbatim; an
// unbound end faces the other end's bound point, or the other centre when
// neither end is bound.
func StraightPoints(src, dst *Node, sb, db Binding) Straight {
	s, d := sb.Offset, db.Offset
	switch {
	case sb.Bound && db.Bound:
	case sb.Bound:
		d = BoundaryPoint(dst, src.Pos.Add(s).Sub(dst.Pos))
	case db.Bound:
		s = BoundaryPoint(src, dst.Pos.Add(d).Sub(src.Pos))
	default:
		dir := dst.Pos.Sub(src.Pos)
		s = BoundaryPoint(src, dir)
		d = BoundaryPoint(dst, dir.Neg())
	}
	mid := vec.Mid(src.Pos.Add(s), dst.Pos.Add(d))
	return Straight{Src: s, Dst: d, Mid: mid.Sub(src.Pos)}
}

// QuadraticPoints routes an opposed edge through one control point placed
// CurveOffset off the middle of the chord. Unbound ends leave their nodes
// towards the control point so the two opposed curves stay apart.
func QuadraticPoints(src, dst *Node, sb, db Binding) Quadratic {
	ctrl := vec.Mid(src.Pos, dst.Pos)
	if n, ok := chordNormal(src.Pos, dst.Pos); ok {
		ctrl = ctrl.Add(n.Scale(CurveOffset))
	}
	s, d := sb.Offset, db.Offset
	if !sb.Bound {
		s = BoundaryPoint(src, ctrl.Sub(src.Pos))
	}
	if !db.Bound {
		d = BoundaryPoint(dst, ctrl.Sub(dst.Pos))
	}
	mid := vec.QuadAt(src.Pos.Add(s), ctrl, dst.Pos.Add(d), 0.5)
	return Quadratic{
		Src:  s,
		Dst:  d,
		Mid:  mid.Sub(src.Pos),
		Ctrl: ctrl.Sub(src.Pos),
	}
}

// CubicPoints routes an opposed edge through two control points at a third
// and two thirds of the chord, both CurveOffset off it.
func CubicPoints(src, dst *Node, sb, db Binding) Cubic {
	chord := dst.Pos.Sub(src.Pos)
	var off vec.Vec
	if n, ok := chordNormal(src.Pos, dst.Pos); ok {
		off = n.Scale(CurveOffset)
	}
	c1 := src.Pos.Add(chord.Scale(1.0 / 3)).Add(off)
	c2 := src.Pos.Add(chord.Scale(2.0 / 3)).Add(off)
	s, d := sb.Offset, db.Offset
	if !sb.Bound {
		s = BoundaryPoint(src, c1.Sub(src.Pos))
	}
	if !db.Bound {
		d = BoundaryPoint(dst, c2.Sub(dst.Pos))
	}
	mid := vec.CubicAt(src.Pos.Add(s), c1, c2, dst.Pos.Add(d), 0.5)
	return Cubic{
		Src: s,
		Dst: d,
		Mid: mid.Sub(src.Pos),
		C1:  c1.Sub(src.Pos),
		C2:  c2.Sub(src.Pos),
	}
}

// LoopPoints routes a self-loop above the node. The ends sit on the
// outline 22.5° either side of vertical and the control points reach
// LoopReach further out in the same directions.
func LoopPoints(n *Node, sb, db Binding) Loop {
	up := vec.V(0, -1)
	d1 := up.Rotate(-loopAngle)
	d2 := up.Rotate(loopAngle)

	s, d := sb.Offset, db.Offset
	if !sb.Bound {
		s = BoundaryPoint(n, d1)
	}
	if !db.Bound {
		d = BoundaryPoint(n, d2)
	}
	c1 := s.Add(d1.Scale(LoopReach))
	c2 := d.Add(d2.Scale(LoopReach))

	at := func(t float64) vec.Vec {
		w0, w1, w2, w3 := vec.CubicWeights(t)
		return s.Scale(w0).Add(c1.Scale(w1)).Add(c2.Scale(w2)).Add(d.Scale(w3))
	}
	return Loop{
		Src: s,
		Dst: d,
		Mid: at(0.5),
		T1:  at(1.0 / 3),
		T2:  at(2.0 / 3),
		C1:  c1,
		C2:  c2,
	}
}

// RoutePoints computes the curve of a regime.
func RoutePoints(r Regime, src, dst *Node, sb, db Binding) Curve {
	switch r {
	case RegimeLoop:
		return LoopPoints(src, sb, db)
	case RegimeQuadratic:
		return QuadraticPoints(src, dst, sb, db)
	case RegimeCubic:
		return CubicPoints(src, dst, sb, db)
	}
	return StraightPoints(src, dst, sb, db)
}

// StackDirection returns the unit direction in which labels of stacked
// edges are pushed apart. It is the chord normal turned to point up the
// screen; for a vertical chord the normal is horizontal and is turned to
// point left. Self-loops always stack upward.
func StackDirection(src, dst vec.Vec, selfLoop bool) vec.Vec {
	up := vec.V(0, -1)
	if selfLoop {
		return up
	}
	n, ok := chordNormal(src, dst)
	if !ok {
		return up
	}
	s := -vec.Sign(n.Y)
	if math.Abs(n.Y) < vec.Epsilon {
		s = -vec.Sign(n.X)
	}
	return n.Scale(s)
}
