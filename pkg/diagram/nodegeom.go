package diagram

import (
	"math"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// Zone tells which part of a node a point hit.
type Zone int

const (
	ZoneBody   Zone = iota // inside the inner threshold
	ZoneRim                // in the band around the outline
	ZoneAnchor             // near a declared anchor
)

func (z Zone) String() string {
	switch z {
	case ZoneRim:
		return "rim"
	case ZoneAnchor:
		return "anchor"
	}
	return "body"
}

// NodeHit is the result of a node point hit-test.
type NodeHit struct {
	Zone Zone
	// Offset from the node position: zero for the body, the boundary point
	// for the rim, the anchor offset for an anchor.
	Offset vec.Vec
	Anchor int // index into Anchors, -1 unless Zone is ZoneAnchor
}

// Handle reports whether the hit exposes an edge handle, i.e. whether a
// drag from here connects rather than moves.
func (h NodeHit) Handle() bool {
	return h.Zone == ZoneRim || h.Zone == ZoneAnchor
}

// Radii returns the outline half extents including half the border.
func (n *Node) Radii() vec.Vec {
	bw := n.Border.Width / 2
	return n.Half().Add(vec.V(bw, bw))
}

// BoundaryPoint returns the offset from n.Pos at which a ray from the
// centre in direction dir leaves the node outline. dir need not be unit
// length; a zero direction yields a zero offset.
func BoundaryPoint(n *Node, dir vec.Vec) vec.Vec {
	u, ok := dir.Unit()
	if !ok {
		return vec.Vec{}
	}
	r := n.Radii()
	if r.X <= 0 || r.Y <= 0 {
		return vec.Vec{}
	}

	if n.Shape.Rounded() {
		// ray/ellipse: t² (ux²/a² + uy²/b²) = 1
		k := u.X*u.X/(r.X*r.X) + u.Y*u.Y/(r.Y*r.Y)
		return u.Scale(1 / math.Sqrt(k))
	}

	// rectangle raycast: the axis that reaches its side first wins
	t := math.Inf(1)
	if ax := math.Abs(u.X); ax > vec.Epsilon {
		t = r.X / ax
	}
	if ay := math.Abs(u.Y); ay > vec.Epsilon {
		t = math.Min(t, r.Y/ay)
	}
	return u.Scale(t)
}

// Thresholds returns the inner and outer hit half-extents. Inside inner
// is the body; between inner and outer is the rim band.
func Thresholds(n *Node) (inner, outer vec.Vec) {
	h := n.Half()
	inner = vec.V(math.Max(h.X-HitBand, 1), math.Max(h.Y-HitBand, 1))
	outer = n.Radii().Add(vec.V(HitBand, HitBand))
	return inner, outer
}

// AnchorRadius is the distance within which a point snaps to an anchor.
func AnchorRadius(n *Node) float64 {
	inner, outer := Thresholds(n)
	return math.Min(outer.X-inner.X, outer.Y-inner.Y)
}

// HitPoint tests p (canvas coordinates) against n.
func HitPoint(n *Node, p vec.Vec) (NodeHit, bool) {
	local := p.Sub(n.Pos)

	if i, off, ok := NearestAnchor(n, local); ok {
		r := AnchorRadius(n)
		if local.DistSq(off) < r*r {
			return NodeHit{Zone: ZoneAnchor, Offset: off, Anchor: i}, true
		}
	}

	inner, outer := Thresholds(n)
	if n.Shape.Rounded() {
		if local.Div(inner).MagSq() < 1 {
			return NodeHit{Zone: ZoneBody, Anchor: -1}, true
		}
		if local.Div(outer).MagSq() < 1 {
			return NodeHit{Zone: ZoneRim, Offset: BoundaryPoint(n, local), Anchor: -1}, true
		}
		return NodeHit{}, false
	}

	a := local.Abs()
	if a.X < inner.X && a.Y < inner.Y {
		return NodeHit{Zone: ZoneBody, Anchor: -1}, true
	}
	if a.X < outer.X && a.Y < outer.Y {
		return NodeHit{Zone: ZoneRim, Offset: BoundaryPoint(n, local), Anchor: -1}, true
	}
	return NodeHit{}, false
}

// HitRect reports whether the node box, grown by half its border, overlaps
// r. It is conservative: rounded corners count as inside.
func HitRect(n *Node, r vec.Rect) bool {
	return n.Box().Expand(n.Border.Width / 2).Overlaps(r)
}
