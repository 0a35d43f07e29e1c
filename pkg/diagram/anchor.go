package diagram

import "github.com/ha1tch/graphkit/pkg/vec"

// Binding pins an edge end to a node anchor. An unbound end is placed on
// the node boundary each time geometry is recomputed.
type Binding struct {
	Offset vec.Vec // from the node position
	Bound  bool
}

// Unbound is the zero Binding.
var Unbound = Binding{}

// Bind returns a binding to the given anchor offset.
func Bind(offset vec.Vec) Binding {
	return Binding{Offset: offset, Bound: true}
}

// NearestAnchor returns the index and offset of the anchor closest to
// local, an offset from n.Pos. On equal distances the earlier anchor wins.
// A node without anchors yields the zero offset and false.
func NearestAnchor(n *Node, local vec.Vec) (int, vec.Vec, bool) {
	best := -1
	bestD := 0.0
	for i, a := range n.Anchors {
		d := local.DistSq(a)
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return -1, vec.Vec{}, false
	}
	return best, n.Anchors[best], true
}

// HasAnchor reports whether off is one of the node's anchors.
func HasAnchor(n *Node, off vec.Vec) bool {
	for _, a := range n.Anchors {
		if a.Near(off, vec.Epsilon) {
			return true
		}
	}
	return false
}

// collapseAnchors drops duplicate offsets, keeping first occurrences.
func collapseAnchors(anchors []vec.Vec) []vec.Vec {
	if len(anchors) == 0 {
		return nil
	}
	out := make([]vec.Vec, 0, len(anchors))
	for _, a := range anchors {
		dup := false
		for _, b := range out {
			if a.Near(b, vec.Epsilon) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}
