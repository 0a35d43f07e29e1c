package interact

import (
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Endpoint is one end of a ghost edge: Bound to a node or Free at a point.
type Endpoint interface {
	endpoint()
}

// Bound is an end attached to a node.
type Bound struct {
	Node    diagram.NodeID
	Binding diagram.Binding
}

// Free is an end following the pointer.
type Free struct {
	Point vec.Vec
}

func (Bound) endpoint() {}
func (Free) endpoint()  {}

// Ghost previews an edge being created or moved. It is never part of the
// graph.
type Ghost struct {
	Src, Dst Endpoint
	// Loose is the end that follows the pointer.
	Loose diagram.End
	Style diagram.EdgeStyle
	Label string
	// Moving is the edge this ghost replaces on drop, zero when creating.
	Moving diagram.EdgeID
	// Target is the node the loose end would connect to, zero when the
	// pointer is not over an accepting node.
	Target diagram.NodeID
	// Path is the preview curve in canvas coordinates.
	Path diagram.Curve
}

// fixed returns the end that stays attached during the drag.
func (gh *Ghost) fixed() Bound {
	e := gh.Src
	if gh.Loose == diagram.EndSource {
		e = gh.Dst
	}
	b, _ := e.(Bound)
	return b
}

func (gh *Ghost) setLoose(e Endpoint) {
	if gh.Loose == diagram.EndSource {
		gh.Src = e
		return
	}
	gh.Dst = e
}

// ends returns the node IDs and bindings when both ends are bound.
func (gh *Ghost) ends() (src, dst Bound, ok bool) {
	src, ok1 := gh.Src.(Bound)
	dst, ok2 := gh.Dst.(Bound)
	return src, dst, ok1 && ok2
}

// endNode resolves an endpoint. A free end becomes a zero-size node at
// the pointer, whose boundary point is its centre.
func endNode(g *diagram.Graph, e Endpoint) (*diagram.Node, diagram.Binding, bool) {
	switch e := e.(type) {
	case Bound:
		n, ok := g.Node(e.Node)
		return n, e.Binding, ok
	case Free:
		return &diagram.Node{Pos: e.Point}, diagram.Unbound, true
	}
	return nil, diagram.Unbound, false
}

// route recomputes the preview path. It reports false when a bound end's
// node no longer exists.
func (gh *Ghost) route(g *diagram.Graph) bool {
	src, sb, ok := endNode(g, gh.Src)
	if !ok {
		return false
	}
	dst, db, ok := endNode(g, gh.Dst)
	if !ok {
		return false
	}
	var c diagram.Curve
	if s, d, ok := gh.ends(); ok && s.Node == d.Node {
		c = diagram.LoopPoints(src, sb, db)
	} else {
		c = diagram.StraightPoints(src, dst, sb, db)
	}
	gh.Path = diagram.Absolute(c, src.Pos, dst.Pos)
	return true
}
