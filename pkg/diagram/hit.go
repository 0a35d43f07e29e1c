package diagram

import "github.com/ha1tch/graphkit/pkg/vec"

// Hit is the result of a graph point hit-test.
type Hit struct {
	Ref  Ref
	Node NodeHit // set for node hits
	End  End     // set for edge hits: the end nearer the point
}

// NodeAt returns the topmost node under p. Later nodes are drawn on top.
func (g *Graph) NodeAt(p vec.Vec) (NodeID, NodeHit, bool) {
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if h, ok := HitPoint(nodes[i], p); ok {
			return nodes[i].ID, h, true
		}
	}
	return 0, NodeHit{}, false
}

// EdgeAt returns the topmost edge under p.
func (g *Graph) EdgeAt(p vec.Vec) (EdgeID, End, bool) {
	edges := g.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		if end, ok := HitEdge(edges[i], p, g.hitMargin); ok {
			return edges[i].ID, end, true
		}
	}
	return 0, EndSource, false
}

// HitTest finds the drawable under p. prev, the element hit last time, is
// tried before the full scan; nodes win over edges because they are drawn
// in front.
func (g *Graph) HitTest(p vec.Vec, prev Ref) (Hit, bool) {
	if id, ok := prev.Node(); ok {
		if n, ok := g.nodes[id]; ok {
			if h, ok := HitPoint(n, p); ok {
				return Hit{Ref: prev, Node: h}, true
			}
		}
	}
	if id, h, ok := g.NodeAt(p); ok {
		return Hit{Ref: NodeRef(id), Node: h}, true
	}
	if id, ok := prev.Edge(); ok {
		if e, ok := g.edges[id]; ok {
			if end, ok := HitEdge(e, p, g.hitMargin); ok {
				return Hit{Ref: prev, End: end}, true
			}
		}
	}
	if id, end, ok := g.EdgeAt(p); ok {
		return Hit{Ref: EdgeRef(id), End: end}, true
	}
	return Hit{}, false
}

// HitRect returns every drawable touching r, nodes first, in ID order.
func (g *Graph) HitRect(r vec.Rect) []Ref {
	var out []Ref
	for _, n := range g.Nodes() {
		if HitRect(n, r) {
			out = append(out, NodeRef(n.ID))
		}
	}
	for _, e := range g.Edges() {
		if EdgeHitRect(e, r) {
			out = append(out, EdgeRef(e.ID))
		}
	}
	return out
}
