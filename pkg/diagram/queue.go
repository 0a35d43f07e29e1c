package diagram

import (
	"log/slog"
	"sort"
)

// UpdateKind classifies queued updates.
type UpdateKind int

const (
	NodeMoved   UpdateKind = iota // position changed
	NodeChanged                   // label, shape or anchors changed: refit
	EdgeAdded
	EdgeChanged
	EdgeRemoved // Src and Dst name the removed edge's nodes
)

// Update is one queued change.
type Update struct {
	Kind     UpdateKind
	Node     NodeID
	Edge     EdgeID
	Src, Dst NodeID
}

type queue struct {
	pending   []Update
	suspended int
	dirty     bool // a redraw is owed even without pending updates
	flushing  bool
	drains    uint64
}

func (g *Graph) enqueue(u Update) {
	g.queue.pending = append(g.queue.pending, u)
	if g.queue.suspended == 0 {
		g.Flush()
	}
}

// requestRedraw runs the redraw hook now, or after the outermost Resume.
func (g *Graph) requestRedraw() {
	g.queue.dirty = true
	if g.queue.suspended == 0 {
		g.Flush()
	}
}

// Suspend defers geometry recompute and redraw until the matching Resume.
// Calls nest.
func (g *Graph) Suspend() { g.queue.suspended++ }

// Resume ends a Suspend. The outermost Resume drains the queue.
func (g *Graph) Resume() {
	if g.queue.suspended == 0 {
		return
	}
	g.queue.suspended--
	if g.queue.suspended == 0 {
		g.Flush()
	}
}

// Suspended reports whether updates are being held back.
func (g *Graph) Suspended() bool { return g.queue.suspended > 0 }

// Drains returns how many times Flush has called the redraw hook.
func (g *Graph) Drains() uint64 { return g.queue.drains }

// Flush drains the queue: changed nodes are refitted, the affected edges
// and their stack and opposed siblings are recomputed once each, and the
// redraw hook runs once.
func (g *Graph) Flush() {
	q := &g.queue
	if q.flushing || (len(q.pending) == 0 && !q.dirty) {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	pending := q.pending
	q.pending = nil
	q.dirty = false

	affected := make(map[EdgeID]struct{})
	pairs := make(map[[2]NodeID]struct{})
	touch := func(a, b NodeID) {
		if a > b {
			a, b = b, a
		}
		pairs[[2]NodeID{a, b}] = struct{}{}
	}

	for _, u := range pending {
		switch u.Kind {
		case NodeChanged:
			if n, ok := g.nodes[u.Node]; ok {
				n.Fit(g.measurer)
			}
			fallthrough
		case NodeMoved:
			for _, id := range g.index.Incident(u.Node) {
				affected[id] = struct{}{}
			}
		case EdgeAdded, EdgeChanged:
			if e, ok := g.edges[u.Edge]; ok {
				touch(e.Src, e.Dst)
			}
		case EdgeRemoved:
			touch(u.Src, u.Dst)
		}
	}

	for id := range affected {
		e := g.edges[id]
		touch(e.Src, e.Dst)
	}
	// every edge between a touched pair, either direction
	for pair := range pairs {
		for _, id := range g.index.Outgoing(pair[0]) {
			if e := g.edges[id]; e.Dst == pair[1] {
				affected[id] = struct{}{}
			}
		}
		if pair[0] == pair[1] {
			continue
		}
		for _, id := range g.index.Outgoing(pair[1]) {
			if e := g.edges[id]; e.Dst == pair[0] {
				affected[id] = struct{}{}
			}
		}
	}

	ids := make([]EdgeID, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		g.recompute(g.edges[id])
	}

	q.drains++
	if len(ids) > 0 {
		g.log.Debug("geometry recomputed", slog.Int("edges", len(ids)))
	}
	if g.redraw != nil {
		g.redraw()
	}
}

// opposed reports whether an edge runs from e.Dst back to e.Src.
func (g *Graph) opposed(e *Edge) bool {
	if e.SelfLoop() {
		return false
	}
	for id := range g.index.outgoing[e.Dst] {
		if g.edges[id].Dst == e.Src {
			return true
		}
	}
	return false
}

// stack returns the edges sharing e's ends and bindings, in ID order.
func (g *Graph) stack(e *Edge) []EdgeID {
	key := e.stackKey()
	var out []EdgeID
	for _, id := range g.index.Outgoing(e.Src) {
		if g.edges[id].stackKey() == key {
			out = append(out, id)
		}
	}
	return out
}

// recompute rebuilds the curve and label of one edge. The first member of
// a stack is routed; later members share its curve.
func (g *Graph) recompute(e *Edge) {
	src, dst := g.nodes[e.Src], g.nodes[e.Dst]

	members := g.stack(e)
	index := sort.Search(len(members), func(i int) bool { return members[i] >= e.ID })
	if index > 0 {
		lead := g.edges[members[0]]
		if lead.Curve == nil {
			g.recompute(lead)
		}
		e.Curve = lead.Curve
	} else {
		r := ChooseRegime(e.SelfLoop(), g.opposed(e), e.SrcBinding, e.DstBinding)
		e.Curve = RoutePoints(r, src, dst, e.SrcBinding, e.DstBinding)
	}
	e.Path = Absolute(e.Curve, src.Pos, dst.Pos)
	placeLabel(e, index, src.Pos, dst.Pos, g.measurer)
	e.Revision++
}
