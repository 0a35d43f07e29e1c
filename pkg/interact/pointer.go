package interact

import (
	"log/slog"

	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// PointerDown starts a gesture at p. A press on empty canvas starts a
// rubber band, a press on a node's rim or anchor starts a new edge, a
// press elsewhere on a node drags it and a press on an edge detaches the
// end nearer p.
func (c *Controller) PointerDown(p vec.Vec, mods Modifiers) {
	c.g.Suspend()
	defer c.g.Resume()
	if c.mode != ModeIdle {
		// the release was lost
		c.reset()
	}
	c.down, c.last = p, p
	c.moved = false
	c.shift = mods&ModShift != 0

	h, ok := c.g.HitTest(p, c.hovered)
	if !ok {
		c.startBand(p)
		return
	}
	c.grabbed = h.Ref
	if id, isNode := h.Ref.Node(); isNode {
		if h.Node.Handle() && c.startNewEdge(id, h.Node) {
			return
		}
		c.startNodeDrag(id)
		return
	}
	id, _ := h.Ref.Edge()
	c.startEdgeMove(id, h.End, p)
}

func (c *Controller) startBand(p vec.Vec) {
	c.band = vec.RectFrom(p, p)
	if c.shift {
		c.base = c.g.SelectedItems()
	} else if c.g.ClearSelection() {
		c.emit()
	}
	c.setMode(ModeSelecting)
}

func (c *Controller) startNodeDrag(id diagram.NodeID) {
	ref := diagram.NodeRef(id)
	c.wasSelected = c.g.IsSelected(ref)
	if c.wasSelected {
		c.dragNodes = c.g.SelectedNodes()
	} else {
		c.dragNodes = []diagram.NodeID{id}
	}
	for _, n := range c.dragNodes {
		c.markDragging(diagram.NodeRef(n))
	}
	c.showHandle(0, vec.Vec{})
	c.setMode(ModeDraggingNode)
}

// startNewEdge begins a ghost edge from node id. It reports false when the
// validator refuses id as a source.
func (c *Controller) startNewEdge(id diagram.NodeID, h diagram.NodeHit) bool {
	n, _ := c.g.Node(id)
	if !c.g.CanConnect(n, nil, nil) {
		c.log.Debug("edge start rejected", slog.Int64("node", int64(id)))
		return false
	}
	b := diagram.Unbound
	if h.Zone == diagram.ZoneAnchor {
		b = diagram.Bind(h.Offset)
	}
	c.ghost = &Ghost{
		Src:   Bound{Node: id, Binding: b},
		Dst:   Free{Point: c.down},
		Loose: diagram.EndDestination,
		Style: c.spec.EdgeStyle,
		Label: c.spec.Label,
	}
	c.ghost.route(c.g)
	c.showHandle(0, vec.Vec{})
	c.setMode(ModeDraggingEdge)
	c.g.Redraw()
	return true
}

func (c *Controller) startEdgeMove(id diagram.EdgeID, end diagram.End, p vec.Vec) {
	e, _ := c.g.Edge(id)
	gh := &Ghost{
		Src:    Bound{Node: e.Src, Binding: e.SrcBinding},
		Dst:    Bound{Node: e.Dst, Binding: e.DstBinding},
		Loose:  end,
		Style:  e.EdgeStyle,
		Label:  e.Label,
		Moving: id,
	}
	gh.setLoose(Free{Point: p})
	gh.route(c.g)
	c.ghost = gh
	c.markDragging(diagram.EdgeRef(id))
	c.setMode(ModeDraggingEdge)
}

// alive reports whether the drawables the gesture depends on still exist.
func (c *Controller) alive() bool {
	switch c.mode {
	case ModeDraggingNode:
		return c.g.Exists(c.grabbed)
	case ModeDraggingEdge:
		if _, ok := c.g.Node(c.ghost.fixed().Node); !ok {
			return false
		}
		if c.ghost.Moving != 0 {
			return c.g.Exists(diagram.EdgeRef(c.ghost.Moving))
		}
	}
	return true
}

// PointerMove tracks the pointer: hover feedback when idle, otherwise the
// current gesture.
func (c *Controller) PointerMove(p vec.Vec) {
	c.g.Suspend()
	defer c.g.Resume()
	c.move(p)
}

func (c *Controller) move(p vec.Vec) {
	if c.mode == ModeIdle {
		c.updateHover(p)
		return
	}
	if !c.alive() {
		c.log.Debug("drag target vanished", slog.String("mode", c.mode.String()))
		c.reset()
		return
	}
	if !c.moved {
		if p.Dist(c.down) <= c.slop {
			return
		}
		c.moved = true
	}
	if p == c.last {
		return
	}
	switch c.mode {
	case ModeSelecting:
		c.dragBand(p)
	case ModeDraggingNode:
		c.g.MoveNodes(c.dragNodes, p.Sub(c.last))
	case ModeDraggingEdge:
		c.dragEdge(p)
	}
	c.last = p
}

func (c *Controller) dragBand(p vec.Vec) {
	c.band = vec.RectFrom(c.down, p)
	refs := c.g.HitRect(c.band)
	if c.shift {
		refs = append(refs, c.base...)
	}
	if c.g.SetSelection(refs) {
		c.emit()
	}
	c.g.Redraw()
}

// accepts reports whether the loose end may attach to target.
func (c *Controller) accepts(target diagram.NodeID) bool {
	gh := c.ghost
	fixed, _ := c.g.Node(gh.fixed().Node)
	t, _ := c.g.Node(target)
	var moving *diagram.Edge
	if gh.Moving != 0 {
		moving, _ = c.g.Edge(gh.Moving)
	}
	if gh.Loose == diagram.EndDestination {
		return c.g.CanConnect(fixed, t, moving)
	}
	return c.g.CanConnect(t, fixed, moving)
}

// dragEdge moves the loose end of the ghost. Over an accepting node it
// snaps to the nearest anchor, or to the boundary facing the fixed end.
func (c *Controller) dragEdge(p vec.Vec) {
	gh := c.ghost
	gh.Target = 0
	var loose Endpoint = Free{Point: p}
	if id, _, ok := c.g.NodeAt(p); ok && c.accepts(id) {
		n, _ := c.g.Node(id)
		b := diagram.Unbound
		if _, off, ok := diagram.NearestAnchor(n, p.Sub(n.Pos)); ok {
			b = diagram.Bind(off)
		}
		gh.Target = id
		loose = Bound{Node: id, Binding: b}
	}
	gh.setLoose(loose)
	if gh.Target != 0 {
		c.setHover(diagram.NodeRef(gh.Target))
	} else {
		c.setHover(diagram.Ref{})
	}
	gh.route(c.g)
	c.g.Redraw()
}

// PointerUp finishes the gesture at p.
func (c *Controller) PointerUp(p vec.Vec) {
	c.g.Suspend()
	defer c.g.Resume()
	if c.mode == ModeIdle {
		c.updateHover(p)
		return
	}
	c.move(p)
	switch c.mode {
	case ModeDraggingNode:
		c.dropNodes()
	case ModeDraggingEdge:
		c.dropEdge()
	}
	c.reset()
	c.updateHover(p)
}

func (c *Controller) dropNodes() {
	switch {
	case !c.moved:
		c.click(c.grabbed)
	case !c.wasSelected:
		c.selectOnly(c.grabbed)
	}
}

func (c *Controller) dropEdge() {
	gh := c.ghost
	if gh.Target == 0 {
		if !c.moved {
			c.click(c.grabbed)
		} else {
			c.log.Debug("edge drop discarded")
		}
		return
	}
	src, dst, ok := gh.ends()
	if !ok {
		return
	}
	id, err := c.g.CreateEdge(src.Node, dst.Node, diagram.EdgeSpec{
		EdgeStyle:  gh.Style,
		Label:      gh.Label,
		SrcBinding: src.Binding,
		DstBinding: dst.Binding,
		Replacing:  gh.Moving,
	})
	if err != nil {
		c.log.Debug("edge drop declined", slog.String("err", err.Error()))
		return
	}
	c.selectOnly(diagram.EdgeRef(id))
}
