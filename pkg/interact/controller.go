// Package interact turns pointer events into graph edits: hovering,
// selecting, rubber-band selection, moving nodes, and creating or
// re-attaching edges by dragging a ghost edge.
//
// Pointer positions are canvas coordinates; hosts convert device
// positions with their viewport first.
package interact

import (
	"io"
	"log/slog"

	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/render"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// Mode is the controller's gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeDraggingNode
	ModeDraggingEdge
)

func (m Mode) String() string {
	switch m {
	case ModeSelecting:
		return "selecting"
	case ModeDraggingNode:
		return "dragging-node"
	case ModeDraggingEdge:
		return "dragging-edge"
	}
	return "idle"
}

// Modifiers are the keyboard modifiers held during a pointer press.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
)

// DefaultClickSlop is how far the pointer may travel between press and
// release for the gesture to still count as a click.
const DefaultClickSlop = 3.0

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for gesture tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClickSlop sets the click tolerance in canvas units.
func WithClickSlop(d float64) Option {
	return func(c *Controller) { c.slop = d }
}

// WithEdgeSpec sets the style and label of edges created by dragging.
func WithEdgeSpec(s diagram.EdgeSpec) Option {
	return func(c *Controller) { c.spec = s }
}

// OnSelectionChanged registers fn to receive the selection whenever a
// gesture changes it.
func OnSelectionChanged(fn func([]diagram.Ref)) Option {
	return func(c *Controller) { c.onSelection = fn }
}

// Controller is the interaction state machine for one graph.
type Controller struct {
	g    *diagram.Graph
	log  *slog.Logger
	slop float64
	spec diagram.EdgeSpec

	onSelection func([]diagram.Ref)

	mode    Mode
	hovered diagram.Ref
	handle  diagram.NodeID // node showing its edge handle

	// press state
	down    vec.Vec
	last    vec.Vec
	moved   bool
	shift   bool
	grabbed diagram.Ref

	dragNodes   []diagram.NodeID
	dragging    []diagram.Ref // drawables put into the dragging state
	wasSelected bool
	base        []diagram.Ref // selection kept by a shift rubber band
	band        vec.Rect
	ghost       *Ghost
}

// New returns an idle controller for g.
func New(g *diagram.Graph, opts ...Option) *Controller {
	c := &Controller{
		g:    g,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		slop: DefaultClickSlop,
		spec: diagram.DefaultEdgeSpec(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the controlled graph.
func (c *Controller) Graph() *diagram.Graph { return c.g }

// Mode returns the current gesture state.
func (c *Controller) Mode() Mode { return c.mode }

// Hovered returns the drawable under the pointer, or the zero Ref.
func (c *Controller) Hovered() diagram.Ref { return c.hovered }

// Ghost returns a copy of the ghost edge while an edge is dragged.
func (c *Controller) Ghost() (Ghost, bool) {
	if c.ghost == nil {
		return Ghost{}, false
	}
	return *c.ghost, true
}

// Band returns the rubber-band rectangle once a selection drag has moved.
func (c *Controller) Band() (vec.Rect, bool) {
	if c.mode != ModeSelecting || !c.moved {
		return vec.Rect{}, false
	}
	return c.band, true
}

// Overlay returns the interaction feedback to draw above the graph.
func (c *Controller) Overlay() render.Overlay {
	var ov render.Overlay
	if c.ghost != nil && c.ghost.Path != nil {
		ov.Ghost = c.ghost.Path
		ov.GhostStyle = c.ghost.Style
	}
	ov.Band, ov.HasBand = c.Band()
	return ov
}

// DeleteSelection deletes the selected drawables.
func (c *Controller) DeleteSelection() {
	if len(c.g.SelectedItems()) == 0 {
		return
	}
	c.g.Suspend()
	defer c.g.Resume()
	c.g.DeleteSelection()
	if !c.g.Exists(c.hovered) {
		c.hovered = diagram.Ref{}
	}
	if _, ok := c.g.Node(c.handle); !ok {
		c.handle = 0
	}
	c.emit()
}

func (c *Controller) setMode(m Mode) {
	if c.mode == m {
		return
	}
	c.log.Debug("mode", slog.String("from", c.mode.String()), slog.String("to", m.String()))
	c.mode = m
}

func (c *Controller) emit() {
	if c.onSelection != nil {
		c.onSelection(c.g.SelectedItems())
	}
}

func (c *Controller) selectOnly(r diagram.Ref) {
	if c.g.SetSelection([]diagram.Ref{r}) {
		c.emit()
	}
}

// click selects r, or toggles it when shift was held.
func (c *Controller) click(r diagram.Ref) {
	if !c.shift {
		c.selectOnly(r)
		return
	}
	if c.g.Select(r, !c.g.IsSelected(r)) {
		c.emit()
	}
}

// setHover moves the hovered state to r. Drawables in another state keep
// it.
func (c *Controller) setHover(r diagram.Ref) {
	if r == c.hovered {
		return
	}
	if w, ok := c.g.Wrapper(c.hovered); ok && w.State == diagram.StateHovered {
		c.g.SetState(c.hovered, diagram.StateDefault)
	}
	if w, ok := c.g.Wrapper(r); ok && w.State == diagram.StateDefault {
		c.g.SetState(r, diagram.StateHovered)
	}
	c.hovered = r
}

// showHandle moves the edge handle to node id; zero hides it.
func (c *Controller) showHandle(id diagram.NodeID, off vec.Vec) {
	if c.handle != 0 && c.handle != id {
		c.g.SetHandle(c.handle, vec.Vec{}, false)
	}
	c.handle = id
	if id != 0 {
		c.g.SetHandle(id, off, true)
	}
}

func (c *Controller) updateHover(p vec.Vec) {
	h, ok := c.g.HitTest(p, c.hovered)
	if !ok {
		c.setHover(diagram.Ref{})
		c.showHandle(0, vec.Vec{})
		return
	}
	c.setHover(h.Ref)
	if id, isNode := h.Ref.Node(); isNode && h.Node.Handle() {
		c.showHandle(id, h.Node.Offset)
		return
	}
	c.showHandle(0, vec.Vec{})
}

func (c *Controller) markDragging(r diagram.Ref) {
	c.g.SetState(r, diagram.StateDragging)
	c.dragging = append(c.dragging, r)
}

// reset ends any gesture and returns to idle.
func (c *Controller) reset() {
	for _, r := range c.dragging {
		if w, ok := c.g.Wrapper(r); ok && w.State == diagram.StateDragging {
			c.g.SetState(r, diagram.StateDefault)
		}
	}
	c.dragging = nil
	c.dragNodes = nil
	c.base = nil
	c.ghost = nil
	c.grabbed = diagram.Ref{}
	c.moved = false
	c.setHover(diagram.Ref{})
	c.showHandle(0, vec.Vec{})
	c.setMode(ModeIdle)
	c.g.Redraw()
}

// Cancel abandons the current gesture. Moves already applied stay.
func (c *Controller) Cancel() {
	c.g.Suspend()
	defer c.g.Resume()
	if c.mode != ModeIdle {
		c.log.Debug("gesture cancelled", slog.String("mode", c.mode.String()))
	}
	c.reset()
}
