// Package diagram holds the node and edge model of a diagram, its derived
// geometry, hit-testing and the scene index that keeps adjacency and
// selection consistent as the graph changes.
//
// A Graph is used from a single goroutine. Mutations are queued and
// drained by Flush, which recomputes every affected edge exactly once and
// then calls the redraw hook. Suspend and Resume batch several mutations
// into a single drain.
package diagram

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"sort"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/vec"
)

var (
	// ErrNoNode is returned when an operation names a node that does not
	// exist.
	ErrNoNode = errors.New("no such node")
	// ErrRejected is returned when the validator declines an edge.
	ErrRejected = errors.New("edge rejected")
)

// Validator decides whether an edge may connect src to dst. dst is nil
// while an edge is only being started; replacing is the edge being moved,
// or nil.
type Validator func(src, dst *Node, replacing *Edge) bool

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// WithMeasurer sets the text metrics used for node sizes and labels.
func WithMeasurer(m canvas.TextMeasurer) Option {
	return func(g *Graph) { g.measurer = m }
}

// WithValidator installs the edge validity predicate.
func WithValidator(v Validator) Option {
	return func(g *Graph) { g.validator = v }
}

// WithRedraw installs the redraw hook.
func WithRedraw(fn func()) Option {
	return func(g *Graph) { g.redraw = fn }
}

// WithHitMargin sets the edge hit distance for a zero-width line.
func WithHitMargin(m float64) Option {
	return func(g *Graph) {
		if m > 0 {
			g.hitMargin = m
		}
	}
}

// Graph is the drawable graph: an arena of nodes and edges plus the scene
// index and the update queue.
type Graph struct {
	nodes    map[NodeID]*Node
	edges    map[EdgeID]*Edge
	lastNode NodeID
	lastEdge EdgeID
	index    *Index

	measurer  canvas.TextMeasurer
	validator Validator
	redraw    func()
	log       *slog.Logger
	hitMargin float64

	origin vec.Vec
	scale  float64

	queue queue
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:     make(map[NodeID]*Node),
		edges:     make(map[EdgeID]*Edge),
		index:     newIndex(),
		measurer:  DefaultMetrics,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		hitMargin: HitMargin,
		scale:     1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Index exposes the scene index.
func (g *Graph) Index() *Index { return g.index }

// Measurer returns the text metrics in use.
func (g *Graph) Measurer() canvas.TextMeasurer { return g.measurer }

// SetMeasurer swaps the text metrics and refits every node.
func (g *Graph) SetMeasurer(m canvas.TextMeasurer) {
	if m == nil {
		return
	}
	g.measurer = m
	g.Suspend()
	for id := range g.nodes {
		g.enqueue(Update{Kind: NodeChanged, Node: id})
	}
	for id := range g.edges {
		g.enqueue(Update{Kind: EdgeChanged, Edge: id})
	}
	g.Resume()
}

// OnRedraw replaces the redraw hook.
func (g *Graph) OnRedraw(fn func()) { g.redraw = fn }

// Redraw runs the redraw hook for state the graph does not track, such
// as interaction overlays. While suspended it runs after the outermost
// Resume.
func (g *Graph) Redraw() { g.requestRedraw() }

// HitMargin returns the edge hit distance for a zero-width line.
func (g *Graph) HitMargin() float64 { return g.hitMargin }

// Origin returns the pan offset of the view.
func (g *Graph) Origin() vec.Vec { return g.origin }

// SetOrigin sets the pan offset of the view.
func (g *Graph) SetOrigin(o vec.Vec) {
	g.origin = o
	g.requestRedraw()
}

// Scale returns the zoom factor of the view.
func (g *Graph) Scale() float64 { return g.scale }

// SetScale sets the zoom factor. Non-positive values are ignored.
func (g *Graph) SetScale(s float64) {
	if s <= 0 {
		return
	}
	g.scale = s
	g.requestRedraw()
}

// Viewport returns the view as a canvas viewport.
func (g *Graph) Viewport() canvas.Viewport {
	return canvas.Viewport{Scale: g.scale, Pan: g.origin}
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	Shape   Shape
	Pos     vec.Vec
	Label   string
	MinSize vec.Vec
	Anchors []vec.Vec
	Border  Border
	Fill    color.Color
	ImageW  float64
	ImageH  float64
}

// CreateNode adds a node and returns its ID.
func (g *Graph) CreateNode(spec NodeSpec) NodeID {
	g.lastNode++
	n := &Node{
		ID:      g.lastNode,
		Shape:   spec.Shape,
		Pos:     spec.Pos,
		Anchors: collapseAnchors(spec.Anchors),
		Border:  spec.Border,
		Fill:    spec.Fill,
		Label:   spec.Label,
		MinSize: spec.MinSize,
		ImageW:  spec.ImageW,
		ImageH:  spec.ImageH,
	}
	n.Fit(g.measurer)
	g.nodes[n.ID] = n
	g.index.addNode(n.ID)
	g.log.Debug("node created",
		slog.Int64("node", int64(n.ID)),
		slog.String("shape", n.Shape.String()))
	g.enqueue(Update{Kind: NodeChanged, Node: n.ID})
	return n.ID
}

// Node returns a node by ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns an edge by ID.
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Exists reports whether a drawable is in the graph.
func (g *Graph) Exists(r Ref) bool {
	_, ok := g.index.wrappers[r]
	return ok
}

// Nodes returns all nodes in ID order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges in ID order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Incident returns the edges touching a node, in ID order.
func (g *Graph) Incident(id NodeID) []EdgeID { return g.index.Incident(id) }

// DeleteNode removes a node after deleting every incident edge. Deleting
// a missing node is a no-op.
func (g *Graph) DeleteNode(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	g.Suspend()
	for _, eid := range g.index.Incident(id) {
		g.DeleteEdge(eid)
	}
	g.index.removeNode(id)
	delete(g.nodes, id)
	g.log.Debug("node deleted", slog.Int64("node", int64(id)))
	g.requestRedraw()
	g.Resume()
}

// EdgeSpec describes an edge to create.
type EdgeSpec struct {
	EdgeStyle
	Label      string
	SrcBinding Binding
	DstBinding Binding
	// Replacing names an edge deleted in the same step, when the new edge
	// is the moved version of it.
	Replacing EdgeID
}

// DefaultEdgeSpec returns a spec with the default style.
func DefaultEdgeSpec() EdgeSpec {
	return EdgeSpec{EdgeStyle: DefaultEdgeStyle()}
}

// CanConnect asks the validator whether src may connect to dst. Without a
// validator every connection is allowed.
func (g *Graph) CanConnect(src, dst *Node, replacing *Edge) bool {
	if g.validator == nil {
		return true
	}
	return g.validator(src, dst, replacing)
}

// CreateEdge connects src to dst. Bindings that do not name an anchor of
// their node are dropped. When spec.Replacing names an existing edge it
// is deleted first; a rejected edge leaves it in place.
func (g *Graph) CreateEdge(src, dst NodeID, spec EdgeSpec) (EdgeID, error) {
	s, ok := g.nodes[src]
	if !ok {
		return 0, fmt.Errorf("create edge %d->%d: source: %w", src, dst, ErrNoNode)
	}
	d, ok := g.nodes[dst]
	if !ok {
		return 0, fmt.Errorf("create edge %d->%d: destination: %w", src, dst, ErrNoNode)
	}
	replacing := g.edges[spec.Replacing]
	if !g.CanConnect(s, d, replacing) {
		g.log.Debug("edge rejected",
			slog.Int64("src", int64(src)),
			slog.Int64("dst", int64(dst)))
		return 0, ErrRejected
	}

	g.Suspend()
	defer g.Resume()
	if replacing != nil {
		g.DeleteEdge(replacing.ID)
	}

	g.lastEdge++
	e := &Edge{
		ID:         g.lastEdge,
		Src:        src,
		Dst:        dst,
		SrcBinding: validBinding(s, spec.SrcBinding),
		DstBinding: validBinding(d, spec.DstBinding),
		EdgeStyle:  spec.EdgeStyle.clamped(),
		Label:      spec.Label,
	}
	g.edges[e.ID] = e
	g.index.addEdge(e)
	g.log.Debug("edge created",
		slog.Int64("edge", int64(e.ID)),
		slog.Int64("src", int64(src)),
		slog.Int64("dst", int64(dst)),
		slog.Int64("replacing", int64(spec.Replacing)))
	g.enqueue(Update{Kind: EdgeAdded, Edge: e.ID})
	return e.ID, nil
}

func validBinding(n *Node, b Binding) Binding {
	if b.Bound && !HasAnchor(n, b.Offset) {
		return Unbound
	}
	return b
}

// DeleteEdge removes an edge. Deleting a missing edge is a no-op.
func (g *Graph) DeleteEdge(id EdgeID) {
	e, ok := g.edges[id]
	if !ok {
		return
	}
	g.index.removeEdge(e)
	delete(g.edges, id)
	g.log.Debug("edge deleted", slog.Int64("edge", int64(id)))
	// siblings may change stack position or regime
	g.enqueue(Update{Kind: EdgeRemoved, Edge: id, Src: e.Src, Dst: e.Dst})
}

// MoveNode translates one node.
func (g *Graph) MoveNode(id NodeID, delta vec.Vec) {
	g.MoveNodes([]NodeID{id}, delta)
}

// MoveNodes translates several nodes by the same delta in one batch.
// Duplicate and missing IDs are ignored.
func (g *Graph) MoveNodes(ids []NodeID, delta vec.Vec) {
	if delta.IsZero() || !delta.IsFinite() {
		return
	}
	g.Suspend()
	defer g.Resume()
	seen := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		n.Pos = n.Pos.Add(delta)
		g.enqueue(Update{Kind: NodeMoved, Node: id})
	}
}

// SetNodePos places a node at p.
func (g *Graph) SetNodePos(id NodeID, p vec.Vec) {
	if n, ok := g.nodes[id]; ok {
		g.MoveNode(id, p.Sub(n.Pos))
	}
}

// SetLabel changes the label of a node or an edge.
func (g *Graph) SetLabel(r Ref, label string) {
	if id, ok := r.Node(); ok {
		if n, ok := g.nodes[id]; ok {
			n.Label = label
			g.enqueue(Update{Kind: NodeChanged, Node: id})
		}
		return
	}
	if id, ok := r.Edge(); ok {
		if e, ok := g.edges[id]; ok {
			e.Label = label
			g.enqueue(Update{Kind: EdgeChanged, Edge: id})
		}
	}
}

// SetShape changes the shape of a node.
func (g *Graph) SetShape(id NodeID, s Shape) {
	if n, ok := g.nodes[id]; ok {
		n.Shape = s
		g.enqueue(Update{Kind: NodeChanged, Node: id})
	}
}

// SetAnchors replaces the anchors of a node. Duplicates collapse, and
// edge ends bound to an anchor that no longer exists are unbound.
func (g *Graph) SetAnchors(id NodeID, anchors []vec.Vec) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	g.Suspend()
	defer g.Resume()
	n.Anchors = collapseAnchors(anchors)
	for _, eid := range g.index.Incident(id) {
		e := g.edges[eid]
		if e.Src == id && e.SrcBinding.Bound && !HasAnchor(n, e.SrcBinding.Offset) {
			e.SrcBinding = Unbound
		}
		if e.Dst == id && e.DstBinding.Bound && !HasAnchor(n, e.DstBinding.Offset) {
			e.DstBinding = Unbound
		}
	}
	g.enqueue(Update{Kind: NodeChanged, Node: id})
}

// SetEdgeStyle changes the visual style of an edge.
func (g *Graph) SetEdgeStyle(id EdgeID, s EdgeStyle) {
	if e, ok := g.edges[id]; ok {
		e.EdgeStyle = s.clamped()
		g.enqueue(Update{Kind: EdgeChanged, Edge: id})
	}
}

// SetBindings rebinds both ends of an edge, dropping invalid bindings.
func (g *Graph) SetBindings(id EdgeID, sb, db Binding) {
	e, ok := g.edges[id]
	if !ok {
		return
	}
	e.SrcBinding = validBinding(g.nodes[e.Src], sb)
	e.DstBinding = validBinding(g.nodes[e.Dst], db)
	g.enqueue(Update{Kind: EdgeChanged, Edge: id})
}

// Wrapper returns the wrapper of a drawable.
func (g *Graph) Wrapper(r Ref) (*Wrapper, bool) { return g.index.Wrapper(r) }

// SetState sets the draw state of a drawable.
func (g *Graph) SetState(r Ref, s DrawState) {
	w, ok := g.index.Wrapper(r)
	if !ok || w.State == s {
		return
	}
	w.State = s
	g.requestRedraw()
}

// SetHandle shows or hides the edge handle of a node.
func (g *Graph) SetHandle(id NodeID, offset vec.Vec, visible bool) {
	w, ok := g.index.Wrapper(NodeRef(id))
	if !ok {
		return
	}
	if w.Handle == visible && (!visible || w.HandleOffset == offset) {
		return
	}
	w.Handle = visible
	w.HandleOffset = offset
	if !visible {
		w.HandleOffset = vec.Vec{}
	}
	g.requestRedraw()
}

// IsSelected reports whether a drawable is selected.
func (g *Graph) IsSelected(r Ref) bool { return g.index.Selected(r) }

// SelectedItems returns the selection, nodes first, in ID order.
func (g *Graph) SelectedItems() []Ref { return g.index.SelectedRefs() }

// SelectedNodes returns the selected node IDs in order.
func (g *Graph) SelectedNodes() []NodeID {
	var out []NodeID
	for _, r := range g.index.SelectedRefs() {
		if id, ok := r.Node(); ok {
			out = append(out, id)
		}
	}
	return out
}

// Select adds r to or removes it from the selection and reports whether
// the selection changed.
func (g *Graph) Select(r Ref, on bool) bool {
	changed := g.index.setSelected(r, on)
	if changed {
		g.requestRedraw()
	}
	return changed
}

// SetSelection makes refs the whole selection and reports whether it
// changed. Unknown refs are ignored.
func (g *Graph) SetSelection(refs []Ref) bool {
	want := make(map[Ref]bool, len(refs))
	for _, r := range refs {
		want[r] = true
	}
	changed := false
	for _, r := range g.index.SelectedRefs() {
		if !want[r] {
			changed = g.index.setSelected(r, false) || changed
		}
	}
	for _, r := range refs {
		changed = g.index.setSelected(r, true) || changed
	}
	if changed {
		g.requestRedraw()
	}
	return changed
}

// ClearSelection deselects everything and reports whether anything was
// selected.
func (g *Graph) ClearSelection() bool { return g.SetSelection(nil) }

// DeleteSelection deletes every selected drawable.
func (g *Graph) DeleteSelection() {
	g.Suspend()
	defer g.Resume()
	for _, r := range g.index.SelectedRefs() {
		if id, ok := r.Edge(); ok {
			g.DeleteEdge(id)
		}
	}
	for _, id := range g.SelectedNodes() {
		g.DeleteNode(id)
	}
}

// CheckInvariants verifies the scene index against the arenas. It returns
// the first inconsistency found.
func (g *Graph) CheckInvariants() error {
	x := g.index
	if len(x.wrappers) != len(g.nodes)+len(g.edges) {
		return fmt.Errorf("index: %d wrappers for %d drawables", len(x.wrappers), len(g.nodes)+len(g.edges))
	}
	if len(x.selected)+len(x.unselected) != len(x.wrappers) {
		return fmt.Errorf("index: partition covers %d of %d drawables", len(x.selected)+len(x.unselected), len(x.wrappers))
	}
	for r := range x.selected {
		if _, ok := x.unselected[r]; ok {
			return fmt.Errorf("index: %s both selected and unselected", r)
		}
	}
	count := 0
	for id, e := range g.edges {
		if _, ok := g.nodes[e.Src]; !ok {
			return fmt.Errorf("edge %d: source %d: %w", id, e.Src, ErrNoNode)
		}
		if _, ok := g.nodes[e.Dst]; !ok {
			return fmt.Errorf("edge %d: destination %d: %w", id, e.Dst, ErrNoNode)
		}
		if _, ok := x.outgoing[e.Src][id]; !ok {
			return fmt.Errorf("edge %d missing from outgoing of %d", id, e.Src)
		}
		if _, ok := x.incoming[e.Dst][id]; !ok {
			return fmt.Errorf("edge %d missing from incoming of %d", id, e.Dst)
		}
	}
	for _, s := range x.outgoing {
		count += len(s)
	}
	if count != len(g.edges) {
		return fmt.Errorf("index: %d outgoing entries for %d edges", count, len(g.edges))
	}
	return nil
}
