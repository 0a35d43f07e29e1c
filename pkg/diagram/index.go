package diagram

import (
	"sort"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// DrawState is the interaction state of one drawable.
type DrawState int

const (
	StateDefault DrawState = iota
	StateHovered
	StateDragging
)

func (s DrawState) String() string {
	switch s {
	case StateHovered:
		return "hovered"
	case StateDragging:
		return "dragging"
	}
	return "default"
}

// Wrapper holds the per-drawable state that is not part of the model.
type Wrapper struct {
	Ref   Ref
	State DrawState
	// Handle is set while a node shows an edge handle at HandleOffset.
	Handle       bool
	HandleOffset vec.Vec
}

type edgeSet map[EdgeID]struct{}

// Index keeps the membership maps of a Graph: wrappers, adjacency and the
// selected/unselected partition.
type Index struct {
	wrappers   map[Ref]*Wrapper
	outgoing   map[NodeID]edgeSet
	incoming   map[NodeID]edgeSet
	selected   map[Ref]struct{}
	unselected map[Ref]struct{}
}

func newIndex() *Index {
	return &Index{
		wrappers:   make(map[Ref]*Wrapper),
		outgoing:   make(map[NodeID]edgeSet),
		incoming:   make(map[NodeID]edgeSet),
		selected:   make(map[Ref]struct{}),
		unselected: make(map[Ref]struct{}),
	}
}

func (x *Index) addDrawable(r Ref) {
	x.wrappers[r] = &Wrapper{Ref: r}
	x.unselected[r] = struct{}{}
}

func (x *Index) removeDrawable(r Ref) {
	delete(x.wrappers, r)
	delete(x.selected, r)
	delete(x.unselected, r)
}

func (x *Index) addNode(id NodeID) {
	x.addDrawable(NodeRef(id))
	x.outgoing[id] = make(edgeSet)
	x.incoming[id] = make(edgeSet)
}

// removeNode drops a node that no longer has incident edges.
func (x *Index) removeNode(id NodeID) {
	x.removeDrawable(NodeRef(id))
	delete(x.outgoing, id)
	delete(x.incoming, id)
}

func (x *Index) addEdge(e *Edge) {
	x.addDrawable(EdgeRef(e.ID))
	x.outgoing[e.Src][e.ID] = struct{}{}
	x.incoming[e.Dst][e.ID] = struct{}{}
}

func (x *Index) removeEdge(e *Edge) {
	x.removeDrawable(EdgeRef(e.ID))
	delete(x.outgoing[e.Src], e.ID)
	delete(x.incoming[e.Dst], e.ID)
}

// Wrapper returns the wrapper of a drawable.
func (x *Index) Wrapper(r Ref) (*Wrapper, bool) {
	w, ok := x.wrappers[r]
	return w, ok
}

func sortedIDs(sets ...edgeSet) []EdgeID {
	seen := make(map[EdgeID]struct{})
	var out []EdgeID
	for _, s := range sets {
		for id := range s {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Outgoing returns the edges leaving a node, in ID order.
func (x *Index) Outgoing(id NodeID) []EdgeID { return sortedIDs(x.outgoing[id]) }

// Incoming returns the edges arriving at a node, in ID order.
func (x *Index) Incoming(id NodeID) []EdgeID { return sortedIDs(x.incoming[id]) }

// Incident returns every edge touching a node once, in ID order.
func (x *Index) Incident(id NodeID) []EdgeID {
	return sortedIDs(x.outgoing[id], x.incoming[id])
}

// Selected reports whether a drawable is selected.
func (x *Index) Selected(r Ref) bool {
	_, ok := x.selected[r]
	return ok
}

// setSelected moves r across the partition and reports whether it moved.
func (x *Index) setSelected(r Ref, on bool) bool {
	if _, ok := x.wrappers[r]; !ok {
		return false
	}
	if x.Selected(r) == on {
		return false
	}
	if on {
		delete(x.unselected, r)
		x.selected[r] = struct{}{}
	} else {
		delete(x.selected, r)
		x.unselected[r] = struct{}{}
	}
	return true
}

func sortedRefs(m map[Ref]struct{}) []Ref {
	out := make([]Ref, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// SelectedRefs returns the selected drawables, nodes first, in ID order.
func (x *Index) SelectedRefs() []Ref { return sortedRefs(x.selected) }

// UnselectedRefs returns the unselected drawables, nodes first, in ID order.
func (x *Index) UnselectedRefs() []Ref { return sortedRefs(x.unselected) }

// Adjacency returns copies of the incoming and outgoing maps as sorted ID
// lists. Nodes without edges map to nil.
func (x *Index) Adjacency() (incoming, outgoing map[NodeID][]EdgeID) {
	incoming = make(map[NodeID][]EdgeID, len(x.incoming))
	outgoing = make(map[NodeID][]EdgeID, len(x.outgoing))
	for id, s := range x.incoming {
		incoming[id] = sortedIDs(s)
	}
	for id, s := range x.outgoing {
		outgoing[id] = sortedIDs(s)
	}
	return incoming, outgoing
}
