package diagram

import "fmt"

// NodeID identifies a node in a Graph. IDs start at 1; zero means none.
type NodeID int64

// EdgeID identifies an edge in a Graph. IDs start at 1; zero means none.
type EdgeID int64

// Kind tells which arena a Ref points into.
type Kind uint8

const (
	KindNone Kind = iota
	KindNode
	KindEdge
)

// Ref names any drawable: a node or an edge.
type Ref struct {
	Kind Kind
	ID   int64
}

// NodeRef returns the Ref of a node.
func NodeRef(id NodeID) Ref { return Ref{Kind: KindNode, ID: int64(id)} }

// EdgeRef returns the Ref of an edge.
func EdgeRef(id EdgeID) Ref { return Ref{Kind: KindEdge, ID: int64(id)} }

// Node returns the node ID if r refers to a node.
func (r Ref) Node() (NodeID, bool) {
	return NodeID(r.ID), r.Kind == KindNode
}

// Edge returns the edge ID if r refers to an edge.
func (r Ref) Edge() (EdgeID, bool) {
	return EdgeID(r.ID), r.Kind == KindEdge
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool { return r.Kind == KindNone }

func (r Ref) String() string {
	switch r.Kind {
	case KindNode:
		return fmt.Sprintf("node#%d", r.ID)
	case KindEdge:
		return fmt.Sprintf("edge#%d", r.ID)
	}
	return "none"
}

// less orders refs nodes first, then by ID.
func (r Ref) less(o Ref) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	return r.ID < o.ID
}
