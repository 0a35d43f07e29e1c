package diagram

import (
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// EdgeStyle is the visual style of an edge, shared by an edge and the
// replacement created when it is moved.
type EdgeStyle struct {
	SrcArrow  bool
	DstArrow  bool
	LineWidth float64 // clamped to [0, MaxLineWidth]
	Line      LineStyle
	Color     color.Color
}

// DefaultEdgeStyle draws a plain arrow towards the destination.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{DstArrow: true, LineWidth: DefaultLineWidth}
}

func (s EdgeStyle) clamped() EdgeStyle {
	s.LineWidth = math.Max(0, math.Min(s.LineWidth, MaxLineWidth))
	return s
}

// Edge connects a source node to a destination node. The geometry fields
// are derived and rewritten whenever the edge is recomputed.
type Edge struct {
	ID         EdgeID
	Src, Dst   NodeID
	SrcBinding Binding
	DstBinding Binding
	EdgeStyle
	Label string

	// Curve holds offsets (see Curve); Path is the same curve in canvas
	// coordinates.
	Curve Curve
	Path  Curve

	LabelCenter vec.Vec
	LabelRect   vec.Rect // zero when the label is empty

	// Revision counts geometry recomputes.
	Revision uint64
}

// SelfLoop reports whether the edge starts and ends on the same node.
func (e *Edge) SelfLoop() bool { return e.Src == e.Dst }

// SrcLocal returns the source end as an offset from the source node.
func (e *Edge) SrcLocal() vec.Vec {
	if e.Curve == nil {
		return vec.Vec{}
	}
	s, _ := e.Curve.Ends()
	return s
}

// DstLocal returns the destination end as an offset from the destination
// node.
func (e *Edge) DstLocal() vec.Vec {
	if e.Curve == nil {
		return vec.Vec{}
	}
	_, d := e.Curve.Ends()
	return d
}

// Lines splits the label into lines.
func (e *Edge) Lines() []string {
	if e.Label == "" {
		return nil
	}
	return strings.Split(e.Label, "\n")
}

// HasLabel reports whether the edge draws a label.
func (e *Edge) HasLabel() bool { return e.Label != "" }

// stackKey groups edges that share ends and bindings.
type stackKey struct {
	src, dst NodeID
	sb, db   Binding
}

func (e *Edge) stackKey() stackKey {
	return stackKey{src: e.Src, dst: e.Dst, sb: e.SrcBinding, db: e.DstBinding}
}
