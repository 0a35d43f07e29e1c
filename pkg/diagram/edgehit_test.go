package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/graphkit/pkg/vec"
)

func TestHitPtTestLine(t *testing.T) {
	a, b := vec.V(0, 0), vec.V(100, 0)
	tests := []struct {
		name string
		p    vec.Vec
		want End
		hit  bool
	}{
		{"near source", vec.V(10, 3), EndSource, true},
		{"near destination", vec.V(90, -3), EndDestination, true},
		{"before the middle", vec.V(40, 0), EndSource, true},
		{"after the middle", vec.V(60, 0), EndDestination, true},
		{"on the margin", vec.V(50, 5), EndSource, false},
		{"just outside", vec.V(50, 5+1e-6), EndSource, false},
		{"before the chord", vec.V(-1, 0), EndSource, false},
		{"past the chord", vec.V(101, 0), EndSource, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := HitPtTestLine(a, b, tt.p, 5)
			assert.Equal(t, tt.hit, ok)
			if ok {
				assert.Equal(t, tt.want, end)
			}
		})
	}
}

func TestHitPtTestLineDegenerate(t *testing.T) {
	p := vec.V(5, 5)
	end, ok := HitPtTestLine(p, p, vec.V(6, 5), 5)
	assert.True(t, ok)
	assert.Equal(t, EndSource, end)

	_, ok = HitPtTestLine(p, p, vec.V(20, 5), 5)
	assert.False(t, ok)
}

func TestEnd(t *testing.T) {
	assert.Equal(t, EndDestination, EndSource.Other())
	assert.Equal(t, EndSource, EndDestination.Other())
	assert.Equal(t, "destination", EndDestination.String())
}

func TestEdgeMargin(t *testing.T) {
	assert.InDelta(t, 5, EdgeMargin(3, 4), 1e-12)
	assert.InDelta(t, HitMargin, EdgeMargin(0, HitMargin), 1e-12)
}

// pair returns a graph with two small circles at (0,0) and (200,0).
func pair(t *testing.T, opts ...Option) (*Graph, NodeID, NodeID) {
	t.Helper()
	g := New(opts...)
	a := g.CreateNode(NodeSpec{Shape: ShapeCircle, Pos: vec.V(0, 0)})
	b := g.CreateNode(NodeSpec{Shape: ShapeCircle, Pos: vec.V(200, 0)})
	return g, a, b
}

func edge(t *testing.T, g *Graph, src, dst NodeID, label string) *Edge {
	t.Helper()
	spec := DefaultEdgeSpec()
	spec.Label = label
	id, err := g.CreateEdge(src, dst, spec)
	require.NoError(t, err)
	e, ok := g.Edge(id)
	require.True(t, ok)
	return e
}

func TestHitEdgeStraight(t *testing.T) {
	g, a, b := pair(t)
	e := edge(t, g, a, b, "")
	require.IsType(t, Straight{}, e.Path)

	end, ok := HitEdge(e, vec.V(60, 2), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndSource, end)

	end, ok = HitEdge(e, vec.V(150, -2), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndDestination, end)

	_, ok = HitEdge(e, vec.V(100, 30), g.HitMargin())
	assert.False(t, ok)
}

func TestHitEdgeLabel(t *testing.T) {
	g, a, b := pair(t)
	e := edge(t, g, a, b, "hello")
	assert.True(t, e.LabelRect.Contains(vec.V(100, 0)))

	// beyond the line margin, inside the label box
	end, ok := HitEdge(e, vec.V(95, 10), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndSource, end)

	end, ok = HitEdge(e, vec.V(105, 10), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndDestination, end)
}

func TestHitEdgeLoop(t *testing.T) {
	g := New()
	a := g.CreateNode(NodeSpec{Shape: ShapeCircle, Pos: vec.V(50, 50)})
	e := edge(t, g, a, a, "")
	l, ok := e.Path.(Loop)
	require.True(t, ok)

	end, ok := HitEdge(e, l.Mid.Add(vec.V(-0.5, 0)), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndSource, end)

	end, ok = HitEdge(e, l.Mid.Add(vec.V(0.5, 0)), g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndDestination, end)

	end, ok = HitEdge(e, l.T1, g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndSource, end)

	end, ok = HitEdge(e, l.T2, g.HitMargin())
	require.True(t, ok)
	assert.Equal(t, EndDestination, end)
}

func TestHitEdgeWithoutGeometry(t *testing.T) {
	_, ok := HitEdge(&Edge{}, vec.V(0, 0), HitMargin)
	assert.False(t, ok)
	assert.False(t, EdgeHitRect(&Edge{}, vec.RectFrom(vec.V(-1, -1), vec.V(1, 1))))
}

func TestEdgeHitRectStraight(t *testing.T) {
	g, a, b := pair(t)
	e := edge(t, g, a, b, "")

	tests := []struct {
		name string
		r    vec.Rect
		want bool
	}{
		{"around the midpoint", vec.RectFrom(vec.V(90, -10), vec.V(110, 10)), true},
		{"across the line", vec.RectFrom(vec.V(50, -10), vec.V(60, 10)), true},
		{"beside the line", vec.RectFrom(vec.V(50, 5), vec.V(60, 10)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EdgeHitRect(e, tt.r))
		})
	}
}

func TestEdgeHitRectOpposedCurves(t *testing.T) {
	g, a, b := pair(t)
	there := edge(t, g, a, b, "")
	back := edge(t, g, b, a, "")
	require.IsType(t, Quadratic{}, there.Path)
	require.IsType(t, Quadratic{}, back.Path)

	// only the upper curve crosses the band above the chord
	got := g.HitRect(vec.RectFrom(vec.V(40, -20), vec.V(60, 0)))
	assert.Equal(t, []Ref{EdgeRef(there.ID)}, got)
}
