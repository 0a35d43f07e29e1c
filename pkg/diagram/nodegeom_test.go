package diagram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/graphkit/pkg/vec"
)

// sized returns a fitted, unlabelled node of the given size at the origin.
func sized(shape Shape, w, h, border float64) *Node {
	n := &Node{Shape: shape, MinSize: vec.V(w, h), Border: Border{Width: border}}
	n.Fit(nil)
	return n
}

func TestBoundaryPointAxes(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		dir  vec.Vec
		want vec.Vec
	}{
		{"circle right", sized(ShapeCircle, 32, 32, 8), vec.V(1, 0), vec.V(20, 0)},
		{"circle down", sized(ShapeCircle, 32, 32, 8), vec.V(0, 1), vec.V(0, 20)},
		{"ellipse right", sized(ShapeEllipse, 64, 32, 0), vec.V(1, 0), vec.V(32, 0)},
		{"ellipse up", sized(ShapeEllipse, 64, 32, 0), vec.V(0, -1), vec.V(0, -16)},
		{"rectangle right", sized(ShapeRectangle, 64, 32, 2), vec.V(1, 0), vec.V(33, 0)},
		{"rectangle down", sized(ShapeRectangle, 64, 32, 2), vec.V(0, 1), vec.V(0, 17)},
		{"rectangle diagonal", sized(ShapeRectangle, 64, 32, 2), vec.V(1, 1), vec.V(17, 17)},
		{"square left", sized(ShapeSquare, 48, 48, 0), vec.V(-1, 0), vec.V(-24, 0)},
		{"image up", sized(ShapeImage, 64, 32, 0), vec.V(0, -1), vec.V(0, -16)},
		{"non-unit direction", sized(ShapeCircle, 32, 32, 0), vec.V(5, 0), vec.V(16, 0)},
		{"zero direction", sized(ShapeCircle, 32, 32, 8), vec.Vec{}, vec.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoundaryPoint(tt.node, tt.dir)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestBoundaryPointWithinDiagonal(t *testing.T) {
	shapes := []Shape{ShapeCircle, ShapeEllipse, ShapeSquare, ShapeRectangle, ShapeImage}
	for _, s := range shapes {
		n := sized(s, 80, 48, 3)
		limit := n.Radii().Mag() + 1e-9
		for deg := 0; deg < 360; deg += 7 {
			a := float64(deg) * math.Pi / 180
			p := BoundaryPoint(n, vec.V(math.Cos(a), math.Sin(a)))
			require.True(t, p.IsFinite(), "%s at %d°", s, deg)
			assert.LessOrEqual(t, p.Mag(), limit, "%s at %d°", s, deg)
		}
	}
}

func TestBoundaryPointOnOutline(t *testing.T) {
	n := sized(ShapeEllipse, 96, 48, 0)
	r := n.Radii()
	for deg := 0; deg < 360; deg += 15 {
		a := float64(deg) * math.Pi / 180
		p := BoundaryPoint(n, vec.V(math.Cos(a), math.Sin(a)))
		assert.InDelta(t, 1, p.X*p.X/(r.X*r.X)+p.Y*p.Y/(r.Y*r.Y), 1e-9)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want vec.Vec
	}{
		{"empty label floors at min spacing", Node{Shape: ShapeRectangle}, vec.V(MinSpacing, MinSpacing)},
		{"rectangle label", Node{Shape: ShapeRectangle, Label: "abc"}, vec.V(48, 32)},
		{"square label", Node{Shape: ShapeSquare, Label: "abc"}, vec.V(48, 48)},
		{"circle label", Node{Shape: ShapeCircle, Label: "abc"}, vec.V(64, 64)},
		{"two lines", Node{Shape: ShapeRectangle, Label: "a\nbb"}, vec.V(32, 48)},
		{"image", Node{Shape: ShapeImage, ImageW: 100, ImageH: 20}, vec.V(112, 32)},
		{"min size", Node{Shape: ShapeRectangle, MinSize: vec.V(70, 10)}, vec.V(80, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			n.Fit(DefaultMetrics)
			assert.Equal(t, tt.want, n.Size)
			assert.Equal(t, n.Size.Scale(0.5), n.Origin)
			assert.GreaterOrEqual(t, n.Size.X, MinSpacing)
			assert.GreaterOrEqual(t, n.Size.Y, MinSpacing)
		})
	}
}

func TestHitPointCircle(t *testing.T) {
	n := sized(ShapeCircle, 32, 32, 8)
	n.Pos = vec.V(100, 100)

	h, ok := HitPoint(n, vec.V(100, 100))
	require.True(t, ok)
	assert.Equal(t, ZoneBody, h.Zone)
	assert.Equal(t, vec.Vec{}, h.Offset)
	assert.False(t, h.Handle())

	h, ok = HitPoint(n, vec.V(118, 100))
	require.True(t, ok)
	assert.Equal(t, ZoneRim, h.Zone)
	assert.True(t, h.Offset.Near(vec.V(20, 0), 1e-9))
	assert.True(t, h.Handle())

	_, ok = HitPoint(n, vec.V(130, 100))
	assert.False(t, ok)
}

func TestHitPointRectangle(t *testing.T) {
	n := sized(ShapeRectangle, 64, 32, 0)

	h, ok := HitPoint(n, vec.V(0, 0))
	require.True(t, ok)
	assert.Equal(t, ZoneBody, h.Zone)

	h, ok = HitPoint(n, vec.V(30, 0))
	require.True(t, ok)
	assert.Equal(t, ZoneRim, h.Zone)
	assert.True(t, h.Offset.Near(vec.V(32, 0), 1e-9))

	_, ok = HitPoint(n, vec.V(40, 0))
	assert.False(t, ok)
	_, ok = HitPoint(n, vec.V(0, 23))
	assert.False(t, ok)
}

func TestHitPointAnchor(t *testing.T) {
	n := sized(ShapeCircle, 32, 32, 8)
	n.Anchors = []vec.Vec{vec.V(0, -16), vec.V(16, 0)}

	h, ok := HitPoint(n, vec.V(0, -14))
	require.True(t, ok)
	assert.Equal(t, ZoneAnchor, h.Zone)
	assert.Equal(t, 0, h.Anchor)
	assert.Equal(t, vec.V(0, -16), h.Offset)

	h, ok = HitPoint(n, vec.V(19, 1))
	require.True(t, ok)
	assert.Equal(t, ZoneAnchor, h.Zone)
	assert.Equal(t, 1, h.Anchor)
}

func TestNearestAnchor(t *testing.T) {
	n := &Node{Anchors: []vec.Vec{vec.V(10, 0), vec.V(-10, 0), vec.V(0, 10)}}

	i, off, ok := NearestAnchor(n, vec.V(1, 9))
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, vec.V(0, 10), off)

	// equal distances keep the earlier anchor
	i, _, ok = NearestAnchor(n, vec.V(0, 0))
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, off, ok = NearestAnchor(&Node{}, vec.V(5, 5))
	assert.False(t, ok)
	assert.Equal(t, -1, i)
	assert.Equal(t, vec.Vec{}, off)
}

func TestCollapseAnchors(t *testing.T) {
	got := collapseAnchors([]vec.Vec{vec.V(1, 2), vec.V(3, 4), vec.V(1, 2)})
	assert.Equal(t, []vec.Vec{vec.V(1, 2), vec.V(3, 4)}, got)
	assert.Nil(t, collapseAnchors(nil))
}

func TestNodeHitRect(t *testing.T) {
	n := sized(ShapeCircle, 32, 32, 0)
	assert.True(t, HitRect(n, vec.RectFrom(vec.V(10, 10), vec.V(50, 50))))
	assert.True(t, HitRect(n, vec.RectFrom(vec.V(-100, -100), vec.V(100, 100))))
	assert.False(t, HitRect(n, vec.RectFrom(vec.V(20, 20), vec.V(40, 40))))
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape(" Ellipse ")
	require.NoError(t, err)
	assert.Equal(t, ShapeEllipse, s)
	_, err = ParseShape("hexagon")
	assert.Error(t, err)
	assert.Equal(t, ShapeCircle, ShapeImage.Next())
}
