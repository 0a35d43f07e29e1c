// Package fuzz provides fuzz testing for the geometry solvers, hit-tests,
// graph edits and config loader.
// Run with: go test -fuzz=FuzzCubicRoots -fuzztime=30s ./tests/fuzz/
package fuzz

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ha1tch/graphkit/pkg/config"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/vec"
)

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func checkRoots(t *testing.T, roots []float64) {
	t.Helper()
	for i, r := range roots {
		if math.IsNaN(r) || r < 0 || r > 1 {
			t.Fatalf("root %v outside [0,1] in %v", r, roots)
		}
		if i > 0 && r < roots[i-1] {
			t.Fatalf("roots not sorted: %v", roots)
		}
	}
}

// FuzzQuadraticRoots looks for panics and roots outside the curve domain.
func FuzzQuadraticRoots(f *testing.F) {
	f.Add(1.0, -1.0, 0.0)
	f.Add(0.0, 2.0, -1.0)
	f.Add(0.0, 0.0, 1.0)
	f.Add(1.0, -1.0, 0.25)
	f.Add(1e-300, 1e300, -1.0)
	f.Add(math.NaN(), 1.0, 1.0)
	f.Add(math.Inf(1), 0.0, 0.0)

	f.Fuzz(func(t *testing.T, a, b, c float64) {
		roots := vec.QuadraticRoots(a, b, c)
		if len(roots) > 2 {
			t.Fatalf("%d roots of a quadratic", len(roots))
		}
		checkRoots(t, roots)
	})
}

// FuzzCubicRoots looks for panics and roots outside the curve domain.
func FuzzCubicRoots(f *testing.F) {
	f.Add(1.0, -1.5, 0.5, 0.0)
	f.Add(1.0, -3.0, 3.0, -1.0)
	f.Add(0.0, 1.0, -1.0, 0.0)
	f.Add(-2.0, 3.0, 0.0, -0.5)
	f.Add(1e-12, 1.0, -1.0, 0.1)
	f.Add(math.Inf(-1), 1.0, 1.0, 1.0)

	f.Fuzz(func(t *testing.T, a, b, c, d float64) {
		roots := vec.CubicRoots(a, b, c, d)
		if len(roots) > 3 {
			t.Fatalf("%d roots of a cubic", len(roots))
		}
		checkRoots(t, roots)
		// residuals are only meaningful for well-scaled coefficients
		if finite(a, b, c, d) && math.Abs(a) >= 0.1 && math.Max(math.Abs(a), math.Max(math.Abs(b), math.Max(math.Abs(c), math.Abs(d)))) <= 10 {
			for _, r := range roots {
				y := ((a*r+b)*r+c)*r + d
				if math.Abs(y) > 1e-4*(math.Abs(a)+math.Abs(b)+math.Abs(c)+math.Abs(d)) {
					t.Fatalf("t=%v is not a root: residual %v", r, y)
				}
			}
		}
	})
}

func shapeOf(b uint8) diagram.Shape {
	return diagram.Shape(int(b) % 5)
}

// FuzzBoundaryPoint checks that boundary points are finite and never leave
// the node's half extents.
func FuzzBoundaryPoint(f *testing.F) {
	f.Add(uint8(0), 48.0, 48.0, 1.0, 0.0)
	f.Add(uint8(1), 96.0, 48.0, 1.0, 1.0)
	f.Add(uint8(3), 96.0, 48.0, 0.0, -1.0)
	f.Add(uint8(4), 16.0, 200.0, -1e-9, 1e-9)
	f.Add(uint8(2), 0.0, 0.0, 1.0, 1.0)

	f.Fuzz(func(t *testing.T, shape uint8, w, h, dx, dy float64) {
		if !finite(w, h, dx, dy) || w < 0 || h < 0 || w > 1e6 || h > 1e6 {
			t.Skip()
		}
		// squared radii below this underflow
		if (w > 0 && w < 1e-100) || (h > 0 && h < 1e-100) {
			t.Skip()
		}
		n := &diagram.Node{Shape: shapeOf(shape), Size: vec.V(w, h)}
		p := diagram.BoundaryPoint(n, vec.V(dx, dy))
		if !p.IsFinite() {
			t.Fatalf("non-finite boundary point %v", p)
		}
		r := n.Radii()
		if math.Abs(p.X) > r.X*(1+1e-9)+1e-9 || math.Abs(p.Y) > r.Y*(1+1e-9)+1e-9 {
			t.Fatalf("boundary point %v outside radii %v", p, r)
		}
	})
}

// FuzzHitPoint checks that node hits report consistent zones.
func FuzzHitPoint(f *testing.F) {
	f.Add(uint8(0), 0.0, 0.0, false)
	f.Add(uint8(3), 47.0, 0.0, true)
	f.Add(uint8(1), 0.0, 30.0, false)
	f.Add(uint8(4), 1e300, -1e300, true)

	f.Fuzz(func(t *testing.T, shape uint8, x, y float64, anchors bool) {
		if !finite(x, y) {
			t.Skip()
		}
		n := &diagram.Node{Shape: shapeOf(shape), Size: vec.V(96, 48), Border: diagram.Border{Width: 2}}
		if anchors {
			n.Anchors = []vec.Vec{vec.V(0, -24), vec.V(48, 0)}
		}
		h, ok := diagram.HitPoint(n, vec.V(x, y))
		if !ok {
			return
		}
		switch h.Zone {
		case diagram.ZoneBody:
			if !h.Offset.IsZero() || h.Anchor != -1 {
				t.Fatalf("body hit with offset %v anchor %d", h.Offset, h.Anchor)
			}
		case diagram.ZoneAnchor:
			if h.Anchor < 0 || h.Anchor >= len(n.Anchors) || n.Anchors[h.Anchor] != h.Offset {
				t.Fatalf("anchor hit %+v does not name an anchor", h)
			}
		case diagram.ZoneRim:
			if !h.Offset.IsFinite() {
				t.Fatalf("rim offset %v", h.Offset)
			}
		}
	})
}

// FuzzHitPtTestLine checks that a hit is never farther than the margin
// from the chord.
func FuzzHitPtTestLine(f *testing.F) {
	f.Add(0.0, 0.0, 100.0, 0.0, 50.0, 3.0, 6.0)
	f.Add(0.0, 0.0, 0.0, 0.0, 1.0, 1.0, 6.0)
	f.Add(10.0, 10.0, -10.0, 30.0, 0.0, 20.0, 0.5)

	f.Fuzz(func(t *testing.T, ax, ay, bx, by, px, py, margin float64) {
		if !finite(ax, ay, bx, by, px, py, margin) || margin < 0 || margin > 1e3 {
			t.Skip()
		}
		for _, c := range []float64{ax, ay, bx, by, px, py} {
			if math.Abs(c) > 1e6 {
				t.Skip()
			}
		}
		a, b, p := vec.V(ax, ay), vec.V(bx, by), vec.V(px, py)
		if _, ok := diagram.HitPtTestLine(a, b, p, margin); !ok {
			return
		}
		// distance from p to the segment
		v := b.Sub(a)
		d := p.Dist(a)
		if vv := v.MagSq(); vv >= vec.Epsilon {
			s := math.Max(0, math.Min(1, p.Sub(a).Dot(v)/vv))
			d = p.Dist(a.Add(v.Scale(s)))
		}
		if d > margin*(1+1e-6)+1e-6 {
			t.Fatalf("hit at distance %v with margin %v", d, margin)
		}
	})
}

// FuzzGraphEdits replays a byte string as a sequence of graph edits and
// checks the index after every step.
func FuzzGraphEdits(f *testing.F) {
	f.Add([]byte{0, 0, 0, 1, 0, 1, 2, 3, 4})
	f.Add([]byte{0, 0, 1, 0, 0, 1, 1, 1, 5, 6, 7, 8})
	f.Add([]byte{0, 1, 1, 1, 1, 4, 4, 4})

	f.Fuzz(func(t *testing.T, ops []byte) {
		if len(ops) > 512 {
			t.Skip()
		}
		g := diagram.New()
		pick := func(k byte) (diagram.NodeID, bool) {
			nodes := g.Nodes()
			if len(nodes) == 0 {
				return 0, false
			}
			return nodes[int(k)%len(nodes)].ID, true
		}
		for i, op := range ops {
			k := byte(i) ^ op
			switch op % 9 {
			case 0:
				g.CreateNode(diagram.NodeSpec{Shape: shapeOf(op), Pos: vec.V(float64(op)*13, float64(i)*7), Label: "n"})
			case 1:
				a, ok1 := pick(k)
				b, ok2 := pick(k / 3)
				if ok1 && ok2 {
					if _, err := g.CreateEdge(a, b, diagram.DefaultEdgeSpec()); err != nil {
						t.Fatal(err)
					}
				}
			case 2:
				if id, ok := pick(k); ok {
					g.DeleteNode(id)
				}
			case 3:
				if edges := g.Edges(); len(edges) > 0 {
					g.DeleteEdge(edges[int(k)%len(edges)].ID)
				}
			case 4:
				if id, ok := pick(k); ok {
					g.MoveNode(id, vec.V(float64(k)-128, float64(op)-128))
				}
			case 5:
				if id, ok := pick(k); ok {
					g.Select(diagram.NodeRef(id), true)
				}
			case 6:
				g.DeleteSelection()
			case 7:
				if id, ok := pick(k); ok {
					g.SetShape(id, shapeOf(k))
				}
			case 8:
				g.HitRect(vec.RectFrom(vec.V(0, 0), vec.V(float64(k)*8, float64(op)*8)))
				g.HitTest(vec.V(float64(k)*4, float64(op)*4), diagram.Ref{})
			}
			if err := g.CheckInvariants(); err != nil {
				t.Fatalf("step %d (op %d): %v", i, op, err)
			}
		}
	})
}

// FuzzConfigLoad feeds arbitrary TOML to the loader: it either fails or
// yields a config that validates.
func FuzzConfigLoad(f *testing.F) {
	f.Add("")
	f.Add("[viewport]\nscale = 2.0\n")
	f.Add("[render]\nformat = \"svg\"\nwidth = 10\n")
	f.Add("[theme]\nbackground = \"#zzzzzz\"\n")
	f.Add("[hit]\nclick_slop = -1.0\n")
	f.Add("[log]\nlevel = \"debug\"\nfile = \"\"\n")
	f.Add("bogus = 1\n")
	f.Add("[[render]]\n")

	f.Fuzz(func(t *testing.T, data string) {
		path := filepath.Join(t.TempDir(), "graphkit.toml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := config.Load(path)
		if err != nil {
			if cfg != nil {
				t.Fatalf("config returned with error %v", err)
			}
			return
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("loaded config does not validate: %v", err)
		}
		if _, err := cfg.RenderTheme(); err != nil && !errors.Is(err, config.ErrInvalid) {
			t.Fatalf("theme: %v", err)
		}
	})
}
