package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/graphkit/pkg/config"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/interact"
	"github.com/ha1tch/graphkit/pkg/vec"
)

const (
	screenW = 100
	screenH = 40
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(screenW, screenH)
	t.Cleanup(s.Fini)
	return s
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ed, err := newEditor(newScreen(t), config.Default(), log, true)
	require.NoError(t, err)
	ed.exportDir = t.TempDir()
	return ed
}

// At scale 1 with no pan, cell (x, y) is canvas point (8x+4, 16y+8).
func cellPoint(x, y int) vec.Vec {
	return vec.V(float64(8*x+4), float64(16*y+8))
}

func mouse(ed *Editor, x, y int, b tcell.ButtonMask) {
	ed.handleEvent(tcell.NewEventMouse(x, y, b, tcell.ModNone))
}

func key(ed *Editor, k tcell.Key) bool {
	return ed.handleEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func press(ed *Editor, r rune) bool {
	return ed.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

// addNodeAt puts a circle labelled n<k> under cell (x, y). Its fitted
// diameter is 48, so the rim starts three cells right of the centre.
func addNodeAt(t *testing.T, ed *Editor, x, y int) diagram.NodeID {
	t.Helper()
	mouse(ed, x, y, tcell.ButtonNone)
	press(ed, 'n')
	nodes := ed.g.Nodes()
	n := nodes[len(nodes)-1]
	require.Equal(t, cellPoint(x, y), n.Pos)
	require.Equal(t, vec.V(48, 48), n.Size)
	return n.ID
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestAddNode(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	n, ok := ed.g.Node(id)
	require.True(t, ok)
	assert.Equal(t, "n1", n.Label)
	assert.Equal(t, diagram.ShapeCircle, n.Shape)
	assert.True(t, ed.g.IsSelected(diagram.NodeRef(id)))
	assert.Equal(t, 1, ed.selected)
	assert.Equal(t, "added n1", ed.message)
	assert.Equal(t, MsgSuccess, ed.messageType)

	addNodeAt(t, ed, 30, 5)
	assert.Equal(t, "n2", ed.g.Nodes()[1].Label)
	assert.Equal(t, []diagram.NodeID{ed.g.Nodes()[1].ID}, ed.g.SelectedNodes())
}

func TestHoverNode(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	mouse(ed, 50, 20, tcell.ButtonNone)
	assert.True(t, ed.ctl.Hovered().IsZero())

	mouse(ed, 10, 5, tcell.ButtonNone)
	assert.Equal(t, diagram.NodeRef(id), ed.ctl.Hovered())
	w, ok := ed.g.Wrapper(diagram.NodeRef(id))
	require.True(t, ok)
	assert.Equal(t, diagram.StateHovered, w.State)
}

func TestDragNode(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	mouse(ed, 10, 5, tcell.Button1)
	assert.True(t, ed.leftDown)
	mouse(ed, 12, 6, tcell.Button1)
	assert.Equal(t, interact.ModeDraggingNode, ed.ctl.Mode())
	mouse(ed, 12, 6, tcell.ButtonNone)

	assert.False(t, ed.leftDown)
	assert.Equal(t, interact.ModeIdle, ed.ctl.Mode())
	n, _ := ed.g.Node(id)
	assert.Equal(t, cellPoint(12, 6), n.Pos)
}

func TestConnectByRimDrag(t *testing.T) {
	ed := newTestEditor(t)
	a := addNodeAt(t, ed, 10, 5)
	b := addNodeAt(t, ed, 30, 5)

	// (108, 88) lies on the rim of the node at (84, 88)
	mouse(ed, 13, 5, tcell.Button1)
	assert.Equal(t, interact.ModeDraggingEdge, ed.ctl.Mode())
	mouse(ed, 20, 5, tcell.Button1)
	gh, ok := ed.ctl.Ghost()
	require.True(t, ok)
	assert.Zero(t, gh.Target)
	mouse(ed, 30, 5, tcell.Button1)
	gh, _ = ed.ctl.Ghost()
	assert.Equal(t, b, gh.Target)
	mouse(ed, 30, 5, tcell.ButtonNone)

	edges := ed.g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, a, edges[0].Src)
	assert.Equal(t, b, edges[0].Dst)
	assert.Equal(t, []diagram.Ref{diagram.EdgeRef(edges[0].ID)}, ed.g.SelectedItems())
	assert.Equal(t, 1, ed.selected)

	press(ed, 'l')
	e, _ := ed.g.Edge(edges[0].ID)
	assert.Equal(t, diagram.LineDotted, e.Line)
	press(ed, 'a')
	e, _ = ed.g.Edge(edges[0].ID)
	assert.True(t, e.SrcArrow)
	assert.True(t, e.DstArrow)
}

func TestEscapeCancelsDrag(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	mouse(ed, 10, 5, tcell.Button1)
	mouse(ed, 14, 5, tcell.Button1)
	key(ed, tcell.KeyEscape)
	assert.Equal(t, interact.ModeIdle, ed.ctl.Mode())
	assert.Equal(t, "cancelled", ed.message)
	assert.False(t, ed.leftDown)

	// the release after a cancel only hovers
	mouse(ed, 20, 5, tcell.ButtonNone)
	assert.Equal(t, interact.ModeIdle, ed.ctl.Mode())
	n, _ := ed.g.Node(id)
	assert.Equal(t, cellPoint(14, 5), n.Pos)
}

func TestDeleteSelection(t *testing.T) {
	ed := newTestEditor(t)
	addNodeAt(t, ed, 10, 5)
	addNodeAt(t, ed, 30, 5)

	key(ed, tcell.KeyDelete)
	assert.Len(t, ed.g.Nodes(), 1)
	assert.Equal(t, "deleted 1", ed.message)
	assert.Equal(t, 0, ed.selected)

	ed.message = ""
	key(ed, tcell.KeyBackspace2)
	assert.Len(t, ed.g.Nodes(), 1)
	assert.Empty(t, ed.message)
}

func TestShapeCycle(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	press(ed, 's')
	n, _ := ed.g.Node(id)
	assert.Equal(t, diagram.ShapeEllipse, n.Shape)

	press(ed, 'c')
	press(ed, 's')
	n, _ = ed.g.Node(id)
	assert.Equal(t, diagram.ShapeEllipse, n.Shape)
	assert.Equal(t, 0, ed.selected)
}

func TestPan(t *testing.T) {
	ed := newTestEditor(t)
	key(ed, tcell.KeyRight)
	key(ed, tcell.KeyDown)
	assert.Equal(t, vec.V(-8, -16), ed.g.Origin())
	key(ed, tcell.KeyLeft)
	key(ed, tcell.KeyUp)
	assert.Equal(t, vec.Vec{}, ed.g.Origin())
}

func TestZoomKeepsPointerFixed(t *testing.T) {
	ed := newTestEditor(t)
	mouse(ed, 10, 5, tcell.ButtonNone)
	p := ed.pointer

	press(ed, '+')
	assert.InDelta(t, 1.25, ed.g.Scale(), 1e-9)
	v := ed.g.Viewport()
	back := v.ToCanvas(v.ToDevice(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, 1.25, ed.term.Scale, 1e-9)
	assert.InDelta(t, 16/1.25, ed.term.LineHeight(), 1e-9)

	for i := 0; i < 20; i++ {
		press(ed, '-')
	}
	assert.Equal(t, minScale, ed.g.Scale())
	for i := 0; i < 20; i++ {
		mouse(ed, 10, 5, tcell.WheelUp)
	}
	assert.Equal(t, float64(maxScale), ed.g.Scale())
}

func TestZoomRefitsNodes(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)

	press(ed, '-')
	// the label now measures 20 units wide and tall, 36 padded
	n, _ := ed.g.Node(id)
	assert.Equal(t, vec.V(64, 64), n.Size)
}

func TestStatusBar(t *testing.T) {
	ed := newTestEditor(t)
	addNodeAt(t, ed, 10, 5)
	ed.draw()
	assert.False(t, ed.dirty)

	status := row(ed.screen, screenH-1)
	assert.Contains(t, status, "1 nodes  0 edges  1 selected  100%")
	assert.Contains(t, status, "added n1")
	assert.Contains(t, row(ed.screen, screenH-2), "n: node")

	mouse(ed, 10, 5, tcell.Button1)
	mouse(ed, 14, 5, tcell.Button1)
	ed.draw()
	assert.Contains(t, row(ed.screen, screenH-1), "DRAGGING-NODE")
	mouse(ed, 14, 5, tcell.ButtonNone)
	ed.draw()
	assert.NotContains(t, row(ed.screen, screenH-1), "DRAGGING")
}

func TestDrawLabel(t *testing.T) {
	ed := newTestEditor(t)
	addNodeAt(t, ed, 10, 5)
	ed.draw()
	assert.Contains(t, row(ed.screen, 5), "n1")
}

func TestExport(t *testing.T) {
	ed := newTestEditor(t)
	id := addNodeAt(t, ed, 10, 5)
	ed.cfg.Render.Format = "svg"

	press(ed, 'e')
	path := filepath.Join(ed.exportDir, "graphedit.svg")
	assert.Equal(t, "exported "+path, ed.message)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Same(t, ed.term, ed.g.Measurer())
	n, _ := ed.g.Node(id)
	assert.Equal(t, vec.V(48, 48), n.Size)
}

func TestExportFailure(t *testing.T) {
	ed := newTestEditor(t)
	ed.exportDir = filepath.Join(ed.exportDir, "missing")
	press(ed, 'e')
	assert.Equal(t, "export failed", ed.message)
	assert.Equal(t, MsgError, ed.messageType)
}

type closeFailer struct {
	bytes.Buffer
}

func (closeFailer) Close() error { return errors.New("flush failed") }

func TestExportCloseError(t *testing.T) {
	ed := newTestEditor(t)
	addNodeAt(t, ed, 10, 5)
	opts, err := ed.cfg.RenderOptions()
	require.NoError(t, err)

	var out closeFailer
	err = ed.writeExport(&out, "svg", opts)
	assert.EqualError(t, err, "flush failed")
	assert.Contains(t, out.String(), "<svg")
	assert.Same(t, ed.term, ed.g.Measurer())
}

func TestQuit(t *testing.T) {
	ed := newTestEditor(t)
	assert.True(t, press(ed, 'q'))
	assert.True(t, key(ed, tcell.KeyCtrlC))
	assert.True(t, ed.handleEvent(nil))
	assert.False(t, press(ed, 'x'))
}

func TestRunStopsOnQuit(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	ed.run()
	assert.Contains(t, row(ed.screen, screenH-1), "0 nodes")
}

func TestSampleScene(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ed, err := newEditor(newScreen(t), config.Default(), log, false)
	require.NoError(t, err)
	assert.Len(t, ed.g.Nodes(), 5)
	assert.Len(t, ed.g.Edges(), 8)
	assert.False(t, ed.g.Origin().IsZero())

	ed.draw()
	assert.Contains(t, row(ed.screen, screenH-1), "5 nodes  8 edges")
}
