package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/config"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/interact"
	"github.com/ha1tch/graphkit/pkg/render"
	"github.com/ha1tch/graphkit/pkg/sample"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

const (
	minScale  = 0.25
	maxScale  = 4
	zoomStep  = 1.25
	flashTime = 700 // milliseconds a flashing message keeps the ticker busy
)

// Editor holds all editor state
type Editor struct {
	screen tcell.Screen
	term   *canvas.Terminal
	g      *diagram.Graph
	ctl    *interact.Controller
	cfg    *config.Config
	theme  render.Theme
	log    *slog.Logger

	dirty     bool    // the graph asked for a redraw
	leftDown  bool    // button 1 is held
	pointer   vec.Vec // last pointer position, canvas units
	selected  int     // size of the selection
	exportDir string

	message     string
	messageType MessageType
	flashStart  atomic.Int64 // Unix milliseconds, read by the ticker
}

func newEditor(screen tcell.Screen, cfg *config.Config, log *slog.Logger, empty bool) (*Editor, error) {
	th, err := cfg.RenderTheme()
	if err != nil {
		return nil, err
	}
	ed := &Editor{
		screen:    screen,
		term:      canvas.NewTerminal(screen),
		cfg:       cfg,
		theme:     th,
		log:       log,
		exportDir: ".",
	}
	ed.term.Viewport = cfg.View()
	ed.g = diagram.New(
		diagram.WithLogger(log),
		diagram.WithMeasurer(ed.term),
		diagram.WithHitMargin(cfg.Hit.EdgeMargin),
		diagram.WithRedraw(func() { ed.dirty = true }),
	)
	ed.g.SetScale(cfg.Viewport.Scale)
	ed.g.SetOrigin(vec.V(cfg.Viewport.OriginX, cfg.Viewport.OriginY))
	if !empty {
		if _, err := sample.Build(ed.g); err != nil {
			return nil, err
		}
		if ed.g.Origin().IsZero() {
			ed.home()
		}
	}
	ed.ctl = interact.New(ed.g,
		interact.WithLogger(log),
		interact.WithClickSlop(cfg.Hit.ClickSlop),
		interact.OnSelectionChanged(func(refs []diagram.Ref) { ed.selected = len(refs) }),
	)
	ed.dirty = true
	return ed, nil
}

func (ed *Editor) run() {
	done := make(chan struct{})
	defer close(done)
	go ed.tick(done)

	for {
		if ed.dirty {
			ed.draw()
			ed.screen.Show()
		}
		if ed.handleEvent(ed.screen.PollEvent()) {
			return
		}
	}
}

// tick keeps redrawing while a message flashes.
func (ed *Editor) tick(done <-chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			start := ed.flashStart.Load()
			if start == 0 {
				continue
			}
			if elapsed := time.Now().UnixMilli() - start; elapsed >= 0 && elapsed < flashTime {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}
}

// handleEvent dispatches one event and reports whether to quit.
func (ed *Editor) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true
	case *tcell.EventResize:
		ed.screen.Sync()
		ed.dirty = true
	case *tcell.EventKey:
		return ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	case *tcell.EventInterrupt:
		// flash animation
		ed.dirty = true
	}
	return false
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if ed.ctl.Mode() != interact.ModeIdle {
			ed.showMessage("cancelled", MsgInfo)
		}
		ed.ctl.Cancel()
		ed.leftDown = false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		n := ed.selected
		ed.ctl.DeleteSelection()
		if n > 0 {
			ed.showMessage(fmt.Sprintf("deleted %d", n), MsgSuccess)
		}
	case tcell.KeyLeft:
		ed.pan(-1, 0)
	case tcell.KeyRight:
		ed.pan(1, 0)
	case tcell.KeyUp:
		ed.pan(0, -1)
	case tcell.KeyDown:
		ed.pan(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'n':
			ed.addNode()
		case 's':
			ed.cycleShape()
		case 'l':
			ed.cycleLine()
		case 'a':
			ed.toggleArrow()
		case 'c':
			ed.g.ClearSelection()
			ed.selected = 0
		case '+', '=':
			ed.zoom(zoomStep)
		case '-':
			ed.zoom(1 / zoomStep)
		case 'h':
			ed.home()
		case 'e':
			ed.export()
		}
	}
	return false
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	ed.term.Viewport = ed.g.Viewport()
	p := ed.term.Coordinates(ed.term.CellToDevice(x, y))
	ed.pointer = p
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		ed.zoom(zoomStep)
	case buttons&tcell.WheelDown != 0:
		ed.zoom(1 / zoomStep)
	case buttons&tcell.Button1 != 0:
		if ed.leftDown {
			ed.ctl.PointerMove(p)
			return
		}
		ed.leftDown = true
		var mods interact.Modifiers
		if ev.Modifiers()&tcell.ModShift != 0 {
			mods |= interact.ModShift
		}
		ed.ctl.PointerDown(p, mods)
	default:
		if ed.leftDown {
			ed.leftDown = false
			ed.ctl.PointerUp(p)
			return
		}
		ed.ctl.PointerMove(p)
	}
}

// pan scrolls the view by whole cells.
func (ed *Editor) pan(dx, dy int) {
	s := ed.g.Scale()
	step := vec.V(float64(dx)*ed.term.CellW/s, float64(dy)*ed.term.CellH/s)
	ed.g.SetOrigin(ed.g.Origin().Sub(step))
}

// zoom scales the view around the pointer.
func (ed *Editor) zoom(f float64) {
	old := ed.g.Scale()
	s := math.Max(minScale, math.Min(maxScale, old*f))
	if s == old {
		return
	}
	// keep the canvas point under the pointer fixed
	o := ed.g.Origin()
	device := ed.pointer.Add(o).Scale(old)
	ed.g.Suspend()
	ed.g.SetScale(s)
	ed.g.SetOrigin(device.Scale(1 / s).Sub(ed.pointer))
	ed.term.Viewport = ed.g.Viewport()
	// terminal metrics depend on the scale
	ed.g.SetMeasurer(ed.term)
	ed.g.Resume()
}

// home scrolls the drawing to the top-left corner.
func (ed *Editor) home() {
	b, ok := render.Bounds(ed.g)
	if !ok {
		ed.g.SetOrigin(vec.Vec{})
		return
	}
	margin := vec.V(2*ed.term.CellW, ed.term.CellH).Scale(1 / ed.g.Scale())
	ed.g.SetOrigin(margin.Sub(b.Min))
}

func (ed *Editor) addNode() {
	label := fmt.Sprintf("n%d", len(ed.g.Nodes())+1)
	id := ed.g.CreateNode(diagram.NodeSpec{
		Shape:  diagram.ShapeCircle,
		Pos:    ed.pointer,
		Label:  label,
		Border: diagram.Border{Width: 1},
	})
	ed.g.SetSelection([]diagram.Ref{diagram.NodeRef(id)})
	ed.selected = 1
	ed.showMessage("added "+label, MsgSuccess)
}

func (ed *Editor) cycleShape() {
	ed.g.Suspend()
	defer ed.g.Resume()
	for _, id := range ed.g.SelectedNodes() {
		if n, ok := ed.g.Node(id); ok {
			ed.g.SetShape(id, n.Shape.Next())
		}
	}
}

func (ed *Editor) selectedEdges() []*diagram.Edge {
	var out []*diagram.Edge
	for _, r := range ed.g.SelectedItems() {
		if id, ok := r.Edge(); ok {
			if e, ok := ed.g.Edge(id); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func (ed *Editor) cycleLine() {
	ed.g.Suspend()
	defer ed.g.Resume()
	for _, e := range ed.selectedEdges() {
		st := e.EdgeStyle
		st.Line = (st.Line + 1) % (diagram.LineDouble + 1)
		ed.g.SetEdgeStyle(e.ID, st)
	}
}

func (ed *Editor) toggleArrow() {
	ed.g.Suspend()
	defer ed.g.Resume()
	for _, e := range ed.selectedEdges() {
		st := e.EdgeStyle
		st.SrcArrow = !st.SrcArrow
		ed.g.SetEdgeStyle(e.ID, st)
	}
}

// export renders the diagram to a file in the configured format.
func (ed *Editor) export() {
	opts, err := ed.cfg.RenderOptions()
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	format := ed.cfg.Render.Format
	path := filepath.Join(ed.exportDir, "graphedit."+format)
	f, err := os.Create(path)
	if err != nil {
		ed.log.Warn("export failed", slog.String("err", err.Error()))
		ed.showMessage("export failed", MsgError)
		return
	}
	if err := ed.writeExport(f, format, opts); err != nil {
		ed.log.Warn("export failed", slog.String("path", path), slog.String("err", err.Error()))
		ed.showMessage("export failed", MsgError)
		return
	}
	ed.log.Info("exported", slog.String("path", path))
	ed.showMessage("exported "+path, MsgSuccess)
}

// writeExport renders into wc and closes it; a failed close fails the
// export.
func (ed *Editor) writeExport(wc io.WriteCloser, format string, opts render.Options) error {
	// the export refits to its own metrics; refit to the screen after
	defer ed.g.SetMeasurer(ed.term)
	var err error
	switch format {
	case "svg":
		err = render.SVG(ed.g, wc, opts)
	default:
		err = render.PNG(ed.g, wc, opts)
	}
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return err
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.flashStart.Store(time.Now().UnixMilli())
	ed.dirty = true
}
