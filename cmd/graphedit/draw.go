package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/graphkit/pkg/interact"
	"github.com/ha1tch/graphkit/pkg/render"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMode       = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy).Bold(true)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const helpText = "drag: move/connect  shift: add  n: node  s: shape  l: line  a: arrow  del: delete  +/-: zoom  arrows: pan  h: home  e: export  q: quit"

func (ed *Editor) draw() {
	ed.dirty = false
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.term.Viewport = ed.g.Viewport()
	render.Build(ed.g, ed.theme, ed.ctl.Overlay()).Draw(ed.term)

	ed.drawStatusBar(w, h)
}

// flashInverted reports whether a flashing message shows reversed after
// elapsed milliseconds: two short pulses, then steady.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

func (ed *Editor) modeString() string {
	if ed.ctl.Mode() == interact.ModeIdle {
		return ""
	}
	return strings.ToUpper(ed.ctl.Mode().String())
}

func (ed *Editor) statusString() string {
	return fmt.Sprintf("%d nodes  %d edges  %d selected  %d%%",
		len(ed.g.Nodes()), len(ed.g.Edges()), ed.selected, int(ed.g.Scale()*100+0.5))
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	ed.drawString(1, y, ed.statusString(), styleStatus)

	if mode := ed.modeString(); mode != "" {
		ed.drawString(w/2-len(mode)/2, y, mode, styleMode)
	}

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.flashStart.Load()) {
			style = style.Reverse(true)
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, runewidth.Truncate(helpText, w-2, "…"), styleHelp)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
