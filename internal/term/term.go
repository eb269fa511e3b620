// Package term is the terminal frontend: it paints the viewport
// projection with tcell and translates key events into editor
// operations.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/satwik-kambham/rift/internal/app"
	"github.com/satwik-kambham/rift/internal/logging"
	"github.com/satwik-kambham/rift/internal/viewport"
)

const gutterWidth = 4

// UI owns the tcell screen and the frame loop.
type UI struct {
	logger *logging.Logger
	editor *app.App
	screen tcell.Screen
}

// New creates the terminal frontend.
func New(logger *logging.Logger, editor *app.App) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &UI{
		logger: logger.WithComponent("term"),
		editor: editor,
		screen: screen,
	}, nil
}

// Run initializes the screen and blocks in the event loop until the
// user quits.
func (u *UI) Run() error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.screen.Fini()
	u.screen.EnablePaste()

	for {
		u.editor.PollServers()
		u.draw()

		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if quit := u.handleKey(ev); quit {
				return nil
			}
		}
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		if err := u.editor.SaveBuffer(u.editor.CurrentID()); err != nil {
			u.logger.Errorf("save failed: %v", err)
		}
	case tcell.KeyCtrlZ:
		u.editor.Undo()
	case tcell.KeyCtrlY:
		u.editor.Redo()
	case tcell.KeyCtrlL:
		u.editor.SelectLine()
	case tcell.KeyCtrlW:
		u.editor.SelectWord()
	case tcell.KeyCtrlD:
		u.editor.RequestDefinition()
	case tcell.KeyCtrlR:
		u.editor.RequestReferences()
	case tcell.KeyCtrlK:
		u.editor.RequestHover()
	case tcell.KeyCtrlSpace:
		u.editor.RequestCompletion()
	case tcell.KeyCtrlF:
		u.editor.RequestFormatting()
	case tcell.KeyCtrlUnderscore:
		u.editor.ToggleComment()
	case tcell.KeyTab:
		u.editor.Indent()
	case tcell.KeyBacktab:
		u.editor.Dedent()
	case tcell.KeyLeft:
		u.move(app.Left, ev.Modifiers())
	case tcell.KeyRight:
		u.move(app.Right, ev.Modifiers())
	case tcell.KeyUp:
		u.move(app.Up, ev.Modifiers())
	case tcell.KeyDown:
		u.move(app.Down, ev.Modifiers())
	case tcell.KeyHome:
		u.move(app.LineStart, ev.Modifiers())
	case tcell.KeyEnd:
		u.move(app.LineEnd, ev.Modifiers())
	case tcell.KeyEnter:
		u.editor.Insert("\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.editor.DeleteSelection()
	case tcell.KeyRune:
		u.editor.Insert(string(ev.Rune()))
	}
	return false
}

func (u *UI) move(dir app.Direction, mods tcell.ModMask) {
	if mods&tcell.ModShift != 0 {
		u.editor.ExtendSelection(dir)
	} else {
		u.editor.MoveCursor(dir)
	}
}

func (u *UI) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()
	if width <= gutterWidth || height == 0 {
		u.screen.Show()
		return
	}

	lines, rel, gutter := u.editor.VisibleLines(height, width-gutterWidth)

	for row, line := range lines {
		u.drawGutter(row, gutter)

		x := gutterWidth
		for _, seg := range line {
			style := styleFor(seg.Attrs)
			for _, r := range seg.Text {
				u.screen.SetContent(x, row, r, nil, style)
				x += runewidth.RuneWidth(r)
			}
		}
	}

	u.screen.ShowCursor(gutterWidth+rel.Column, rel.Row)
	u.screen.Show()
}

// drawGutter writes the line number for unwrapped rows and leaves
// continuation rows blank.
func (u *UI) drawGutter(row int, gutter []viewport.GutterInfo) {
	if row >= len(gutter) || gutter[row].Wrapped {
		return
	}
	label := fmt.Sprintf("%*d", gutterWidth-1, gutter[row].Start.Row+1)
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, r := range label {
		u.screen.SetContent(i, row, r, nil, style)
	}
}
