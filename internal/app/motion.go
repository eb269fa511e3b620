package app

import "github.com/satwik-kambham/rift/internal/engine/cursor"

// Direction is a cursor motion.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	BufferStart
	BufferEnd
)

// MoveCursor moves the focused instance's cursor and collapses the
// selection onto it. Vertical motion preserves the column level.
func (a *App) MoveCursor(dir Direction) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}

	switch dir {
	case Left:
		in.SetCursor(buf.MoveLeft(in.Cursor))
	case Right:
		in.SetCursor(buf.MoveRight(in.Cursor))
	case Up:
		c, level := buf.MoveUp(in.Cursor, in.ColumnLevel)
		in.Cursor = c
		in.Selection = cursor.NewSelection(c)
		in.ColumnLevel = level
	case Down:
		c, level := buf.MoveDown(in.Cursor, in.ColumnLevel)
		in.Cursor = c
		in.Selection = cursor.NewSelection(c)
		in.ColumnLevel = level
	case LineStart:
		in.SetCursor(buf.MoveLineStart(in.Cursor))
	case LineEnd:
		in.SetCursor(buf.MoveLineEnd(in.Cursor))
	case BufferStart:
		in.SetCursor(buf.MoveBufferStart(in.Cursor))
	case BufferEnd:
		in.SetCursor(buf.MoveBufferEnd(in.Cursor))
	}
}

// ExtendSelection moves the cursor keeping the selection mark fixed.
func (a *App) ExtendSelection(dir Direction) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}

	switch dir {
	case Left:
		in.ExtendTo(buf.MoveLeft(in.Cursor))
	case Right:
		in.ExtendTo(buf.MoveRight(in.Cursor))
	case Up:
		c, level := buf.MoveUp(in.Cursor, in.ColumnLevel)
		in.Cursor = c
		in.Selection.Cursor = c
		in.ColumnLevel = level
	case Down:
		c, level := buf.MoveDown(in.Cursor, in.ColumnLevel)
		in.Cursor = c
		in.Selection.Cursor = c
		in.ColumnLevel = level
	case LineStart:
		in.ExtendTo(buf.MoveLineStart(in.Cursor))
	case LineEnd:
		in.ExtendTo(buf.MoveLineEnd(in.Cursor))
	case BufferStart:
		in.ExtendTo(buf.MoveBufferStart(in.Cursor))
	case BufferEnd:
		in.ExtendTo(buf.MoveBufferEnd(in.Cursor))
	}
}

// SelectLine grows the selection to whole lines, one more line per
// call.
func (a *App) SelectLine() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	in.SetSelection(buf.SelectLine(in.Selection))
}

// SelectWord grows the selection over the word at the cursor.
func (a *App) SelectWord() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	in.SetSelection(buf.SelectWord(in.Selection))
}

// GoTo places the cursor at an absolute position, clamped to the
// buffer.
func (a *App) GoTo(c cursor.Cursor) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	if c.Row < 0 {
		c.Row = 0
	}
	if max := buf.LineCount() - 1; c.Row > max {
		c.Row = max
	}
	if c.Column < 0 {
		c.Column = 0
	}
	if max := buf.LineLen(c.Row); c.Column > max {
		c.Column = max
	}
	in.SetCursor(c)
}
