package app

import (
	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/viewport"
)

// Editing operations on the focused buffer. Each keeps the instance
// cursor, selection and column level coherent with the mutation.

// Insert splices text at the instance cursor.
func (a *App) Insert(text string) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	at := buf.InsertText(text, in.Cursor)
	in.SetCursor(at)
}

// DeleteSelection removes the selected span, or the byte before the
// cursor when the selection is empty.
func (a *App) DeleteSelection() string {
	buf, in, ok := a.focused()
	if !ok {
		return ""
	}
	sel := in.Selection
	if sel.IsEmpty() {
		prev := buf.MoveLeft(in.Cursor)
		if prev == in.Cursor {
			return ""
		}
		sel = cursor.Selection{Cursor: in.Cursor, Mark: prev}
	}
	removed, at := buf.RemoveText(sel)
	in.SetCursor(at)
	return removed
}

// Undo reverts the focused buffer's most recent edit.
func (a *App) Undo() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	if at, ok := buf.Undo(); ok {
		in.SetCursor(at)
	}
}

// Redo re-applies the focused buffer's most recently undone edit.
func (a *App) Redo() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	if at, ok := buf.Redo(); ok {
		in.SetCursor(at)
	}
}

// Indent shifts the selected lines right by the configured tab width.
func (a *App) Indent() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	in.SetSelection(buf.AddIndentation(in.Selection, a.prefs.TabWidth))
}

// Dedent shifts the selected lines left by the configured tab width.
func (a *App) Dedent() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	in.SetSelection(buf.RemoveIndentation(in.Selection, a.prefs.TabWidth))
}

// ToggleComment comments or uncomments the selected lines with the
// language's comment token.
func (a *App) ToggleComment() {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	token := a.prefs.CommentToken(buf.Language())
	in.SetSelection(buf.ToggleComment(in.Selection, token))
}

func (a *App) focused() (*buffer.Buffer, *buffer.Instance, bool) {
	buf, ok := a.buffers[a.current]
	if !ok {
		return nil, nil, false
	}
	return buf, a.instances[a.current], true
}

// VisibleLines projects the focused buffer through the viewport,
// overlaying its diagnostics, and updates the instance scroll anchor.
func (a *App) VisibleLines(visibleLines, maxCharacters int) ([][]viewport.Segment, cursor.Cursor, []viewport.GutterInfo) {
	buf, in, ok := a.focused()
	if !ok {
		return nil, cursor.Cursor{}, nil
	}
	params := viewport.Params{
		VisibleLines:  visibleLines,
		MaxCharacters: maxCharacters,
		EOL:           a.prefs.LineEnding,
	}
	return viewport.Project(buf, &in.Scroll, in.Cursor, in.Selection, params, a.diagnosticRanges(buf))
}

// diagnosticRanges converts the stored diagnostics for a buffer's
// file into underlined byte ranges for the projection.
func (a *App) diagnosticRanges(buf *buffer.Buffer) []viewport.Range {
	if buf.Path() == "" {
		return nil
	}
	pub, ok := a.diagnostics[buf.Path()]
	if !ok {
		return nil
	}

	var out []viewport.Range
	for _, d := range pub.Diagnostics {
		start, end := d.Range.InOrder()
		out = append(out, viewport.Range{
			Start: buf.ByteIndex(start, a.prefs.LineEnding),
			End:   buf.ByteIndex(end, a.prefs.LineEnding),
			Attrs: viewport.AttrUnderline | viewport.FromSeverity(int(d.Severity)),
		})
	}
	return out
}
