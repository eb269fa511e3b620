package buffer

import "github.com/satwik-kambham/rift/internal/engine/cursor"

// Instance is one view onto a buffer: its own cursor, selection,
// scroll anchor and column level. Several instances may share a
// buffer; edits through one are visible through all.
type Instance struct {
	BufferID    int
	Cursor      cursor.Cursor
	Selection   cursor.Selection
	Scroll      cursor.Cursor
	ColumnLevel int
}

// NewInstance creates a view on the given buffer at the origin.
func NewInstance(bufferID int) *Instance {
	return &Instance{BufferID: bufferID}
}

// SetCursor moves the cursor and collapses the selection onto it.
func (in *Instance) SetCursor(c cursor.Cursor) {
	in.Cursor = c
	in.Selection = cursor.NewSelection(c)
	in.ColumnLevel = c.Column
}

// ExtendTo moves the cursor keeping the selection mark in place.
func (in *Instance) ExtendTo(c cursor.Cursor) {
	in.Cursor = c
	in.Selection.Cursor = c
	in.ColumnLevel = c.Column
}

// SetSelection installs a selection, placing the cursor on its
// cursor end.
func (in *Instance) SetSelection(sel cursor.Selection) {
	in.Selection = sel
	in.Cursor = sel.Cursor
	in.ColumnLevel = sel.Cursor.Column
}
