// Package history records invertible edits for linear undo/redo.
//
// The log is scoped to one buffer and, like the rest of the engine, is
// only ever touched by the main loop, so it carries no locking.
package history

import "github.com/satwik-kambham/rift/internal/engine/cursor"

// Kind tags an edit as an insertion or a deletion.
type Kind int

const (
	// KindInsert is text spliced into the buffer.
	KindInsert Kind = iota
	// KindDelete is text removed from the buffer.
	KindDelete
)

// Edit captures one mutation with enough information to invert it
// exactly: the spanned positions and the inserted or removed text.
type Edit struct {
	Kind  Kind
	Start cursor.Cursor
	End   cursor.Cursor
	Text  string
}

// Inverse returns the edit that exactly undoes e.
func (e Edit) Inverse() Edit {
	inv := e
	switch e.Kind {
	case KindInsert:
		inv.Kind = KindDelete
	case KindDelete:
		inv.Kind = KindInsert
	}
	return inv
}

// Log is an ordered sequence of edits plus a change index into it.
// The index always satisfies 0 <= idx <= len(edits): edits before it
// are undoable, edits at and after it are redoable.
type Log struct {
	edits []Edit
	idx   int
}

// NewLog creates an empty edit log.
func NewLog() *Log {
	return &Log{}
}

// Record drops any redo tail, appends the edit and moves the change
// index to the end. Mutations driven by undo/redo must not be
// recorded again; the buffer applies those without logging.
func (l *Log) Record(e Edit) {
	l.edits = append(l.edits[:l.idx], e)
	l.idx = len(l.edits)
}

// Undo steps the change index back and returns the inverse of the
// edit it crossed. The second return is false when there is nothing
// to undo.
func (l *Log) Undo() (Edit, bool) {
	if l.idx == 0 {
		return Edit{}, false
	}
	l.idx--
	return l.edits[l.idx].Inverse(), true
}

// Redo returns the edit at the change index for forward re-application
// and steps the index past it. The second return is false when there
// is nothing to redo.
func (l *Log) Redo() (Edit, bool) {
	if l.idx >= len(l.edits) {
		return Edit{}, false
	}
	e := l.edits[l.idx]
	l.idx++
	return e, true
}

// CanUndo returns true if an undo step is available.
func (l *Log) CanUndo() bool { return l.idx > 0 }

// CanRedo returns true if a redo step is available.
func (l *Log) CanRedo() bool { return l.idx < len(l.edits) }

// Len returns the number of logged edits.
func (l *Log) Len() int { return len(l.edits) }

// Index returns the current change index.
func (l *Log) Index() int { return l.idx }

// Clear removes all history.
func (l *Log) Clear() {
	l.edits = nil
	l.idx = 0
}
