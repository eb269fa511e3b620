package history

import (
	"testing"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

func insertEdit(row, col int, text string) Edit {
	return Edit{
		Kind:  KindInsert,
		Start: cursor.Cursor{Row: row, Column: col},
		End:   cursor.Cursor{Row: row, Column: col + len(text)},
		Text:  text,
	}
}

func TestUndoEmptyLog(t *testing.T) {
	l := NewLog()
	if _, ok := l.Undo(); ok {
		t.Error("Undo on empty log should report nothing to undo")
	}
	if _, ok := l.Redo(); ok {
		t.Error("Redo on empty log should report nothing to redo")
	}
}

func TestRecordUndoRedo(t *testing.T) {
	l := NewLog()
	a := insertEdit(0, 0, "a")
	b := insertEdit(0, 1, "b")
	l.Record(a)
	l.Record(b)

	if !l.CanUndo() || l.CanRedo() {
		t.Fatalf("after recording: CanUndo=%v CanRedo=%v", l.CanUndo(), l.CanRedo())
	}

	inv, ok := l.Undo()
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	if inv.Kind != KindDelete || inv.Text != "b" {
		t.Errorf("undo returned %+v, want inverse of %+v", inv, b)
	}
	if l.Index() != 1 {
		t.Errorf("Index() = %d, want 1", l.Index())
	}

	fwd, ok := l.Redo()
	if !ok {
		t.Fatal("expected redo to succeed")
	}
	if fwd != b {
		t.Errorf("redo returned %+v, want %+v", fwd, b)
	}
	if l.Index() != 2 {
		t.Errorf("Index() = %d, want 2", l.Index())
	}
}

func TestRecordTruncatesRedoTail(t *testing.T) {
	l := NewLog()
	l.Record(insertEdit(0, 0, "a"))
	l.Record(insertEdit(0, 1, "b"))
	l.Record(insertEdit(0, 2, "c"))

	l.Undo()
	l.Undo()
	if l.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", l.Index())
	}

	// A fresh edit discards the redo history.
	l.Record(insertEdit(0, 1, "x"))
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if l.CanRedo() {
		t.Error("redo tail should be discarded after a fresh edit")
	}
}

func TestInverse(t *testing.T) {
	del := Edit{
		Kind:  KindDelete,
		Start: cursor.Cursor{Row: 0, Column: 1},
		End:   cursor.Cursor{Row: 1, Column: 1},
		Text:  "b\nc",
	}
	inv := del.Inverse()
	if inv.Kind != KindInsert || inv.Start != del.Start || inv.End != del.End || inv.Text != del.Text {
		t.Errorf("Inverse() = %+v", inv)
	}
	if inv.Inverse() != del {
		t.Error("double inverse should return the original edit")
	}
}
