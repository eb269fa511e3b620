// Package buffer owns document content: a storage backend, the edit
// log, the highlight configuration, the language tag and file
// association, a modified flag and a version counter.
//
// Buffers are only touched by the main loop and carry no locking.
package buffer

import (
	"path/filepath"
	"strings"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/engine/history"
	"github.com/satwik-kambham/rift/internal/highlight"
)

// Change describes one applied mutation, delivered to the change
// listener so the document sync bridge can notify the language
// server. Span is the replaced span in pre-mutation coordinates and
// Text the replacement ("" for deletions). Undo/redo mutations are
// delivered like any other; they only skip the edit log.
type Change struct {
	Span    cursor.Selection
	Text    string
	Version int
}

// ChangeFunc receives buffer changes.
type ChangeFunc func(Change)

// Backend selects the storage implementation at construction.
type Backend int

const (
	// LineBackend stores content as a flat line array.
	LineBackend Backend = iota
	// RopeBackend stores content in an immutable rope.
	RopeBackend
)

// Buffer is one open document.
type Buffer struct {
	storage     Storage
	log         *history.Log
	path        string
	displayName string
	workspace   string
	special     bool
	modified    bool
	version     int
	language    highlight.Language
	highlighter *highlight.Highlighter
	onChange    ChangeFunc
}

// Option configures a buffer at construction.
type Option func(*config)

type config struct {
	backend   Backend
	path      string
	workspace string
	special   bool
}

// WithBackend selects the storage backend.
func WithBackend(b Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithPath associates a file path, relative to a workspace folder.
// The language is detected from the path's extension.
func WithPath(path, workspace string) Option {
	return func(c *config) { c.path = path; c.workspace = workspace }
}

// WithSpecial marks the buffer as an ephemeral document: no file
// association, no recentering around the cursor, no server sync.
func WithSpecial() Option {
	return func(c *config) { c.special = true }
}

// New creates a buffer with the given initial text. The version
// counter starts at 1.
func New(text string, opts ...Option) *Buffer {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var storage Storage
	switch cfg.backend {
	case RopeBackend:
		storage = NewRopeStorage(text)
	default:
		storage = NewLineStorage(text)
	}

	b := &Buffer{
		storage: storage,
		log:     history.NewLog(),
		special: cfg.special,
		version: 1,
	}
	b.SetFilePath(cfg.path, cfg.workspace)
	return b
}

// SetFilePath changes the file association, recomputing the display
// name and re-detecting the language.
func (b *Buffer) SetFilePath(path, workspace string) {
	b.path = path
	b.workspace = workspace
	b.displayName = ""
	if path != "" {
		if rel, err := filepath.Rel(workspace, path); err == nil && !strings.HasPrefix(rel, "..") {
			b.displayName = rel
		} else {
			b.displayName = path
		}
	}

	if lang := highlight.Detect(path); lang != b.language || b.highlighter == nil {
		b.language = lang
		b.highlighter = highlight.Configure(lang)
	}
}

// SetChangeListener registers the change callback. Only one listener
// is supported; the bridge owns it.
func (b *Buffer) SetChangeListener(f ChangeFunc) { b.onChange = f }

// Path returns the associated file path, empty for unsaved and
// special buffers.
func (b *Buffer) Path() string { return b.path }

// DisplayName returns the workspace-relative name of the buffer.
func (b *Buffer) DisplayName() string { return b.displayName }

// Special reports whether this is an ephemeral document.
func (b *Buffer) Special() bool { return b.special }

// Modified reports whether the buffer has unsaved changes.
func (b *Buffer) Modified() bool { return b.modified }

// SetModified sets the unsaved-changes flag; save clears it only
// after the write succeeds.
func (b *Buffer) SetModified(m bool) { b.modified = m }

// Version returns the mutation counter, starting at 1.
func (b *Buffer) Version() int { return b.version }

// Language returns the detected language tag.
func (b *Buffer) Language() highlight.Language { return b.language }

// Highlighter returns the configured highlighter, nil for plain text.
func (b *Buffer) Highlighter() *highlight.Highlighter { return b.highlighter }

// Projections delegated to storage.

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return b.storage.LineCount() }

// Line returns a line's text without its terminator.
func (b *Buffer) Line(row int) string { return b.storage.Line(row) }

// LineLen returns a line's byte length.
func (b *Buffer) LineLen(row int) int { return b.storage.LineLen(row) }

// Content returns the full content joined with the EOL sequence.
func (b *Buffer) Content(eol string) string { return b.storage.Content(eol) }

// ContentRange returns lines startRow..endRow inclusive.
func (b *Buffer) ContentRange(startRow, endRow int, eol string) string {
	return b.storage.ContentRange(startRow, endRow, eol)
}

// SelectionText returns the selected text.
func (b *Buffer) SelectionText(sel cursor.Selection) string {
	return b.storage.SelectionText(sel)
}

// ByteIndex returns the byte offset of a cursor in the joined
// content.
func (b *Buffer) ByteIndex(c cursor.Cursor, eol string) int {
	return b.storage.ByteIndex(c, eol)
}

// Mutations.

// InsertText splices text at the given position, logs the edit and
// returns the cursor just past it.
func (b *Buffer) InsertText(text string, at cursor.Cursor) cursor.Cursor {
	end := b.insertNoLog(text, at)
	b.log.Record(history.Edit{Kind: history.KindInsert, Start: at, End: end, Text: text})
	b.bump(cursor.Selection{Cursor: at, Mark: at}, text)
	return end
}

// RemoveText deletes the selected span, logs the edit and returns the
// removed text and the cursor at the span's lower bound.
func (b *Buffer) RemoveText(sel cursor.Selection) (string, cursor.Cursor) {
	removed, at := b.removeNoLog(sel)
	start, end := sel.InOrder()
	b.log.Record(history.Edit{Kind: history.KindDelete, Start: start, End: end, Text: removed})
	b.bump(sel, "")
	return removed, at
}

// Undo reverts the most recent logged edit. The inverse application
// is not logged again but is still announced to the change listener.
func (b *Buffer) Undo() (cursor.Cursor, bool) {
	edit, ok := b.log.Undo()
	if !ok {
		return cursor.Cursor{}, false
	}
	return b.applyEdit(edit), true
}

// Redo re-applies the most recently undone edit.
func (b *Buffer) Redo() (cursor.Cursor, bool) {
	edit, ok := b.log.Redo()
	if !ok {
		return cursor.Cursor{}, false
	}
	return b.applyEdit(edit), true
}

// CanUndo reports whether an undo step is available.
func (b *Buffer) CanUndo() bool { return b.log.CanUndo() }

// CanRedo reports whether a redo step is available.
func (b *Buffer) CanRedo() bool { return b.log.CanRedo() }

// Reset drops all edit history.
func (b *Buffer) Reset() { b.log.Clear() }

// SetContent replaces the whole content, outside the edit log.
func (b *Buffer) SetContent(text string) {
	b.storage.SetContent(text)
	b.bump(cursor.Selection{}, text)
}

// applyEdit applies an inverse or redone edit without logging.
func (b *Buffer) applyEdit(edit history.Edit) cursor.Cursor {
	switch edit.Kind {
	case history.KindDelete:
		sel := cursor.Selection{Cursor: edit.Start, Mark: edit.End}
		_, at := b.removeNoLog(sel)
		b.bump(sel, "")
		return at
	default:
		at := b.insertNoLog(edit.Text, edit.Start)
		b.bump(cursor.Selection{Cursor: edit.Start, Mark: edit.Start}, edit.Text)
		return at
	}
}

func (b *Buffer) insertNoLog(text string, at cursor.Cursor) cursor.Cursor {
	b.modified = true
	return b.storage.Insert(text, at)
}

func (b *Buffer) removeNoLog(sel cursor.Selection) (string, cursor.Cursor) {
	b.modified = true
	return b.storage.Remove(sel)
}

// bump advances the version and announces the change.
func (b *Buffer) bump(span cursor.Selection, text string) {
	b.version++
	if b.onChange != nil {
		b.onChange(Change{Span: span, Text: text, Version: b.version})
	}
}
