package lsp

import (
	"github.com/tidwall/gjson"

	"github.com/satwik-kambham/rift/internal/engine/buffer"
)

// SyncKind is the document synchronization mode a server advertises.
type SyncKind int

const (
	SyncNone        SyncKind = 0
	SyncFull        SyncKind = 1
	SyncIncremental SyncKind = 2
)

// DocumentSyncKind probes the capabilities for the advertised sync
// kind. Servers encode it either as a bare number or as the change
// member of an object.
func (c *Client) DocumentSyncKind() SyncKind {
	sync := c.caps.Get("textDocumentSync")
	if sync.Type == gjson.Number {
		return SyncKind(sync.Int())
	}
	if change := sync.Get("change"); change.Exists() {
		return SyncKind(change.Int())
	}
	return SyncNone
}

// OpenCloseSupported reports whether the server wants didOpen and
// didClose notifications.
func (c *Client) OpenCloseSupported() bool {
	sync := c.caps.Get("textDocumentSync")
	return sync.Type == gjson.Number || sync.Get("openClose").Bool()
}

// Bridge keeps one buffer's document state synchronized with a
// server, honoring the advertised sync kind. It is installed as the
// buffer's change listener.
type Bridge struct {
	client *Client
	buf    *buffer.Buffer
}

// NewBridge attaches a bridge to a buffer. Buffers without a file
// path are not synchronized.
func NewBridge(client *Client, buf *buffer.Buffer) *Bridge {
	b := &Bridge{client: client, buf: buf}
	buf.SetChangeListener(b.onChange)
	return b
}

// Open announces the document to the server.
func (b *Bridge) Open() error {
	if b.buf.Path() == "" || !b.client.OpenCloseSupported() {
		return nil
	}
	return b.client.Notify("textDocument/didOpen",
		DidOpenParams(b.buf.Path(), b.buf.Language().String(), b.buf.Content("\n")))
}

// Saved reports a completed save.
func (b *Bridge) Saved() error {
	if b.buf.Path() == "" {
		return nil
	}
	return b.client.Notify("textDocument/didSave", DidSaveParams(b.buf.Path()))
}

// Close withdraws the document.
func (b *Bridge) Close() error {
	if b.buf.Path() == "" || !b.client.OpenCloseSupported() {
		return nil
	}
	return b.client.Notify("textDocument/didClose", DidCloseParams(b.buf.Path()))
}

// onChange forwards a buffer mutation per the server's sync kind:
// whole document for full sync, the replaced span for incremental,
// nothing when sync is disabled.
func (b *Bridge) onChange(change buffer.Change) {
	if b.buf.Path() == "" {
		return
	}
	switch b.client.DocumentSyncKind() {
	case SyncFull:
		b.client.Notify("textDocument/didChange",
			DidChangeFullParams(b.buf.Path(), change.Version, b.buf.Content("\n")))
	case SyncIncremental:
		b.client.Notify("textDocument/didChange",
			DidChangeIncrementalParams(b.buf.Path(), change.Version, change.Span, change.Text))
	}
}
