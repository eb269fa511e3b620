package lsp

import (
	"github.com/tidwall/sjson"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

// Request and notification parameter builders. Each returns the
// params object as a JSON string ready for Request or Notify.

func initializeParams(pid int, workspace string) string {
	p, _ := sjson.Set("", "processId", pid)
	p, _ = sjson.Set(p, "rootUri", PathToURI(workspace))
	p, _ = sjson.Set(p, "capabilities.textDocument.synchronization.didSave", true)
	p, _ = sjson.Set(p, "capabilities.textDocument.completion.completionItem.snippetSupport", false)
	p, _ = sjson.Set(p, "capabilities.textDocument.completion.completionItem.documentationFormat", []string{"plaintext"})
	p, _ = sjson.Set(p, "capabilities.textDocument.hover.contentFormat", []string{"plaintext"})
	p, _ = sjson.Set(p, "capabilities.textDocument.signatureHelp.signatureInformation.documentationFormat", []string{"plaintext"})
	p, _ = sjson.Set(p, "capabilities.textDocument.publishDiagnostics.versionSupport", true)
	p, _ = sjson.Set(p, "capabilities.textDocument.publishDiagnostics.dataSupport", true)
	return p
}

// DidOpenParams builds textDocument/didOpen params.
func DidOpenParams(path, languageID, content string) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	p, _ = sjson.Set(p, "textDocument.languageId", languageID)
	p, _ = sjson.Set(p, "textDocument.version", 1)
	p, _ = sjson.Set(p, "textDocument.text", content)
	return p
}

// DidChangeFullParams builds textDocument/didChange params carrying
// the whole document.
func DidChangeFullParams(path string, version int, content string) string {
	p := didChangeHeader(path, version)
	p, _ = sjson.Set(p, "contentChanges.0.text", content)
	return p
}

// DidChangeIncrementalParams builds textDocument/didChange params for
// one replaced span.
func DidChangeIncrementalParams(path string, version int, span cursor.Selection, text string) string {
	start, end := span.InOrder()
	p := didChangeHeader(path, version)
	p, _ = sjson.Set(p, "contentChanges.0.range.start.line", start.Row)
	p, _ = sjson.Set(p, "contentChanges.0.range.start.character", start.Column)
	p, _ = sjson.Set(p, "contentChanges.0.range.end.line", end.Row)
	p, _ = sjson.Set(p, "contentChanges.0.range.end.character", end.Column)
	p, _ = sjson.Set(p, "contentChanges.0.text", text)
	return p
}

func didChangeHeader(path string, version int) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	p, _ = sjson.Set(p, "textDocument.version", version)
	return p
}

// DidSaveParams builds textDocument/didSave params.
func DidSaveParams(path string) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	return p
}

// DidCloseParams builds textDocument/didClose params.
func DidCloseParams(path string) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	return p
}

func positionParams(path string, at cursor.Cursor) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	p, _ = sjson.Set(p, "position.line", at.Row)
	p, _ = sjson.Set(p, "position.character", at.Column)
	return p
}

// HoverParams builds textDocument/hover params.
func HoverParams(path string, at cursor.Cursor) string { return positionParams(path, at) }

// CompletionParams builds textDocument/completion params.
func CompletionParams(path string, at cursor.Cursor) string { return positionParams(path, at) }

// SignatureHelpParams builds textDocument/signatureHelp params.
func SignatureHelpParams(path string, at cursor.Cursor) string { return positionParams(path, at) }

// DefinitionParams builds textDocument/definition params.
func DefinitionParams(path string, at cursor.Cursor) string { return positionParams(path, at) }

// ReferencesParams builds textDocument/references params, declaration
// included.
func ReferencesParams(path string, at cursor.Cursor) string {
	p := positionParams(path, at)
	p, _ = sjson.Set(p, "context.includeDeclaration", true)
	return p
}

// FormattingParams builds textDocument/formatting params.
func FormattingParams(path string, tabSize int) string {
	p, _ := sjson.Set("", "textDocument.uri", PathToURI(path))
	p, _ = sjson.Set(p, "options.tabSize", tabSize)
	p, _ = sjson.Set(p, "options.insertSpaces", true)
	p, _ = sjson.Set(p, "options.trimTrailingWhitespace", true)
	return p
}
