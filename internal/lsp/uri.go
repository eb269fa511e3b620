package lsp

import (
	"path/filepath"
	"strings"
)

// PathToURI renders an absolute path as a file URI.
func PathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// URIToPath recovers the local path from a file URI.
func URIToPath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	path = strings.TrimPrefix(path, "file:")
	return filepath.FromSlash(path)
}
