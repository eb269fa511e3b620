package highlight

import "path/filepath"

// Language identifies the file format of a buffer. The set is closed:
// adding a language means adding a row to the capability table, not
// implementing an interface.
type Language int

const (
	PlainText Language = iota
	Go
	Rust
	Python
	Markdown
	TOML
	JSON
	C
	CPP
	Javascript
	Typescript
	HTML
	CSS
)

// String returns the language tag, which doubles as the LSP
// languageId for didOpen.
func (l Language) String() string {
	switch l {
	case Go:
		return "go"
	case Rust:
		return "rust"
	case Python:
		return "python"
	case Markdown:
		return "markdown"
	case TOML:
		return "toml"
	case JSON:
		return "json"
	case C:
		return "c"
	case CPP:
		return "cpp"
	case Javascript:
		return "javascript"
	case Typescript:
		return "typescript"
	case HTML:
		return "html"
	case CSS:
		return "css"
	default:
		return "plaintext"
	}
}

// Capabilities is one row of the per-language table: the grammar to
// lex with, the line comment token, and the default language server
// command.
type Capabilities struct {
	Lexer         string
	CommentToken  string
	ServerCommand []string
}

var capabilityTable = map[Language]Capabilities{
	Go:         {Lexer: "go", CommentToken: "//", ServerCommand: []string{"gopls"}},
	Rust:       {Lexer: "rust", CommentToken: "//", ServerCommand: []string{"rust-analyzer"}},
	Python:     {Lexer: "python", CommentToken: "#", ServerCommand: []string{"pylsp"}},
	Markdown:   {Lexer: "markdown"},
	TOML:       {Lexer: "toml", CommentToken: "#"},
	JSON:       {Lexer: "json"},
	C:          {Lexer: "c", CommentToken: "//", ServerCommand: []string{"clangd"}},
	CPP:        {Lexer: "c++", CommentToken: "//", ServerCommand: []string{"clangd"}},
	Javascript: {Lexer: "javascript", CommentToken: "//", ServerCommand: []string{"typescript-language-server", "--stdio"}},
	Typescript: {Lexer: "typescript", CommentToken: "//", ServerCommand: []string{"typescript-language-server", "--stdio"}},
	HTML:       {Lexer: "html"},
	CSS:        {Lexer: "css"},
}

// Capabilities returns the table row for the language. PlainText and
// unknown languages return the zero value.
func (l Language) Capabilities() Capabilities {
	return capabilityTable[l]
}

// CommentToken returns the line comment token, empty when the
// language has none.
func (l Language) CommentToken() string {
	return capabilityTable[l].CommentToken
}

var extensionTable = map[string]Language{
	".go":   Go,
	".rs":   Rust,
	".py":   Python,
	".md":   Markdown,
	".toml": TOML,
	".json": JSON,
	".c":    C,
	".h":    C,
	".cpp":  CPP,
	".hpp":  CPP,
	".cc":   CPP,
	".js":   Javascript,
	".jsx":  Javascript,
	".ts":   Typescript,
	".tsx":  Typescript,
	".html": HTML,
	".css":  CSS,
	".scss": CSS,
}

// Detect maps a file path to a language by extension. Empty paths and
// unknown extensions are plain text.
func Detect(path string) Language {
	if path == "" {
		return PlainText
	}
	return extensionTable[filepath.Ext(path)]
}
