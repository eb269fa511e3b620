// Package highlight classifies byte ranges of buffer content into a
// small closed palette of syntax categories, per detected language.
//
// The engine emits a stack-based event stream (start-of-category,
// source span, end-of-category). The active category at any offset is
// the innermost one on the stack, so nested grammars are legal and
// consumers resolve them without knowing the grammar.
package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Category is a syntax category from the closed palette. Query names
// produced by grammars collapse onto this palette; unmapped names are
// CategoryNone.
type Category int

const (
	CategoryNone Category = iota
	CategoryWhite
	CategoryRed
	CategoryOrange
	CategoryBlue
	CategoryGreen
	CategoryPurple
	CategoryYellow
	CategoryGray
	CategoryTurquoise
)

// EventKind discriminates highlight stream events.
type EventKind int

const (
	// EventSource is a span of source bytes labeled by the category
	// currently innermost on the stack.
	EventSource EventKind = iota
	// EventStart pushes a category.
	EventStart
	// EventEnd pops the innermost category.
	EventEnd
)

// Event is one element of the highlight stream. Start and End are
// byte offsets into the highlighted content and are only meaningful
// for EventSource.
type Event struct {
	Kind     EventKind
	Category Category
	Start    int
	End      int
}

// Span is a resolved labeling: the innermost category covering
// [Start, End).
type Span struct {
	Start    int
	End      int
	Category Category
}

// Highlighter lexes content for one language.
type Highlighter struct {
	lexer chroma.Lexer
}

// Configure returns a highlighter for the language, or nil for plain
// text and languages without a grammar.
func Configure(lang Language) *Highlighter {
	caps := lang.Capabilities()
	if caps.Lexer == "" {
		return nil
	}
	lexer := lexers.Get(caps.Lexer)
	if lexer == nil {
		return nil
	}
	return &Highlighter{lexer: chroma.Coalesce(lexer)}
}

// Events lexes content and returns the highlight event stream. The
// same bytes always produce the same stream; the lexer holds no state
// between calls.
func (h *Highlighter) Events(content string) ([]Event, error) {
	it, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		return nil, err
	}

	var events []Event
	offset := 0
	for token := it(); token != chroma.EOF; token = it() {
		end := offset + len(token.Value)
		cat := categoryFor(token.Type)
		if cat == CategoryNone {
			events = append(events, Event{Kind: EventSource, Start: offset, End: end})
		} else {
			events = append(events,
				Event{Kind: EventStart, Category: cat},
				Event{Kind: EventSource, Category: cat, Start: offset, End: end},
				Event{Kind: EventEnd},
			)
		}
		offset = end
	}
	return events, nil
}

// Spans consumes the event stream sequentially and resolves each
// source span to its innermost active category.
func (h *Highlighter) Spans(content string) ([]Span, error) {
	events, err := h.Events(content)
	if err != nil {
		return nil, err
	}

	var spans []Span
	var stack []Category
	for _, ev := range events {
		switch ev.Kind {
		case EventStart:
			stack = append(stack, ev.Category)
		case EventEnd:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case EventSource:
			cat := CategoryNone
			if len(stack) > 0 {
				cat = stack[len(stack)-1]
			}
			if cat != CategoryNone && ev.End > ev.Start {
				spans = append(spans, Span{Start: ev.Start, End: ev.End, Category: cat})
			}
		}
	}
	return spans, nil
}

// categoryFor collapses a grammar token type onto the palette.
// Specific token kinds are matched before their broader categories.
func categoryFor(tt chroma.TokenType) Category {
	switch tt {
	case chroma.LiteralStringEscape:
		return CategoryTurquoise
	case chroma.KeywordType:
		return CategoryYellow
	case chroma.NameFunction, chroma.NameFunctionMagic, chroma.NameTag:
		return CategoryBlue
	case chroma.NameClass, chroma.NameProperty, chroma.NameNamespace:
		return CategoryYellow
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return CategoryOrange
	case chroma.NameAttribute, chroma.NameDecorator, chroma.NameConstant, chroma.NameLabel:
		return CategoryRed
	case chroma.NameVariable, chroma.NameVariableClass, chroma.NameVariableGlobal, chroma.NameVariableInstance:
		return CategoryRed
	case chroma.GenericHeading, chroma.GenericSubheading:
		return CategoryOrange
	}

	switch {
	case tt.InCategory(chroma.Comment):
		return CategoryGray
	case tt.InCategory(chroma.Keyword):
		return CategoryPurple
	case tt.InCategory(chroma.Operator):
		return CategoryPurple
	case tt.InCategory(chroma.Punctuation):
		return CategoryOrange
	case tt.InSubCategory(chroma.LiteralString):
		return CategoryGreen
	case tt.InSubCategory(chroma.LiteralNumber):
		return CategoryBlue
	}
	return CategoryNone
}
