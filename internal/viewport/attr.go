// Package viewport projects buffer content into renderable lines:
// wrapped at a width, labeled with attribute bitsets and paired with
// per-visual-row gutter entries. Frontends consume the projection
// without knowing buffer internals.
package viewport

import "github.com/satwik-kambham/rift/internal/highlight"

// Attributes is a bitset of render attributes carried by a text
// segment. Bits union when ranges overlap; resolution picks one
// highlight and one diagnostic by fixed priority.
type Attributes uint32

const (
	AttrVisible Attributes = 1 << iota
	AttrUnderline
	AttrSelect
	AttrCursor

	AttrHighlightNone
	AttrHighlightWhite
	AttrHighlightRed
	AttrHighlightOrange
	AttrHighlightBlue
	AttrHighlightGreen
	AttrHighlightPurple
	AttrHighlightYellow
	AttrHighlightGray
	AttrHighlightTurquoise

	AttrDiagHint
	AttrDiagInformation
	AttrDiagWarning
	AttrDiagError
)

const diagMask = AttrDiagHint | AttrDiagInformation | AttrDiagWarning | AttrDiagError

// FromCategory maps a syntax category to its attribute bit.
func FromCategory(cat highlight.Category) Attributes {
	switch cat {
	case highlight.CategoryWhite:
		return AttrHighlightWhite
	case highlight.CategoryRed:
		return AttrHighlightRed
	case highlight.CategoryOrange:
		return AttrHighlightOrange
	case highlight.CategoryBlue:
		return AttrHighlightBlue
	case highlight.CategoryGreen:
		return AttrHighlightGreen
	case highlight.CategoryPurple:
		return AttrHighlightPurple
	case highlight.CategoryYellow:
		return AttrHighlightYellow
	case highlight.CategoryGray:
		return AttrHighlightGray
	case highlight.CategoryTurquoise:
		return AttrHighlightTurquoise
	default:
		return AttrHighlightNone
	}
}

// FromSeverity maps a diagnostic severity (1 error .. 4 hint, the
// wire encoding) to its attribute bit.
func FromSeverity(severity int) Attributes {
	switch severity {
	case 1:
		return AttrDiagError
	case 2:
		return AttrDiagWarning
	case 3:
		return AttrDiagInformation
	case 4:
		return AttrDiagHint
	default:
		return 0
	}
}

// Has reports whether all bits of q are set.
func (a Attributes) Has(q Attributes) bool { return a&q == q }

// ResolveCategory picks the winning highlight out of a union,
// specific categories beating broad ones. Returns false when no
// highlight bit is set.
func (a Attributes) ResolveCategory() (highlight.Category, bool) {
	order := []struct {
		bit Attributes
		cat highlight.Category
	}{
		{AttrHighlightTurquoise, highlight.CategoryTurquoise},
		{AttrHighlightPurple, highlight.CategoryPurple},
		{AttrHighlightYellow, highlight.CategoryYellow},
		{AttrHighlightOrange, highlight.CategoryOrange},
		{AttrHighlightBlue, highlight.CategoryBlue},
		{AttrHighlightGreen, highlight.CategoryGreen},
		{AttrHighlightRed, highlight.CategoryRed},
		{AttrHighlightGray, highlight.CategoryGray},
		{AttrHighlightWhite, highlight.CategoryWhite},
		{AttrHighlightNone, highlight.CategoryNone},
	}
	for _, o := range order {
		if a.Has(o.bit) {
			return o.cat, true
		}
	}
	return highlight.CategoryNone, false
}

// HasDiagnostic reports whether any diagnostic bit is set.
func (a Attributes) HasDiagnostic() bool { return a&diagMask != 0 }

// ResolveSeverity picks the most severe diagnostic out of a union,
// returning the wire encoding (1 error .. 4 hint) and false when no
// diagnostic bit is set.
func (a Attributes) ResolveSeverity() (int, bool) {
	switch {
	case a.Has(AttrDiagError):
		return 1, true
	case a.Has(AttrDiagWarning):
		return 2, true
	case a.Has(AttrDiagInformation):
		return 3, true
	case a.Has(AttrDiagHint):
		return 4, true
	}
	return 0, false
}
