package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/satwik-kambham/rift/internal/highlight"
	"github.com/satwik-kambham/rift/internal/viewport"
)

var categoryColors = map[highlight.Category]tcell.Color{
	highlight.CategoryWhite:     tcell.ColorWhite,
	highlight.CategoryRed:       tcell.ColorIndianRed,
	highlight.CategoryOrange:    tcell.ColorOrange,
	highlight.CategoryBlue:      tcell.ColorCornflowerBlue,
	highlight.CategoryGreen:     tcell.ColorMediumSeaGreen,
	highlight.CategoryPurple:    tcell.ColorMediumPurple,
	highlight.CategoryYellow:    tcell.ColorGold,
	highlight.CategoryGray:      tcell.ColorGray,
	highlight.CategoryTurquoise: tcell.ColorTurquoise,
}

// styleFor resolves an attribute union to a terminal style. The
// cursor renders reversed and wins over selection; diagnostics
// underline whatever color the highlight picked.
func styleFor(attrs viewport.Attributes) tcell.Style {
	style := tcell.StyleDefault

	if cat, ok := attrs.ResolveCategory(); ok {
		if color, ok := categoryColors[cat]; ok {
			style = style.Foreground(color)
		}
	}
	if attrs.HasDiagnostic() {
		style = style.Underline(true)
	}
	if attrs.Has(viewport.AttrUnderline) {
		style = style.Underline(true)
	}
	if attrs.Has(viewport.AttrSelect) {
		style = style.Reverse(true)
	}
	if attrs.Has(viewport.AttrCursor) {
		style = style.Reverse(true)
	}
	return style
}
