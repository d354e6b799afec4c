package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// ReportMargin is the left margin of rendered reports.
const ReportMargin = 2

// RenderMarkdown renders an analysis report for a terminal of the given width.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(reportStyle()),
		glamour.WithWordWrap(width-ReportMargin),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// reportStyle covers the markdown RenderReport emits: headings, bullet
// lists, tables, inline code (paths and IDs) and a review blockquote.
func reportStyle() ansi.StyleConfig {
	muted := ptr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = ptr(color)
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr(uint(ReportMargin)),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: accent, Bold: ptr(true)},
		},
		H1:     ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Underline: ptr(true)}},
		H2:     ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "▸ "}},
		Strong: ansi.StylePrimitive{Bold: ptr(true)},
		List:   ansi.StyleList{LevelIndent: 2},
		Item:   ansi.StylePrimitive{BlockPrefix: "• "},
		Code:   ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: accent}},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted, Italic: ptr(true)},
			Indent:         ptr(uint(1)),
			IndentToken:    ptr(SymbolWarning + " "),
		},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}
}

func ptr[T any](v T) *T { return &v }
