package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// blueprintStyleConfig returns a glamour style matching the TUI theme.
// Used for blueprint summaries and rendered session transcripts; chat lines
// are formatted by internal/markup instead.
func blueprintStyleConfig() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr("#E5E7EB"),
			},
			Margin: uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr("#6B7280"),
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(2),
			IndentToken: stringPtr("│ "),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: stringPtr("#E5E7EB"),
				},
			},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr("#D8A6FF"),
				Bold:  boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr("#D8A6FF"),
				Bold:   boolPtr(true),
				Prefix: "# ",
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr("#D8A6FF"),
				Bold:   boolPtr(true),
				Prefix: "## ",
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr("#7EE2B8"),
				Bold:   boolPtr(true),
				Prefix: "### ",
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
			Color:  stringPtr("#E5E7EB"),
		},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: stringPtr("#FFFFFF"),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr("#374151"),
			Format: "─────────────────────────────────────────",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
			Color:       stringPtr("#E5E7EB"),
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
			Color:       stringPtr("#E5E7EB"),
		},
		Link: ansi.StylePrimitive{
			Color:     stringPtr("#60A5FA"),
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: stringPtr("#60A5FA"),
			Bold:  boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr("#F59E0B"),
				BackgroundColor: stringPtr("#1F2937"),
				Prefix:          " ",
				Suffix:          " ",
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: stringPtr("#E5E7EB"),
				},
				Margin: uintPtr(0),
			},
			Chroma: &ansi.Chroma{
				Text: ansi.StylePrimitive{
					Color: stringPtr("#E5E7EB"),
				},
				Comment: ansi.StylePrimitive{
					Color:  stringPtr("#6B7280"),
					Italic: boolPtr(true),
				},
				Keyword: ansi.StylePrimitive{
					Color: stringPtr("#D8A6FF"),
					Bold:  boolPtr(true),
				},
				KeywordType: ansi.StylePrimitive{
					Color: stringPtr("#7EE2B8"),
				},
				NameFunction: ansi.StylePrimitive{
					Color: stringPtr("#60A5FA"),
				},
				LiteralNumber: ansi.StylePrimitive{
					Color: stringPtr("#F59E0B"),
				},
				LiteralString: ansi.StylePrimitive{
					Color: stringPtr("#7EE2B8"),
				},
				Background: ansi.StylePrimitive{
					BackgroundColor: stringPtr("#1F2937"),
				},
			},
		},
		Table: ansi.StyleTable{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: stringPtr("#E5E7EB"),
				},
			},
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
	}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }

// RenderMarkdown renders markdown content to styled terminal output.
// If rendering fails, returns the original content.
func RenderMarkdown(content string, width int) string {
	if content == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(blueprintStyleConfig()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}
