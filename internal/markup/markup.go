// Package markup converts plain chat text into structured lines with limited
// inline emphasis. It is deliberately small: three line prefixes, three inline
// token shapes, no nesting, no escaping, no multi-line constructs.
package markup

import (
	"regexp"
	"strings"
)

// LineKind classifies a single input line.
type LineKind int

const (
	LineParagraph LineKind = iota
	LineHeading
	LineBullet
	LineBlank
)

// SpanKind classifies an inline fragment.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanStrong
	SpanEmph
	SpanCode
)

// Span is an inline run of text. Text holds the content with delimiters
// stripped; Source re-adds them.
type Span struct {
	Kind SpanKind
	Text string
}

// Line is one rendered line-unit. Exactly one Line is produced per input line.
type Line struct {
	Kind   LineKind
	Level  int    // heading level 1-3, zero otherwise
	Marker string // original heading/bullet marker including its trailing space
	Indent string // leading whitespace of bullets; raw content of blank lines
	Spans  []Span
}

// inlineRe recognizes the three mutually exclusive inline token shapes in one
// left-to-right scan. Alternation order matters: strong before emphasis, so
// "**" is never consumed as two single-asterisk delimiters. Whichever
// alternative fires first on ambiguous input wins; unmatched delimiters stay
// literal text.
var inlineRe = regexp.MustCompile("\\*\\*(.+?)\\*\\*|\\*([^*]+)\\*|`([^`]+)`")

// headingMarkers is ordered longest-first so "### " is not claimed by "# ".
var headingMarkers = []struct {
	marker string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

var bulletMarkers = []string{"- ", "* ", "• "}

// Parse splits text on line breaks and classifies each line independently,
// preserving order.
func Parse(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = ParseLine(r)
	}
	return lines
}

// ParseLine classifies a single line by its prefix, first match wins.
func ParseLine(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: LineBlank, Indent: raw}
	}

	for _, h := range headingMarkers {
		if strings.HasPrefix(raw, h.marker) {
			return Line{
				Kind:   LineHeading,
				Level:  h.level,
				Marker: h.marker,
				Spans:  ScanInline(raw[len(h.marker):]),
			}
		}
	}

	trimmed := strings.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(trimmed)]
	for _, m := range bulletMarkers {
		if strings.HasPrefix(trimmed, m) {
			return Line{
				Kind:   LineBullet,
				Marker: m,
				Indent: indent,
				Spans:  ScanInline(trimmed[len(m):]),
			}
		}
	}

	return Line{Kind: LineParagraph, Spans: ScanInline(raw)}
}

// ScanInline performs one left-to-right scan over s. Text outside matches
// passes through unchanged; the unmatched remainder after the last token is
// appended verbatim. Input with no matches yields a single text span equal to
// the input.
func ScanInline(s string) []Span {
	var spans []Span
	rest := s
	for {
		loc := inlineRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest[:loc[0]]})
		}
		switch {
		case loc[2] >= 0:
			spans = append(spans, Span{Kind: SpanStrong, Text: rest[loc[2]:loc[3]]})
		case loc[4] >= 0:
			spans = append(spans, Span{Kind: SpanEmph, Text: rest[loc[4]:loc[5]]})
		case loc[6] >= 0:
			spans = append(spans, Span{Kind: SpanCode, Text: rest[loc[6]:loc[7]]})
		}
		rest = rest[loc[1]:]
	}
	if rest != "" {
		spans = append(spans, Span{Kind: SpanText, Text: rest})
	}
	return spans
}

// Source reconstructs the span's original text, delimiters included.
func (sp Span) Source() string {
	switch sp.Kind {
	case SpanStrong:
		return "**" + sp.Text + "**"
	case SpanEmph:
		return "*" + sp.Text + "*"
	case SpanCode:
		return "`" + sp.Text + "`"
	default:
		return sp.Text
	}
}

// SpansSource concatenates the source form of all spans.
func SpansSource(spans []Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.Source())
	}
	return sb.String()
}

// PlainText concatenates span content with emphasis/code wrapping stripped.
func PlainText(spans []Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// Source reconstructs the original input line.
func (l Line) Source() string {
	switch l.Kind {
	case LineBlank:
		return l.Indent
	case LineHeading:
		return l.Marker + SpansSource(l.Spans)
	case LineBullet:
		return l.Indent + l.Marker + SpansSource(l.Spans)
	default:
		return SpansSource(l.Spans)
	}
}

// PlainText returns the line content without markers or delimiters.
func (l Line) PlainText() string {
	return PlainText(l.Spans)
}
