package markup

import (
	"strings"
	"testing"
)

func TestParseOneLineUnitPerInputLine(t *testing.T) {
	inputs := []string{
		"",
		"single line",
		"a\nb\nc",
		"# h\n\n- item\ntext\n",
		"\n\n\n",
	}

	for _, in := range inputs {
		want := len(strings.Split(in, "\n"))
		got := len(Parse(in))
		if got != want {
			t.Errorf("Parse(%q): expected %d lines, got %d", in, want, got)
		}
	}
}

func TestParseLineHeadings(t *testing.T) {
	tests := []struct {
		raw   string
		level int
		text  string
	}{
		{"# Title", 1, "Title"},
		{"## Section", 2, "Section"},
		{"### Detail", 3, "Detail"},
	}

	for _, tt := range tests {
		line := ParseLine(tt.raw)
		if line.Kind != LineHeading {
			t.Fatalf("ParseLine(%q): expected heading, got kind %d", tt.raw, line.Kind)
		}
		if line.Level != tt.level {
			t.Errorf("ParseLine(%q): expected level %d, got %d", tt.raw, tt.level, line.Level)
		}
		if got := line.PlainText(); got != tt.text {
			t.Errorf("ParseLine(%q): expected text %q, got %q", tt.raw, tt.text, got)
		}
	}
}

func TestParseLineBullets(t *testing.T) {
	for _, raw := range []string{"- item", "* item", "• item", "  - item"} {
		line := ParseLine(raw)
		if line.Kind != LineBullet {
			t.Fatalf("ParseLine(%q): expected bullet, got kind %d", raw, line.Kind)
		}
		if got := line.PlainText(); got != "item" {
			t.Errorf("ParseLine(%q): expected text %q, got %q", raw, "item", got)
		}
	}
}

func TestParseLineBlank(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t"} {
		line := ParseLine(raw)
		if line.Kind != LineBlank {
			t.Errorf("ParseLine(%q): expected blank, got kind %d", raw, line.Kind)
		}
		if line.Source() != raw {
			t.Errorf("ParseLine(%q): blank source mismatch: %q", raw, line.Source())
		}
	}
}

func TestParseLineParagraph(t *testing.T) {
	line := ParseLine("just some text")
	if line.Kind != LineParagraph {
		t.Fatalf("expected paragraph, got kind %d", line.Kind)
	}
	if len(line.Spans) != 1 || line.Spans[0].Kind != SpanText {
		t.Fatalf("expected single text span, got %+v", line.Spans)
	}
}

func TestScanInlineStrong(t *testing.T) {
	spans := ScanInline("a **b** c")

	want := []Span{
		{Kind: SpanText, Text: "a "},
		{Kind: SpanStrong, Text: "b"},
		{Kind: SpanText, Text: " c"},
	}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d: expected %+v, got %+v", i, want[i], spans[i])
		}
	}
}

func TestScanInlineCode(t *testing.T) {
	spans := ScanInline("`x`")
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %+v", len(spans), spans)
	}
	if spans[0].Kind != SpanCode || spans[0].Text != "x" {
		t.Errorf("expected code span x, got %+v", spans[0])
	}
}

func TestScanInlineEmph(t *testing.T) {
	spans := ScanInline("say *hi* now")
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(spans), spans)
	}
	if spans[1].Kind != SpanEmph || spans[1].Text != "hi" {
		t.Errorf("expected emph span hi, got %+v", spans[1])
	}
}

func TestScanInlineNoMatchIsIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"asterisk * alone",
		"unterminated **strong",
		"stray ` tick",
	}
	for _, in := range inputs {
		spans := ScanInline(in)
		if len(spans) != 1 || spans[0].Kind != SpanText || spans[0].Text != in {
			t.Errorf("ScanInline(%q): expected passthrough, got %+v", in, spans)
		}
	}
}

func TestScanInlineUnmatchedRemainder(t *testing.T) {
	spans := ScanInline("**a** and *b* then **tail")
	last := spans[len(spans)-1]
	if last.Kind != SpanText || last.Text != " then **tail" {
		t.Errorf("expected verbatim remainder, got %+v", last)
	}
}

func TestScanInlineFirstPatternWins(t *testing.T) {
	// "**a*" has no complete strong token; the single-asterisk alternative
	// fires on "*a*" and the leading "*" stays literal.
	spans := ScanInline("**a*")
	want := []Span{
		{Kind: SpanText, Text: "*"},
		{Kind: SpanEmph, Text: "a"},
	}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d: expected %+v, got %+v", i, want[i], spans[i])
		}
	}
}

func TestInlineRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a **b** c",
		"`x`",
		"mix **s** and *e* and `c` end",
		"**a*",
		"tail **unclosed",
		"* leading star processed inline",
	}
	for _, in := range inputs {
		if got := SpansSource(ScanInline(in)); got != in {
			t.Errorf("round-trip ScanInline(%q): got %q", in, got)
		}
	}
}

func TestLineRoundTrip(t *testing.T) {
	inputs := []string{
		"# Title with **bold**",
		"## Section",
		"### `code` heading",
		"- bullet with *emph*",
		"  - indented bullet",
		"• unicode bullet",
		"plain paragraph",
		"   ",
		"",
	}
	for _, in := range inputs {
		if got := ParseLine(in).Source(); got != in {
			t.Errorf("round-trip ParseLine(%q): got %q", in, got)
		}
	}
}

func TestParsePreservesOrder(t *testing.T) {
	lines := Parse("# one\ntwo\n- three")
	if lines[0].Kind != LineHeading || lines[1].Kind != LineParagraph || lines[2].Kind != LineBullet {
		t.Errorf("unexpected kinds: %d %d %d", lines[0].Kind, lines[1].Kind, lines[2].Kind)
	}
	if lines[0].PlainText() != "one" || lines[1].PlainText() != "two" || lines[2].PlainText() != "three" {
		t.Errorf("unexpected order: %q %q %q", lines[0].PlainText(), lines[1].PlainText(), lines[2].PlainText())
	}
}
