// Package organisms provides high-level TUI components.
package organisms

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/stagehand/clients/tui/atoms"
	"github.com/dohr-michael/stagehand/internal/markup"
)

// MessageStyles are the inline styles applied to formatted chat lines.
type MessageStyles struct {
	Heading lipgloss.Style
	Strong  lipgloss.Style
	Emph    lipgloss.Style
	Code    lipgloss.Style
}

// MessageBlock renders one chat message. Content goes through the markup
// formatter; sender labels use the injected style.
type MessageBlock struct {
	sender  string
	label   lipgloss.Style
	content string
	styles  MessageStyles
	cached  string
}

// NewMessageBlock creates a block for a finished message.
func NewMessageBlock(sender string, label lipgloss.Style, content string, styles MessageStyles) *MessageBlock {
	return &MessageBlock{
		sender:  sender,
		label:   label,
		content: content,
		styles:  styles,
	}
}

// IsComplete always reports true; messages arrive whole.
func (mb *MessageBlock) IsComplete() bool { return true }

// Sender returns the block's sender label.
func (mb *MessageBlock) Sender() string { return mb.sender }

// View renders the label and the formatted message body.
func (mb *MessageBlock) View() string {
	if mb.cached != "" {
		return mb.cached
	}

	label := atoms.StyledLabel(mb.sender, mb.label)
	body := mb.renderBody()

	result := label + " " + body
	mb.cached = result
	return result
}

func (mb *MessageBlock) renderBody() string {
	lines := markup.Parse(strings.TrimRight(mb.content, "\n"))

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = mb.renderLine(line)
	}
	return strings.Join(rendered, "\n")
}

func (mb *MessageBlock) renderLine(line markup.Line) string {
	switch line.Kind {
	case markup.LineBlank:
		return ""
	case markup.LineHeading:
		return mb.styles.Heading.Render(line.PlainText())
	case markup.LineBullet:
		return line.Indent + "• " + mb.renderSpans(line.Spans)
	default:
		return mb.renderSpans(line.Spans)
	}
}

func (mb *MessageBlock) renderSpans(spans []markup.Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		switch sp.Kind {
		case markup.SpanStrong:
			sb.WriteString(mb.styles.Strong.Render(sp.Text))
		case markup.SpanEmph:
			sb.WriteString(mb.styles.Emph.Render(sp.Text))
		case markup.SpanCode:
			sb.WriteString(mb.styles.Code.Render(sp.Text))
		default:
			sb.WriteString(sp.Text)
		}
	}
	return sb.String()
}
