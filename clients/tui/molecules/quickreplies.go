package molecules

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReplyChosenMsg is sent when the user picks a quick reply.
type ReplyChosenMsg struct {
	Action string
	Label  string
}

// QuickReplyOption is one selectable chip.
type QuickReplyOption struct {
	Action string
	Label  string
}

// QuickReplyBar renders a row of selectable reply chips. Tab moves the
// selection, Enter confirms. The bar is inert while no options are set.
type QuickReplyBar struct {
	options  []QuickReplyOption
	selected int
	normal   lipgloss.Style
	active   lipgloss.Style
}

// NewQuickReplyBar creates an empty reply bar.
func NewQuickReplyBar(normal, active lipgloss.Style) QuickReplyBar {
	return QuickReplyBar{
		normal: normal,
		active: active,
	}
}

// SetOptions replaces the chips and resets the selection.
func (b *QuickReplyBar) SetOptions(opts []QuickReplyOption) {
	b.options = opts
	b.selected = 0
}

// HasOptions reports whether any chip is shown.
func (b *QuickReplyBar) HasOptions() bool {
	return len(b.options) > 0
}

// Update handles selection keys. Returns a ReplyChosenMsg command on Enter.
func (b QuickReplyBar) Update(msg tea.Msg) (QuickReplyBar, tea.Cmd) {
	if len(b.options) == 0 {
		return b, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch keyMsg.Type {
	case tea.KeyTab, tea.KeyRight:
		b.selected = (b.selected + 1) % len(b.options)
	case tea.KeyShiftTab, tea.KeyLeft:
		b.selected = (b.selected - 1 + len(b.options)) % len(b.options)
	case tea.KeyEnter:
		opt := b.options[b.selected]
		return b, func() tea.Msg {
			return ReplyChosenMsg{Action: opt.Action, Label: opt.Label}
		}
	}
	return b, nil
}

// View renders the chip row.
func (b QuickReplyBar) View() string {
	if len(b.options) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, opt := range b.options {
		if i > 0 {
			sb.WriteString(" ")
		}
		style := b.normal
		if i == b.selected {
			style = b.active
		}
		sb.WriteString(style.Render(opt.Label))
	}
	return sb.String()
}
