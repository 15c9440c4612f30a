package organisms

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/stagehand/clients/tui/atoms"
	"github.com/dohr-michael/stagehand/internal/chat"
)

// SessionPanelStyles contains the styles injected into the SessionPanel.
type SessionPanelStyles struct {
	Assistant lipgloss.Style
	User      lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.AdaptiveColor
	Message   MessageStyles
}

// SessionPanel shows the conversation. It holds no conversation state of its
// own: every snapshot replaces the full transcript, so the panel can never
// drift from the chat service.
type SessionPanel struct {
	viewport   OutputViewport
	spinner    atoms.Spinner
	caret      atoms.Caret
	processing bool
	transcript []ContentBlock
	extras     []ContentBlock // local system/error lines, kept across snapshots
	width      int
	styles     SessionPanelStyles
}

// NewSessionPanel creates a new conversation panel.
func NewSessionPanel(width, height int, styles SessionPanelStyles) SessionPanel {
	return SessionPanel{
		viewport: NewOutputViewport(width, height),
		spinner:  atoms.NewSpinner(styles.Accent),
		caret:    atoms.NewCaret(styles.Accent),
		width:    width,
		styles:   styles,
	}
}

// Init starts the spinner and caret animations.
func (p SessionPanel) Init() tea.Cmd {
	return tea.Batch(p.spinner.Init(), atoms.BlinkCmd())
}

// SetMessages replaces the whole transcript from a snapshot.
func (p *SessionPanel) SetMessages(msgs []chat.Message, processing bool) {
	blocks := make([]ContentBlock, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, p.messageBlock(msg))
	}
	p.transcript = blocks
	p.processing = processing
	p.rebuild()
}

func (p *SessionPanel) messageBlock(msg chat.Message) *MessageBlock {
	switch msg.Sender {
	case chat.SenderUser:
		return NewMessageBlock("You", p.styles.User, msg.Content, p.styles.Message)
	case chat.SenderSystem:
		return NewMessageBlock("System", p.styles.Muted, msg.Content, p.styles.Message)
	default:
		return NewMessageBlock("Stagehand", p.styles.Assistant, msg.Content, p.styles.Message)
	}
}

// AppendErrorMessage adds a local error line below the transcript.
func (p *SessionPanel) AppendErrorMessage(content string) {
	p.extras = append(p.extras, NewMessageBlock("Error", p.styles.Error, content, p.styles.Message))
	p.rebuild()
}

// AppendSystemMessage adds a local system line below the transcript.
func (p *SessionPanel) AppendSystemMessage(content string) {
	p.extras = append(p.extras, NewMessageBlock("System", p.styles.Muted, content, p.styles.Message))
	p.rebuild()
}

// ClearExtras drops the local lines.
func (p *SessionPanel) ClearExtras() {
	p.extras = nil
	p.rebuild()
}

func (p *SessionPanel) rebuild() {
	blocks := make([]ContentBlock, 0, len(p.transcript)+len(p.extras)+1)
	blocks = append(blocks, p.transcript...)
	blocks = append(blocks, p.extras...)
	if p.processing {
		blocks = append(blocks, &workingBlock{spinner: &p.spinner, caret: &p.caret, label: p.styles.Assistant})
	}
	p.viewport.SetBlocks(blocks)
}

// PageUp scrolls up by one page.
func (p *SessionPanel) PageUp() { p.viewport.PageUp() }

// PageDown scrolls down by one page.
func (p *SessionPanel) PageDown() { p.viewport.PageDown() }

// SetSize updates the viewport dimensions.
func (p *SessionPanel) SetSize(w, h int) {
	p.width = w
	p.viewport.SetSize(w, h)
}

// Update handles spinner ticks, caret blinks, and viewport passthrough.
func (p SessionPanel) Update(msg tea.Msg) (SessionPanel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if p.processing {
			p.rebuild()
		}
	case atoms.CaretBlinkMsg:
		var cmd tea.Cmd
		p.caret, cmd = p.caret.Update(msg)
		cmds = append(cmds, cmd)
		if p.processing {
			p.rebuild()
		}
	}

	var vpCmd tea.Cmd
	p.viewport, vpCmd = p.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return p, tea.Batch(cmds...)
}

// View renders the conversation viewport.
func (p SessionPanel) View() string {
	return p.viewport.View()
}

// workingBlock is the transient typing indicator shown while an action is
// applied.
type workingBlock struct {
	spinner *atoms.Spinner
	caret   *atoms.Caret
	label   lipgloss.Style
}

func (wb *workingBlock) IsComplete() bool { return false }

func (wb *workingBlock) View() string {
	return atoms.StyledLabel("Stagehand", wb.label) + " " + wb.spinner.View() + " " + wb.caret.View()
}
