package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/stagehand/clients/tui/atoms"
	"github.com/dohr-michael/stagehand/clients/tui/molecules"
	"github.com/dohr-michael/stagehand/clients/tui/organisms"
	"github.com/dohr-michael/stagehand/internal/chat"
)

// completionDelay is how long the finished conversation stays on screen
// before the completion callback runs.
const completionDelay = 1200 * time.Millisecond

// Session is the surface the TUI needs from a chat session. A local
// chat.Service satisfies it directly; RemoteSession adapts the gateway.
type Session interface {
	State() chat.Snapshot
	QuickReplies() []chat.QuickReply
	ProcessAction(ctx context.Context, action string, payload map[string]any) error
	Subscribe(fn func(chat.Snapshot)) func()
}

// MainModel is the root bubbletea model. It mirrors exactly one session:
// every notification replaces the model's view of the conversation wholesale.
type MainModel struct {
	session     Session
	onComplete  func()
	snapshots   chan chat.Snapshot
	unsubscribe func()

	completionScheduled bool
	completionFired     bool

	mode   organisms.Mode
	width  int
	height int

	chat    organisms.SessionPanel
	input   molecules.ReplyInput
	replies molecules.QuickReplyBar
	stages  organisms.StagePanel
	info    organisms.InformationPanel
	gauge   atoms.Gauge
}

// NewMainModel creates the root model and subscribes to the session.
func NewMainModel(session Session, sessionID string, onComplete func()) MainModel {
	styles := organisms.SessionPanelStyles{
		Assistant: AssistantStyle,
		User:      UserStyle,
		Error:     ErrorStyle,
		Muted:     MutedStyle,
		Accent:    ColorAccent,
		Message: organisms.MessageStyles{
			Heading: HeadingStyle,
			Strong:  StrongStyle,
			Emph:    EmphStyle,
			Code:    CodeStyle,
		},
	}

	info := organisms.NewInformationPanel(StatusBarStyle)
	info.SetSession(sessionID)

	m := MainModel{
		session:    session,
		onComplete: onComplete,
		snapshots:  make(chan chat.Snapshot, 16),
		mode:       organisms.ModeNormal,
		chat:       organisms.NewSessionPanel(80, 20, styles),
		input:      molecules.NewReplyInput(),
		replies:    molecules.NewQuickReplyBar(ReplyStyle, ReplySelectedStyle),
		stages: organisms.NewStagePanel(organisms.StagePanelStyles{
			Active:  StageActiveStyle,
			Done:    StageDoneStyle,
			Pending: StagePendingStyle,
		}),
		info:  info,
		gauge: atoms.NewGauge(ColorAccent, ColorBorder),
	}

	snapshots := m.snapshots
	m.unsubscribe = session.Subscribe(func(snap chat.Snapshot) {
		select {
		case snapshots <- snap:
		default:
		}
	})

	return m
}

// WithBlueprint sets the blueprint name shown in the status bar.
func (m MainModel) WithBlueprint(name string) MainModel {
	m.info.SetBlueprint(name)
	return m
}

// Init seeds the initial snapshot and starts the snapshot pump.
func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.readSnapshot(),
		func() tea.Msg {
			return SnapshotMsg{Snapshot: m.session.State(), Replies: m.session.QuickReplies()}
		},
	)
}

// readSnapshot blocks on the subscription channel and converts the next
// notification into a tea.Msg.
func (m MainModel) readSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.snapshots
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap, Replies: m.session.QuickReplies()}
	}
}

// Update processes all incoming messages.
func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := m.height - 4 // replies(1) + input(1) + stages(1) + statusbar(1)
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		m.chat.SetSize(m.width, viewportHeight)
		m.input.SetWidth(m.width)
		m.stages.SetWidth(m.width)
		m.info.SetWidth(m.width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		return m.applySnapshot(msg)

	case completionMsg:
		if !m.completionFired {
			m.completionFired = true
			if m.onComplete != nil {
				m.onComplete()
			}
		}
		return m.teardown()

	case molecules.SubmitMsg:
		return m.handleSubmit(msg)

	case molecules.ReplyChosenMsg:
		return m, m.sendAction(msg.Action, nil)

	case sendErrorMsg:
		m.chat.AppendErrorMessage(fmt.Sprintf("send action: %v", msg.err))
		return m, nil

	case ConnectedMsg:
		m.info.SetConnected(true, nil)
		return m, nil

	case DisconnectedMsg:
		m.info.SetConnected(false, msg.Err)
		return m, nil
	}

	// Pass through to the session panel (spinner ticks, viewport).
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// applySnapshot replaces all session-derived state with the snapshot's
// content. Nothing from the previous snapshot survives.
func (m MainModel) applySnapshot(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	snap := msg.Snapshot

	m.chat.SetMessages(snap.Messages, snap.Processing)

	opts := make([]molecules.QuickReplyOption, len(msg.Replies))
	for i, r := range msg.Replies {
		opts[i] = molecules.QuickReplyOption{Action: r.Action, Label: r.Label}
	}
	m.replies.SetOptions(opts)

	progress := ProjectProgress(snap.CompletedSteps, snap.TotalSteps)
	m.info.SetProgress(organisms.ProgressInfo{
		Current:    progress.Current,
		Total:      progress.Total,
		Percentage: progress.Percentage,
	}, m.gauge.View(snap.CompletedSteps, snap.TotalSteps))

	m.mode = organisms.ModeNormal
	if snap.Processing {
		m.mode = organisms.ModeProcessing
	}
	m.input.SetEnabled(!snap.Processing)

	cmds := []tea.Cmd{m.readSnapshot()}

	if snap.Phase == chat.PhaseComplete {
		m.mode = organisms.ModeComplete
		m.input.SetEnabled(false)
		if !m.completionScheduled {
			m.completionScheduled = true
			cmds = append(cmds, tea.Tick(completionDelay, func(time.Time) tea.Msg {
				return completionMsg{}
			}))
		}
	}

	m.info.SetMode(m.mode)
	return m, tea.Batch(cmds...)
}

func (m MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.teardown()

	case tea.KeyPgUp:
		m.chat.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.chat.PageDown()
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		if m.replies.HasOptions() {
			var cmd tea.Cmd
			m.replies, cmd = m.replies.Update(msg)
			return m, cmd
		}

	case tea.KeyEnter:
		// Enter picks the highlighted quick reply unless the user typed text.
		if m.replies.HasOptions() && strings.TrimSpace(m.input.Value()) == "" {
			var cmd tea.Cmd
			m.replies, cmd = m.replies.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m MainModel) handleSubmit(msg molecules.SubmitMsg) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(msg.Content, "/") {
		return m.handleSlashCommand(msg.Content)
	}
	return m, m.sendAction(chat.ActionFreeText, map[string]any{"text": msg.Content})
}

func (m MainModel) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(cmd)

	switch parts[0] {
	case "/quit":
		return m.teardown()

	case "/session":
		m.chat.AppendSystemMessage(fmt.Sprintf("Session: %s", m.info.SessionID()))
		return m, nil

	case "/status":
		p := m.info.Progress()
		info := fmt.Sprintf("Session: %s\nBlueprint: %s\nStep: %d/%d (%d%%)",
			m.info.SessionID(), m.info.Blueprint(), p.Current, p.Total, p.Percentage)
		if !m.info.Connected() {
			info += fmt.Sprintf("\nConnection: disconnected (%v)", m.info.ConnErr())
		} else {
			info += "\nConnection: connected"
		}
		m.chat.AppendSystemMessage(info)
		return m, nil

	default:
		m.chat.AppendSystemMessage(fmt.Sprintf("Unknown command: %s", parts[0]))
		return m, nil
	}
}

// sendAction forwards a user action without waiting on the outcome. The
// service reports progress through snapshots; only transport errors surface.
func (m MainModel) sendAction(action string, payload map[string]any) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		if err := session.ProcessAction(context.Background(), action, payload); err != nil {
			return sendErrorMsg{err: err}
		}
		return nil
	}
}

// teardown unsubscribes from the session and quits. Any pending completion
// timer dies with the program.
func (m MainModel) teardown() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return m, tea.Quit
}

// View renders the full TUI layout.
func (m MainModel) View() string {
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		m.chat.View(), m.replies.View(), m.input.View(), m.stages.View(), m.info.View())
}
