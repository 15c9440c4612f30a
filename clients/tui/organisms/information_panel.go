package organisms

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ProgressInfo is the step readout shown in the status bar.
type ProgressInfo struct {
	Current    int
	Total      int
	Percentage int
}

// InformationPanel displays the status bar with session, blueprint, progress,
// connection, and mode.
type InformationPanel struct {
	sessionID string
	blueprint string
	progress  ProgressInfo
	gauge     string
	connected bool
	connErr   error
	mode      Mode
	width     int
	style     lipgloss.Style
}

// NewInformationPanel creates a new status bar panel.
func NewInformationPanel(style lipgloss.Style) InformationPanel {
	return InformationPanel{
		style:     style,
		connected: true,
	}
}

// Setters

// SetSession updates the session ID.
func (p *InformationPanel) SetSession(id string) { p.sessionID = id }

// SetBlueprint updates the blueprint name.
func (p *InformationPanel) SetBlueprint(name string) { p.blueprint = name }

// SetProgress updates the step readout and its gauge rendering.
func (p *InformationPanel) SetProgress(progress ProgressInfo, gauge string) {
	p.progress = progress
	p.gauge = gauge
}

// SetConnected updates the connection state.
func (p *InformationPanel) SetConnected(connected bool, err error) {
	p.connected = connected
	p.connErr = err
}

// SetMode updates the displayed interaction mode.
func (p *InformationPanel) SetMode(mode Mode) { p.mode = mode }

// SetWidth updates the rendering width.
func (p *InformationPanel) SetWidth(w int) { p.width = w }

// Getters

// SessionID returns the session ID.
func (p *InformationPanel) SessionID() string { return p.sessionID }

// Blueprint returns the blueprint name.
func (p *InformationPanel) Blueprint() string { return p.blueprint }

// Progress returns the current step readout.
func (p *InformationPanel) Progress() ProgressInfo { return p.progress }

// Connected returns whether the WS is connected.
func (p *InformationPanel) Connected() bool { return p.connected }

// ConnErr returns the last connection error.
func (p *InformationPanel) ConnErr() error { return p.connErr }

// View renders the status bar.
func (p InformationPanel) View() string {
	sid := p.sessionID
	if len(sid) > 13 {
		sid = sid[:13]
	}

	connStatus := "connected"
	if !p.connected {
		connStatus = "disconnected"
	}

	modeStr := ""
	switch p.mode {
	case ModeProcessing:
		modeStr = " | working"
	case ModeComplete:
		modeStr = " | done"
	}

	progressStr := ""
	if p.progress.Total > 0 {
		progressStr = fmt.Sprintf(" | step %d/%d %s %d%%",
			p.progress.Current, p.progress.Total, p.gauge, p.progress.Percentage)
	}

	bpStr := ""
	if p.blueprint != "" {
		bpStr = " | " + p.blueprint
	}

	bar := fmt.Sprintf(" sess:%s%s%s%s | %s ", sid, bpStr, progressStr, modeStr, connStatus)
	return p.style.Width(p.width).Render(bar)
}
