package tui

import (
	"encoding/json"

	"github.com/dohr-michael/stagehand/internal/events"
	ws "github.com/dohr-michael/stagehand/internal/gateway/ws"
)

// Progress is the step readout shown in the information panel.
// Current is the 1-based step the user is on, clamped to Total once the
// last step completes. Percentage counts completed steps only.
type Progress struct {
	Current    int
	Total      int
	Percentage int
}

// ProjectProgress converts step counters into the display projection.
func ProjectProgress(completed, total int) Progress {
	current := completed + 1
	if current > total {
		current = total
	}
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	return Progress{Current: current, Total: total, Percentage: pct}
}

// projectState extracts a chat state payload from a gateway event frame.
func projectState(frame ws.Frame) (events.ChatStatePayload, bool) {
	if frame.Event != string(events.EventChatState) {
		return events.ChatStatePayload{}, false
	}
	var p events.ChatStatePayload
	if err := json.Unmarshal(frame.Payload, &p); err != nil {
		return events.ChatStatePayload{}, false
	}
	return p, true
}
