// Package chat implements the scripted chat service that drives a blueprint
// run. It owns the conversation state; clients consume snapshots through a
// subscription and forward user actions back.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle phase of a chat session.
type Phase string

const (
	PhaseInProgress Phase = "in-progress"
	PhaseComplete   Phase = "complete"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Message is a single chat message.
type Message struct {
	ID      string    `json:"id"`
	Sender  Sender    `json:"sender"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

// Snapshot is an immutable point-in-time copy of session state. Holders
// replace it wholesale on each update; counts satisfy
// 0 <= CompletedSteps <= TotalSteps.
type Snapshot struct {
	Phase          Phase     `json:"phase"`
	Messages       []Message `json:"messages"`
	CompletedSteps int       `json:"completed_steps"`
	TotalSteps     int       `json:"total_steps"`
	Processing     bool      `json:"processing"`
}

// QuickReply is a predefined selectable response option surfaced alongside
// the current prompt.
type QuickReply struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

// ActionFreeText is the action name for free-text replies on steps that
// define no quick replies.
const ActionFreeText = "reply"

func newMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.New().String()[:8], "-", "")
}
