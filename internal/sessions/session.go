// Package sessions provides transcript persistence for Stagehand runs.
package sessions

import (
	"time"

	"github.com/dohr-michael/stagehand/internal/chat"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// Session holds metadata about one blueprint run.
type Session struct {
	ID             string            `json:"id"`
	Blueprint      string            `json:"blueprint"`
	Title          string            `json:"title"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Status         SessionStatus     `json:"status"`
	MessageCount   int               `json:"message_count"`
	CompletedSteps int               `json:"completed_steps"`
	TotalSteps     int               `json:"total_steps"`
	Outcome        string            `json:"outcome,omitempty"`
	Answers        map[string]string `json:"answers,omitempty"`
}

// Message is a single transcript turn, serializable to JSONL.
type Message struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

// NewMessageFromChat converts a chat.Message to a transcript Message.
func NewMessageFromChat(msg chat.Message) Message {
	return Message{
		Sender:  string(msg.Sender),
		Content: msg.Content,
		Ts:      msg.Ts,
	}
}

// Store defines the persistence interface for sessions.
type Store interface {
	Create(blueprint, title string, totalSteps int) (*Session, error)
	Get(id string) (*Session, error)
	List() ([]*Session, error)
	UpdateMeta(s *Session) error
	Close(id string) error
	AppendMessage(sessionID string, msg Message) error
	LoadMessages(sessionID string) ([]Message, error)
}
