package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// CHAT SERVICE EVENTS
// =============================================================================

// ChatStatePayload mirrors a chat state snapshot for transport. The full
// message list travels separately as chat.message events; the state event
// carries only the counters the panels need.
type ChatStatePayload struct {
	Phase          string `json:"phase"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
	Processing     bool   `json:"processing"`
	MessageCount   int    `json:"message_count"`
}

func (ChatStatePayload) EventType() EventType { return EventChatState }

type ChatMessagePayload struct {
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
}

func (ChatMessagePayload) EventType() EventType { return EventChatMessage }

type ChatActionPayload struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (ChatActionPayload) EventType() EventType { return EventChatAction }

// =============================================================================
// SESSION EVENTS
// =============================================================================

type SessionCreatedPayload struct {
	SessionID string `json:"session_id"`
	Blueprint string `json:"blueprint"`
}

func (SessionCreatedPayload) EventType() EventType { return EventSessionCreated }

type SessionClosedPayload struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
}

func (SessionClosedPayload) EventType() EventType { return EventSessionClosed }

// =============================================================================
// RUN EVENTS
// =============================================================================

type RunCompletedPayload struct {
	SessionID string        `json:"session_id"`
	Blueprint string        `json:"blueprint"`
	Steps     int           `json:"steps"`
	Duration  time.Duration `json:"duration"`
	Outcome   string        `json:"outcome"`
}

func (RunCompletedPayload) EventType() EventType { return EventRunCompleted }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func NewTypedEventWithSession(source EventSource, payload EventPayload, sessionID string) Event {
	return Event{
		ID:        generateEventID(),
		SessionID: sessionID,
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

func GetChatStatePayload(e Event) (ChatStatePayload, bool) {
	return ExtractPayload[ChatStatePayload](e)
}

func GetChatMessagePayload(e Event) (ChatMessagePayload, bool) {
	return ExtractPayload[ChatMessagePayload](e)
}

func GetChatActionPayload(e Event) (ChatActionPayload, bool) {
	return ExtractPayload[ChatActionPayload](e)
}

func GetSessionCreatedPayload(e Event) (SessionCreatedPayload, bool) {
	return ExtractPayload[SessionCreatedPayload](e)
}

func GetSessionClosedPayload(e Event) (SessionClosedPayload, bool) {
	return ExtractPayload[SessionClosedPayload](e)
}

func GetRunCompletedPayload(e Event) (RunCompletedPayload, bool) {
	return ExtractPayload[RunCompletedPayload](e)
}
