package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/events"
)

var (
	ErrSessionComplete = errors.New("chat session is complete")
	ErrBusy            = errors.New("chat service is processing an action")
	ErrUnknownAction   = errors.New("unknown action for current step")
	ErrEmptyReply      = errors.New("empty reply")
)

// Service walks one blueprint run. It is exclusively owned by a single
// client for its lifetime; all exported methods are safe for concurrent use.
type Service struct {
	mu          sync.Mutex
	bp          *blueprints.Blueprint
	sessionID   string
	bus         *events.Bus
	workDelay   time.Duration
	answers     map[string]string
	phase       Phase
	messages    []Message
	completed   int
	processing  bool
	startedAt   time.Time
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// Option configures a Service.
type Option func(*Service)

// WithBus publishes chat.state and chat.message events to the given bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithWorkDelay sets the simulated processing pause per action. Tests use 0.
func WithWorkDelay(d time.Duration) Option {
	return func(s *Service) { s.workDelay = d }
}

// WithSessionID tags published events with a session ID.
func WithSessionID(id string) Option {
	return func(s *Service) { s.sessionID = id }
}

// NewService creates a service for one blueprint run. Seed holds
// wizard-collected answers keyed by step ID; seeded steps are counted as
// already completed and their prompts are skipped.
func NewService(bp *blueprints.Blueprint, seed map[string]string, opts ...Option) *Service {
	s := &Service{
		bp:          bp,
		answers:     make(map[string]string, len(seed)),
		phase:       PhaseInProgress,
		startedAt:   time.Now(),
		workDelay:   400 * time.Millisecond,
		subscribers: make(map[int]func(Snapshot)),
	}
	for k, v := range seed {
		s.answers[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}

	s.skipSeededLocked()
	if s.completed >= len(bp.Steps) {
		s.finishLocked()
	} else {
		s.appendLocked(SenderAssistant, bp.Steps[s.completed].Prompt)
	}
	return s
}

// State returns a copy of the current snapshot.
func (s *Service) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a state-change callback and returns an unsubscribe
// function. Callbacks run on the goroutine that triggered the change.
func (s *Service) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// QuickReplies returns the predefined options for the current step, or nil
// when the session is complete or the step accepts free text.
func (s *Service) QuickReplies() []QuickReply {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseComplete {
		return nil
	}
	step, ok := s.bp.Step(s.completed)
	if !ok {
		return nil
	}
	out := make([]QuickReply, 0, len(step.Replies))
	for _, r := range step.Replies {
		out = append(out, QuickReply{Action: r.Action, Label: r.Label})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ProcessAction applies one user action to the current step. It blocks for
// the configured work delay (or until ctx is cancelled) and notifies
// subscribers on every state change.
func (s *Service) ProcessAction(ctx context.Context, action string, payload map[string]any) error {
	s.mu.Lock()
	// An untagged service adopts the caller's session ID so published
	// events stay attributable.
	if s.sessionID == "" {
		s.sessionID = events.SessionIDFromContext(ctx)
	}
	if s.phase == PhaseComplete {
		s.mu.Unlock()
		return ErrSessionComplete
	}
	if s.processing {
		s.mu.Unlock()
		return ErrBusy
	}

	step, ok := s.bp.Step(s.completed)
	if !ok {
		s.mu.Unlock()
		return ErrSessionComplete
	}

	value, label, err := resolveAction(step, action, payload)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.appendLocked(SenderUser, label)
	s.processing = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	if s.bus != nil {
		s.bus.Publish(events.NewTypedEventWithSession(events.SourceService, events.ChatActionPayload{
			Action:  action,
			Payload: payload,
		}, s.sessionID))
	}

	if s.workDelay > 0 {
		select {
		case <-time.After(s.workDelay):
		case <-ctx.Done():
			s.mu.Lock()
			s.processing = false
			snap = s.snapshotLocked()
			s.mu.Unlock()
			s.notify(snap)
			return ctx.Err()
		}
	}

	s.mu.Lock()
	s.answers[step.ID] = value
	s.completed++
	s.skipSeededLocked()
	if s.completed >= len(s.bp.Steps) {
		s.finishLocked()
	} else {
		s.appendLocked(SenderAssistant, s.bp.Steps[s.completed].Prompt)
	}
	s.processing = false
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	return nil
}

// Answers returns a copy of the collected step answers.
func (s *Service) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// SessionID returns the configured session ID, or "".
func (s *Service) SessionID() string { return s.sessionID }

// Blueprint returns the blueprint this service runs.
func (s *Service) Blueprint() *blueprints.Blueprint { return s.bp }

// StartedAt returns when the run began.
func (s *Service) StartedAt() time.Time { return s.startedAt }

// resolveAction maps an incoming action to the recorded answer value and the
// transcript label. Steps without replies accept only free text.
func resolveAction(step blueprints.Step, action string, payload map[string]any) (value, label string, err error) {
	if len(step.Replies) == 0 {
		if action != ActionFreeText {
			return "", "", fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}
		text, _ := payload["text"].(string)
		if text == "" {
			return "", "", ErrEmptyReply
		}
		return text, text, nil
	}

	for _, r := range step.Replies {
		if r.Action == action {
			return r.Action, r.Label, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

// skipSeededLocked advances past steps whose answers were collected up front.
func (s *Service) skipSeededLocked() {
	for s.completed < len(s.bp.Steps) {
		step := s.bp.Steps[s.completed]
		if _, ok := s.answers[step.ID]; !ok {
			return
		}
		s.completed++
	}
}

func (s *Service) finishLocked() {
	s.phase = PhaseComplete
	if s.bp.Closing != "" {
		s.appendLocked(SenderAssistant, s.bp.Closing)
	}
}

func (s *Service) appendLocked(sender Sender, content string) {
	msg := Message{
		ID:      newMessageID(),
		Sender:  sender,
		Content: content,
		Ts:      time.Now(),
	}
	s.messages = append(s.messages, msg)

	if s.bus != nil {
		s.bus.Publish(events.NewTypedEventWithSession(events.SourceService, events.ChatMessagePayload{
			MessageID: msg.ID,
			Sender:    string(msg.Sender),
			Content:   msg.Content,
		}, s.sessionID))
	}
}

func (s *Service) snapshotLocked() Snapshot {
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		Phase:          s.phase,
		Messages:       msgs,
		CompletedSteps: s.completed,
		TotalSteps:     len(s.bp.Steps),
		Processing:     s.processing,
	}
}

// notify invokes subscribers with the snapshot, and mirrors it to the bus.
func (s *Service) notify(snap Snapshot) {
	s.mu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}

	if s.bus != nil {
		s.bus.Publish(events.NewTypedEventWithSession(events.SourceService, events.ChatStatePayload{
			Phase:          string(snap.Phase),
			CompletedSteps: snap.CompletedSteps,
			TotalSteps:     snap.TotalSteps,
			Processing:     snap.Processing,
			MessageCount:   len(snap.Messages),
		}, s.sessionID))
	}
}
