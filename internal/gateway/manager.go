package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/chat"
	"github.com/dohr-michael/stagehand/internal/events"
	"github.com/dohr-michael/stagehand/internal/sessions"
)

// Manager owns the live chat services behind the gateway, one per open
// session. It persists transcripts to the session store as they grow and
// closes out the session record when a run completes.
type Manager struct {
	mu        sync.Mutex
	registry  *blueprints.Registry
	store     sessions.Store
	bus       *events.Bus
	workDelay time.Duration
	live      map[string]*liveSession
}

type liveSession struct {
	svc         *chat.Service
	persisted   int
	unsubscribe func()
}

// NewManager creates a session manager backed by the given blueprint
// registry and session store.
func NewManager(registry *blueprints.Registry, store sessions.Store, bus *events.Bus, workDelay time.Duration) *Manager {
	return &Manager{
		registry:  registry,
		store:     store,
		bus:       bus,
		workDelay: workDelay,
		live:      make(map[string]*liveSession),
	}
}

// Open creates a session for the named blueprint and returns its initial state.
func (m *Manager) Open(blueprintID string, seed map[string]string) (string, chat.Snapshot, error) {
	bp, err := m.registry.Get(blueprintID)
	if err != nil {
		return "", chat.Snapshot{}, err
	}

	sess, err := m.store.Create(bp.ID, bp.Title, len(bp.Steps))
	if err != nil {
		return "", chat.Snapshot{}, fmt.Errorf("create session: %w", err)
	}

	svc := chat.NewService(bp, seed,
		chat.WithBus(m.bus),
		chat.WithSessionID(sess.ID),
		chat.WithWorkDelay(m.workDelay),
	)

	ls := &liveSession{svc: svc}
	ls.unsubscribe = svc.Subscribe(func(snap chat.Snapshot) {
		m.persist(sess.ID, ls, snap)
	})

	m.mu.Lock()
	m.live[sess.ID] = ls
	m.mu.Unlock()

	// Persist the opening prompt(s).
	m.persist(sess.ID, ls, svc.State())

	m.bus.Publish(events.NewTypedEventWithSession(events.SourceHub, events.SessionCreatedPayload{
		SessionID: sess.ID,
		Blueprint: bp.ID,
	}, sess.ID))

	slog.Info("session opened", "session", sess.ID, "blueprint", bp.ID)
	return sess.ID, svc.State(), nil
}

// Get returns the live service for a session.
func (m *Manager) Get(sessionID string) (*chat.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.live[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return ls.svc, nil
}

// State returns the current snapshot of a session.
func (m *Manager) State(sessionID string) (chat.Snapshot, error) {
	svc, err := m.Get(sessionID)
	if err != nil {
		return chat.Snapshot{}, err
	}
	return svc.State(), nil
}

// QuickReplies returns the reply options for the session's current step.
func (m *Manager) QuickReplies(sessionID string) ([]chat.QuickReply, error) {
	svc, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return svc.QuickReplies(), nil
}

// ProcessAction forwards a user action to the session's chat service.
func (m *Manager) ProcessAction(ctx context.Context, sessionID, action string, payload map[string]any) error {
	svc, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	ctx = events.ContextWithSessionID(ctx, sessionID)
	return svc.ProcessAction(ctx, action, payload)
}

// persist mirrors new transcript messages and progress into the store.
func (m *Manager) persist(sessionID string, ls *liveSession, snap chat.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range snap.Messages[ls.persisted:] {
		if err := m.store.AppendMessage(sessionID, sessions.NewMessageFromChat(msg)); err != nil {
			slog.Error("persist message", "session", sessionID, "error", err)
		}
	}
	ls.persisted = len(snap.Messages)

	sess, err := m.store.Get(sessionID)
	if err != nil {
		slog.Error("load session meta", "session", sessionID, "error", err)
		return
	}
	sess.CompletedSteps = snap.CompletedSteps
	sess.MessageCount = len(snap.Messages)
	if snap.Phase == chat.PhaseComplete && sess.Status == sessions.SessionActive {
		sess.Status = sessions.SessionClosed
		sess.Outcome = "complete"
		sess.Answers = ls.svc.Answers()
		m.finishLocked(sessionID, ls, snap)
	}
	if err := m.store.UpdateMeta(sess); err != nil {
		slog.Error("update session meta", "session", sessionID, "error", err)
	}
}

// finishLocked publishes the run completion and drops the live service.
func (m *Manager) finishLocked(sessionID string, ls *liveSession, snap chat.Snapshot) {
	if ls.unsubscribe != nil {
		defer ls.unsubscribe()
	}
	delete(m.live, sessionID)

	m.bus.Publish(events.NewTypedEventWithSession(events.SourceHub, events.RunCompletedPayload{
		SessionID: sessionID,
		Blueprint: ls.svc.Blueprint().ID,
		Steps:     snap.TotalSteps,
		Duration:  time.Since(ls.svc.StartedAt()),
		Outcome:   "complete",
	}, sessionID))
	m.bus.Publish(events.NewTypedEventWithSession(events.SourceHub, events.SessionClosedPayload{
		SessionID: sessionID,
		Outcome:   "complete",
	}, sessionID))

	slog.Info("session completed", "session", sessionID, "steps", snap.TotalSteps)
}

// Close tears down all live sessions, marking unfinished ones abandoned.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ls := range m.live {
		if ls.unsubscribe != nil {
			ls.unsubscribe()
		}
		delete(m.live, id)

		sess, err := m.store.Get(id)
		if err != nil {
			continue
		}
		sess.Status = sessions.SessionClosed
		if sess.Outcome == "" {
			sess.Outcome = "abandoned"
		}
		sess.Answers = ls.svc.Answers()
		if err := m.store.UpdateMeta(sess); err != nil {
			slog.Error("close session meta", "session", id, "error", err)
		}
		m.bus.Publish(events.NewTypedEventWithSession(events.SourceHub, events.SessionClosedPayload{
			SessionID: id,
			Outcome:   sess.Outcome,
		}, id))
	}
}
