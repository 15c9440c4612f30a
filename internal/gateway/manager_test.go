package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/chat"
	"github.com/dohr-michael/stagehand/internal/events"
	"github.com/dohr-michael/stagehand/internal/sessions"
)

func newTestManager(t *testing.T) (*Manager, *sessions.FileStore, *events.Bus) {
	t.Helper()
	bus := events.NewBus(64)
	t.Cleanup(func() { bus.Close() })

	store := sessions.NewFileStore(t.TempDir())
	return NewManager(blueprints.NewRegistry(), store, bus, time.Millisecond), store, bus
}

func TestManager_OpenUnknownBlueprint(t *testing.T) {
	m, _, _ := newTestManager(t)

	if _, _, err := m.Open("no-such-blueprint", nil); err == nil {
		t.Fatal("expected error for unknown blueprint")
	}
}

func TestManager_OpenCreatesSession(t *testing.T) {
	m, store, _ := newTestManager(t)

	id, snap, err := m.Open("starter", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if snap.Phase != chat.PhaseInProgress {
		t.Errorf("got phase %q, want %q", snap.Phase, chat.PhaseInProgress)
	}
	if snap.TotalSteps != 4 {
		t.Errorf("got %d total steps, want 4", snap.TotalSteps)
	}

	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Blueprint != "starter" {
		t.Errorf("got blueprint %q, want starter", sess.Blueprint)
	}
	if sess.Status != sessions.SessionActive {
		t.Errorf("got status %q, want active", sess.Status)
	}

	// The opening prompt is persisted immediately.
	msgs, err := store.LoadMessages(id)
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d persisted messages, want 1", len(msgs))
	}
}

func TestManager_StateAndQuickReplies(t *testing.T) {
	m, _, _ := newTestManager(t)

	id, _, err := m.Open("starter", map[string]string{"name": "billing"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	snap, err := m.State(id)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	// The name step is seeded, so the session starts on the target step.
	if snap.CompletedSteps != 1 {
		t.Errorf("got %d completed steps, want 1", snap.CompletedSteps)
	}

	replies, err := m.QuickReplies(id)
	if err != nil {
		t.Fatalf("quick replies: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("got %d quick replies, want 2", len(replies))
	}
	if replies[0].Action != "local" {
		t.Errorf("got first reply %q, want local", replies[0].Action)
	}
}

func TestManager_RunToCompletion(t *testing.T) {
	m, store, bus := newTestManager(t)

	id, _, err := m.Open("starter", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx := context.Background()
	steps := []struct {
		action  string
		payload map[string]any
	}{
		{chat.ActionFreeText, map[string]any{"text": "billing"}},
		{"container", nil},
		{"enable", nil},
		{"apply", nil},
	}
	for _, s := range steps {
		if err := m.ProcessAction(ctx, id, s.action, s.payload); err != nil {
			t.Fatalf("process %q: %v", s.action, err)
		}
	}

	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Status != sessions.SessionClosed {
		t.Errorf("got status %q, want closed", sess.Status)
	}
	if sess.Outcome != "complete" {
		t.Errorf("got outcome %q, want complete", sess.Outcome)
	}
	if sess.CompletedSteps != 4 {
		t.Errorf("got %d completed steps, want 4", sess.CompletedSteps)
	}
	if sess.Answers["name"] != "billing" {
		t.Errorf("got answers %v, want name=billing", sess.Answers)
	}

	// The live service is dropped once the run completes.
	if _, err := m.State(id); err == nil {
		t.Error("expected state lookup to fail after completion")
	}

	// run.completed and session.closed events land on the bus.
	var foundRun, foundClosed bool
	for i := 0; i < 200 && !(foundRun && foundClosed); i++ {
		foundRun, foundClosed = false, false
		for _, e := range bus.History(100) {
			if e.Type == events.EventRunCompleted && e.SessionID == id {
				foundRun = true
			}
			if e.Type == events.EventSessionClosed && e.SessionID == id {
				payload, ok := events.GetSessionClosedPayload(e)
				if ok && payload.Outcome == "complete" {
					foundClosed = true
				}
			}
		}
		if !foundRun || !foundClosed {
			time.Sleep(time.Millisecond)
		}
	}
	if !foundRun {
		t.Error("expected run.completed event on the bus")
	}
	if !foundClosed {
		t.Error("expected session.closed event on the bus")
	}
}

func TestManager_CloseMarksAbandoned(t *testing.T) {
	m, store, bus := newTestManager(t)

	id, _, err := m.Open("starter", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	m.Close()

	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Status != sessions.SessionClosed {
		t.Errorf("got status %q, want closed", sess.Status)
	}
	if sess.Outcome != "abandoned" {
		t.Errorf("got outcome %q, want abandoned", sess.Outcome)
	}

	var foundClosed bool
	for i := 0; i < 200 && !foundClosed; i++ {
		for _, e := range bus.History(100) {
			if e.Type == events.EventSessionClosed && e.SessionID == id {
				payload, ok := events.GetSessionClosedPayload(e)
				if ok && payload.Outcome == "abandoned" {
					foundClosed = true
				}
			}
		}
		if !foundClosed {
			time.Sleep(time.Millisecond)
		}
	}
	if !foundClosed {
		t.Error("expected session.closed event with abandoned outcome")
	}
}
