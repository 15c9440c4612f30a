package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/stagehand/internal/chat"
)

// fakeSession is a minimal in-memory Session for driving the model directly.
type fakeSession struct {
	snap        chat.Snapshot
	replies     []chat.QuickReply
	actions     []string
	subscribers []func(chat.Snapshot)
}

func (f *fakeSession) State() chat.Snapshot            { return f.snap }
func (f *fakeSession) QuickReplies() []chat.QuickReply { return f.replies }

func (f *fakeSession) ProcessAction(_ context.Context, action string, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeSession) Subscribe(fn func(chat.Snapshot)) func() {
	f.subscribers = append(f.subscribers, fn)
	return func() {}
}

func snapshotOf(phase chat.Phase, completed, total int, contents ...string) chat.Snapshot {
	msgs := make([]chat.Message, len(contents))
	for i, c := range contents {
		msgs[i] = chat.Message{ID: "msg", Sender: chat.SenderAssistant, Content: c}
	}
	return chat.Snapshot{
		Phase:          phase,
		Messages:       msgs,
		CompletedSteps: completed,
		TotalSteps:     total,
	}
}

func TestCompletionCallbackFiresOnce(t *testing.T) {
	calls := 0
	m := NewMainModel(&fakeSession{}, "sess_test", func() { calls++ })

	// A completed snapshot schedules the delayed completion exactly once,
	// even when further snapshots arrive.
	done := snapshotOf(chat.PhaseComplete, 4, 4, "**Done.**")
	model, _ := m.applySnapshot(SnapshotMsg{Snapshot: done})
	model, _ = model.(MainModel).applySnapshot(SnapshotMsg{Snapshot: done})

	if !model.(MainModel).completionScheduled {
		t.Fatal("expected completion to be scheduled")
	}
	if calls != 0 {
		t.Fatal("completion callback must not run before the delay elapses")
	}

	model, _ = model.Update(completionMsg{})
	model, _ = model.Update(completionMsg{})
	_ = model

	if calls != 1 {
		t.Fatalf("completion callback ran %d times, want exactly 1", calls)
	}
}

func TestCompletionNotScheduledWhileInProgress(t *testing.T) {
	m := NewMainModel(&fakeSession{}, "sess_test", func() {
		t.Fatal("completion callback must not run for an in-progress session")
	})

	model, _ := m.applySnapshot(SnapshotMsg{Snapshot: snapshotOf(chat.PhaseInProgress, 2, 5, "hello")})

	if model.(MainModel).completionScheduled {
		t.Fatal("completion must not be scheduled before the terminal phase")
	}
}

func TestSnapshotReplacesWholesale(t *testing.T) {
	m := NewMainModel(&fakeSession{}, "sess_test", nil)

	first := snapshotOf(chat.PhaseInProgress, 0, 4, "one", "two", "three")
	model, _ := m.applySnapshot(SnapshotMsg{Snapshot: first})

	// A shorter transcript fully replaces the longer one; the progress
	// readout tracks the latest snapshot only.
	second := snapshotOf(chat.PhaseInProgress, 1, 4, "only")
	model, _ = model.(MainModel).applySnapshot(SnapshotMsg{Snapshot: second})

	mm := model.(MainModel)
	got := mm.info.Progress()
	if got.Current != 2 || got.Total != 4 || got.Percentage != 25 {
		t.Errorf("got progress %+v, want {Current:2 Total:4 Percentage:25}", got)
	}
}

func TestActionsAreForwarded(t *testing.T) {
	session := &fakeSession{}
	m := NewMainModel(session, "sess_test", nil)

	cmd := m.sendAction(chat.ActionFreeText, map[string]any{"text": "billing"})
	if msg := cmd(); msg != nil {
		t.Fatalf("expected no message for a successful send, got %T", msg)
	}

	if len(session.actions) != 1 || session.actions[0] != chat.ActionFreeText {
		t.Fatalf("got forwarded actions %v, want [%s]", session.actions, chat.ActionFreeText)
	}
}

func TestTeardownUnsubscribes(t *testing.T) {
	unsubscribed := false
	session := &fakeSession{}
	m := NewMainModel(session, "sess_test", nil)
	m.unsubscribe = func() { unsubscribed = true }

	model, cmd := m.teardown()
	if !unsubscribed {
		t.Fatal("teardown must release the subscription")
	}
	if cmd == nil {
		t.Fatal("teardown must quit the program")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected quit message, got %T", msg)
	}
	_ = model
}
