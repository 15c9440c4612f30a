package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/events"
)

func testBlueprint() *blueprints.Blueprint {
	return &blueprints.Blueprint{
		ID:    "test",
		Title: "Test",
		Steps: []blueprints.Step{
			{ID: "name", Prompt: "Pick a name"},
			{ID: "target", Prompt: "Pick a target", Replies: []blueprints.Reply{
				{Action: "local", Label: "Local"},
				{Action: "container", Label: "Container"},
			}},
			{ID: "review", Prompt: "Apply?", Replies: []blueprints.Reply{
				{Action: "apply", Label: "Apply"},
			}},
		},
		Closing: "**Done.**",
	}
}

func newTestService(opts ...Option) *Service {
	return NewService(testBlueprint(), nil, append([]Option{WithWorkDelay(0)}, opts...)...)
}

func TestInitialState(t *testing.T) {
	svc := newTestService()
	snap := svc.State()

	if snap.Phase != PhaseInProgress {
		t.Errorf("expected in-progress, got %s", snap.Phase)
	}
	if snap.CompletedSteps != 0 || snap.TotalSteps != 3 {
		t.Errorf("expected 0/3 steps, got %d/%d", snap.CompletedSteps, snap.TotalSteps)
	}
	if len(snap.Messages) != 1 || snap.Messages[0].Sender != SenderAssistant {
		t.Fatalf("expected single assistant prompt, got %+v", snap.Messages)
	}
	if snap.Processing {
		t.Error("expected not processing")
	}
}

func TestProcessActionAdvances(t *testing.T) {
	svc := newTestService()

	if err := svc.ProcessAction(context.Background(), ActionFreeText, map[string]any{"text": "billing"}); err != nil {
		t.Fatal(err)
	}

	snap := svc.State()
	if snap.CompletedSteps != 1 {
		t.Errorf("expected 1 completed step, got %d", snap.CompletedSteps)
	}
	// prompt, user reply, next prompt
	if len(snap.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(snap.Messages))
	}
	if snap.Messages[1].Sender != SenderUser || snap.Messages[1].Content != "billing" {
		t.Errorf("unexpected user message: %+v", snap.Messages[1])
	}
	if svc.Answers()["name"] != "billing" {
		t.Errorf("expected answer recorded, got %v", svc.Answers())
	}
}

func TestProcessActionQuickReply(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.ProcessAction(ctx, ActionFreeText, map[string]any{"text": "billing"}); err != nil {
		t.Fatal(err)
	}

	replies := svc.QuickReplies()
	if len(replies) != 2 || replies[0].Action != "local" {
		t.Fatalf("unexpected quick replies: %+v", replies)
	}

	if err := svc.ProcessAction(ctx, "container", nil); err != nil {
		t.Fatal(err)
	}
	if svc.Answers()["target"] != "container" {
		t.Errorf("expected target answer, got %v", svc.Answers())
	}

	// The transcript shows the reply label, not the action name.
	snap := svc.State()
	if snap.Messages[3].Content != "Container" {
		t.Errorf("expected label in transcript, got %q", snap.Messages[3].Content)
	}
}

func TestProcessActionErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.ProcessAction(ctx, "bogus", nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction for free-text step, got %v", err)
	}
	if err := svc.ProcessAction(ctx, ActionFreeText, nil); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}

	if err := svc.ProcessAction(ctx, ActionFreeText, map[string]any{"text": "x"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ProcessAction(ctx, "nope", nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction for reply step, got %v", err)
	}
}

func TestRunToCompletion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.ProcessAction(ctx, ActionFreeText, map[string]any{"text": "billing"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ProcessAction(ctx, "local", nil); err != nil {
		t.Fatal(err)
	}
	if err := svc.ProcessAction(ctx, "apply", nil); err != nil {
		t.Fatal(err)
	}

	snap := svc.State()
	if snap.Phase != PhaseComplete {
		t.Fatalf("expected complete, got %s", snap.Phase)
	}
	if snap.CompletedSteps != snap.TotalSteps {
		t.Errorf("expected all steps complete, got %d/%d", snap.CompletedSteps, snap.TotalSteps)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if last.Sender != SenderAssistant || last.Content != "**Done.**" {
		t.Errorf("expected closing message, got %+v", last)
	}
	if svc.QuickReplies() != nil {
		t.Error("expected no quick replies after completion")
	}

	if err := svc.ProcessAction(ctx, "apply", nil); !errors.Is(err, ErrSessionComplete) {
		t.Errorf("expected ErrSessionComplete, got %v", err)
	}
}

func TestSeededStepsAreSkipped(t *testing.T) {
	svc := NewService(testBlueprint(), map[string]string{"name": "billing"}, WithWorkDelay(0))

	snap := svc.State()
	if snap.CompletedSteps != 1 {
		t.Errorf("expected seeded step counted complete, got %d", snap.CompletedSteps)
	}
	replies := svc.QuickReplies()
	if len(replies) != 2 {
		t.Fatalf("expected the target step to be current, got replies %+v", replies)
	}
}

func TestSubscribeReplacesSnapshotWholesale(t *testing.T) {
	svc := newTestService()

	var last Snapshot
	calls := 0
	unsubscribe := svc.Subscribe(func(s Snapshot) {
		last = s
		calls++
	})

	if err := svc.ProcessAction(context.Background(), ActionFreeText, map[string]any{"text": "x"}); err != nil {
		t.Fatal(err)
	}

	// One notification while processing, one when settled.
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	if last.Processing {
		t.Error("final snapshot should not be processing")
	}
	if last.CompletedSteps != 1 {
		t.Errorf("expected replaced snapshot with 1 completed step, got %d", last.CompletedSteps)
	}

	unsubscribe()
	if err := svc.ProcessAction(context.Background(), "local", nil); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected no notifications after unsubscribe, got %d", calls)
	}
}

func TestProcessingFlagDuringWork(t *testing.T) {
	svc := NewService(testBlueprint(), nil, WithWorkDelay(50*time.Millisecond))

	seen := make(chan bool, 4)
	svc.Subscribe(func(s Snapshot) { seen <- s.Processing })

	done := make(chan error, 1)
	go func() {
		done <- svc.ProcessAction(context.Background(), ActionFreeText, map[string]any{"text": "x"})
	}()

	if processing := <-seen; !processing {
		t.Error("expected first notification to show processing")
	}
	if processing := <-seen; processing {
		t.Error("expected final notification to show settled state")
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestProcessActionCancelled(t *testing.T) {
	svc := NewService(testBlueprint(), nil, WithWorkDelay(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.ProcessAction(ctx, ActionFreeText, map[string]any{"text": "x"})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	snap := svc.State()
	if snap.Processing {
		t.Error("expected processing cleared after cancellation")
	}
	if snap.CompletedSteps != 0 {
		t.Errorf("expected cancelled action not to advance, got %d", snap.CompletedSteps)
	}
}

func TestBusEventsPublished(t *testing.T) {
	bus := events.NewBus(64)
	defer bus.Close()

	ch, cancel := bus.SubscribeChan(16, events.EventChatState)
	defer cancel()

	svc := NewService(testBlueprint(), nil, WithWorkDelay(0), WithBus(bus), WithSessionID("sess_t"))
	if err := svc.ProcessAction(context.Background(), ActionFreeText, map[string]any{"text": "x"}); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-ch:
		if e.SessionID != "sess_t" {
			t.Errorf("expected session id on event, got %q", e.SessionID)
		}
		payload, ok := events.GetChatStatePayload(e)
		if !ok || payload.TotalSteps != 3 {
			t.Errorf("unexpected payload: %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chat.state event")
	}
}

func TestSessionIDAdoptedFromContext(t *testing.T) {
	bus := events.NewBus(64)
	defer bus.Close()

	ch, cancel := bus.SubscribeChan(16, events.EventChatState)
	defer cancel()

	svc := NewService(testBlueprint(), nil, WithWorkDelay(0), WithBus(bus))
	ctx := events.ContextWithSessionID(context.Background(), "sess_ctx")
	if err := svc.ProcessAction(ctx, ActionFreeText, map[string]any{"text": "x"}); err != nil {
		t.Fatal(err)
	}

	if got := svc.SessionID(); got != "sess_ctx" {
		t.Errorf("expected adopted session id, got %q", got)
	}
	select {
	case e := <-ch:
		if e.SessionID != "sess_ctx" {
			t.Errorf("expected session id from context on event, got %q", e.SessionID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chat.state event")
	}
}
