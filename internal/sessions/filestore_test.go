package sessions

import (
	"strings"
	"testing"
	"time"
)

func TestCreateGetRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	s, err := store.Create("starter", "Starter service", 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(s.ID, "sess_") {
		t.Errorf("ID = %q, want sess_ prefix", s.ID)
	}
	if s.Status != SessionActive {
		t.Errorf("Status = %q, want %q", s.Status, SessionActive)
	}
	if s.Blueprint != "starter" || s.TotalSteps != 4 {
		t.Errorf("unexpected meta: %+v", s)
	}

	got, err := store.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != s.ID || got.Blueprint != "starter" {
		t.Errorf("Get = %+v, want %+v", got, s)
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Get("sess_nonexistent")
	if err == nil {
		t.Fatal("expected error for missing session")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want 'not found'", err)
	}
}

func TestAppendAndLoadMessages(t *testing.T) {
	store := NewFileStore(t.TempDir())

	s, err := store.Create("starter", "Starter service", 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	msgs := []Message{
		{Sender: "assistant", Content: "Pick a name", Ts: time.Now()},
		{Sender: "user", Content: "billing", Ts: time.Now()},
		{Sender: "assistant", Content: "Pick a target", Ts: time.Now()},
	}

	for _, m := range msgs {
		if err := store.AppendMessage(s.ID, m); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	loaded, err := store.LoadMessages(s.ID)
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}

	if len(loaded) != len(msgs) {
		t.Fatalf("loaded %d messages, want %d", len(loaded), len(msgs))
	}
	for i, m := range loaded {
		if m.Sender != msgs[i].Sender || m.Content != msgs[i].Content {
			t.Errorf("msg[%d] = %+v, want %+v", i, m, msgs[i])
		}
	}

	meta, err := store.Get(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.MessageCount != len(msgs) {
		t.Errorf("MessageCount = %d, want %d", meta.MessageCount, len(msgs))
	}
}

func TestCloseMarksOutcome(t *testing.T) {
	store := NewFileStore(t.TempDir())

	s, err := store.Create("starter", "Starter service", 4)
	if err != nil {
		t.Fatal(err)
	}

	s.CompletedSteps = 4
	s.Outcome = "complete"
	if err := store.UpdateMeta(s); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(s.ID); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != SessionClosed {
		t.Errorf("Status = %q, want closed", got.Status)
	}
	if got.Outcome != "complete" || got.CompletedSteps != 4 {
		t.Errorf("unexpected meta after close: %+v", got)
	}
}

func TestListSortedByUpdatedAt(t *testing.T) {
	store := NewFileStore(t.TempDir())

	first, err := store.Create("starter", "First", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Create("starter", "Second", 1)
	if err != nil {
		t.Fatal(err)
	}

	// Touch the first session so it sorts to the front.
	time.Sleep(10 * time.Millisecond)
	if err := store.AppendMessage(first.ID, Message{Sender: "user", Content: "x", Ts: time.Now()}); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestListEmptyDir(t *testing.T) {
	store := NewFileStore(t.TempDir() + "/missing")

	list, err := store.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if list != nil {
		t.Errorf("expected nil, got %v", list)
	}
}
