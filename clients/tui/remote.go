package tui

import (
	"context"
	"encoding/json"
	"sync"

	wsclient "github.com/dohr-michael/stagehand/clients/ws"
	"github.com/dohr-michael/stagehand/internal/chat"
	ws "github.com/dohr-michael/stagehand/internal/gateway/ws"
)

// RemoteSession adapts a gateway WebSocket connection to the Session
// interface. State is mirrored locally: every chat.state event triggers a
// get_state round trip, and the authoritative snapshot replaces the mirror
// wholesale before subscribers are notified.
type RemoteSession struct {
	client    *wsclient.Client
	sessionID string

	mu          sync.Mutex
	snap        chat.Snapshot
	replies     []chat.QuickReply
	subscribers map[int]func(chat.Snapshot)
	nextSub     int
	pending     map[string]string // request ID -> method
}

// NewRemoteSession creates a mirror of a gateway-hosted session.
func NewRemoteSession(client *wsclient.Client, sessionID string) *RemoteSession {
	return &RemoteSession{
		client:      client,
		sessionID:   sessionID,
		subscribers: make(map[int]func(chat.Snapshot)),
		pending:     make(map[string]string),
	}
}

// Start requests the initial state and runs the frame loop until the
// connection drops or ctx is done. onDisconnect (optional) receives the
// terminal read error.
func (rs *RemoteSession) Start(ctx context.Context, onDisconnect func(error)) {
	rs.requestRefresh()

	go func() {
		for {
			frame, err := rs.client.ReadFrame()
			if err != nil {
				if onDisconnect != nil && ctx.Err() == nil {
					onDisconnect(err)
				}
				return
			}
			rs.handleFrame(frame)
		}
	}()
}

func (rs *RemoteSession) requestRefresh() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if id, err := rs.client.GetState(rs.sessionID); err == nil {
		rs.pending[id] = "get_state"
	}
	if id, err := rs.client.QuickReplies(rs.sessionID); err == nil {
		rs.pending[id] = "quick_replies"
	}
}

func (rs *RemoteSession) handleFrame(frame ws.Frame) {
	switch frame.Type {
	case ws.FrameTypeEvent:
		// Any state change for our session invalidates the mirror.
		if _, ok := projectState(frame); ok && frame.SessionID == rs.sessionID {
			rs.requestRefresh()
		}

	case ws.FrameTypeResponse:
		rs.mu.Lock()
		method, ok := rs.pending[frame.ID]
		delete(rs.pending, frame.ID)
		rs.mu.Unlock()
		if !ok || frame.OK == nil || !*frame.OK {
			return
		}

		switch method {
		case "get_state":
			var snap chat.Snapshot
			if err := json.Unmarshal(frame.Payload, &snap); err != nil {
				return
			}
			rs.mu.Lock()
			rs.snap = snap
			subs := make([]func(chat.Snapshot), 0, len(rs.subscribers))
			for _, fn := range rs.subscribers {
				subs = append(subs, fn)
			}
			rs.mu.Unlock()
			for _, fn := range subs {
				fn(snap)
			}

		case "quick_replies":
			var body struct {
				Replies []chat.QuickReply `json:"replies"`
			}
			if err := json.Unmarshal(frame.Payload, &body); err != nil {
				return
			}
			rs.mu.Lock()
			rs.replies = body.Replies
			rs.mu.Unlock()
		}
	}
}

// State returns the mirrored snapshot.
func (rs *RemoteSession) State() chat.Snapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.snap
}

// QuickReplies returns the mirrored reply options.
func (rs *RemoteSession) QuickReplies() []chat.QuickReply {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.replies
}

// ProcessAction forwards the action to the gateway. The result arrives as
// state events; only the send itself can fail here.
func (rs *RemoteSession) ProcessAction(ctx context.Context, action string, payload map[string]any) error {
	id, err := rs.client.ProcessAction(rs.sessionID, action, payload)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	rs.pending[id] = "process_action"
	rs.mu.Unlock()
	return nil
}

// Subscribe registers a snapshot listener. Returns an unsubscribe func.
func (rs *RemoteSession) Subscribe(fn func(chat.Snapshot)) func() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	id := rs.nextSub
	rs.nextSub++
	rs.subscribers[id] = fn

	return func() {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		delete(rs.subscribers, id)
	}
}
