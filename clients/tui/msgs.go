package tui

import (
	wsclient "github.com/dohr-michael/stagehand/clients/ws"
	"github.com/dohr-michael/stagehand/internal/chat"
)

// SnapshotMsg carries a full state snapshot from the chat service. The model
// replaces everything it holds with the snapshot's content.
type SnapshotMsg struct {
	Snapshot chat.Snapshot
	Replies  []chat.QuickReply
}

// completionMsg fires once the post-completion delay has elapsed.
type completionMsg struct{}

// sendErrorMsg carries an error from an async action send.
type sendErrorMsg struct {
	err error
}

// ConnectedMsg signals a successful WS connection (attach mode).
type ConnectedMsg struct {
	SessionID string
	Client    *wsclient.Client
}

// DisconnectedMsg signals a lost WS connection (attach mode).
type DisconnectedMsg struct {
	Err error
}
