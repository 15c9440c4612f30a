// Package ws provides a WebSocket client for the Stagehand gateway.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/coder/websocket"

	wsprotocol "github.com/dohr-michael/stagehand/internal/gateway/ws"
)

// Client is a WebSocket client for the Stagehand gateway.
type Client struct {
	conn   *websocket.Conn
	reqSeq uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Dial connects to the gateway WebSocket endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	clientCtx, cancel := context.WithCancel(ctx)

	return &Client{
		conn:   conn,
		ctx:    clientCtx,
		cancel: cancel,
	}, nil
}

// request sends a request frame and returns its ID so the caller can match
// the response.
func (c *Client) request(method wsprotocol.Method, params any) (string, error) {
	seq := atomic.AddUint64(&c.reqSeq, 1)
	id := fmt.Sprintf("req-%d", seq)

	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	frame := wsprotocol.Frame{
		Type:   wsprotocol.FrameTypeRequest,
		ID:     id,
		Method: string(method),
		Params: data,
	}

	raw, err := wsprotocol.MarshalFrame(frame)
	if err != nil {
		return "", err
	}

	if err := c.conn.Write(c.ctx, websocket.MessageText, raw); err != nil {
		return "", err
	}
	return id, nil
}

// OpenSession asks the gateway to start a session for the named blueprint.
func (c *Client) OpenSession(blueprint string, seed map[string]string) (string, error) {
	return c.request(wsprotocol.MethodOpenSession, map[string]any{
		"blueprint": blueprint,
		"seed":      seed,
	})
}

// ProcessAction forwards a user action to a session.
func (c *Client) ProcessAction(sessionID, action string, payload map[string]any) (string, error) {
	return c.request(wsprotocol.MethodProcessAction, map[string]any{
		"session_id": sessionID,
		"action":     action,
		"payload":    payload,
	})
}

// GetState requests the current snapshot of a session.
func (c *Client) GetState(sessionID string) (string, error) {
	return c.request(wsprotocol.MethodGetState, map[string]string{
		"session_id": sessionID,
	})
}

// QuickReplies requests the reply options for a session's current step.
func (c *Client) QuickReplies(sessionID string) (string, error) {
	return c.request(wsprotocol.MethodQuickReplies, map[string]string{
		"session_id": sessionID,
	})
}

// ReadFrame reads the next frame from the connection.
func (c *Client) ReadFrame() (wsprotocol.Frame, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		return wsprotocol.Frame{}, err
	}
	return wsprotocol.UnmarshalFrame(data)
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
