package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nightfall/internal/app"
	"nightfall/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 16
)

// Client is one player's request/response channel
type Client struct {
	conn     *websocket.Conn
	session  *app.GameSession
	playerID domain.PlayerID
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.GameSession, playerID domain.PlayerID, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With("playerID", playerID),
	}
}

// GetPlayerID implements app.ClientConnection
func (c *Client) GetPlayerID() domain.PlayerID {
	return c.playerID
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps and blocks until the connection ends
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// reply queues one reply for the writer
func (c *Client) reply(message *ServerMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("marshal reply failed", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// commands are answered in order, so a full buffer means the peer stopped reading
		c.logger.Warn("send buffer full, reply dropped")
	}
}

// readPump reads commands and answers each one
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			return
		}

		c.handleMessage(message)
	}
}

// writePump writes queued replies and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches one command; every path sends exactly one reply
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(nil, ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgStatus:
		c.sendResult(&msg, c.session.Status(c.playerID))
	case MsgView:
		c.respond(&msg)(c.session.PlayerView(c.playerID))
	case MsgRole:
		c.respond(&msg)(c.session.RoleView(c.playerID))
	case MsgCastVote:
		c.handleCastVote(&msg)
	case MsgSubmitPostmortem:
		c.handleSubmitPostmortem(&msg)
	case MsgNecromancerMessages:
		c.respond(&msg)(c.session.VisibleTo(c.playerID))
	case MsgPing:
		c.reply(NewServerMessage(MsgPong, &msg, nil))
	default:
		c.sendError(&msg, ErrCodeInvalidMessage, "Unknown message type")
	}
}

// respond adapts a (value, error) pair into a result or error reply
func (c *Client) respond(msg *ClientMessage) func(any, error) {
	return func(payload any, err error) {
		if err != nil {
			c.sendDomainError(msg, err)
			return
		}
		c.sendResult(msg, payload)
	}
}

// handleCastVote handles a cast_vote command
func (c *Client) handleCastVote(msg *ClientMessage) {
	var payload CastVotePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Target == "" {
		c.sendError(msg, ErrCodeInvalidMessage, "Target is required")
		return
	}

	err := c.session.CastVote(c.playerID, domain.PlayerID(payload.Target))
	if err != nil && !errors.Is(err, domain.ErrAlreadyVoted) {
		c.sendDomainError(msg, err)
		return
	}

	view, viewErr := c.session.PlayerView(c.playerID)
	if viewErr != nil {
		c.sendDomainError(msg, viewErr)
		return
	}
	view.AlreadyVoted = err != nil
	c.sendResult(msg, view)
}

// handleSubmitPostmortem handles a submit_postmortem command
func (c *Client) handleSubmitPostmortem(msg *ClientMessage) {
	var payload SubmitPostmortemPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.sendError(msg, ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	stored, created, err := c.session.SubmitMessage(c.playerID, payload.Text)
	if err != nil {
		c.sendDomainError(msg, err)
		return
	}
	c.sendResult(msg, &PostmortemResult{MessageID: stored.ID, Created: created})
}

// sendResult sends a result reply
func (c *Client) sendResult(msg *ClientMessage, payload interface{}) {
	c.reply(NewServerMessage(MsgResult, msg, payload))
}

// sendDomainError sends the error reply matching a domain error
func (c *Client) sendDomainError(msg *ClientMessage, err error) {
	code := app.ErrorCode(err)
	if code == app.CodeInternal {
		c.logger.Error("command failed", "command", msg.Type, "error", err)
		c.sendError(msg, code, "Internal server error")
		return
	}
	c.sendError(msg, code, err.Error())
}

// sendError sends an error reply
func (c *Client) sendError(msg *ClientMessage, code, message string) {
	c.reply(NewServerMessage(MsgError, msg, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
