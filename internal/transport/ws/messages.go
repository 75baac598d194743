package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server commands
const (
	MsgStatus              MessageType = "status"
	MsgView                MessageType = "view"
	MsgRole                MessageType = "role"
	MsgCastVote            MessageType = "cast_vote"
	MsgSubmitPostmortem    MessageType = "submit_postmortem"
	MsgNecromancerMessages MessageType = "necromancer_messages"
	MsgPing                MessageType = "ping"
)

// Server → Client replies
const (
	MsgResult MessageType = "result"
	MsgError  MessageType = "error"
	MsgPong   MessageType = "pong"
)

// ClientMessage represents a command from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents the reply to one command
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Command   MessageType `json:"command,omitempty"`
	ID        string      `json:"id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a reply to the command with current timestamp
func NewServerMessage(msgType MessageType, cmd *ClientMessage, payload interface{}) *ServerMessage {
	msg := &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if cmd != nil {
		msg.Command = cmd.Type
		msg.ID = cmd.ID
	}
	return msg
}

// CastVotePayload is the payload for cast_vote
type CastVotePayload struct {
	Target string `json:"target"`
}

// SubmitPostmortemPayload is the payload for submit_postmortem
type SubmitPostmortemPayload struct {
	Text string `json:"text"`
}

// PostmortemResult is the result of submit_postmortem
type PostmortemResult struct {
	MessageID int  `json:"messageId"`
	Created   bool `json:"created"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes specific to the channel; domain errors use the app codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
)
