package domain

import (
	"strings"
	"time"
)

// PostmortemMessage is the last word an eliminated player leaves for the necromancer
type PostmortemMessage struct {
	ID        int       `json:"id"`
	Author    PlayerID  `json:"author"`
	Text      string    `json:"text"`
	Revealed  bool      `json:"revealed"`
	Timestamp time.Time `json:"timestamp"`
}

// Mailbox is the append-only log of post-mortem messages.
// IDs come from a sequence owned by the mailbox and are never reused until Reset.
type Mailbox struct {
	messages []*PostmortemMessage
	nextID   int
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{nextID: 1}
}

// Submit appends a message for the author. An author that already wrote
// keeps the first message and created is false.
func (m *Mailbox) Submit(author PlayerID, text string) (msg PostmortemMessage, created bool, err error) {
	if existing, ok := m.ByAuthor(author); ok {
		return existing, false, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return PostmortemMessage{}, false, ErrEmptyMessage
	}

	stored := &PostmortemMessage{
		ID:        m.nextID,
		Author:    author,
		Text:      text,
		Timestamp: time.Now(),
	}
	m.nextID++
	m.messages = append(m.messages, stored)

	return *stored, true, nil
}

// Reveal marks the first message with the ID as revealed; unknown IDs are ignored
func (m *Mailbox) Reveal(id int) bool {
	for _, msg := range m.messages {
		if msg.ID == id {
			msg.Revealed = true
			return true
		}
	}
	return false
}

// HasAuthor checks if the player already left a message
func (m *Mailbox) HasAuthor(author PlayerID) bool {
	_, ok := m.ByAuthor(author)
	return ok
}

// ByAuthor returns the author's message
func (m *Mailbox) ByAuthor(author PlayerID) (PostmortemMessage, bool) {
	for _, msg := range m.messages {
		if msg.Author == author {
			return *msg, true
		}
	}
	return PostmortemMessage{}, false
}

// Revealed returns copies of the revealed messages in submission order
func (m *Mailbox) Revealed() []PostmortemMessage {
	out := make([]PostmortemMessage, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.Revealed {
			out = append(out, *msg)
		}
	}
	return out
}

// All returns copies of every message in submission order
func (m *Mailbox) All() []PostmortemMessage {
	out := make([]PostmortemMessage, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, *msg)
	}
	return out
}

// Len returns the number of stored messages
func (m *Mailbox) Len() int {
	return len(m.messages)
}

// Reset drops every message and restarts the ID sequence
func (m *Mailbox) Reset() {
	m.messages = nil
	m.nextID = 1
}
