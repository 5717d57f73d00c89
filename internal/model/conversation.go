// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/compass-chat/internal/backend"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the transcript for a single chat session.
//
// The transcript is append-only: messages are never edited or reordered once
// added. The conversation lives only as long as the process; there is no
// persistence across sessions.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates a conversation seeded with a consultant greeting.
func NewConversation(greeting string) *Conversation {
	c := &Conversation{
		ID:        "conv_" + uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
	if greeting != "" {
		c.AddConsultantMessage(greeting)
	}
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the transcript.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddClientMessage creates and appends a client message.
func (c *Conversation) AddClientMessage(content string) *Message {
	msg := NewClientMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddConsultantMessage creates and appends a consultant message.
func (c *Conversation) AddConsultantMessage(content string) *Message {
	msg := NewConsultantMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system notice.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastClientMessage returns the most recent client message, or nil.
func (c *Conversation) LastClientMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleClient {
			return c.Messages[i]
		}
	}
	return nil
}

// ClearHistory drops the transcript and reseeds the greeting.
func (c *Conversation) ClearHistory(greeting string) {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
	if greeting != "" {
		c.AddConsultantMessage(greeting)
	}
}

// MessageCount returns the number of messages in the transcript.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// TurnCount returns the number of client/consultant turns, excluding
// system notices.
func (c *Conversation) TurnCount() int {
	n := 0
	for _, msg := range c.Messages {
		if msg.Role.IsWireRole() {
			n++
		}
	}
	return n
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// WireHistory converts the transcript to the backend history format.
//
// System notices are dropped; the backend accepts only client and consultant
// roles and silently discards anything else, so we never send them. Callers
// on the submit path must convert *before* appending the outgoing client
// turn: the new message travels in its own request field, not in the history.
func (c *Conversation) WireHistory() []backend.Turn {
	history := make([]backend.Turn, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if !msg.Role.IsWireRole() {
			continue
		}
		history = append(history, backend.Turn{
			Role:    msg.Role.String(),
			Message: msg.Content,
		})
	}
	return history
}
