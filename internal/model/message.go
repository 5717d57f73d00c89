// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
//
// The backend only knows about client and consultant turns. System messages
// exist for in-UI notices (command output, status lines) and are never sent
// over the wire.
type Role string

const (
	RoleClient     Role = "client"
	RoleConsultant Role = "consultant"
	RoleSystem     Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleClient:
		return "You"
	case RoleConsultant:
		return "Consultant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// IsWireRole reports whether the role is part of the backend wire format.
func (r Role) IsWireRole() bool {
	return r == RoleClient || r == RoleConsultant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
// Messages are immutable once appended to a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        "msg_" + uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewClientMessage creates a new client (user) message.
func NewClientMessage(content string) *Message {
	return NewMessage(RoleClient, content)
}

// NewConsultantMessage creates a new consultant (AI) message.
func NewConsultantMessage(content string) *Message {
	return NewMessage(RoleConsultant, content)
}

// NewSystemMessage creates a new system notice.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}
