// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/model"
)

// historyBefore returns the wire history strictly before the message with
// the given ID. Used by /teach, where the last client turn travels in its
// own request field rather than in the history.
func historyBefore(conv *model.Conversation, msgID string) []backend.Turn {
	history := make([]backend.Turn, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.ID == msgID {
			break
		}
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

// truncateToWidth shortens s to fit within the given display width,
// accounting for wide characters.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
