// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat interface:
//   - Reply: completion of a generate-reply round trip
//   - Backend: health check results
//   - Teach: completion of an improve-ai round trip
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import "github.com/jeranaias/compass-chat/internal/backend"

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyReceivedMsg delivers a generated consultant reply.
// Reply may be empty when the service omitted the reply text; the update
// loop substitutes the configured fallback.
type ReplyReceivedMsg struct {
	Reply string
}

// ReplyErrorMsg signals a failed generate-reply round trip.
type ReplyErrorMsg struct {
	Err error
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// BackendStatusMsg reports reply service reachability.
type BackendStatusMsg struct {
	Online bool
	Err    error
}

// =============================================================================
// TEACH MESSAGES
// =============================================================================

// PromptImprovedMsg delivers the outcome of an improve-ai round trip.
type PromptImprovedMsg struct {
	Result *backend.ImproveResult
	Err    error
}

// PromptInstructedMsg delivers the outcome of an improve-ai-manually round
// trip.
type PromptInstructedMsg struct {
	Result *backend.ManualImproveResult
	Err    error
}
