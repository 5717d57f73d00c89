// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view is a two-state machine: Ready (accepting input) and AwaitingReply
// (one request in flight). The transition into AwaitingReply happens only on
// submit with non-blank input, and the transition back to Ready happens
// unconditionally when the reply or error message arrives. That single guard
// is what serializes requests: there is no queue, and a submission while a
// request is in flight is dropped.
//
// Layout, top to bottom: header, scrollable transcript (newest at bottom),
// inline error banner (only while lastError is set), input line, status bar.
package chat
