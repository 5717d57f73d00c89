// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is an append-only transcript of Messages. Each Message is
// attributed to a Role: client (the person typing), consultant (the reply
// service), or system (local UI notices that never leave the process).
//
// The package is UI-agnostic; both the Bubble Tea view and the plain REPL
// mode share it. Conversion to the backend wire format lives here
// (Conversation.WireHistory) so the two front ends cannot drift apart in
// what they send.
package model
