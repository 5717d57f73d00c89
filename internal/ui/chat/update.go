// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the update loop: key handling, the submit transition,
// and the handlers for reply/error/status messages.
package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/compass-chat/internal/backend"
)

// Update handles incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateAwaitingReply {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateViewport()
		return m, cmd

	case ReplyReceivedMsg:
		return m.handleReplyReceived(msg)

	case ReplyErrorMsg:
		return m.handleReplyError(msg)

	case BackendStatusMsg:
		m.backendChecked = true
		m.backendOnline = msg.Online
		return m, nil

	case PromptImprovedMsg:
		return m.handlePromptImproved(msg)

	case PromptInstructedMsg:
		return m.handlePromptInstructed(msg)
	}

	// Everything else goes to the text input (paste, etc).
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes keyboard input. Navigation keys drive the viewport; all
// other keys feed the text input, which stays focused the whole session.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keyMap.Up),
		key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Home),
		key.Matches(msg, m.keyMap.End):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SUBMIT TRANSITION
// =============================================================================

// submitInput runs the submit transition.
//
// No-op when the trimmed input is empty or a request is already in flight.
// Otherwise: clear the error banner, snapshot the history *before* appending
// the new client turn, append it, clear the draft, enter AwaitingReply, and
// fire exactly one generate-reply command.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	// Slash commands bypass the round-trip pipeline.
	if strings.HasPrefix(content, "/") {
		return m.handleCommand(content)
	}

	// Single-flight guard: a second submission while awaiting is dropped,
	// not queued.
	if m.state == StateAwaitingReply {
		return m, nil
	}

	m.setError("")

	history := m.conversation.WireHistory()
	m.conversation.AddClientMessage(content)
	m.input.Reset()

	m.state = StateAwaitingReply
	m.teaching = false
	m.instructing = false
	m.awaitingStart = time.Now()

	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		GenerateReplyCmd(m.client, content, history, m.requestTimeout),
		m.spinner.Tick,
	)
}

// =============================================================================
// COMPLETION HANDLERS
// =============================================================================

// handleReplyReceived appends the consultant turn and returns to Ready.
func (m Model) handleReplyReceived(msg ReplyReceivedMsg) (tea.Model, tea.Cmd) {
	// A reply arriving outside AwaitingReply has nothing to attach to
	// (e.g. the transcript was cleared); drop it.
	if m.state != StateAwaitingReply || m.teaching || m.instructing {
		return m, nil
	}

	reply := msg.Reply
	if strings.TrimSpace(reply) == "" {
		reply = m.fallbackReply
	}

	m.conversation.AddConsultantMessage(reply)
	m.state = StateReady

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// handleReplyError records the failure and returns to Ready. No consultant
// turn is appended; the client turn stays in the transcript and the user may
// resubmit immediately.
func (m Model) handleReplyError(msg ReplyErrorMsg) (tea.Model, tea.Cmd) {
	if m.state != StateAwaitingReply || m.teaching || m.instructing {
		return m, nil
	}

	m.state = StateReady
	m.setError(backend.UserMessage(msg.Err))
	return m, nil
}

// handlePromptImproved reports the /teach outcome as a system notice.
func (m Model) handlePromptImproved(msg PromptImprovedMsg) (tea.Model, tea.Cmd) {
	if m.state != StateAwaitingReply || !m.teaching {
		return m, nil
	}

	m.state = StateReady
	m.teaching = false

	if msg.Err != nil {
		m.setError(backend.UserMessage(msg.Err))
		return m, nil
	}

	notice := "Prompt updated. The AI would have said:\n" + msg.Result.PredictedReply
	m.conversation.AddSystemMessage(notice)

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// handlePromptInstructed reports the /instruct outcome as a system notice.
func (m Model) handlePromptInstructed(msg PromptInstructedMsg) (tea.Model, tea.Cmd) {
	if m.state != StateAwaitingReply || !m.instructing {
		return m, nil
	}

	m.state = StateReady
	m.instructing = false

	if msg.Err != nil {
		m.setError(backend.UserMessage(msg.Err))
		return m, nil
	}

	m.conversation.AddSystemMessage("Prompt updated with your instructions.")

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}
