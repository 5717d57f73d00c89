// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the tea.Cmd constructors for backend round trips and
// the slash command handler registry.
package chat

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/compass-chat/internal/backend"
)

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// GenerateReplyCmd creates a command that performs one generate-reply round
// trip. history must exclude the message being sent.
func GenerateReplyCmd(client *backend.Client, clientSequence string, history []backend.Turn, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return ReplyErrorMsg{Err: backend.ErrUnreachable}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := client.GenerateReply(ctx, clientSequence, history)
		if err != nil {
			return ReplyErrorMsg{Err: err}
		}
		return ReplyReceivedMsg{Reply: reply}
	}
}

// CheckBackendCmd creates a command that probes the reply service.
func CheckBackendCmd(client *backend.Client) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return BackendStatusMsg{Online: false, Err: backend.ErrUnreachable}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := client.CheckHealth(ctx)
		return BackendStatusMsg{
			Online: err == nil,
			Err:    err,
		}
	}
}

// ImprovePromptCmd creates a command that performs one improve-ai round trip.
func ImprovePromptCmd(client *backend.Client, clientSequence string, history []backend.Turn, consultantReply string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return PromptImprovedMsg{Err: backend.ErrUnreachable}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := client.ImprovePrompt(ctx, clientSequence, history, consultantReply)
		return PromptImprovedMsg{Result: result, Err: err}
	}
}

// ImprovePromptManuallyCmd creates a command that performs one
// improve-ai-manually round trip.
func ImprovePromptManuallyCmd(client *backend.Client, instructions string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return PromptInstructedMsg{Err: backend.ErrUnreachable}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := client.ImprovePromptManually(ctx, instructions)
		return PromptInstructedMsg{Result: result, Err: err}
	}
}

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles a single slash command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,

	"clear": handleClearCommand,
	"c":     handleClearCommand,

	"status": handleStatusCommand,
	"s":      handleStatusCommand,

	"teach": handleTeachCommand,
	"t":     handleTeachCommand,

	"instruct": handleInstructCommand,
	"i":        handleInstructCommand,

	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,
}

// handleCommand processes slash commands using the registry.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	cmdName := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	if handler, ok := commandHandlers[cmdName]; ok {
		return handler(&m, args)
	}

	m.conversation.AddSystemMessage("Unknown command '" + content + "'. Type /help for available commands.")
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

const helpText = `Commands:
  /help             Show this help
  /clear            Start over (keeps the greeting)
  /status           Check the reply service
  /teach <reply>    Send the reply a human consultant actually gave,
                    so the service can tune its prompt
  /instruct <text>  Append instructions to the service's prompt directly
  /quit             Exit

Keys: Enter sends, arrows/PgUp/PgDn scroll, Ctrl+C quits.`

func handleHelpCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.conversation.AddSystemMessage(helpText)
	m.updateViewport()
	m.viewport.GotoBottom()
	return *m, nil
}

func handleClearCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.state == StateAwaitingReply {
		m.conversation.AddSystemMessage("Still waiting on a reply - try again in a moment.")
		m.updateViewport()
		return *m, nil
	}
	m.conversation.ClearHistory(m.greeting)
	m.setError("")
	m.updateViewport()
	m.viewport.GotoTop()
	return *m, nil
}

func handleStatusCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.conversation.AddSystemMessage("Checking reply service at " + m.client.GetConfig().BaseURL + "...")
	m.updateViewport()
	m.viewport.GotoBottom()
	return *m, CheckBackendCmd(m.client)
}

func handleTeachCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.state == StateAwaitingReply {
		m.conversation.AddSystemMessage("Still waiting on a request - try /teach again in a moment.")
		m.updateViewport()
		return *m, nil
	}

	reply := strings.TrimSpace(strings.Join(args, " "))
	if reply == "" {
		m.conversation.AddSystemMessage("Usage: /teach <the reply a human consultant actually sent>")
		m.updateViewport()
		m.viewport.GotoBottom()
		return *m, nil
	}

	last := m.conversation.LastClientMessage()
	if last == nil {
		m.conversation.AddSystemMessage("Nothing to teach from yet - send a message first.")
		m.updateViewport()
		m.viewport.GotoBottom()
		return *m, nil
	}

	// History for improve-ai is everything before the last client turn.
	history := historyBefore(m.conversation, last.ID)

	m.state = StateAwaitingReply
	m.teaching = true
	m.awaitingStart = time.Now()
	m.setError("")
	m.updateViewport()
	m.viewport.GotoBottom()

	return *m, tea.Batch(
		ImprovePromptCmd(m.client, last.Content, history, reply, m.requestTimeout),
		m.spinner.Tick,
	)
}

func handleInstructCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.state == StateAwaitingReply {
		m.conversation.AddSystemMessage("Still waiting on a request - try /instruct again in a moment.")
		m.updateViewport()
		return *m, nil
	}

	instructions := strings.TrimSpace(strings.Join(args, " "))
	if instructions == "" {
		m.conversation.AddSystemMessage("Usage: /instruct <instructions to append to the prompt>")
		m.updateViewport()
		m.viewport.GotoBottom()
		return *m, nil
	}

	m.state = StateAwaitingReply
	m.instructing = true
	m.awaitingStart = time.Now()
	m.setError("")
	m.updateViewport()
	m.viewport.GotoBottom()

	return *m, tea.Batch(
		ImprovePromptManuallyCmd(m.client, instructions, m.requestTimeout),
		m.spinner.Tick,
	)
}

func handleQuitCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	return *m, tea.Quit
}
