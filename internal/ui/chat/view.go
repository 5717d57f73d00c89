// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface: the main
// view, transcript rendering, the error banner, the input area, and the
// status bar.
package chat

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/compass-chat/internal/model"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header (1) + transcript (viewport) + [error banner (1)] + input (3) + status (1).
func (m Model) View() string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()
	transcript := m.viewport.View()

	sections := make([]string, 0, 5)
	sections = append(sections, header, transcript)
	if m.lastError != "" {
		sections = append(sections, m.renderErrorBanner())
	}
	sections = append(sections, input, status)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("Issa Compass")
	title := m.theme.HeaderTitle.Render(" · DTV visa chat")
	return m.theme.Header.Width(m.width).Render(brand + title)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders the full transcript, plus the typing indicator
// while a request is in flight.
func (m Model) renderMessages() string {
	width := m.viewport.Width
	if width <= 0 {
		width = m.width
	}

	var b strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}

	if m.state == StateAwaitingReply {
		b.WriteString("\n")
		b.WriteString(m.renderTypingIndicator())
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage renders one transcript entry: a role label line followed by
// the wrapped body.
func (m Model) renderMessage(msg *model.Message, width int) string {
	var label string
	switch msg.Role {
	case model.RoleClient:
		label = m.theme.ClientLabel.Render(msg.Role.DisplayName())
	case model.RoleConsultant:
		label = m.theme.ConsultantLabel.Render(msg.Role.DisplayName())
	default:
		label = m.theme.SystemLabel.Render(msg.Role.DisplayName())
	}

	if m.showTimestamps {
		label += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	body := m.theme.MessageBody.Width(width).Render(msg.Content)
	return label + "\n" + body
}

// renderTypingIndicator shows the spinner line while awaiting a reply.
func (m Model) renderTypingIndicator() string {
	elapsed := time.Since(m.awaitingStart).Round(time.Second)
	text := "Consultant is typing"
	if m.teaching || m.instructing {
		text = "Updating the prompt"
	}
	suffix := ""
	if elapsed >= time.Second {
		suffix = " (" + elapsed.String() + ")"
	}
	return m.spinner.View() + " " + m.theme.ThinkingText.Render(text+"..."+suffix)
}

// =============================================================================
// ERROR BANNER
// =============================================================================

// renderErrorBanner renders the single-line inline error banner.
func (m Model) renderErrorBanner() string {
	text := truncateToWidth("✗ "+m.lastError, m.width-2)
	return m.theme.ErrorBanner.Width(m.width).Render(text)
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	var indicator string
	switch {
	case !m.backendChecked:
		indicator = m.theme.ShortcutDesc.Render("● checking...")
	case m.backendOnline:
		indicator = m.theme.BackendOnline.Render("● online")
	default:
		indicator = m.theme.BackendOffline.Render("● offline")
	}

	turns := strconv.Itoa(m.conversation.TurnCount()) + " turns"

	hints := m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" send  ") +
		m.theme.ShortcutKey.Render("/help") + m.theme.ShortcutDesc.Render(" commands  ") +
		m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" quit")

	left := indicator + m.theme.ShortcutDesc.Render("  "+turns)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}

	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + hints)
}
