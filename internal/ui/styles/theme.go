// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the compass-chat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderBrand lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	ClientLabel     lipgloss.Style
	ConsultantLabel lipgloss.Style
	SystemLabel     lipgloss.Style
	MessageBody     lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	BackendOnline  lipgloss.Style
	BackendOffline lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// ERROR AND LOADING STYLES
	// ==========================================================================

	ErrorBanner  lipgloss.Style
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)
	t.HeaderBrand = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ClientLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ConsultantLabel = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.SystemLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true)
	t.MessageBody = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.BackendOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.BackendOffline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)
	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	return t
}
