// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/config"
	"github.com/jeranaias/compass-chat/internal/model"
	"github.com/jeranaias/compass-chat/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady         State = iota // Ready for input
	StateAwaitingReply              // One request in flight
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool // first WindowSizeMsg received

	// Conversation
	conversation *model.Conversation

	// Backend client
	client         *backend.Client
	requestTimeout time.Duration

	// Presentation settings
	greeting       string
	fallbackReply  string
	showTimestamps bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Error state: the inline banner text, empty when no banner is shown.
	// Cleared at the start of every submission attempt.
	lastError string

	// Backend status
	backendOnline  bool
	backendChecked bool

	// Pending request bookkeeping
	awaitingStart time.Time
	teaching      bool // current in-flight request is /teach, not a reply
	instructing   bool // current in-flight request is /instruct
}

// New creates the chat model with a freshly seeded conversation.
func New(client *backend.Client, cfg *config.Config) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	return Model{
		state:          StateReady,
		theme:          theme,
		conversation:   model.NewConversation(cfg.UI.Greeting),
		client:         client,
		requestTimeout: cfg.Timeout(),
		greeting:       cfg.UI.Greeting,
		fallbackReply:  cfg.UI.FallbackReply,
		showTimestamps: cfg.UI.ShowTimestamps,
		input:          input,
		spinner:        sp,
		keyMap:         DefaultKeyMap(),
	}
}

// Init starts cursor blinking and probes the reply service.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, CheckBackendCmd(m.client))
}

// =============================================================================
// ACCESSORS (used by tests)
// =============================================================================

// Conversation returns the underlying transcript.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// CurrentState returns the state machine position.
func (m Model) CurrentState() State {
	return m.state
}

// LastError returns the current error banner text.
func (m Model) LastError() string {
	return m.lastError
}

// SetInputValue sets the draft input (test helper for the submit path).
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// InputValue returns the current draft input.
func (m Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed component heights used when sizing the viewport. The input area is
// a bordered single line (3 rows); header and status bar are one row each.
const (
	headerHeight = 1
	inputHeight  = 3
	statusHeight = 1
	bannerHeight = 1
)

// handleResize recalculates component dimensions for a new terminal size.
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height

	m.input.Width = width - 6 // border, padding, prompt

	vpHeight := m.viewportHeight()
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}

	m.updateViewport()
	m.viewport.GotoBottom()
}

// viewportHeight returns the transcript height for the current layout.
// The error banner steals a row only while it is visible.
func (m *Model) viewportHeight() int {
	h := m.height - headerHeight - inputHeight - statusHeight
	if m.lastError != "" {
		h -= bannerHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

// setError updates the banner text and resizes the viewport around it.
func (m *Model) setError(text string) {
	m.lastError = text
	if m.ready {
		m.viewport.Height = m.viewportHeight()
		m.updateViewport()
		m.viewport.GotoBottom()
	}
}

// updateViewport re-renders the transcript into the viewport.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}
