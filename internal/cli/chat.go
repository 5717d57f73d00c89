// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain line-mode chat for terminals where the full TUI is unwanted.
//
// Handles the "compass-chat chat" command: a liner-based REPL against the
// same conversation/reply-client pipeline as the TUI. The REPL blocks on
// each round trip, so the one-request-at-a-time invariant holds trivially.
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Start over (keeps the greeting)
//   /status, /s         Check the reply service
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/config"
	"github.com/jeranaias/compass-chat/internal/model"
	"github.com/jeranaias/compass-chat/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	consultantStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists input history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Conversation *model.Conversation
	Config       *config.Config
	Client       *backend.Client
	Quiet        bool
	InputCLI     *ChatCLI
	renderer     *glamour.TermRenderer
}

// NewChatSession creates a new chat session from global configuration.
func NewChatSession(args Args) *ChatSession {
	cfg := config.Global()

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Timeout(),
	})

	var renderer *glamour.TermRenderer
	if IsStdoutTTY() {
		// Best effort; nil renderer falls back to plain text.
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	}

	return &ChatSession{
		Conversation: model.NewConversation(cfg.UI.Greeting),
		Config:       cfg,
		Client:       client,
		Quiet:        args.Quiet,
		InputCLI:     NewChatCLI(),
		renderer:     renderer,
	}
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive line-mode chat session.
func HandleChat(args Args) {
	session := NewChatSession(args)
	defer session.InputCLI.Close()

	if !session.Quiet {
		fmt.Println(consultantStyle.Render("Issa Compass") + infoStyle.Render(" · DTV visa chat"))
		fmt.Println(infoStyle.Render("Type /help for commands, Ctrl+D to exit."))
		fmt.Println()
		session.printReply(session.Config.UI.Greeting)
	}

	// Probe the service once so connectivity problems surface before the
	// first message rather than after it.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := session.Client.CheckHealth(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Warning]")+" "+backend.UserMessage(err))
	}
	cancel()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C (ErrPromptAborted), Ctrl+D (EOF), or a broken terminal.
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !session.handleSlashCommand(input) {
				return
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return
		}

		if err := session.processMessage(input); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+" "+backend.UserMessage(err))
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage performs one generate-reply round trip. On failure the
// client turn stays in the transcript and no consultant turn is appended,
// matching the TUI semantics.
func (s *ChatSession) processMessage(input string) error {
	history := s.Conversation.WireHistory()
	s.Conversation.AddClientMessage(input)

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout())
	defer cancel()

	reply, err := s.Client.GenerateReply(ctx, input, history)
	if err != nil {
		return err
	}

	if strings.TrimSpace(reply) == "" {
		reply = s.Config.UI.FallbackReply
	}
	s.Conversation.AddConsultantMessage(reply)

	fmt.Println()
	s.printReply(reply)
	return nil
}

// printReply renders a consultant reply, through glamour when stdout is a
// terminal.
func (s *ChatSession) printReply(reply string) {
	fmt.Println(consultantStyle.Render("consultant>"))
	if s.renderer != nil {
		if out, err := s.renderer.Render(reply); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(reply)
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes a /command. Returns false when the session
// should end.
func (s *ChatSession) handleSlashCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(strings.TrimPrefix(parts[0], "/"))

	switch cmd {
	case "help", "h", "?":
		fmt.Println(infoStyle.Render(`Commands:
  /help     Show this help
  /clear    Start over (keeps the greeting)
  /status   Check the reply service
  /quit     Exit`))

	case "clear", "c":
		s.Conversation.ClearHistory(s.Config.UI.Greeting)
		fmt.Println(infoStyle.Render("Conversation cleared."))

	case "status", "s":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Client.CheckHealth(ctx); err != nil {
			fmt.Println(errorStyle.Render("offline") + infoStyle.Render(" · "+backend.UserMessage(err)))
		} else {
			fmt.Println(consultantStyle.Render("online") + infoStyle.Render(" · "+s.Client.GetConfig().BaseURL))
		}

	case "quit", "q", "exit":
		return false

	default:
		fmt.Println(infoStyle.Render("Unknown command. Type /help for available commands."))
	}

	return true
}
