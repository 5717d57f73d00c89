// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and the non-TUI command handlers.
//
// This test file covers command parsing and the line-mode chat pipeline.
package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/config"
	"github.com/jeranaias/compass-chat/internal/model"
)

// =============================================================================
// ARG PARSING TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCmd   Command
		wantQuiet bool
	}{
		{name: "no args defaults to TUI", args: nil, wantCmd: CmdTUI},
		{name: "chat", args: []string{"chat"}, wantCmd: CmdChat},
		{name: "chat quiet short", args: []string{"chat", "-q"}, wantCmd: CmdChat, wantQuiet: true},
		{name: "chat quiet long", args: []string{"--quiet", "chat"}, wantCmd: CmdChat, wantQuiet: true},
		{name: "version", args: []string{"version"}, wantCmd: CmdVersion},
		{name: "version flag", args: []string{"--version"}, wantCmd: CmdVersion},
		{name: "version short flag", args: []string{"-v"}, wantCmd: CmdVersion},
		{name: "help", args: []string{"help"}, wantCmd: CmdHelp},
		{name: "help flag", args: []string{"--help"}, wantCmd: CmdHelp},
		{name: "unknown falls back to help", args: []string{"bogus"}, wantCmd: CmdHelp},
	}

	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = append([]string{"compass-chat"}, tc.args...)

			cmd, args := Parse()
			if cmd != tc.wantCmd {
				t.Errorf("Parse() cmd = %v, want %v", cmd, tc.wantCmd)
			}
			if args.Quiet != tc.wantQuiet {
				t.Errorf("Parse() quiet = %v, want %v", args.Quiet, tc.wantQuiet)
			}
		})
	}
}

// =============================================================================
// SESSION TEST HELPERS
// =============================================================================

// newTestSession builds a session wired to the given server. The liner and
// renderer are left nil; neither is touched by the message pipeline.
func newTestSession(serverURL string) *ChatSession {
	cfg := config.Default()
	cfg.Backend.URL = serverURL

	return &ChatSession{
		Conversation: model.NewConversation(cfg.UI.Greeting),
		Config:       cfg,
		Client: backend.NewClientWithConfig(&backend.ClientConfig{
			BaseURL: serverURL,
			Timeout: 5 * time.Second,
		}),
	}
}

// =============================================================================
// MESSAGE PIPELINE TESTS
// =============================================================================

func TestProcessMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"aiReply":"The DTV is valid for five years."}`))
	}))
	defer server.Close()

	s := newTestSession(server.URL)
	if err := s.processMessage("How long is the visa valid?"); err != nil {
		t.Fatalf("processMessage: %v", err)
	}

	conv := s.Conversation
	// greeting + client + consultant
	if conv.MessageCount() != 3 {
		t.Fatalf("MessageCount = %d, want 3", conv.MessageCount())
	}
	last := conv.LastMessage()
	if last.Role != model.RoleConsultant || last.Content != "The DTV is valid for five years." {
		t.Errorf("last message = %v", last)
	}
}

func TestProcessMessage_EmptyReplyGetsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := newTestSession(server.URL)
	if err := s.processMessage("Hello"); err != nil {
		t.Fatalf("processMessage: %v", err)
	}

	if got := s.Conversation.LastMessage().Content; got != config.DefaultFallbackReply {
		t.Errorf("last content = %q, want fallback", got)
	}
}

func TestProcessMessage_FailureKeepsClientTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	s := newTestSession(server.URL)
	err := s.processMessage("Hello")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := backend.UserMessage(err); got != "rate limited" {
		t.Errorf("UserMessage = %q", got)
	}

	// The client turn stays; no consultant turn is appended.
	conv := s.Conversation
	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if conv.LastMessage().Role != model.RoleClient {
		t.Errorf("last role = %q, want client", conv.LastMessage().Role)
	}
}

func TestProcessMessage_HistoryExcludesNewMessage(t *testing.T) {
	var got backend.GenerateReplyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"aiReply":"ok"}`))
	}))
	defer server.Close()

	s := newTestSession(server.URL)
	if err := s.processMessage("Hello"); err != nil {
		t.Fatalf("processMessage: %v", err)
	}

	if got.ClientSequence != "Hello" {
		t.Errorf("clientSequence = %q", got.ClientSequence)
	}
	// History is the greeting only; the new message must not be in it.
	if len(got.ChatHistory) != 1 || got.ChatHistory[0].Role != "consultant" {
		t.Errorf("chatHistory = %+v", got.ChatHistory)
	}
}

// =============================================================================
// SLASH COMMAND TESTS
// =============================================================================

func TestHandleSlashCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	tests := []struct {
		name         string
		input        string
		wantContinue bool
	}{
		{name: "help continues", input: "/help", wantContinue: true},
		{name: "clear continues", input: "/clear", wantContinue: true},
		{name: "status continues", input: "/status", wantContinue: true},
		{name: "unknown continues", input: "/bogus", wantContinue: true},
		{name: "quit ends", input: "/quit", wantContinue: false},
		{name: "q ends", input: "/q", wantContinue: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(server.URL)
			if got := s.handleSlashCommand(tc.input); got != tc.wantContinue {
				t.Errorf("handleSlashCommand(%q) = %v, want %v", tc.input, got, tc.wantContinue)
			}
		})
	}
}

func TestHandleSlashCommand_ClearReseedsGreeting(t *testing.T) {
	s := newTestSession("http://127.0.0.1:59999")
	s.Conversation.AddClientMessage("Hello")
	s.Conversation.AddConsultantMessage("Hi!")

	s.handleSlashCommand("/clear")

	conv := s.Conversation
	if conv.MessageCount() != 1 {
		t.Fatalf("MessageCount after /clear = %d, want 1", conv.MessageCount())
	}
	if conv.Messages[0].Content != config.DefaultGreeting {
		t.Error("/clear should reseed the greeting")
	}
}
