// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete compass-chat
// pipeline: configuration, the reply client, and the conversation transcript
// working together against a mock reply service.
package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/config"
	"github.com/jeranaias/compass-chat/internal/model"
)

// =============================================================================
// MOCK REPLY SERVICE
// =============================================================================

// newMockService stands up a reply service that answers all three endpoints
// and records the requests it saw.
func newMockService(t *testing.T) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/generate-reply", func(w http.ResponseWriter, r *http.Request) {
		var req backend.GenerateReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad request"}`))
			return
		}
		log.record(req)
		w.Write([]byte(`{"aiReply":"The DTV allows stays of up to 180 days per entry."}`))
	})
	mux.HandleFunc("/improve-ai", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictedReply":"predicted","updatedPrompt":"updated"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, log
}

type requestLog struct {
	mu       sync.Mutex
	requests []backend.GenerateReplyRequest
}

func (l *requestLog) record(req backend.GenerateReplyRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
}

func (l *requestLog) last(t *testing.T) backend.GenerateReplyRequest {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.requests) == 0 {
		t.Fatal("no generate-reply requests recorded")
	}
	return l.requests[len(l.requests)-1]
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

// TestEndToEnd_ConversationRoundTrips drives a multi-turn conversation
// through the real client against the mock service and verifies that each
// request carries the transcript as it stood before the new message.
func TestEndToEnd_ConversationRoundTrips(t *testing.T) {
	server, log := newMockService(t)

	cfg := config.Default()
	cfg.Backend.URL = server.URL
	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Timeout(),
	})

	conv := model.NewConversation(cfg.UI.Greeting)
	ctx := context.Background()

	sendMessage := func(text string) {
		t.Helper()
		history := conv.WireHistory()
		conv.AddClientMessage(text)
		reply, err := client.GenerateReply(ctx, text, history)
		if err != nil {
			t.Fatalf("GenerateReply(%q): %v", text, err)
		}
		if strings.TrimSpace(reply) == "" {
			reply = cfg.UI.FallbackReply
		}
		conv.AddConsultantMessage(reply)
	}

	sendMessage("How long can I stay on a DTV?")

	first := log.last(t)
	if first.ClientSequence != "How long can I stay on a DTV?" {
		t.Errorf("clientSequence = %q", first.ClientSequence)
	}
	// History for the first message is just the greeting.
	if len(first.ChatHistory) != 1 || first.ChatHistory[0].Role != "consultant" {
		t.Errorf("first history = %+v", first.ChatHistory)
	}

	sendMessage("And can I extend it?")

	second := log.last(t)
	// greeting + first client turn + first consultant reply.
	if len(second.ChatHistory) != 3 {
		t.Fatalf("second history length = %d, want 3", len(second.ChatHistory))
	}
	wantRoles := []string{"consultant", "client", "consultant"}
	for i, turn := range second.ChatHistory {
		if turn.Role != wantRoles[i] {
			t.Errorf("history[%d].Role = %q, want %q", i, turn.Role, wantRoles[i])
		}
	}

	// Transcript: greeting + 2 * (client + consultant).
	if conv.MessageCount() != 5 {
		t.Errorf("MessageCount = %d, want 5", conv.MessageCount())
	}
}

// TestEndToEnd_ConfigFileToClient loads a config file pointing at the mock
// service and verifies the full path from TOML to a successful round trip.
func TestEndToEnd_ConfigFileToClient(t *testing.T) {
	server, _ := newMockService(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[backend]\nurl = \"" + server.URL + "\"\ntimeout_secs = 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout())
	}

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Timeout(),
	})

	if err := client.CheckHealth(context.Background()); err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}

	reply, err := client.GenerateReply(context.Background(), "Hello", nil)
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply == "" {
		t.Error("expected a reply from the mock service")
	}
}

// TestEndToEnd_ConcurrentClients verifies the client is safe for concurrent
// use: independent conversations sharing one client must not interfere.
func TestEndToEnd_ConcurrentClients(t *testing.T) {
	server, _ := newMockService(t)
	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: server.URL,
		Timeout: 10 * time.Second,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv := model.NewConversation(config.DefaultGreeting)
			history := conv.WireHistory()
			conv.AddClientMessage("Hello")
			reply, err := client.GenerateReply(context.Background(), "Hello", history)
			if err != nil {
				t.Errorf("GenerateReply: %v", err)
				return
			}
			conv.AddConsultantMessage(reply)
			if conv.MessageCount() != 3 {
				t.Errorf("MessageCount = %d, want 3", conv.MessageCount())
			}
		}()
	}
	wg.Wait()
}
