// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the consultant reply service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeBackend
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "reply service is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// MaxResponseSize caps how much of a response body we will read.
const MaxResponseSize = 1 << 20 // 1MB

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the reply service base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout for requests (default: 60s; reply generation sits on an LLM
	// round trip, so this is deliberately generous)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:5000",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the consultant reply service.
//
// The Client is stateless apart from its configuration and is safe for
// concurrent use. Each call performs exactly one HTTP round trip: no
// retries, no queueing.
//
// Example:
//
//	client := backend.NewClient()
//	reply, err := client.GenerateReply(ctx, "Can I apply from Bali?", history)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckHealth verifies that the reply service is reachable.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from reply service: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// REPLY GENERATION
// =============================================================================

// GenerateReply sends the new client message plus the prior transcript to the
// reply service and returns the generated consultant reply.
//
// history must exclude clientSequence itself; the new message travels in its
// own request field. The returned reply may be empty when the service omits
// the aiReply field, in which case callers supply their own fallback text.
func (c *Client) GenerateReply(ctx context.Context, clientSequence string, history []Turn) (string, error) {
	if history == nil {
		history = []Turn{}
	}

	body, err := json.Marshal(GenerateReplyRequest{
		ClientSequence: clientSequence,
		ChatHistory:    history,
	})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	raw, status, err := c.post(ctx, "/generate-reply", body)
	if err != nil {
		return "", err
	}

	if status < 200 || status > 299 {
		return "", backendError("reply request failed", raw, status)
	}

	// Tolerate an unparseable success body: treat it as an empty object and
	// let the caller fall back on its apology text.
	var result GenerateReplyResponse
	_ = json.Unmarshal(raw, &result)

	return result.AIReply, nil
}

// =============================================================================
// PROMPT IMPROVEMENT
// =============================================================================

// ImprovePrompt sends a real consultant reply for the latest client message
// so the service can refine its prompt against the AI's prediction.
func (c *Client) ImprovePrompt(ctx context.Context, clientSequence string, history []Turn, consultantReply string) (*ImproveResult, error) {
	if history == nil {
		history = []Turn{}
	}

	body, err := json.Marshal(ImproveRequest{
		ClientSequence:  clientSequence,
		ChatHistory:     history,
		ConsultantReply: consultantReply,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	raw, status, err := c.post(ctx, "/improve-ai", body)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, backendError("improve request failed", raw, status)
	}

	var result ImproveResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// ImprovePromptManually appends free-form instructions to the service's
// prompt. The service rejects blank instructions with a 400.
func (c *Client) ImprovePromptManually(ctx context.Context, instructions string) (*ManualImproveResult, error) {
	body, err := json.Marshal(ManualImproveRequest{Instructions: instructions})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	raw, status, err := c.post(ctx, "/improve-ai-manually", body)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, backendError("manual improve request failed", raw, status)
	}

	var result ManualImproveResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// post performs a single JSON POST and returns the raw body and status code.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, 0, ErrTimeout
		}
		return nil, 0, ErrUnreachable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	return raw, resp.StatusCode, nil
}

// backendError builds a ClientError for a non-2xx response, preferring the
// server-supplied error text when the body carries one.
func backendError(prefix string, raw []byte, status int) *ClientError {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return &ClientError{Type: ErrTypeBackend, Message: body.Error}
	}
	return &ClientError{
		Type:    ErrTypeBackend,
		Message: prefix + ": " + http.StatusText(status) + " (" + itoa(status) + ")",
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// UserMessage extracts the text to show in the error banner for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable checks if an error indicates the service is unreachable.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return errors.Is(err, ErrUnreachable)
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// itoa formats a status code without pulling in fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
