// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the consultant reply service.
package backend

// =============================================================================
// WIRE TYPES
// =============================================================================

// Turn is one transcript entry in the backend wire format.
// Role is "client" or "consultant"; the service drops anything else.
type Turn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// GenerateReplyRequest is the request body for POST /generate-reply.
//
// ClientSequence carries the newly submitted message; ChatHistory carries
// the prior transcript and must not include the message being sent.
type GenerateReplyRequest struct {
	ClientSequence string `json:"clientSequence"`
	ChatHistory    []Turn `json:"chatHistory"`
}

// GenerateReplyResponse is the success body from POST /generate-reply.
// AIReply may be absent; callers decide what to show in that case.
type GenerateReplyResponse struct {
	AIReply string `json:"aiReply"`
}

// ImproveRequest is the request body for POST /improve-ai.
// ConsultantReply is the reply a human consultant actually sent, used by the
// service to refine its prompt against the AI's prediction.
type ImproveRequest struct {
	ClientSequence  string `json:"clientSequence"`
	ChatHistory     []Turn `json:"chatHistory"`
	ConsultantReply string `json:"consultantReply"`
}

// ImproveResult is the success body from POST /improve-ai.
type ImproveResult struct {
	PredictedReply string `json:"predictedReply"`
	UpdatedPrompt  string `json:"updatedPrompt"`
}

// ManualImproveRequest is the request body for POST /improve-ai-manually.
// Instructions are appended verbatim to the service's prompt; no LLM call
// is involved.
type ManualImproveRequest struct {
	Instructions string `json:"instructions"`
}

// ManualImproveResult is the success body from POST /improve-ai-manually.
type ManualImproveResult struct {
	UpdatedPrompt string `json:"updatedPrompt"`
}

// HealthResponse is the body from GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// errorBody is the error envelope the service attaches to non-2xx responses.
type errorBody struct {
	Error string `json:"error"`
}

// =============================================================================
// HELPER CONSTRUCTORS
// =============================================================================

// NewClientTurn creates a client turn.
func NewClientTurn(message string) Turn {
	return Turn{Role: "client", Message: message}
}

// NewConsultantTurn creates a consultant turn.
func NewConsultantTurn(message string) Turn {
	return Turn{Role: "consultant", Message: message}
}
