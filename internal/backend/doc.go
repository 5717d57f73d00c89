// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the consultant reply service.
//
// The service exposes four endpoints:
//
//	GET  /health               liveness probe, {"status":"ok"}
//	POST /generate-reply       {clientSequence, chatHistory} -> {aiReply}
//	POST /improve-ai           {clientSequence, chatHistory, consultantReply}
//	                           -> {predictedReply, updatedPrompt}
//	POST /improve-ai-manually  {instructions} -> {updatedPrompt}
//
// Errors arrive as non-2xx statuses with an optional {"error": "..."} body.
// The client maps every failure to a *ClientError so the UI can collapse
// transport faults, backend errors, and malformed bodies into one banner.
//
// Each call is a single round trip. There is no retry or backoff: a failed
// submission stays failed and the user resubmits when they choose to.
package backend
