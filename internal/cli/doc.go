// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and the non-TUI command handlers.
//
// The default command launches the Bubble Tea interface; "chat" runs the
// same conversation pipeline as a plain REPL for terminals (or scripts)
// where the alternate screen is unwanted.
package cli
