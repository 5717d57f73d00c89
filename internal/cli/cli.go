// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for compass-chat.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Quiet suppresses the welcome banner in chat mode
	Quiet bool

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `compass-chat - terminal client for the Issa Compass consultant reply service

Chat with an AI visa consultant about the Thai DTV visa. Every message is
forwarded, with the running transcript, to the reply service configured in
~/.compass-chat/config.toml (or the BACKEND_URL environment variable).

Usage:
  compass-chat               Start the TUI (default)
  compass-chat chat          Plain line-mode chat (no alternate screen)
  compass-chat version       Show version information
  compass-chat help          Show this help

Flags:
  -q, --quiet                Skip the welcome banner in chat mode

Environment:
  BACKEND_URL                Reply service base URL
                             (default: http://127.0.0.1:5000)`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := Args{}
	rest := make([]string, 0, len(os.Args))

	for _, a := range os.Args[1:] {
		switch a {
		case "-q", "--quiet":
			args.Quiet = true
		default:
			rest = append(rest, a)
		}
	}
	args.Raw = rest

	if len(rest) == 0 {
		return CmdTUI, args
	}

	switch rest[0] {
	case "chat":
		return CmdChat, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", rest[0])
		return CmdHelp, args
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Println(usageText)
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("compass-chat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
