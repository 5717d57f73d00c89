// compass-chat - a terminal client for the Issa Compass consultant reply service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/compass-chat/internal/backend"
	"github.com/jeranaias/compass-chat/internal/cli"
	"github.com/jeranaias/compass-chat/internal/config"
	"github.com/jeranaias/compass-chat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI starts the Bubble Tea interface.
func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Timeout(),
	})

	p := tea.NewProgram(
		chat.New(client, cfg),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
