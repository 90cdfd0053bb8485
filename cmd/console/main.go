package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/amix-engine/internal/app"
	"github.com/jwebster45206/amix-engine/internal/config"
	"github.com/jwebster45206/amix-engine/internal/logger"
)

// defaultLogFile keeps log lines off the alternate screen.
const defaultLogFile = "amix-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	log, closer, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start pet", "error", err)
		fmt.Fprintf(os.Stderr, "Failed to start pet: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	p := tea.NewProgram(NewConsoleUI(ctx, a, cfg.TickRate),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
