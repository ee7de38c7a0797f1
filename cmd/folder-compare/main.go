// Package main is the entry point for the folder-compare application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/folder-compare/internal/cli"
	"github.com/joe/folder-compare/internal/config"
	"github.com/joe/folder-compare/internal/history"
	"github.com/joe/folder-compare/internal/operations"
	"github.com/joe/folder-compare/internal/tui"
	"github.com/joe/folder-compare/pkg/filesystem"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := operations.NewFileLogger(cfg.LogPath, string(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	defer func() { _ = logger.Sync() }()

	store := openHistory(cfg, logger)

	resolver := filesystem.NewURLResolver()
	defer func() { _ = resolver.Close() }()

	logger.Info("starting", zap.String("command", cfg.Command()))

	if cfg.TUI == nil {
		app := &cli.App{
			Resolver: resolver,
			History:  store,
			Logger:   logger,
			Out:      os.Stdout,
			Err:      os.Stderr,
		}

		return app.Run(cfg)
	}

	// Create and run TUI
	model := tui.NewModel(tui.Options{
		Left:     cfg.TUI.Left,
		Right:    cfg.TUI.Right,
		Resolver: resolver,
		History:  store,
		Logger:   logger,
	})

	// Only use alt screen if stdout is a TTY
	var opts []tea.ProgramOption
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(model, opts...)

	_, err = p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	return cli.ExitOK
}

// openHistory loads the history store. Failures are logged and leave the
// program running without history.
func openHistory(cfg *config.Config, logger *zap.Logger) *history.Store {
	path := cfg.HistoryPath
	if path == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			logger.Warn("history disabled", zap.Error(err))
			return nil
		}

		path = defaultPath
	}

	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		return nil
	}

	return store
}
