package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("tui")
	themeName := fs.String("theme", e.cfg.Theme, "Initial theme (dark|light)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	theme, ok := ui.ThemeByName(*themeName)
	if !ok {
		return fmt.Errorf("invalid theme %q: must be dark or light", *themeName)
	}

	// The alternate screen owns the terminal, so only a log file may
	// receive output while the TUI runs.
	logger := logging.Discard()
	if e.cfg.LogFile != "" {
		logger = e.logger
	}

	store, err := e.openStore(logger)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, store, ui.WithTheme(theme), ui.WithLogger(logger))
}
