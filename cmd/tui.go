package main

import (
	"context"
	"fmt"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI over the given sheet files.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	ext, err := r.extractTitles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/songbook-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ext.unique, r.controller)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Interactive selection, enrichment, and review",
		ArgsUsage: "<file.csv> [file.csv ...]",
		Action:    r.TUI,
	}
}
