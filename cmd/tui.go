package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive child dashboard for the signed-in child.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}
	if !store.Authenticated(models.RoleChild) {
		return fmt.Errorf("%w: run `hoppers auth child-login` first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/hoppers-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, store)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
