package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/lcleigh/page-hoppers-frontend/internal/formatter"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ChildrenList prints the signed-in parent's children.
func (r *Runner) ChildrenList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	view, err := r.engine.ParentDashboard(ctx, store)
	if err != nil {
		return err
	}
	if view.Error != "" {
		return fmt.Errorf("%s: %w", view.Error, view.Err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view.Children, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Your Children")
	if len(view.Children) == 0 {
		return r.writePlain("No children yet. Add one with `hoppers children add`.\n")
	}
	for _, c := range view.Children {
		r.writePlain("%4d  %-20s age %d\n", c.ID, c.DisplayName(), c.Age)
	}
	return nil
}

// ChildrenAdd creates a child for the signed-in parent.
func (r *Runner) ChildrenAdd(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	form := models.ChildForm{
		Username: cmd.String("username"),
		Name:     cmd.String("name"),
		Age:      int(cmd.Int("age")),
		PIN:      cmd.String("pin"),
	}

	child, err := r.engine.AddChild(ctx, store, form)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s (id %d)\n", tasks.MsgChildAdded, child.ID)
}

// ChildrenLogs prints one child's reading log.
func (r *Runner) ChildrenLogs(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	book, err := r.engine.ChildLogs(ctx, store, uint(cmd.Int("child")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's Reading Log", book.Reader))
	r.writeLogs(book.Logs)
	return nil
}

// ChildrenExport writes every child's reading log to a directory, printing progress as it goes.
func (r *Runner) ChildrenExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.credentials()
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range prog {
			r.logger.Debug("export progress", "phase", u.Phase, "step", u.Step, "total", u.Total)
			r.writePlain("  %s\n", u.Message)
		}
	}()

	result, err := r.engine.ExportFamily(ctx, prog, store, tasks.FamilyExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(prog)
	wg.Wait()
	if err != nil {
		return err
	}

	m := result.Manifest
	r.writePlainln("✓ Exported %d of %d reading logs to %s", m.Succeeded, m.Succeeded+m.Failed, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	for _, e := range m.Entries {
		if e.Error != "" {
			r.writePlain("  ✗ %s: %s\n", e.Reader, e.Error)
		}
	}
	return nil
}

func (r *Runner) writeLogs(logs []models.ReadingLog) {
	if len(logs) == 0 {
		r.writePlain("%s\n", tasks.MsgNoLogs)
		return
	}
	for _, l := range logs {
		line := l.Title
		if l.Author != "" {
			line += " by " + l.Author
		}
		r.writePlain("%s  %-9s  %s\n", l.DateString(), l.Status, line)
	}
}
