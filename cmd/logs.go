package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/formatter"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LogsList prints the signed-in child's reading log.
func (r *Runner) LogsList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	book, err := r.engine.MyLogs(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(book.Logs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's Reading Log", book.Reader))
	r.writeLogs(book.Logs)
	return nil
}

// LogsAdd records a book for the signed-in child.
//
// With --key the entry is treated as a catalog pick and keeps its key and cover; otherwise it is a
// manual entry. Status defaults to completed and date to today.
func (r *Runner) LogsAdd(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	m, err := r.logModal(cmd)
	if err != nil {
		return err
	}

	msg, err := r.engine.SubmitLog(ctx, store, m)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// logModal fills a log modal from the add flags.
func (r *Runner) logModal(cmd *cli.Command) (*tasks.Modal, error) {
	m := &tasks.Modal{}
	today := r.engine.Today()

	title := strings.TrimSpace(cmd.String("title"))
	author := strings.TrimSpace(cmd.String("author"))

	if key := strings.TrimSpace(cmd.String("key")); key != "" {
		book := models.BookResult{Key: key, Title: title, CoverID: int(cmd.Int("cover"))}
		if author != "" {
			book.Authors = []string{author}
		}
		if err := m.OpenCatalog(book, today); err != nil {
			return nil, err
		}
	} else {
		if err := m.OpenManual(today); err != nil {
			return nil, err
		}
		m.Form.Title, m.Form.Author = title, author
	}

	status, err := models.ParseStatus(cmd.String("status"))
	if err != nil {
		return nil, err
	}
	m.Form.Status = status

	if date := strings.TrimSpace(cmd.String("date")); date != "" {
		m.Form.Date = date
	}
	return m, nil
}

// LogsSummary prints the signed-in child's reading summary.
func (r *Runner) LogsSummary(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	summary, err := r.engine.Summary(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Reading Summary")
	if summary.Empty() {
		return r.writePlain("%s\n", tasks.MsgNoSummary)
	}

	r.writePlain("Currently reading:   %s\n", bookRef(summary.CurrentBook))
	r.writePlain("Last completed:      %s\n", bookRef(summary.LastCompletedBook))
	r.writePlain("Read this month:     %d\n", summary.TotalBooksReadThisMonth)
	r.writePlain("Read this year:      %d\n", summary.TotalBooksReadThisYear)
	r.writePlain("Completed:           %d\n", summary.TotalCompletedBooks)
	r.writePlain("In progress:         %d\n", summary.TotalUncompletedBooks)
	return nil
}

func bookRef(b *models.BookRef) string {
	if b == nil {
		return "-"
	}
	if b.Author == "" {
		return b.Title
	}
	return b.Title + " by " + b.Author
}

// LogsExport writes the signed-in child's reading log to a file.
func (r *Runner) LogsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.credentials()
	if err != nil {
		return err
	}

	book, err := r.engine.MyLogs(ctx, store)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(book, format, cmd.String("output"), func(coverID int) string {
		return r.catalog.CoverURL(coverID, services.CoverMedium)
	})
	if err != nil {
		return err
	}

	r.logger.Info("reading log exported", "path", path, "books", len(book.Logs))
	return r.writePlain("✓ Exported %d books to %s\n", len(book.Logs), path)
}
