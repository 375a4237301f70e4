package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogSearch prints up to ten catalog matches for the query argument.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching catalog", "query", query)

	results, err := r.engine.SearchBooks(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	if len(results) == 0 {
		return r.writePlain("%s\n", tasks.MsgNoResults)
	}
	for i, b := range results {
		r.writePlain("%2d. %s\n", i+1, b.Title)
		if line := b.AuthorLine(); line != "" {
			r.writePlain("    by %s\n", line)
		}
		r.writePlain("    key %s", b.Key)
		if b.HasCover() {
			r.writePlain("  cover %d", b.CoverID)
		}
		r.writePlain("\n")
	}
	return nil
}

// CatalogCover downloads a cover image to --output.
func (r *Runner) CatalogCover(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.Int("id"))
	if id <= 0 {
		return fmt.Errorf("%w: cover id must be positive", shared.ErrInvalidArgument)
	}
	size := services.ParseCoverSize(cmd.String("size"))

	path := cmd.String("output")
	if path == "" {
		path = fmt.Sprintf("cover_%d_%s.jpg", id, strings.ToLower(string(size)))
	}

	data, contentType, err := r.catalog.FetchCover(ctx, id, size)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}

	r.logger.Info("cover saved", "path", path, "type", contentType, "bytes", len(data))
	return r.writePlain("✓ Saved cover %d to %s\n", id, path)
}
