package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/lcleigh/page-hoppers-frontend/internal/formatter"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
)

// FamilyExportOpts configures [Engine.ExportFamily].
type FamilyExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Output directory (default: reading_logs_{epoch})
	NumWorkers int              // Concurrent workers (default: 3, max: 10)
	RateLimit  float64          // Backend requests per second (default: 5)
}

// FamilyExportResult summarises an export.
type FamilyExportResult struct {
	OutputDirectory string
	ManifestPath    string
	Manifest        formatter.Manifest
}

type exportJob struct {
	step  int
	child models.ChildProfile
}

// ExportFamily writes every child's reading log to OutputDir, one file per child, plus a manifest.
//
// Fetches are paced by a limiter and run on a small worker pool. A failure for one child is recorded
// in the manifest and does not stop the others.
func (e *Engine) ExportFamily(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	store *session.Store,
	opts FamilyExportOpts,
) (*FamilyExportResult, error) {
	token, err := store.Token(models.RoleParent)
	if err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("reading_logs_%d", e.now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultExportWorkers
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	sendProgress(prog, fetchChildrenUpdate())
	children, err := e.api.ListChildren(ctx, token)
	if err != nil {
		return nil, flowError(MsgLoadChildren, err)
	}
	sendProgress(prog, foundChildrenUpdate(len(children)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, len(children))
	results := make(chan formatter.ManifestEntry, len(children))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				sendProgress(prog, fetchLogsUpdate(job.step, len(children), job.child.DisplayName()))
				results <- e.exportChild(ctx, limiter, token, job.child, opts)
			}
		}()
	}

	for i, c := range children {
		jobs <- exportJob{step: i + 1, child: c}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &FamilyExportResult{
		OutputDirectory: opts.OutputDir,
		Manifest:        formatter.Manifest{Format: opts.Format, ExportedAt: e.now()},
	}

	completed := 0
	for entry := range results {
		completed++
		result.Manifest.Entries = append(result.Manifest.Entries, entry)
		if entry.Error == "" {
			result.Manifest.Succeeded++
			sendProgress(prog, exportCompletedUpdate(completed, len(children), entry.Reader, entry.Books, entry.File))
		} else {
			result.Manifest.Failed++
			sendProgress(prog, exportFailedUpdate(completed, len(children), entry.Reader, fmt.Errorf("%s", entry.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	sort.Slice(result.Manifest.Entries, func(i, j int) bool {
		return result.Manifest.Entries[i].ChildID < result.Manifest.Entries[j].ChildID
	})

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(&result.Manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *Engine) exportChild(
	ctx context.Context,
	limiter *rate.Limiter,
	token string,
	child models.ChildProfile,
	opts FamilyExportOpts,
) formatter.ManifestEntry {
	entry := formatter.ManifestEntry{ChildID: child.ID, Reader: child.DisplayName()}

	if err := limiter.Wait(ctx); err != nil {
		entry.Error = err.Error()
		return entry
	}

	logs, err := e.api.ListChildReadingLogs(ctx, token, child.ID)
	if err != nil {
		entry.Error = fmt.Sprintf("failed to fetch reading log: %v", err)
		return entry
	}

	book := &models.LogBook{Reader: child.DisplayName(), ChildID: child.ID, Logs: logs, Exported: e.now()}
	name := fmt.Sprintf("%d_%s", child.ID, formatter.FileName(child.DisplayName(), opts.Format))

	var cover formatter.CoverURLFunc
	if e.catalog != nil {
		cover = func(id int) string { return e.catalog.CoverURL(id, services.CoverSmall) }
	}

	path, err := formatter.WriteExport(book, opts.Format, filepath.Join(opts.OutputDir, name), cover)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.File = path
	entry.Books = len(logs)
	return entry
}
