package tasks

import (
	"context"
	"errors"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// ParentView is the data behind the parent dashboard.
type ParentView struct {
	Children []models.ChildProfile
	// Error is set when the children could not be loaded; the page still renders.
	Error string
	Err   error
}

// ChildView is the data behind the child dashboard.
type ChildView struct {
	ChildID string
	Name    string
	Logs    []models.ReadingLog
	// Summary is nil when it could not be loaded.
	Summary   *models.ReadingSummary
	LogsError string
}

// ParentDashboard lists the parent's children.
func (e *Engine) ParentDashboard(ctx context.Context, store *session.Store) (*ParentView, error) {
	token, err := store.Token(models.RoleParent)
	if err != nil {
		return nil, err
	}

	children, err := e.api.ListChildren(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return nil, err
		}
		e.logger.Warn("failed to list children", "error", err)
		return &ParentView{Children: []models.ChildProfile{}, Error: MsgLoadChildren, Err: err}, nil
	}

	return &ParentView{Children: children}, nil
}

// AddChild validates the form and creates the child.
func (e *Engine) AddChild(ctx context.Context, store *session.Store, form models.ChildForm) (*models.ChildProfile, error) {
	token, err := store.Token(models.RoleParent)
	if err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	child, err := e.api.CreateChild(ctx, token, form.Child())
	if err != nil {
		e.logger.Warn("failed to add child", "error", err)
		return nil, flowError(MsgAddChildFailed, err)
	}

	e.logger.Info("child added", "child", child.ID)
	return child, nil
}

// ChildDashboard loads the signed-in child's name, reading log and summary.
//
// The summary is best-effort: on failure it is left nil.
func (e *Engine) ChildDashboard(ctx context.Context, store *session.Store) (*ChildView, error) {
	cred, err := store.Get(models.RoleChild)
	if err != nil {
		return nil, err
	}

	view := &ChildView{ChildID: cred.ID, Name: cred.Name, Logs: []models.ReadingLog{}}
	if view.Name == "" {
		view.Name = DefaultChildName
	}

	logs, err := e.api.ListReadingLogs(ctx, cred.Token)
	if err != nil {
		e.logger.Warn("failed to list reading logs", "child", cred.ID, "error", err)
		view.LogsError = MsgLoadLogs
	} else {
		view.Logs = logs
	}

	summary, err := e.api.GetReadingSummary(ctx, cred.Token)
	if err != nil {
		e.logger.Warn("failed to load reading summary", "child", cred.ID, "error", err)
	} else {
		view.Summary = summary
	}

	return view, nil
}

// ChildLogs returns one child's reading log for the signed-in parent.
func (e *Engine) ChildLogs(ctx context.Context, store *session.Store, childID uint) (*models.LogBook, error) {
	token, err := store.Token(models.RoleParent)
	if err != nil {
		return nil, err
	}

	child, err := e.FindChild(ctx, store, childID)
	if err != nil {
		return nil, err
	}

	logs, err := e.api.ListChildReadingLogs(ctx, token, childID)
	if err != nil {
		e.logger.Warn("failed to list child reading logs", "child", childID, "error", err)
		return nil, flowError(MsgLoadLogs, err)
	}

	return &models.LogBook{Reader: child.DisplayName(), ChildID: child.ID, Logs: logs, Exported: e.now()}, nil
}

// MyLogs returns the signed-in child's reading log as a [models.LogBook].
func (e *Engine) MyLogs(ctx context.Context, store *session.Store) (*models.LogBook, error) {
	cred, err := store.Get(models.RoleChild)
	if err != nil {
		return nil, err
	}

	logs, err := e.api.ListReadingLogs(ctx, cred.Token)
	if err != nil {
		return nil, flowError(MsgLoadLogs, err)
	}

	name := cred.Name
	if name == "" {
		name = DefaultChildName
	}
	return &models.LogBook{Reader: name, Logs: logs, Exported: e.now()}, nil
}

// Summary returns the signed-in child's reading summary.
func (e *Engine) Summary(ctx context.Context, store *session.Store) (*models.ReadingSummary, error) {
	token, err := store.Token(models.RoleChild)
	if err != nil {
		return nil, err
	}

	summary, err := e.api.GetReadingSummary(ctx, token)
	if err != nil {
		return nil, flowError(MsgNoSummary, err)
	}
	return summary, nil
}

// SearchBooks searches the catalog. An empty result is not an error.
func (e *Engine) SearchBooks(ctx context.Context, query string) ([]models.BookResult, error) {
	results, err := e.catalog.SearchBooks(ctx, query)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, flowError(MsgSearchFailed, err)
	}
	return results, nil
}
