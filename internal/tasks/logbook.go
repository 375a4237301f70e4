package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// ConfirmationMessage renders the success text for a logged book.
func ConfirmationMessage(in models.ReadingLogInput) string {
	return fmt.Sprintf(`"%s" logged as %s on %s!`, in.Title, in.Status.Verb(), in.Date)
}

// SubmitLog runs m through Submitting and records the entry for the signed-in child.
//
// The form is validated before the token is read or any request is sent.
func (e *Engine) SubmitLog(ctx context.Context, store *session.Store, m *Modal) (string, error) {
	in, err := m.Begin()
	if err != nil {
		return "", err
	}

	token, err := store.Token(models.RoleChild)
	if err != nil {
		m.Fail(MsgNotAuthenticated)
		return "", err
	}

	if _, err := e.api.CreateReadingLog(ctx, token, in); err != nil {
		e.logger.Warn("failed to log book", "title", in.Title, "error", err)

		msg := MsgLogFailedRetry
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			msg = MsgLogFailed
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		if errors.Is(err, shared.ErrNotAuthenticated) {
			msg = MsgNotAuthenticated
		}

		m.Fail(msg)
		return "", flowError(msg, err)
	}

	msg := ConfirmationMessage(in)
	m.Succeed(msg)
	e.logger.Info("book logged", "title", in.Title, "status", in.Status, "date", in.Date)
	return msg, nil
}
