package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// RegisterParent validates the form locally, then creates the account.
func (e *Engine) RegisterParent(ctx context.Context, form models.RegisterForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	if _, err := e.api.RegisterParent(ctx, form.Account()); err != nil {
		e.logger.Warn("registration failed", "email", form.Email, "error", err)

		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", flowError(apiErr.Message, err)
		}
		return "", flowError(MsgRegisterFailed, err)
	}

	return MsgRegistered, nil
}

// LoginParent signs the parent in and stores the parent credential.
func (e *Engine) LoginParent(ctx context.Context, store *session.Store, email, password string) error {
	email = strings.TrimSpace(email)

	token, err := e.api.LoginParent(ctx, email, password)
	if err != nil {
		e.logger.Warn("parent login failed", "email", email, "error", err)
		return flowError(MsgLoginFailed, err)
	}

	if err := store.Set(models.RoleParent, session.Credential{Token: token}); err != nil {
		return err
	}

	e.logger.Info("parent signed in", "email", email)
	return nil
}

// LoginChild exchanges a PIN for a child token and stores the child's id and display name with it.
//
// The PIN is clamped to [models.PINLength] characters.
func (e *Engine) LoginChild(ctx context.Context, store *session.Store, child models.ChildProfile, pin string) error {
	pin = models.ClampPIN(pin)

	token, err := e.api.LoginChild(ctx, child.ID, pin)
	if err != nil {
		e.logger.Warn("child login failed", "child", child.ID, "error", err)
		return flowError(MsgInvalidPIN, err)
	}

	cred := session.Credential{
		Token: token,
		ID:    strconv.FormatUint(uint64(child.ID), 10),
		Name:  child.DisplayName(),
	}
	if err := store.Set(models.RoleChild, cred); err != nil {
		return err
	}

	e.logger.Info("child signed in", "child", child.ID)
	return nil
}

// Logout clears the credential for role.
func (e *Engine) Logout(store *session.Store, role models.Role) error {
	if err := store.Clear(role); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// FindChild looks up one of the parent's children by id.
func (e *Engine) FindChild(ctx context.Context, store *session.Store, childID uint) (models.ChildProfile, error) {
	view, err := e.ParentDashboard(ctx, store)
	if err != nil {
		return models.ChildProfile{}, err
	}
	if view.Error != "" {
		return models.ChildProfile{}, flowError(view.Error, view.Err)
	}

	for _, c := range view.Children {
		if c.ID == childID {
			return c, nil
		}
	}
	return models.ChildProfile{}, flowError(MsgChildNotFound, fmt.Errorf("%w: child %d", shared.ErrNotFound, childID))
}
