package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/urfave/cli/v3"
)

// authStatus is the JSON shape of `auth status`.
type authStatus struct {
	Parent    bool        `json:"parent"`
	Child     bool        `json:"child"`
	ChildID   string      `json:"child_id,omitempty"`
	ChildName string      `json:"child_name,omitempty"`
	Stored    []storedKey `json:"stored,omitempty"`
}

type storedKey struct {
	Key       string    `json:"key"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthRegister creates a parent account.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	form := models.RegisterForm{
		Name:            cmd.String("name"),
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		ConfirmPassword: cmd.String("confirm"),
	}
	if form.ConfirmPassword == "" {
		form.ConfirmPassword = form.Password
	}

	r.logger.Info("registering parent", "email", form.Email)

	msg, err := r.engine.RegisterParent(ctx, form)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// AuthLogin signs a parent in and stores the token in the credential database.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	if err := r.engine.LoginParent(ctx, store, cmd.String("email"), cmd.String("password")); err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s\n", strings.TrimSpace(cmd.String("email")))
}

// AuthChildLogin signs one of the parent's children in with their PIN.
func (r *Runner) AuthChildLogin(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	child, err := r.engine.FindChild(ctx, store, uint(cmd.Int("child")))
	if err != nil {
		return err
	}

	if err := r.engine.LoginChild(ctx, store, child, cmd.String("pin")); err != nil {
		return err
	}
	return r.writePlain("✓ %s is signed in. Try `hoppers tui` or `hoppers logs list`.\n", child.DisplayName())
}

// AuthLogout clears stored credentials for --role.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	roles, err := parseRoles(cmd.String("role"))
	if err != nil {
		return err
	}

	store, err := r.credentials()
	if err != nil {
		return err
	}

	for _, role := range roles {
		if err := r.engine.Logout(store, role); err != nil {
			return err
		}
		r.logger.Info("signed out", "role", role)
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports which roles have a stored credential.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.credentials()
	if err != nil {
		return err
	}

	status := authStatus{
		Parent: store.Authenticated(models.RoleParent),
		Child:  store.Authenticated(models.RoleChild),
	}
	if status.Child {
		cred, err := store.Get(models.RoleChild)
		if err != nil {
			return err
		}
		status.ChildID, status.ChildName = cred.ID, cred.Name
	}

	if r.creds != nil {
		keys, err := r.creds.List()
		if err != nil {
			return err
		}
		for _, k := range keys {
			status.Stored = append(status.Stored, storedKey{Key: k.Key, UpdatedAt: k.UpdatedAt})
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Page Hoppers sign-in")
	r.writePlain("Parent: %s\n", signedIn(status.Parent))
	if status.Child {
		r.writePlain("Child:  signed in as %s (id %s)\n", status.ChildName, status.ChildID)
	} else {
		r.writePlain("Child:  %s\n", signedIn(false))
	}
	for _, k := range status.Stored {
		r.writePlain("  %-12s updated %s\n", k.Key, k.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func signedIn(ok bool) string {
	if ok {
		return "signed in"
	}
	return "not signed in"
}

// parseRoles maps parent, child or all onto the roles to act on.
func parseRoles(s string) ([]models.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return []models.Role{models.RoleChild, models.RoleParent}, nil
	case string(models.RoleParent):
		return []models.Role{models.RoleParent}, nil
	case string(models.RoleChild):
		return []models.Role{models.RoleChild}, nil
	default:
		return nil, fmt.Errorf("%w: role must be parent, child or all", shared.ErrInvalidArgument)
	}
}
