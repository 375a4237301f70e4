package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

type loginPage struct {
	Email string
	Error string
}

type registerPage struct {
	Name  string
	Email string
	Error string
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	a.render(rq, http.StatusOK, "home", "Page Hoppers", nil)
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	a.render(rq, http.StatusOK, "login", "Parent Login", loginPage{})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	if err := a.engine.LoginParent(r.Context(), rq.store, email, r.PostFormValue("password")); err != nil {
		a.render(rq, statusFor(err), "login", "Parent Login", loginPage{Email: email, Error: tasks.Message(err)})
		return
	}

	a.redirect(rq, "/dashboard")
}

func (a *App) registerForm(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	a.render(rq, http.StatusOK, "register", "Register", registerPage{})
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}

	form := models.RegisterForm{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}

	msg, err := a.engine.RegisterParent(r.Context(), form)
	if err != nil {
		data := registerPage{Name: form.Name, Email: form.Email, Error: tasks.Message(err)}
		a.render(rq, statusFor(err), "register", "Register", data)
		return
	}

	rq.flash(flashNotice, msg)
	a.redirect(rq, "/login")
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if err := a.engine.Logout(rq.store, models.RoleParent); err != nil {
		rq.log.Warn("parent logout failed", "error", err)
	}
	a.redirect(rq, "/")
}

// statusFor picks the response code for a form re-rendered with err.
func statusFor(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrCatalogUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
