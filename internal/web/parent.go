package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

type childRow struct {
	models.ChildProfile
	LoginURL string
	LogsURL  string
}

// pinModal is the child PIN prompt on the parent dashboard.
type pinModal struct {
	Child     models.ChildProfile
	ActionURL string
	Error     string
}

type dashboardPage struct {
	Children []childRow
	Error    string
	PIN      *pinModal
}

type childLogsPage struct {
	Book    *models.LogBook
	Summary models.ReadingSummary
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)

	var pin *pinModal
	if raw := r.URL.Query().Get("login"); raw != "" {
		if id, err := parseID(raw); err == nil {
			pin = &pinModal{Child: models.ChildProfile{ID: id}}
		}
	}
	a.renderDashboard(rq, http.StatusOK, pin)
}

// renderDashboard loads the children and renders the parent dashboard, with pin open when set.
func (a *App) renderDashboard(rq *request, status int, pin *pinModal) {
	view, err := a.engine.ParentDashboard(rq.r.Context(), rq.store)
	if err != nil {
		a.redirect(rq, "/login")
		return
	}

	data := dashboardPage{Error: view.Error, Children: make([]childRow, 0, len(view.Children))}
	for _, c := range view.Children {
		data.Children = append(data.Children, childRow{
			ChildProfile: c,
			LoginURL:     fmt.Sprintf("/dashboard?login=%d", c.ID),
			LogsURL:      fmt.Sprintf("/dashboard/children/%d/logs", c.ID),
		})
		if pin != nil && pin.Child.ID == c.ID {
			pin.Child = c
			pin.ActionURL = fmt.Sprintf("/dashboard/children/%d/login", c.ID)
			data.PIN = pin
		}
	}

	a.render(rq, status, "dashboard", "Parent Dashboard", data)
}

func (a *App) addChild(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if !rq.store.Authenticated(models.RoleParent) {
		a.redirect(rq, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}

	age, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	form := models.ChildForm{
		Username: r.PostFormValue("username"),
		Name:     r.PostFormValue("name"),
		Age:      age,
		PIN:      strings.TrimSpace(r.PostFormValue("pin")),
	}

	if _, err := a.engine.AddChild(r.Context(), rq.store, form); err != nil {
		rq.flash(flashError, tasks.Message(err))
	} else {
		rq.flash(flashNotice, tasks.MsgChildAdded)
	}
	a.redirect(rq, "/dashboard")
}

func (a *App) childLogin(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}

	child, err := a.engine.FindChild(r.Context(), rq.store, id)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		a.redirect(rq, "/login")
		return
	case err != nil:
		rq.flash(flashError, tasks.Message(err))
		a.redirect(rq, "/dashboard")
		return
	}

	if err := a.engine.LoginChild(r.Context(), rq.store, child, r.PostFormValue("pin")); err != nil {
		a.renderDashboard(rq, statusFor(err), &pinModal{Child: child, Error: tasks.Message(err)})
		return
	}

	a.redirect(rq, "/child-dashboard")
}

func (a *App) childLogs(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	book, err := a.engine.ChildLogs(r.Context(), rq.store, id)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		a.redirect(rq, "/login")
		return
	case err != nil:
		rq.flash(flashError, tasks.Message(err))
		a.redirect(rq, "/dashboard")
		return
	}

	data := childLogsPage{Book: book, Summary: book.Summary()}
	a.render(rq, http.StatusOK, "child_logs", book.Reader+"'s Reading Log", data)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, s)
	}
	return uint(id), nil
}
