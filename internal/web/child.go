package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

type bookRow struct {
	models.BookResult
	LogURL string
}

type childPage struct {
	*tasks.ChildView
	Query       string
	Searched    bool
	Results     []bookRow
	SearchError string
	Modal       *tasks.Modal
	Statuses    []models.Status
	CancelURL   string
	ManualURL   string
}

func (a *App) childDashboard(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))

	page, ok := a.loadChildPage(rq, query)
	if !ok {
		return
	}

	modal := &tasks.Modal{}
	switch tasks.ParseModalKind(q.Get("modal")) {
	case tasks.CatalogBook:
		key := q.Get("key")
		for _, row := range page.Results {
			if row.Key == key {
				modal.OpenCatalog(row.BookResult, a.engine.Today())
				break
			}
		}
	case tasks.ManualBook:
		modal.OpenManual(a.engine.Today())
	}
	page.Modal = modal

	a.render(rq, http.StatusOK, "child_dashboard", page.Name+"'s Dashboard", page)
}

// loadChildPage fetches the dashboard data and, when query is set, the search results.
// It redirects and reports false when no child is signed in.
func (a *App) loadChildPage(rq *request, query string) (*childPage, bool) {
	ctx := rq.r.Context()
	view, err := a.engine.ChildDashboard(ctx, rq.store)
	if err != nil {
		a.redirect(rq, "/")
		return nil, false
	}

	page := &childPage{
		ChildView: view,
		Query:     query,
		Statuses:  []models.Status{models.StatusCompleted, models.StatusStarted},
		CancelURL: dashboardURL(query, nil),
		ManualURL: dashboardURL(query, url.Values{"modal": {tasks.ManualBook.String()}}),
		Modal:     &tasks.Modal{},
	}

	if query != "" {
		page.Searched = true
		results, err := a.engine.SearchBooks(ctx, query)
		if err != nil {
			page.SearchError = tasks.Message(err)
		}
		for _, b := range results {
			page.Results = append(page.Results, bookRow{
				BookResult: b,
				LogURL:     dashboardURL(query, url.Values{"modal": {tasks.CatalogBook.String()}, "key": {b.Key}}),
			})
		}
	}

	return page, true
}

func (a *App) submitLog(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if !rq.store.Authenticated(models.RoleChild) {
		a.redirect(rq, "/")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}

	modal, ok := a.modalFromForm(r)
	if !ok {
		http.Error(w, "Unknown modal", http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(r.PostFormValue("q"))
	msg, err := a.engine.SubmitLog(r.Context(), rq.store, modal)
	if err != nil {
		page, ok := a.loadChildPage(rq, query)
		if !ok {
			return
		}
		page.Modal = modal
		a.render(rq, statusFor(err), "child_dashboard", page.Name+"'s Dashboard", page)
		return
	}

	rq.flash(flashNotice, msg)
	a.redirect(rq, dashboardURL(query, nil))
}

// modalFromForm rebuilds the open modal from the posted fields.
func (a *App) modalFromForm(r *http.Request) (*tasks.Modal, bool) {
	m := &tasks.Modal{}
	today := a.engine.Today()

	switch tasks.ParseModalKind(r.PostFormValue("kind")) {
	case tasks.CatalogBook:
		cover, _ := strconv.Atoi(r.PostFormValue("cover_id"))
		book := models.BookResult{
			Key:     r.PostFormValue("key"),
			Title:   r.PostFormValue("title"),
			CoverID: cover,
		}
		if author := strings.TrimSpace(r.PostFormValue("author")); author != "" {
			book.Authors = []string{author}
		}
		m.OpenCatalog(book, today)
	case tasks.ManualBook:
		m.OpenManual(today)
		m.Form.Title = r.PostFormValue("title")
		m.Form.Author = r.PostFormValue("author")
	default:
		return nil, false
	}

	if s := strings.TrimSpace(r.PostFormValue("status")); s != "" {
		m.Form.Status = models.Status(s)
	}
	if d := strings.TrimSpace(r.PostFormValue("date")); d != "" {
		m.Form.Date = d
	}
	return m, true
}

func (a *App) childLogout(w http.ResponseWriter, r *http.Request) {
	rq := a.begin(w, r)
	if err := a.engine.Logout(rq.store, models.RoleChild); err != nil {
		rq.log.Warn("child logout failed", "error", err)
	}
	a.redirect(rq, "/")
}

func dashboardURL(query string, extra url.Values) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	for k, vals := range extra {
		v[k] = vals
	}
	if len(v) == 0 {
		return "/child-dashboard"
	}
	return "/child-dashboard?" + v.Encode()
}
