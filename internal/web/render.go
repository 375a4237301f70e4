package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/server"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
)

const (
	flashNotice = "notice"
	flashError  = "error"
)

// page is the data every template receives.
type page struct {
	Title   string
	Notices []string
	Errors  []string
	Parent  bool // parent credential present
	Child   bool // child credential present
	Data    any
}

// request bundles the per-request session and credential store.
type request struct {
	w     http.ResponseWriter
	r     *http.Request
	sess  *sessions.Session
	store *session.Store
	log   *log.Logger
}

// begin loads the session for r. An undecodable cookie is replaced with a fresh session.
func (a *App) begin(w http.ResponseWriter, r *http.Request) *request {
	logger := server.Logger(r.Context(), a.logger)
	sess, err := a.sessions.Get(r, a.cookieName)
	if err != nil {
		var cookieErr securecookie.Error
		if errors.As(err, &cookieErr) && cookieErr.IsDecode() {
			logger.Debug("discarding unreadable session cookie", "error", err)
		} else {
			logger.Warn("failed to load session", "error", err)
		}
	}
	if sess == nil {
		sess = sessions.NewSession(a.sessions, a.cookieName)
		sess.Options = &sessions.Options{Path: "/", MaxAge: SessionMaxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode}
		sess.IsNew = true
	}

	return &request{w: w, r: r, sess: sess, store: session.NewStore(session.NewCookieBackend(sess)), log: logger}
}

func (rq *request) flash(kind, msg string) {
	rq.sess.AddFlash(msg, kind)
}

func (rq *request) flashes(kind string) []string {
	var out []string
	for _, f := range rq.sess.Flashes(kind) {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (a *App) save(rq *request) error {
	if err := rq.sess.Save(rq.r, rq.w); err != nil {
		rq.log.Error("failed to save session", "error", err)
		return err
	}
	return nil
}

// redirect saves the session and sends a 303 to url.
func (a *App) redirect(rq *request, url string) {
	if err := a.save(rq); err != nil {
		http.Error(rq.w, "Could not save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(rq.w, rq.r, url, http.StatusSeeOther)
}

// render consumes pending flashes, saves the session and writes the named page.
func (a *App) render(rq *request, status int, name, title string, data any) {
	tmpl, ok := a.templates[name]
	if !ok {
		rq.log.Error("unknown template", "name", name)
		http.Error(rq.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := page{
		Title:   title,
		Notices: rq.flashes(flashNotice),
		Errors:  rq.flashes(flashError),
		Parent:  rq.store.Authenticated(models.RoleParent),
		Child:   rq.store.Authenticated(models.RoleChild),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		rq.log.Error("failed to render template", "name", name, "error", err)
		http.Error(rq.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := a.save(rq); err != nil {
		http.Error(rq.w, "Could not save session", http.StatusInternalServerError)
		return
	}

	rq.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rq.w.WriteHeader(status)
	if _, err := buf.WriteTo(rq.w); err != nil {
		rq.log.Debug("failed to write response", "name", name, "error", err)
	}
}

func (a *App) parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"cover": func(id int) string {
			if id <= 0 {
				return ""
			}
			return a.coverURL(id, services.CoverSmall)
		},
		"coverMedium": func(id int) string {
			if id <= 0 {
				return ""
			}
			return a.coverURL(id, services.CoverMedium)
		},
	}

	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}
