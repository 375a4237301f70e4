// Package web implements the server-rendered Page Hoppers web application.
//
// # Architecture
//
// Every page is rendered with html/template from files embedded in the binary. Each handler
// builds a [session.Store] over the request's gorilla/sessions cookie, runs the matching
// [tasks.Engine] flow and either renders a page or redirects. Every POST ends in a redirect
// back to a GET (post/redirect/get) unless it has to re-render a form with an error, so a
// refresh never re-submits and every page re-fetches its data.
//
// Routes
//
//	GET  /                                  landing page
//	GET  /login, POST /login                parent sign-in
//	GET  /register, POST /register          parent registration
//	POST /logout                            parent sign-out
//	GET  /dashboard                         children list, add-child form, ?login=<id> PIN modal
//	POST /dashboard/children                add child
//	POST /dashboard/children/{id}/login     child PIN login
//	GET  /dashboard/children/{id}/logs      one child's reading log
//	GET  /child-dashboard                   search (?q=), reading log, summary, ?modal=catalog|manual
//	POST /child-dashboard/logs              submit the log modal
//	POST /child-dashboard/logout            child sign-out
//	GET  /healthz                           liveness probe
//
// # State
//
// The session cookie holds the parent and child credentials under the keys defined in
// internal/session, plus flash messages. Modal state is carried in the query string on GET
// and in form fields on POST; a failed submission re-renders the page with the modal open.
package web

import (
	"crypto/sha256"
	"crypto/sha512"
	"embed"
	"encoding/gob"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/lcleigh/page-hoppers-frontend/internal/server"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionMaxAge is the lifetime of the session cookie in seconds.
const SessionMaxAge = 7 * 24 * 60 * 60

var pages = []string{"home", "login", "register", "dashboard", "child_logs", "child_dashboard"}

func init() {
	// flashes are stored as []interface{} inside the gob-encoded cookie
	gob.Register([]any{})
}

// App serves the web interface.
type App struct {
	engine     *tasks.Engine
	sessions   sessions.Store
	cookieName string
	templates  map[string]*template.Template
	logger     *log.Logger
}

// Options configures [New].
type Options struct {
	Engine  *tasks.Engine
	Session shared.SessionConfig
	// Store overrides the cookie store built from Session.
	Store  sessions.Store
	Logger *log.Logger
}

// New parses the templates and builds the session store.
func New(opts Options) (*App, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("%w: engine", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	cookieName := opts.Session.CookieName
	if cookieName == "" {
		cookieName = "hoppers_session"
	}

	store := opts.Store
	if store == nil {
		store = NewCookieStore(opts.Session, opts.Logger)
	}

	app := &App{
		engine:     opts.Engine,
		sessions:   store,
		cookieName: cookieName,
		logger:     opts.Logger,
	}

	tmpl, err := app.parseTemplates()
	if err != nil {
		return nil, err
	}
	app.templates = tmpl
	return app, nil
}

// NewCookieStore builds the signed and encrypted cookie store for cfg.
//
// An empty secret gets a random key, so sessions do not survive a restart.
func NewCookieStore(cfg shared.SessionConfig, logger *log.Logger) *sessions.CookieStore {
	var hashKey, blockKey []byte
	if cfg.Secret == "" {
		if logger != nil {
			logger.Warn("session.secret is empty; generating a random key")
		}
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		h := sha512.Sum512_256([]byte("hash:" + cfg.Secret))
		b := sha256.Sum256([]byte("block:" + cfg.Secret))
		hashKey, blockKey = h[:], b[:]
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Handler returns the routed application wrapped in request logging and panic recovery.
func (a *App) Handler() http.Handler {
	r := server.NewBasicRouter()
	r.Use(server.RequestLogger(a.logger), server.Recover(a.logger))

	r.HandleFunc("GET", "/{$}", a.home)
	r.HandleFunc("GET", "/healthz", server.Healthz(a.logger))

	r.HandleFunc("GET", "/login", a.loginForm)
	r.HandleFunc("POST", "/login", a.login)
	r.HandleFunc("GET", "/register", a.registerForm)
	r.HandleFunc("POST", "/register", a.register)
	r.HandleFunc("POST", "/logout", a.logout)

	r.HandleFunc("GET", "/dashboard", a.dashboard)
	r.HandleFunc("POST", "/dashboard/children", a.addChild)
	r.HandleFunc("POST", "/dashboard/children/{id}/login", a.childLogin)
	r.HandleFunc("GET", "/dashboard/children/{id}/logs", a.childLogs)

	r.HandleFunc("GET", "/child-dashboard", a.childDashboard)
	r.HandleFunc("POST", "/child-dashboard/logs", a.submitLog)
	r.HandleFunc("POST", "/child-dashboard/logout", a.childLogout)

	return r
}

func (a *App) coverURL(id int, size services.CoverSize) string {
	if a.engine.Catalog() == nil {
		return ""
	}
	return a.engine.Catalog().CoverURL(id, size)
}
