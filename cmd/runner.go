package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lcleigh/page-hoppers-frontend/internal/repositories"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	api        services.API
	catalog    *services.OpenLibrary
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
	store      *session.Store
	db         *sql.DB
	creds      *repositories.CredentialRepository
	ownsAPI    bool
	ownsCat    bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Store makes the runner open the credential database on first use.
type RunnerOpts struct {
	Config     *shared.Config
	API        services.API
	Catalog    *services.OpenLibrary
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      *session.Store
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.RequestTimeout()}
	}

	r := &Runner{
		config:     opts.Config,
		api:        opts.API,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		ownsAPI:    opts.API == nil,
		ownsCat:    opts.Catalog == nil,
	}
	r.build()
	return r
}

// build creates any clients the runner owns and the engine over them.
func (r *Runner) build() {
	if r.ownsAPI {
		r.api = services.NewClient(r.config.API.BaseURL, r.httpClient, r.logger)
	}
	if r.ownsCat {
		r.catalog = services.NewOpenLibrary(services.OpenLibraryOpts{
			SearchURL:  r.config.Catalog.SearchURL,
			CoversURL:  r.config.Catalog.CoversURL,
			RateLimit:  r.config.Catalog.RateLimit,
			HTTPClient: r.httpClient,
			Logger:     r.logger,
		})
	}
	r.engine = tasks.NewEngine(tasks.EngineOpts{API: r.api, Catalog: r.catalog, Logger: r.logger})
}

// SetLogger swaps the runner's logger and rebuilds the clients and engine around it.
func (r *Runner) SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	r.logger = logger
	r.build()
}

// credentials returns the session store backed by the local credential database,
// opening and migrating the database on first use.
func (r *Runner) credentials() (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	r.db = db
	r.creds = repositories.NewCredentialRepository(db)
	r.store = session.NewStore(r.creds)
	r.logger.Debug("credential store opened", "path", r.config.Database.Path)
	return r.store, nil
}

// Close releases the credential database if it was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, childrenCommand, logsCommand, catalogCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
