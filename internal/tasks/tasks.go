package tasks

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// Messages shown to users.
const (
	MsgRegistered        = "Registration successful! You can now log in."
	MsgRegisterFailed    = "Registration failed"
	MsgLoginFailed       = "Failed to login: invalid credentials"
	MsgInvalidPIN        = "Invalid PIN. Please try again."
	MsgChildAdded        = "Child added!"
	MsgAddChildFailed    = "Could not add child"
	MsgLoadChildren      = "Could not load children"
	MsgChildNotFound     = "Child not found"
	MsgLoadLogs          = "Could not load reading logs"
	MsgSearchFailed      = "Could not fetch books."
	MsgLogFailed         = "Failed to log book"
	MsgLogFailedRetry    = "Failed to log book. Please try again."
	MsgNotAuthenticated  = "Not authenticated"
	MsgNoLogs            = "No reading logs yet."
	MsgNoSummary         = "No reading data available."
	MsgNoResults         = "No results"
	DefaultChildName     = "Child"
	defaultExportWorkers = 3
)

// FlowError is a failure with a message suitable for display.
type FlowError struct {
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func flowError(msg string, err error) error {
	return &FlowError{Message: msg, Err: err}
}

// Message returns display text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Message
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return MsgNotAuthenticated
	}
	if errors.Is(err, shared.ErrCatalogUnavailable) {
		return MsgSearchFailed
	}
	return err.Error()
}

// Engine runs the front-end flows.
type Engine struct {
	api     services.API
	catalog services.Catalog
	logger  *log.Logger
	now     func() time.Time
}

// EngineOpts configures [NewEngine].
type EngineOpts struct {
	API     services.API
	Catalog services.Catalog
	Logger  *log.Logger
	Now     func() time.Time
}

// NewEngine creates an [Engine].
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		api:     opts.API,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// Today returns the current date in [shared.DateLayout].
func (e *Engine) Today() string {
	return shared.FormatDate(e.now())
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() services.Catalog {
	return e.catalog
}
