// package server contains routing, middleware & lifecycle helpers for the Page Hoppers web app
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// ShutdownTimeout bounds how long [Serve] waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery & request ids.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own a group of routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
//
// ready, when non-nil, receives the address once the listener is about to start.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger, ready func(addr string)) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if logger != nil {
			logger.Info("Page Hoppers available", "addr", addr, "url", "http://"+addr)
		}
		if ready != nil {
			ready(addr)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		if logger != nil {
			logger.Info("Shutting down server...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if logger != nil {
			logger.Info("Server stopped")
		}
		return nil
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
