// Package server provides HTTP routing, middleware, and lifecycle helpers for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered as
// "METHOD /path" patterns, so wildcards like /dashboard/children/{id}/login are available via
// [http.Request.PathValue] and unsupported methods get a 405.
//
// # Middleware
//
// [RequestLogger] tags every request with a uuid (echoed in the X-Request-ID header) and logs
// method, path, status and duration through charmbracelet/log. [Recover] converts handler panics
// into 500 responses.
//
// # Lifecycle
//
// [Serve] runs an [http.Server] until its context is cancelled and then shuts it down,
// waiting up to [ShutdownTimeout] for in-flight requests.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
