// Package server provides HTTP routing, middleware, and the run control surface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Run Control Surface
//
// [ControlHandler] exposes an active batch run to other processes. GET /status
// returns the current processing snapshot, GET /errors the error log, and
// GET /items the item list; POST /pause, /resume, and /cancel issue the
// corresponding controller commands. Invalid commands (resuming a run that is
// not paused, pausing one that is not processing) map to 409 responses.
//
// # Current Usage
//
// When `enrich run` is started with --listen, a local HTTP server is mounted on
// the configured host and port for the duration of the run and torn down when
// the run reaches a terminal state.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
