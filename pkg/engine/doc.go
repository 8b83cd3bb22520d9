// Package engine provides the HTTP server and request handlers for the
// request-behavior simulation service.
//
// The engine exposes a small fixed set of GET endpoints whose responses
// combine fixed sample data with randomized latency and probabilistic
// failure, so that an observability pipeline wrapped around the process has
// realistic traffic to capture.
//
// Request flow:
//
//	router -> handler -> (latency / fault injection, sample data) -> response
//
// Every handler returns an error instead of writing failure responses
// itself; a single translation boundary converts any returned error (or
// recovered panic) into a 500 with a {"error": ...} body. Routing misses
// never reach that boundary and produce the router's plain 404.
//
// The engine performs no tracing, metrics collection, or export of its own.
// An external instrumentation layer can be attached with the WithMiddleware
// server option; such wrappers run before routing and after error
// translation, and the engine never touches propagation headers.
package engine
