// Package http exposes the booking engine over a JSON HTTP API.
//
// Handlers are thin: they decode requests, resolve the authenticated
// principal from the request context, delegate to the application services,
// and translate service errors into {code, message} response bodies. Routing
// uses the standard library mux; path identifiers are carried through the
// request context so handlers never re-parse URLs.
package http
