// Package http implements the HTTP transport layer: chi handlers that
// translate requests into service calls and service errors into RFC 7807
// problem responses.
//
// Handlers depend on narrow service interfaces so tests can substitute
// fakes, and register their routes through Routes() methods that the
// application mounts under /api.
package http
