// Package pkglog sets up the service's structured logging on top of slog.
//
// Records are JSON with stable keys (ts, severity, file) and carry the
// request correlation ID and, once known, the dashboard session ID taken
// from the context.
package pkglog
