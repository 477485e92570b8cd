// Package pkgerror defines the error values shared by the service.
//
// Business code returns *Error values carrying a user-facing message, a type
// and a stable code; the router maps the code to an HTTP status, so an
// unreadable upload becomes a 415 and a rejected chart trigger a 422.
// Stores return the ErrNotFound sentinel, checked with errors.Is.
package pkgerror
