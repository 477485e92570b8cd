package pkgrouter

import "net/http"

// Middleware wraps an http.Handler, typically to add cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in order, returning the final wrapped handler.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// MaxBodyBytes caps the request body at n bytes; n <= 0 disables the cap.
// Reads past the cap fail with *http.MaxBytesError, which handlers can map
// to a 413.
func MaxBodyBytes(n int64) Middleware {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
