package pkgrouter

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

//nolint:contextcheck // recover runs outside the handler's context flow
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				slog.ErrorContext(r.Context(), "panic on the server",
					"because", rvr,
					"method", r.Method,
					"path", r.URL.Path,
					"frames", internalFrames(string(debug.Stack())),
				)

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}

				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// internalFrames keeps the "internal/<pkg>/<file>.go:<line>" locations of a
// stack dump, innermost first.
func internalFrames(stack string) []string {
	var frames []string
	for _, line := range strings.Split(stack, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		loc := line[idx+1:]
		if sp := strings.IndexByte(loc, ' '); sp != -1 {
			loc = loc[:sp]
		}
		frames = append(frames, loc)
	}
	return frames
}
