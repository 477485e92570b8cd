package pkgrouter

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkglog"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkguid"
)

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

// normalizeCID returns v trimmed and capped, or "" when v is unusable as a
// log value (empty or carrying control characters).
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.IndexFunc(v, unicode.IsControl) != -1 {
		return ""
	}
	if len(v) > maxCIDLen {
		v = v[:maxCIDLen]
	}
	return v
}

func middlewareCorrelationID(uid pkguid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := normalizeCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = normalizeCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
