package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAllowedHeaders are the request headers a browser page may send.
var DefaultAllowedHeaders = []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}

// CrossOriginMiddleware marks every response readable from any origin and
// answers preflight requests with 204. It runs after the cors handler so the
// headers are the same on every response, preflight included.
func CrossOriginMiddleware(allowedHeaders []string) func(http.Handler) http.Handler {
	if len(allowedHeaders) == 0 {
		allowedHeaders = DefaultAllowedHeaders
	}
	allowHeaders := strings.Join(allowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NoStoreMiddleware stops intermediaries from caching single-use responses.
func NoStoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request at debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"origin", r.Header.Get("Origin"),
		)
	})
}
