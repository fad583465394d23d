package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// slowRequestThreshold is the duration above which requests are logged at
// WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// requestLogger logs every request with timing. Slow requests are
// promoted to WARN, server errors to ERROR.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}
		})
	}
}
