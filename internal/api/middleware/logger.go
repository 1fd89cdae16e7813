package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/asset-vault-api/internal/logging"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger puts a request-scoped logger into the context and writes one
// completion line per request, levelled by status class.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
				l = l.With("request_id", reqID)
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(logging.IntoContext(r.Context(), l)))

			l = l.With("status", ww.Status(), "duration_ms", time.Since(start).Milliseconds())
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				l.Error("request completed")
			case ww.Status() >= http.StatusBadRequest:
				l.Warn("request completed")
			default:
				l.Info("request completed", "bytes", ww.BytesWritten())
			}
		})
	}
}
