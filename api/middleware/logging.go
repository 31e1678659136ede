package middleware

import (
	"net/http"
	"time"

	"github.com/sajpos/counter-backend/pkg/logger"
)

// Logging emits one line per request once the response is written. The
// terminal id rides along when the client supplied one, which is how
// per-counter activity is traced in the logs.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			if terminalID := terminalIDFromRequest(r); terminalID != "" {
				ctx = logg.WithTerminalID(ctx, terminalID)
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			ctx = logg.WithFields(ctx, map[string]any{
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			logg.Info(ctx, "http.request")
		})
	}
}

func terminalIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Terminal-Id"); v != "" {
		return v
	}
	return r.URL.Query().Get("terminalId")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
