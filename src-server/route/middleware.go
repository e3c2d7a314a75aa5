package route

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bulletin/src-server/view"

	"github.com/google/uuid"
)

type RequestIDCtxKeyType string

const (
	RequestIDCtxKey    RequestIDCtxKeyType = "request-id"
	RequestIDHeaderKey string              = "X-Request-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// RequestID returns the id RequestMiddleware gave the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDCtxKey).(string)
	return id
}

// requestLogger tags log lines with the request id.
func requestLogger(r *http.Request) *slog.Logger {
	if id := RequestID(r.Context()); id != "" {
		return slog.With("request_id", id)
	}
	return slog.Default()
}

// RequestMiddleware tags every request with an id, logs it and turns a panic
// into a generic error page.
func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set(RequestIDHeaderKey, requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				slog.Error("handler panicked", "request_id", requestID, "path", r.URL.Path, "panic", p)
				// a partial response can't be replaced
				if !rec.wroteHeader {
					view.Render(rec, http.StatusInternalServerError, "error.html", view.Page{Title: "Error"})
				}
			}
			slog.Debug("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		ctx := context.WithValue(r.Context(), RequestIDCtxKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}
