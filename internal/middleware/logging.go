package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder はレスポンスのステータスコードを捕捉する。
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewLoggingMiddleware はアクセスログを出力するミドルウェアを生成する。
// ステータスコードに応じてログレベルを変える。
func NewLoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if requestID := RequestIDFromContext(r.Context()); requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				slog.Error("request completed", attrs...)
			case rec.status >= http.StatusBadRequest:
				slog.Warn("request completed", attrs...)
			default:
				slog.Info("request completed", attrs...)
			}
		})
	}
}
