package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader заголовок с ID запроса
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// RequestID присваивает запросу ID (берет из заголовка или генерирует) и логирует начало и конец обработки
func RequestID(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			logger.Info("request started: method=%s, path=%s, request_id=%s, remote_ip=%s",
				r.Method, r.URL.Path, reqID, r.RemoteAddr)

			ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))

			logger.Info("request completed: method=%s, path=%s, request_id=%s, duration_ms=%d",
				r.Method, r.URL.Path, reqID, time.Since(start).Milliseconds())
		})
	}
}

// GetRequestID возвращает ID текущего запроса
func GetRequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(requestIDKey{}).(string)
	return reqID
}
