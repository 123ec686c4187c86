package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Blaxzter/secret-santa/internal/logging"
)

// LoggerMiddleware создаёт middleware для структурированного логирования HTTP запросов.
// Добавляет в контекст request ID, путь и метод, после ответа пишет статус и длительность.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// chimw.RequestID стоит раньше; если его нет, генерируем свой
		requestID := chimw.GetReqID(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = logging.WithLogRequestID(ctx, requestID)
		ctx = logging.WithLogRequestPath(ctx, r.URL.Path)
		ctx = logging.WithLogRequestMethod(ctx, r.Method)

		slog.DebugContext(ctx, "request started")
		start := time.Now()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ctx = logging.WithLogRequestStatus(ctx, status)
		ctx = logging.WithLogRequestDuration(ctx, time.Since(start).String())

		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "request finished")
			return
		}
		slog.InfoContext(ctx, "request finished")
	})
}
