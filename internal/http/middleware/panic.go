package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// PanicMiddleware перехватывает паники и возвращает корректный HTTP ответ.
func PanicMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				slog.ErrorContext(
					r.Context(),
					"panic recovered",
					"method", r.Method,
					"url", r.URL.Path,
					"time", time.Since(start),
					"error", err,
					"stack_trace", string(debug.Stack()),
				)
				common.RespondJSON(w, http.StatusInternalServerError, common.APIError{
					Error: common.APIErrorBody{Code: common.CodeInternal, Message: "internal server error"},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
