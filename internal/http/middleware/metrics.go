package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Blaxzter/secret-santa/internal/metrics"
)

// MetricsMiddleware собирает технические метрики для всех HTTP запросов.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// шаблон маршрута известен только после роутинга
		endpoint := getEndpoint(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.IncRestRequestsTotal(endpoint)
		metrics.IncRestResponsesDuration(endpoint, r.Method, time.Since(start))
		metrics.IncRestResponsesStatusesTotal(endpoint, r.Method, status)
		metrics.ObserveRestRequestSize(endpoint, r.Method, r.ContentLength)
	})
}

// getEndpoint нормализует путь для метрик, используя шаблон маршрута вместо конкретного пути,
// чтобы токены и идентификаторы комнат не раздували число серий.
func getEndpoint(r *http.Request) string {
	if r == nil {
		return "/"
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if path := r.URL.Path; path != "" {
		return path
	}
	return "/"
}
